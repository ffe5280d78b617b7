package session

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/japi-express/shipment-service/internal/domain"
)

// Session binds an issued token to its user for the token's lifetime. The
// store is an explicit dependency, created in main and injected, never a
// package-level global.
type Session struct {
	Token     string
	User      domain.User
	CreatedAt time.Time
}

type Store struct {
	mu      sync.RWMutex
	byToken map[string]*Session
	ttl     time.Duration
	now     func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Store{
		byToken: make(map[string]*Session),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store) Issue(u domain.User) *Session {
	sess := &Session{
		Token:     uuid.NewString(),
		User:      u,
		CreatedAt: s.now().UTC(),
	}
	s.mu.Lock()
	s.byToken[sess.Token] = sess
	s.mu.Unlock()
	return sess
}

func (s *Store) Get(token string) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.byToken[token]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.now().Sub(sess.CreatedAt) > s.ttl {
		s.Revoke(token)
		return nil, false
	}
	return sess, true
}

func (s *Store) Revoke(token string) {
	s.mu.Lock()
	delete(s.byToken, token)
	s.mu.Unlock()
}

// RevokeUser drops every session of a user, used when the account is
// deleted or deactivated.
func (s *Store) RevokeUser(userID int64) {
	s.mu.Lock()
	for tok, sess := range s.byToken {
		if sess.User.ID == userID {
			delete(s.byToken, tok)
		}
	}
	s.mu.Unlock()
}

type ctxKey struct{}

// FromContext returns the session placed by Middleware.
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(ctxKey{}).(*Session)
	return sess, ok
}

// Middleware requires a valid bearer token; a missing or stale one gets 401
// so the client drops its stored token and returns to login.
func (s *Store) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		sess, ok := s.Get(token)
		if !ok {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"session expired"}`))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sess)))
	})
}
