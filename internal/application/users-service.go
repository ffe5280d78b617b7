package application

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/japi-express/shipment-service/internal/domain"
	"github.com/japi-express/shipment-service/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotActivated       = errors.New("account not activated")
	ErrUserNotFound       = errors.New("user not found")
)

type UsersService struct {
	repo repository.UserRepo
}

func NewUsersService(r repository.UserRepo) *UsersService {
	return &UsersService{repo: r}
}

func HashPassword(pw string) string {
	sum := sha256.Sum256([]byte(pw))
	return hex.EncodeToString(sum[:])
}

// Login resolves credentials to an activated user. Pending accounts
// authenticate but are refused with ErrNotActivated so the client can show
// the right message.
func (s *UsersService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(u.PasswordHash), []byte(HashPassword(password))) != 1 {
		return nil, ErrInvalidCredentials
	}
	if u.Status != domain.StatusActive {
		return nil, ErrNotActivated
	}
	return u, nil
}

func (s *UsersService) Register(ctx context.Context, u *domain.User, password string) error {
	if !u.Role.Valid() {
		return fmt.Errorf("%w: invalid user type", ErrInvalidInput)
	}
	if strings.TrimSpace(u.Name) == "" || strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	u.Email = domain.NormalizeEmail(u.Email)
	u.Phone = domain.NormalizePhone(u.Phone)
	u.Status = domain.StatusPending
	u.PasswordHash = HashPassword(password)
	return s.repo.AddUser(ctx, u)
}

func (s *UsersService) List(ctx context.Context, role domain.Role, status domain.UserStatus) ([]domain.User, error) {
	return s.repo.ListUsers(ctx, role, status)
}

func (s *UsersService) Activate(ctx context.Context, id int64) error {
	ok, err := s.repo.SetUserStatus(ctx, id, domain.StatusActive)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

func (s *UsersService) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

func (s *UsersService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, id)
}
