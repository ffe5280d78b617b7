package presentation

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/japi-express/shipment-service/internal/application"
	"github.com/japi-express/shipment-service/internal/domain"
	"github.com/japi-express/shipment-service/internal/presentation/helpers"
	"github.com/japi-express/shipment-service/internal/session"
)

type UsersHandler struct {
	users    *application.UsersService
	sessions *session.Store
}

func NewUsersHandler(users *application.UsersService, sessions *session.Store) *UsersHandler {
	return &UsersHandler{users: users, sessions: sessions}
}

// RegisterPublic mounts the routes reachable without a session.
func (h *UsersHandler) RegisterPublic(r chi.Router) {
	r.Post("/user/login", h.Login)
	r.Post("/user", h.RegisterUser)
}

func (h *UsersHandler) Register(r chi.Router) {
	r.Get("/user", h.ListUsers)
	r.Post("/user/logout", h.Logout)
	r.Put("/user/activate/{id}", h.Activate)
	r.Delete("/user/{id}", h.Delete)
}

func (h *UsersHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := helpers.DecodeJSON(r.Body, &req); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	u, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	sess := h.sessions.Issue(*u)
	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"token": sess.Token,
		"user":  u,
	})
}

func (h *UsersHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := session.FromContext(r.Context()); ok {
		h.sessions.Revoke(sess.Token)
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *UsersHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string      `json:"name"`
		Email    string      `json:"email"`
		Phone    string      `json:"phone"`
		Address  string      `json:"address"`
		Role     domain.Role `json:"type"`
		Password string      `json:"password"`
	}
	if err := helpers.DecodeJSON(r.Body, &req); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	u := domain.User{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Role:    req.Role,
	}
	if err := h.users.Register(r.Context(), &u, req.Password); err != nil {
		writeError(w, err)
		return
	}
	// new accounts stay pending until an admin activates them
	helpers.WriteJSON(w, http.StatusCreated, u)
}

func (h *UsersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	role := domain.Role(r.URL.Query().Get("type"))
	status := domain.UserStatus(r.URL.Query().Get("status"))
	users, err := h.users.List(r.Context(), role, status)
	if err != nil {
		writeError(w, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	helpers.WriteJSON(w, http.StatusOK, users)
}

func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	sess, ok := session.FromContext(r.Context())
	if !ok || sess.User.Role != domain.RoleAdmin {
		helpers.HttpError(w, http.StatusForbidden, "admin role required")
		return false
	}
	return true
}

func (h *UsersHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := h.users.Activate(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	h.sessions.RevokeUser(id)
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
