package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/reallifegames/localauth/internal/domain/auth"
	apperrors "github.com/reallifegames/localauth/internal/errors"
	obserrors "github.com/reallifegames/localauth/internal/observability/errors"
	"github.com/reallifegames/localauth/internal/observability/metrics"
	"github.com/reallifegames/localauth/internal/service"
)

// AuthAPI is the token lifecycle the API needs.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (string, domainauth.Session, error)
	Session(ctx context.Context, token string) (domainauth.Session, error)
	RequireAdmin(ctx context.Context, token string) (domainauth.Session, error)
	Logout(ctx context.Context, token string) error
	TokenTTL() time.Duration
}

// UsersAPI is the account management the API needs.
type UsersAPI interface {
	List(ctx context.Context) ([]string, error)
	Get(ctx context.Context, username string) (domainauth.User, error)
	Create(ctx context.Context, in service.CreateUserInput) error
	UpdateFlags(ctx context.Context, username string, admin, active bool) error
}

// DashAPI serves dashboard tile descriptors.
type DashAPI interface {
	Endpoints(ctx context.Context) ([]string, error)
}

var (
	_ AuthAPI  = (*service.AuthService)(nil)
	_ UsersAPI = (*service.UserService)(nil)
	_ DashAPI  = (*service.DashService)(nil)
)

// APIHandlers serves /api/v1.
type APIHandlers struct {
	Auth         AuthAPI
	Users        UsersAPI
	Dash         DashAPI
	CookieDomain string
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
}

func (h *APIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type editUserRequest struct {
	UpdateUsername string `json:"updateUsername"`
	Admin          bool   `json:"admin"`
	Active         bool   `json:"active"`
}

// Info handles GET /api/v1.
func (h *APIHandlers) Info(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"version": APIVersion})
}

// Login handles POST /api/v1/login.
func (h *APIHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger().DebugContext(r.Context(), "login request decode failed", "error", err)
		writeStatus(w, http.StatusBadRequest)
		return
	}

	token, _, err := h.Auth.Login(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidCredentials), apperrors.IsValidation(err):
		h.Metrics.ObserveLogin(metrics.ResultDenied)
		WriteJSON(w, http.StatusConflict, map[string]any{"api": map[string]any{"version": APIVersion}, "success": false})
		return
	default:
		h.Metrics.ObserveLogin(metrics.ResultError)
		h.logger().ErrorContext(r.Context(), "login failed", "error", err)
		writeStatus(w, http.StatusInternalServerError)
		return
	}

	h.Metrics.ObserveLogin(metrics.ResultSuccess)
	setTokenCookie(w, r, tokenCookieParams{Domain: h.CookieDomain, Token: token, MaxAge: h.Auth.TokenTTL()})
	WriteJSON(w, http.StatusOK, map[string]any{"api": map[string]any{"version": APIVersion}, "success": true})
}

// TokenValidity handles GET /api/v1/tokenValidity.
func (h *APIHandlers) TokenValidity(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session(w, r); !ok {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"api": map[string]any{"version": APIVersion}, "valid": true})
}

// AdminStatus handles GET /api/v1/adminStatus.
func (h *APIHandlers) AdminStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"api": map[string]any{"version": APIVersion}, "admin": true})
}

// Dashboard handles GET /api/v1/dash.
func (h *APIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session(w, r); !ok {
		return
	}
	endpoints, err := h.Dash.Endpoints(r.Context())
	if err != nil {
		h.internalError(w, r, "list dash tiles", err)
		return
	}
	if endpoints == nil {
		endpoints = []string{}
	}
	WriteJSON(w, http.StatusOK, apiEnvelope(map[string]any{"endpoints": endpoints}))
}

// ListUsers handles GET /api/v1/users.
func (h *APIHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session(w, r); !ok {
		return
	}
	names, err := h.Users.List(r.Context())
	if err != nil {
		h.internalError(w, r, "list users", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	WriteJSON(w, http.StatusOK, apiEnvelope(map[string]any{"usernameList": names}))
}

// GetUser handles GET /api/v1/user/{username}. Unknown users are reported as 500.
func (h *APIHandlers) GetUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session(w, r); !ok {
		return
	}
	user, err := h.Users.Get(r.Context(), r.PathValue("username"))
	if err != nil {
		h.internalError(w, r, "get user", err)
		return
	}
	WriteJSON(w, http.StatusOK, apiEnvelope(map[string]any{
		"username": user.Username,
		"admin":    user.Admin,
		"active":   user.Active,
	}))
}

// CreateUser handles POST /api/v1/createUser. Accounts start inactive and without admin rights.
func (h *APIHandlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session(w, r); !ok {
		return
	}
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeStatus(w, http.StatusBadRequest)
		return
	}
	if _, ok := h.admin(w, r); !ok {
		return
	}

	err := h.Users.Create(r.Context(), service.CreateUserInput{Username: req.Username, Password: req.Password})
	switch {
	case err == nil:
		WriteJSON(w, http.StatusOK, map[string]any{"api": map[string]any{"version": APIVersion}, "status": "success"})
	case apperrors.IsValidation(err):
		writeStatus(w, http.StatusBadRequest)
	case apperrors.IsConflict(err):
		writeStatus(w, http.StatusConflict)
	default:
		h.internalError(w, r, "create user", err)
	}
}

// EditUser handles PATCH /api/v1/editUser. Any update failure, including an unknown user, is a 500.
func (h *APIHandlers) EditUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session(w, r); !ok {
		return
	}
	var req editUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeStatus(w, http.StatusBadRequest)
		return
	}
	if _, ok := h.admin(w, r); !ok {
		return
	}

	if err := h.Users.UpdateFlags(r.Context(), req.UpdateUsername, req.Admin, req.Active); err != nil {
		h.internalError(w, r, "edit user", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"api": map[string]any{"version": APIVersion}, "status": "success"})
}

// Logout handles POST /api/v1/logout.
func (h *APIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	token := tokenFromRequest(r)
	if token == "" {
		writeStatus(w, http.StatusUnauthorized)
		return
	}
	if err := h.Auth.Logout(r.Context(), token); err != nil {
		h.internalError(w, r, "logout", err)
		return
	}
	clearTokenCookie(w, r, h.CookieDomain)
	WriteJSON(w, http.StatusOK, map[string]any{"api": map[string]any{"version": APIVersion}, "status": "success"})
}

// session authenticates the request, writing 401 (or 500 on backend failure) when it cannot.
func (h *APIHandlers) session(w http.ResponseWriter, r *http.Request) (domainauth.Session, bool) {
	sess, err := h.Auth.Session(r.Context(), tokenFromRequest(r))
	if err != nil {
		h.writeAuthError(w, r, err)
		return domainauth.Session{}, false
	}
	return sess, true
}

// admin authorizes the request, writing 401, 403 or 500 when it cannot.
func (h *APIHandlers) admin(w http.ResponseWriter, r *http.Request) (domainauth.Session, bool) {
	sess, err := h.Auth.RequireAdmin(r.Context(), tokenFromRequest(r))
	if err != nil {
		h.writeAuthError(w, r, err)
		return domainauth.Session{}, false
	}
	return sess, true
}

func (h *APIHandlers) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case apperrors.IsUnauthorized(err):
		writeStatus(w, http.StatusUnauthorized)
	case apperrors.IsForbidden(err):
		writeStatus(w, http.StatusForbidden)
	default:
		h.internalError(w, r, "authorize request", err)
	}
}

func (h *APIHandlers) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger().ErrorContext(r.Context(), op+" failed",
		"error", err,
		"error_type", obserrors.Classify(err),
		"request_id", RequestIDFromContext(r.Context()),
	)
	writeStatus(w, http.StatusInternalServerError)
}
