// Package handler exposes the authentication endpoints: register,
// login, logout, refresh, and email verification.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"blog-backend/internal/auth/service"
	"blog-backend/internal/platform/httpx"
	"blog-backend/internal/security"
	"blog-backend/internal/server/middleware"
	"blog-backend/internal/user/domain"
	"blog-backend/internal/validation"
)

const refreshCookieName = "refresh_token"

// CookieConfig controls the session cookies set on login and refresh.
type CookieConfig struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Handler struct {
	svc     *service.AuthService
	cookies CookieConfig
}

func New(svc *service.AuthService, cookies CookieConfig) *Handler {
	return &Handler{svc: svc, cookies: cookies}
}

// Register mounts the public auth routes on the router and the
// session-bound ones on the authenticated subrouter.
func (h *Handler) Register(public, authed *mux.Router) {
	public.HandleFunc("/auth/register", h.register).Methods(http.MethodPost)
	public.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)
	public.HandleFunc("/auth/refresh", h.refresh).Methods(http.MethodPost)
	public.HandleFunc("/auth/verify-email", h.verifyEmail).Methods(http.MethodGet)
	authed.HandleFunc("/auth/logout", h.logout).Methods(http.MethodPost)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type loginResponse struct {
	User         userResponse `json:"user"`
	AuthToken    string       `json:"authToken"`
	RefreshToken string       `json:"refreshToken"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:            u.ID.String(),
		Name:          u.Name,
		Email:         u.Email,
		Role:          string(u.Role),
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Registration Failed", "invalid request body")
		return
	}

	user, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyRegistered):
			httpx.WriteError(w, http.StatusConflict, "Account Exists", err.Error())
		case isValidationError(err):
			httpx.WriteError(w, http.StatusBadRequest, "Registration Failed", err.Error())
		default:
			httpx.WriteInternal(w)
		}
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, "Registration Complete", toUserResponse(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Login Failed", "invalid request body")
		return
	}

	user, session, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusBadRequest, "Login Failed", err.Error())
		case errors.Is(err, service.ErrEmailNotVerified):
			httpx.WriteError(w, http.StatusForbidden, "Email Not Verified", err.Error())
		default:
			httpx.WriteInternal(w)
		}
		return
	}

	h.setSessionCookies(w, session)
	httpx.WriteSuccess(w, http.StatusOK, "Login Successful", loginResponse{
		User:         toUserResponse(user),
		AuthToken:    session.AccessToken,
		RefreshToken: session.RefreshToken,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		h.svc.Logout(r.Context(), userID)
	}
	h.clearSessionCookies(w)
	httpx.WriteSuccess(w, http.StatusOK, "Logout Successful", "Authentication session ended")
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	token, ok := refreshTokenFromRequest(r)
	if !ok {
		httpx.WriteUnauthorized(w, "refresh token required")
		return
	}

	user, session, err := h.svc.Refresh(r.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			httpx.WriteUnauthorized(w, err.Error())
			return
		}
		httpx.WriteInternal(w)
		return
	}

	h.setSessionCookies(w, session)
	httpx.WriteSuccess(w, http.StatusOK, "Session Refreshed", loginResponse{
		User:         toUserResponse(user),
		AuthToken:    session.AccessToken,
		RefreshToken: session.RefreshToken,
	})
}

func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Verification Failed", "token is required")
		return
	}

	if err := h.svc.VerifyEmail(r.Context(), token); err != nil {
		switch {
		case errors.Is(err, security.ErrTokenExpired):
			httpx.WriteError(w, http.StatusBadRequest, "Verification Failed", "verification link has expired")
		case errors.Is(err, service.ErrUserNotFound):
			httpx.WriteError(w, http.StatusNotFound, "Verification Failed", err.Error())
		case errors.Is(err, security.ErrTokenMalformed), errors.Is(err, security.ErrTokenBadSignature), errors.Is(err, security.ErrTokenWrongIssuer):
			httpx.WriteError(w, http.StatusBadRequest, "Verification Failed", "invalid verification link")
		default:
			httpx.WriteInternal(w)
		}
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, "Email Verified", "Your email address has been verified")
}

// refreshTokenFromRequest reads the refresh token from the cookie first,
// then from a JSON body {"refreshToken": "..."}.
func refreshTokenFromRequest(r *http.Request) (string, bool) {
	if c, err := r.Cookie(refreshCookieName); err == nil && c.Value != "" {
		return c.Value, true
	}
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err == nil && body.RefreshToken != "" {
		return body.RefreshToken, true
	}
	return "", false
}

func (h *Handler) setSessionCookies(w http.ResponseWriter, session *service.Session) {
	http.SetCookie(w, h.sessionCookie(middleware.AuthCookieName, session.AccessToken, h.cookies.AccessTTL))
	http.SetCookie(w, h.sessionCookie(refreshCookieName, session.RefreshToken, h.cookies.RefreshTTL))
}

func (h *Handler) clearSessionCookies(w http.ResponseWriter) {
	http.SetCookie(w, h.sessionCookie(middleware.AuthCookieName, "", -time.Second))
	http.SetCookie(w, h.sessionCookie(refreshCookieName, "", -time.Second))
}

func (h *Handler) sessionCookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, validation.ErrInvalidEmail) ||
		errors.Is(err, validation.ErrWeakPassword) ||
		errors.Is(err, validation.ErrEmptyName) ||
		errors.Is(err, validation.ErrNameTooLong)
}
