// Package handler exposes the profile endpoints for the authenticated
// user.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"blog-backend/internal/auth/service"
	"blog-backend/internal/platform/httpx"
	"blog-backend/internal/platform/rbac"
	"blog-backend/internal/user/domain"
	userrepo "blog-backend/internal/user/repository"
	"blog-backend/internal/validation"
)

type Handler struct {
	users userrepo.Repository
	auth  *service.AuthService
}

func New(users userrepo.Repository, auth *service.AuthService) *Handler {
	return &Handler{users: users, auth: auth}
}

// Register mounts the profile routes on the authenticated subrouter.
func (h *Handler) Register(authed *mux.Router) {
	authed.HandleFunc("/users/me", h.getProfile).Methods(http.MethodGet)
	authed.HandleFunc("/users/me", h.updateProfile).Methods(http.MethodPut)
	authed.HandleFunc("/users/me/password", h.changePassword).Methods(http.MethodPut)
}

type profileResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toProfileResponse(u *domain.User) profileResponse {
	return profileResponse{
		ID:            u.ID.String(),
		Name:          u.Name,
		Email:         u.Email,
		Role:          string(u.Role),
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := rbac.RequireUser(r.Context())
	if err != nil {
		httpx.WriteUnauthorized(w, err.Error())
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		httpx.WriteInternal(w)
		return
	}
	if user == nil {
		httpx.WriteError(w, http.StatusNotFound, "Not Found", "user not found")
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, "Profile Retrieved", toProfileResponse(user))
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := rbac.RequireUser(r.Context())
	if err != nil {
		httpx.WriteUnauthorized(w, err.Error())
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Update Failed", "invalid request body")
		return
	}
	user, err := h.auth.UpdateProfile(r.Context(), userID, req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, validation.ErrInvalidEmail),
			errors.Is(err, validation.ErrEmptyName),
			errors.Is(err, validation.ErrNameTooLong):
			httpx.WriteError(w, http.StatusBadRequest, "Update Failed", err.Error())
		case errors.Is(err, service.ErrEmailAlreadyRegistered):
			httpx.WriteError(w, http.StatusConflict, "Email Taken", err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			httpx.WriteError(w, http.StatusNotFound, "Not Found", err.Error())
		default:
			httpx.WriteInternal(w)
		}
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, "Profile Updated", toProfileResponse(user))
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := rbac.RequireUser(r.Context())
	if err != nil {
		httpx.WriteUnauthorized(w, err.Error())
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Password Change Failed", "invalid request body")
		return
	}

	if err := h.auth.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, validation.ErrWeakPassword):
			httpx.WriteError(w, http.StatusBadRequest, "Weak Password", err.Error())
		case errors.Is(err, service.ErrSamePassword):
			httpx.WriteError(w, http.StatusBadRequest, "Invalid Password", err.Error())
		case errors.Is(err, service.ErrWrongPassword):
			httpx.WriteError(w, http.StatusBadRequest, "Incorrect Password", err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			httpx.WriteError(w, http.StatusNotFound, "Not Found", err.Error())
		default:
			httpx.WriteInternal(w)
		}
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, "Password Changed", "Password has been updated successfully")
}
