// Package handler exposes the admin endpoints: listing and deleting
// users. Every route requires the ADMIN role.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"blog-backend/internal/audit"
	auditdomain "blog-backend/internal/audit/domain"
	"blog-backend/internal/platform/httpx"
	"blog-backend/internal/platform/rbac"
	userrepo "blog-backend/internal/user/repository"
)

type Handler struct {
	users   userrepo.Repository
	auditor audit.AuditLogger
}

func New(users userrepo.Repository, auditor audit.AuditLogger) *Handler {
	return &Handler{users: users, auditor: auditor}
}

// Register mounts the admin routes on the authenticated subrouter.
func (h *Handler) Register(authed *mux.Router) {
	authed.HandleFunc("/admin/users", h.listUsers).Methods(http.MethodGet)
	authed.HandleFunc("/admin/users/{id}", h.deleteUser).Methods(http.MethodDelete)
}

type userSummary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	if _, err := h.requireAdmin(w, r); err != nil {
		return
	}

	users, err := h.users.List(r.Context())
	if err != nil {
		httpx.WriteInternal(w)
		return
	}

	out := make([]userSummary, 0, len(users))
	for _, u := range users {
		out = append(out, userSummary{
			ID:            u.ID.String(),
			Name:          u.Name,
			Email:         u.Email,
			Role:          string(u.Role),
			EmailVerified: u.EmailVerified,
			CreatedAt:     u.CreatedAt,
		})
	}
	httpx.WriteSuccess(w, http.StatusOK, "Users Retrieved", out)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	adminID, err := h.requireAdmin(w, r)
	if err != nil {
		return
	}

	targetID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid ID", "user ID must be a UUID")
		return
	}
	if targetID == adminID {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid Target", "admins cannot delete their own account")
		return
	}

	deleted, err := h.users.Delete(r.Context(), targetID)
	if err != nil {
		httpx.WriteInternal(w)
		return
	}
	if !deleted {
		httpx.WriteError(w, http.StatusNotFound, "Not Found", "user not found")
		return
	}

	if h.auditor != nil {
		// Metadata lands in a jsonb column; a bare string would be rejected.
		meta := fmt.Sprintf(`{"target_user_id":%q}`, targetID)
		h.auditor.LogEvent(r.Context(), adminID.String(), auditdomain.ActionUserDeleted, "user", meta)
	}
	httpx.WriteSuccess(w, http.StatusOK, "User Deleted", "User account has been removed")
}

// requireAdmin writes the error response itself so handlers can bail
// with a bare return.
func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	adminID, err := rbac.RequireAdmin(r.Context())
	if err != nil {
		if errors.Is(err, rbac.ErrForbidden) {
			httpx.WriteForbidden(w)
		} else {
			httpx.WriteUnauthorized(w, err.Error())
		}
		return uuid.Nil, err
	}
	return adminID, nil
}
