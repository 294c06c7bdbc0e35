package rbac

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"blog-backend/internal/server/middleware"
	"blog-backend/internal/user/domain"
)

var (
	// ErrUnauthenticated means no identity was found in the context.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means the caller's role does not satisfy the check.
	ErrForbidden = errors.New("insufficient privileges")
)

// RequireRole checks that the actual role satisfies the required one.
// ADMIN satisfies every check; USER satisfies only USER.
func RequireRole(actual, required domain.Role) error {
	if actual == domain.RoleAdmin {
		return nil
	}
	if actual == required {
		return nil
	}
	return ErrForbidden
}

// RequireUser ensures the caller is authenticated and returns their ID.
func RequireUser(ctx context.Context) (uuid.UUID, error) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return uuid.Nil, ErrUnauthenticated
	}
	return userID, nil
}

// RequireAdmin ensures the caller is authenticated and holds the ADMIN
// role. Returns the caller's ID on success.
func RequireAdmin(ctx context.Context) (uuid.UUID, error) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return uuid.Nil, ErrUnauthenticated
	}
	role, ok := middleware.GetRole(ctx)
	if !ok {
		return uuid.Nil, ErrUnauthenticated
	}
	if err := RequireRole(role, domain.RoleAdmin); err != nil {
		return uuid.Nil, err
	}
	return userID, nil
}
