package middleware

import (
	"context"

	"github.com/google/uuid"

	"blog-backend/internal/user/domain"
)

type contextKey struct{ name string }

var (
	userIDKey         = contextKey{"user_id"}
	roleKey           = contextKey{"role"}
	clientIPKey       = contextKey{"client_ip"}
	identityHolderKey = contextKey{"identity_holder"}
)

// identityHolder lets middleware installed outside the auth gate observe
// the identity the gate attaches deeper in the chain. Context values set
// by an inner middleware are invisible to the outer one, so the outer
// layer plants the holder and the gate fills it. Filled and read on the
// request goroutine.
type identityHolder struct {
	userID uuid.UUID
	role   domain.Role
	set    bool
}

func withIdentityHolder(ctx context.Context) (context.Context, *identityHolder) {
	h := &identityHolder{}
	return context.WithValue(ctx, identityHolderKey, h), h
}

// WithIdentity returns a context carrying the authenticated user's ID and role.
// Handlers and the rbac package read them via GetUserID and GetRole.
func WithIdentity(ctx context.Context, userID uuid.UUID, role domain.Role) context.Context {
	if h, ok := ctx.Value(identityHolderKey).(*identityHolder); ok {
		h.userID, h.role, h.set = userID, role, true
	}
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, roleKey, role)
	return ctx
}

// GetUserID returns the authenticated user ID from context and true if set.
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(userIDKey).(uuid.UUID)
	return v, ok
}

// GetRole returns the authenticated user's role from context and true if set.
func GetRole(ctx context.Context) (domain.Role, bool) {
	v, ok := ctx.Value(roleKey).(domain.Role)
	return v, ok
}

// WithClientIP returns a context carrying the request's client IP.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIP returns the client IP from context, or "" if not set.
func ClientIP(ctx context.Context) string {
	v, _ := ctx.Value(clientIPKey).(string)
	return v
}
