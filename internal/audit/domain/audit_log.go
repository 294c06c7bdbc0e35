package domain

import "time"

// Audit actions recorded by auth, user, and admin code paths.
const (
	ActionRegister       = "register"
	ActionLoginSuccess   = "login_success"
	ActionLoginFailure   = "login_failure"
	ActionLogout         = "logout"
	ActionPasswordChange = "password_change"
	ActionEmailVerified  = "email_verified"
	ActionUserDeleted    = "user_deleted"
)

// AuditLog represents an audit event.
type AuditLog struct {
	ID        string
	UserID    string
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
