// Package service implements the credential and session workflows:
// registration, login, token refresh, email verification, and password
// changes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/google/uuid"

	"blog-backend/internal/audit"
	auditdomain "blog-backend/internal/audit/domain"
	"blog-backend/internal/mailer"
	"blog-backend/internal/security"
	"blog-backend/internal/user/domain"
	userrepo "blog-backend/internal/user/repository"
	"blog-backend/internal/validation"
)

var (
	ErrEmailAlreadyRegistered = errors.New("an account with this email already exists")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrEmailNotVerified       = errors.New("email address is not verified")
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidRefreshToken    = errors.New("invalid or expired refresh token")
	ErrWrongPassword          = errors.New("current password is incorrect")
	ErrSamePassword           = errors.New("new password must be different from current password")
)

// Session holds the tokens issued for an authenticated user.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// AuthService implements registration, login, and session maintenance.
type AuthService struct {
	users         userrepo.Repository
	hasher        *security.Hasher
	tokens        *security.TokenProvider
	mail          mailer.Mailer
	auditor       audit.AuditLogger
	verifyBaseURL string
}

// NewAuthService wires the auth workflows. mail and auditor may be nil;
// verification email sending and audit logging become no-ops.
func NewAuthService(users userrepo.Repository, hasher *security.Hasher, tokens *security.TokenProvider, mail mailer.Mailer, auditor audit.AuditLogger, verifyBaseURL string) *AuthService {
	return &AuthService{
		users:         users,
		hasher:        hasher,
		tokens:        tokens,
		mail:          mail,
		auditor:       auditor,
		verifyBaseURL: verifyBaseURL,
	}
}

// Register validates input, creates the user with role USER, and sends
// a verification email. The email send is best-effort and asynchronous.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if err := validation.ValidateRegistration(name, email, password); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.sendVerificationEmail(user)
	s.logAudit(ctx, user.ID.String(), auditdomain.ActionRegister, "auth", "")
	return user, nil
}

// Login verifies credentials and issues a session. Unknown email and
// wrong password both return ErrInvalidCredentials so the response does
// not reveal which accounts exist. Unverified accounts are rejected.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		s.logAudit(ctx, "", auditdomain.ActionLoginFailure, "auth", auditMeta("email", email))
		return nil, nil, ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.logAudit(ctx, user.ID.String(), auditdomain.ActionLoginFailure, "auth", "")
		return nil, nil, ErrInvalidCredentials
	}

	if !user.EmailVerified {
		return nil, nil, ErrEmailNotVerified
	}

	session, err := s.issueSession(user)
	if err != nil {
		return nil, nil, err
	}
	s.logAudit(ctx, user.ID.String(), auditdomain.ActionLoginSuccess, "auth", "")
	return user, session, nil
}

// Refresh validates a refresh token and issues a fresh session for the
// user it names. The user must still exist.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.User, *Session, error) {
	userID, err := s.tokens.ExtractUserID(refreshToken)
	if err != nil {
		return nil, nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrInvalidRefreshToken
	}

	session, err := s.issueSession(user)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Logout records the logout event. Token invalidation is handled by
// cookie clearing at the transport layer.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) {
	s.logAudit(ctx, userID.String(), auditdomain.ActionLogout, "auth", "")
}

// VerifyEmail validates an email-verification token and marks the user
// verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.tokens.ExtractUserID(token)
	if err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.EmailVerified {
		return nil
	}

	if err := s.users.SetEmailVerified(ctx, userID); err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}
	s.logAudit(ctx, userID.String(), auditdomain.ActionEmailVerified, "auth", "")
	return nil
}

// UpdateProfile validates and applies name/email changes. Changing the
// email resets verification and sends a new verification mail; the user
// must verify again before their next login.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, name, email string) (*domain.User, error) {
	if err := validation.ValidateProfile(name, email); err != nil {
		return nil, err
	}

	current, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if current == nil {
		return nil, ErrUserNotFound
	}

	emailChanged := current.Email != email
	if emailChanged {
		existing, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("check existing user: %w", err)
		}
		if existing != nil {
			return nil, ErrEmailAlreadyRegistered
		}
	}

	updated, err := s.users.UpdateProfile(ctx, userID, name, email)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}

	if emailChanged {
		s.sendVerificationEmail(updated)
	}
	return updated, nil
}

// ChangePassword verifies the current password and replaces it with a
// new one, which must be strong and different from the old.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if !validation.StrongPassword(newPassword) {
		return validation.ErrWeakPassword
	}
	if oldPassword == newPassword {
		return ErrSamePassword
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	ok, err := s.hasher.Verify(oldPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return ErrWrongPassword
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.logAudit(ctx, userID.String(), auditdomain.ActionPasswordChange, "auth", "")
	return nil
}

func (s *AuthService) issueSession(user *domain.User) (*Session, error) {
	access, refresh, expiresAt, err := s.tokens.IssueSession(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	return &Session{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}, nil
}

// sendVerificationEmail issues a verification token and mails the link.
// Runs in the background; failures are logged and never block
// registration.
func (s *AuthService) sendVerificationEmail(user *domain.User) {
	if s.mail == nil {
		return
	}
	token, err := s.tokens.IssueEmailVerification(user.ID)
	if err != nil {
		log.Printf("auth: issue verification token for %s: %v", user.ID, err)
		return
	}
	link := s.verifyBaseURL + "/api/auth/verify-email?token=" + url.QueryEscape(token)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.mail.SendVerificationEmail(ctx, user.Email, user.Name, link); err != nil {
			log.Printf("auth: send verification email to %s: %v", user.Email, err)
		}
	}()
}

func (s *AuthService) logAudit(ctx context.Context, userID, action, resource, metadata string) {
	if s.auditor == nil {
		return
	}
	s.auditor.LogEvent(ctx, userID, action, resource, metadata)
}

func auditMeta(key, value string) string {
	return fmt.Sprintf("{%q:%q}", key, value)
}
