package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"blog-backend/internal/user/domain"
)

// Token validation errors. The HTTP layer maps all of them to a uniform
// unauthorized response; the distinction exists for logs and tests.
var (
	// ErrTokenMalformed is returned when a token cannot be parsed or decoded,
	// or when its claims are not well-formed (bad subject, unknown role).
	ErrTokenMalformed = errors.New("malformed token")
	// ErrTokenBadSignature is returned when the signature does not match the signing secret.
	ErrTokenBadSignature = errors.New("token signature mismatch")
	// ErrTokenExpired is returned when the token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenWrongIssuer is returned when the iss claim does not match this service.
	ErrTokenWrongIssuer = errors.New("token issued by another issuer")
)

// Claims is the claim set carried by every token this service issues:
// issuer, subject (user ID), role, issued-at, and expiry.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// TokenProvider issues and validates HMAC-signed (HS256) session and
// email-verification tokens. Tokens are stateless: validity is purely a
// function of the signature and expiry, and there is no revocation list.
// The secret is fixed at construction and read-only afterwards, so a single
// provider is safe for concurrent use.
type TokenProvider struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	verifyTTL  time.Duration
	now        func() time.Time
}

// NewTokenProvider returns a TokenProvider that signs with the given secret.
// issuer is set as the iss claim and validated on every Validate call.
func NewTokenProvider(secret []byte, issuer string, accessTTL, refreshTTL, verifyTTL time.Duration) *TokenProvider {
	return &TokenProvider{
		secret:     secret,
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		verifyTTL:  verifyTTL,
		now:        time.Now,
	}
}

// IssueSession issues the access/refresh token pair for the given user and role.
// Returns both tokens and the access token expiry.
func (p *TokenProvider) IssueSession(userID uuid.UUID, role domain.Role) (access, refresh string, accessExpiresAt time.Time, err error) {
	now := p.now().UTC()
	accessExpiresAt = now.Add(p.accessTTL)
	access, err = p.sign(userID, role, now, accessExpiresAt)
	if err != nil {
		return "", "", time.Time{}, err
	}
	refresh, err = p.sign(userID, role, now, now.Add(p.refreshTTL))
	if err != nil {
		return "", "", time.Time{}, err
	}
	return access, refresh, accessExpiresAt, nil
}

// IssueEmailVerification issues a short-lived single-purpose token carrying
// only the user identity. The role claim is always USER regardless of the
// account's actual role.
func (p *TokenProvider) IssueEmailVerification(userID uuid.UUID) (string, error) {
	now := p.now().UTC()
	return p.sign(userID, domain.RoleUser, now, now.Add(p.verifyTTL))
}

func (p *TokenProvider) sign(userID uuid.UUID, role domain.Role, issuedAt, expiresAt time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: string(role),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

// Validate parses the token, verifies the HMAC signature against the signing
// secret, and checks expiry and issuer. Returns the claims on success, or one
// of ErrTokenMalformed, ErrTokenBadSignature, ErrTokenExpired,
// ErrTokenWrongIssuer.
func (p *TokenProvider) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenMalformed
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now), jwt.WithIssuer(p.issuer), jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenBadSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return nil, ErrTokenWrongIssuer
		default:
			return nil, ErrTokenMalformed
		}
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// ExtractUserID validates the token and parses its subject as a user ID.
// A subject that is not a well-formed UUID is ErrTokenMalformed.
func (p *TokenProvider) ExtractUserID(tokenString string) (uuid.UUID, error) {
	claims, err := p.Validate(tokenString)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrTokenMalformed
	}
	return id, nil
}

// ExtractRole validates the token and returns its role claim.
// An unknown role value is ErrTokenMalformed.
func (p *TokenProvider) ExtractRole(tokenString string) (domain.Role, error) {
	claims, err := p.Validate(tokenString)
	if err != nil {
		return "", err
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return "", ErrTokenMalformed
	}
	return role, nil
}
