package security

import "time"

// testSecret is an HMAC secret for unit tests only. Do not use in production.
const testSecret = "unit-test-signing-secret-000001"

// NewTestTokenProvider returns a TokenProvider with a fixed secret and default
// lifetimes. For unit tests only.
func NewTestTokenProvider() *TokenProvider {
	return NewTokenProvider([]byte(testSecret), "test-issuer", 24*time.Hour, 168*time.Hour, 15*time.Minute)
}

// NewTestTokenProviderAt is NewTestTokenProvider with an injected clock, for
// tests that need to simulate expiry.
func NewTestTokenProviderAt(now func() time.Time) *TokenProvider {
	p := NewTestTokenProvider()
	p.now = now
	return p
}
