package security

import (
	"crypto/rand"
	"errors"
	"fmt"
)

// minSecretLen is the shortest configured signing secret accepted.
const minSecretLen = 16

// generatedSecretLen is the size of a generated per-process secret.
const generatedSecretLen = 32

// ResolveSecret returns the HMAC signing secret to use for the process
// lifetime. When configured is non-empty it is used as-is; otherwise a random
// secret is generated and generated is true. Tokens signed with a generated
// secret become unverifiable after a restart, and cannot be shared across
// instances; callers should warn when generated is true.
func ResolveSecret(configured string) (secret []byte, generated bool, err error) {
	if configured != "" {
		if len(configured) < minSecretLen {
			return nil, false, fmt.Errorf("signing secret must be at least %d bytes", minSecretLen)
		}
		return []byte(configured), false, nil
	}
	b := make([]byte, generatedSecretLen)
	if _, err := rand.Read(b); err != nil {
		return nil, false, errors.New("unable to generate signing secret")
	}
	return b, true, nil
}
