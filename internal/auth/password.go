package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/support-desk/internal/config"
)

// CredentialPolicy decides how passwords are stored and compared.
type CredentialPolicy interface {
	// Encode converts a plaintext password into its stored form.
	Encode(plain string) (string, error)
	// Verify reports whether plain matches the stored form.
	Verify(stored, plain string) bool
	// Hashed reports whether stored values are one-way hashes.
	Hashed() bool
}

// NewCredentialPolicy selects bcrypt when hashing is enabled and verbatim
// storage otherwise.
func NewCredentialPolicy(cfg config.AuthConfig) CredentialPolicy {
	if cfg.HashPasswords {
		cost := cfg.BcryptCost
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			cost = bcrypt.DefaultCost
		}
		return bcryptPolicy{cost: cost}
	}
	return plainPolicy{}
}

type plainPolicy struct{}

func (plainPolicy) Encode(plain string) (string, error) { return plain, nil }

func (plainPolicy) Verify(stored, plain string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
}

func (plainPolicy) Hashed() bool { return false }

type bcryptPolicy struct {
	cost int
}

func (p bcryptPolicy) Encode(plain string) (string, error) { return HashPassword(plain, p.cost) }

func (p bcryptPolicy) Verify(stored, plain string) bool { return ComparePassword(stored, plain) == nil }

func (bcryptPolicy) Hashed() bool { return true }

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
