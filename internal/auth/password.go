package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type (
	// Account is anything that can be logged into.
	Account interface {
		AccountID() int64
		HashedPassword() string
	}

	PasswordHasher struct {
		cost int
	}
)

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Authenticate returns ErrInvalidCredentials for a nil account as well as for
// a wrong password, so callers cannot tell which one happened.
func (h *PasswordHasher) Authenticate(account Account, password string) error {
	if account == nil {
		return ErrInvalidCredentials
	}

	err := bcrypt.CompareHashAndPassword([]byte(account.HashedPassword()), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("compare password: %w", err)
	}
	return nil
}
