package hasher

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

type Hasher interface {
	GetHashedPassword(ctx context.Context, password string) (string, error)
	CompareHashAndPassword(ctx context.Context, hashedPassword, password string) error
}

// DefaultCost matches the salt rounds used for existing accounts.
const DefaultCost = 12

type BcryptHasher struct {
	cost int
}

func NewBcrypt(cost int) *BcryptHasher {
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) GetHashedPassword(_ context.Context, password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *BcryptHasher) CompareHashAndPassword(_ context.Context, hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
