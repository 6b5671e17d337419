package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// BcryptHasher реализует domain.PasswordHasher поверх bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher создаёт хешер с дефолтной стоимостью bcrypt.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

// Hash возвращает bcrypt-хеш пароля.
func (h *BcryptHasher) Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Compare сверяет пароль с хешем.
func (h *BcryptHasher) Compare(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

var _ domain.PasswordHasher = (*BcryptHasher)(nil)
