package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/clinic-inventory-api/internal/domain"
)

// Authenticator verifica credenciales contra un hash con sal; nunca compara contraseñas en claro.
type Authenticator interface {
	Hash(password string) (string, error)
	Verify(hash, password string) error
}

// BcryptAuthenticator implementación con bcrypt.
type BcryptAuthenticator struct {
	cost int
}

// NewBcryptAuthenticator cost <= 0 usa bcrypt.DefaultCost.
func NewBcryptAuthenticator(cost int) *BcryptAuthenticator {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptAuthenticator{cost: cost}
}

func (a *BcryptAuthenticator) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify devuelve domain.ErrUnauthorized si la contraseña no corresponde al hash.
func (a *BcryptAuthenticator) Verify(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) || errors.Is(err, bcrypt.ErrHashTooShort) {
		return domain.ErrUnauthorized
	}
	return fmt.Errorf("verificar password: %w", err)
}
