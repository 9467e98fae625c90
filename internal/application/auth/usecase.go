package auth

import (
	"context"
	"fmt"

	"github.com/jhoicas/clinic-inventory-api/internal/application/audit"
	"github.com/jhoicas/clinic-inventory-api/internal/application/catalog"
	"github.com/jhoicas/clinic-inventory-api/internal/application/dto"
	"github.com/jhoicas/clinic-inventory-api/internal/domain"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
	"github.com/jhoicas/clinic-inventory-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login y logout.
type AuthUseCase struct {
	catalog  *catalog.Catalog
	auth     Authenticator
	recorder *audit.Recorder
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(cat *catalog.Catalog, authenticator Authenticator, recorder *audit.Recorder, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{catalog: cat, auth: authenticator, recorder: recorder, jwtCfg: jwtCfg}
}

// Login verifica usuario/password, genera JWT y retorna token + usuario.
// Usuario inexistente y password incorrecto devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, ok := uc.catalog.Snapshot().UserByUsername(in.Username)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := uc.auth.Verify(user.PasswordHash, in.Password); err != nil {
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, user.BranchID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("generar token: %w", err)
	}
	uc.recorder.Record(ctx, audit.Entry{
		Action:  entity.ActionUserLogin,
		Details: fmt.Sprintf("User %q logged in.", user.Name),
		UserID:  user.ID,
	})
	return &dto.LoginResponse{Token: token, User: ToUserResponse(user)}, nil
}

// Logout solo deja constancia en auditoría (el JWT expira por sí mismo).
func (uc *AuthUseCase) Logout(ctx context.Context, user entity.User) {
	uc.recorder.Record(ctx, audit.Entry{
		Action:  entity.ActionUserLogout,
		Details: fmt.Sprintf("User %q logged out.", user.Name),
		UserID:  user.ID,
	})
}

// ToUserResponse salida pública de un usuario.
func ToUserResponse(u entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Role:     u.Role,
		BranchID: u.BranchID,
	}
}
