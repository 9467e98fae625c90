package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/clinic-inventory-api/internal/application/audit"
	"github.com/jhoicas/clinic-inventory-api/internal/application/auth"
	"github.com/jhoicas/clinic-inventory-api/internal/application/catalog"
	"github.com/jhoicas/clinic-inventory-api/internal/application/dto"
	"github.com/jhoicas/clinic-inventory-api/internal/domain"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios (solo Admin).
type UserUseCase struct {
	catalog  *catalog.Catalog
	auth     auth.Authenticator
	recorder *audit.Recorder
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(cat *catalog.Catalog, authenticator auth.Authenticator, recorder *audit.Recorder) *UserUseCase {
	return &UserUseCase{catalog: cat, auth: authenticator, recorder: recorder}
}

// Create crea un usuario con la contraseña hasheada. Staff requiere una sede existente;
// Admin no queda atado a ninguna.
func (uc *UserUseCase) Create(ctx context.Context, actor entity.User, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: usuario y contraseña requeridos", domain.ErrInvalidInput)
	}
	if in.Role != entity.RoleAdmin && in.Role != entity.RoleStaff {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, in.Role)
	}
	branchID := in.BranchID
	if in.Role == entity.RoleAdmin {
		branchID = ""
	} else if branchID == "" {
		return nil, fmt.Errorf("%w: el personal de sede requiere branch_id", domain.ErrInvalidInput)
	}

	hash, err := uc.auth.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	user := entity.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Username:     username,
		PasswordHash: hash,
		Role:         in.Role,
		BranchID:     branchID,
	}

	var branchName string
	err = uc.catalog.Mutate(ctx, repository.CollectionUsers, func(s *catalog.Snapshot) error {
		if _, exists := s.UserByUsername(username); exists {
			return domain.ErrUsernameExists
		}
		if branchID != "" {
			b, ok := s.Branch(branchID)
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrBranchNotFound, branchID)
			}
			branchName = b.Name
		}
		s.Users = append(s.Users, user)
		return nil
	})
	if err != nil {
		return nil, err
	}

	branchInfo := ""
	if branchName != "" {
		branchInfo = " for branch " + branchName
	}
	uc.recorder.Record(ctx, audit.Entry{
		Action:   entity.ActionUserCreated,
		Details:  fmt.Sprintf("New %s user %q created%s.", user.Role, user.Name, branchInfo),
		BranchID: branchID,
		UserID:   actor.ID,
	})
	res := auth.ToUserResponse(user)
	return &res, nil
}

// List lista usuarios sin exponer hashes.
func (uc *UserUseCase) List(actor entity.User) ([]dto.UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	users := uc.catalog.Snapshot().Users
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, auth.ToUserResponse(u))
	}
	return out, nil
}

// GetByID usuario por id; también usado para resolver el usuario del token.
func (uc *UserUseCase) GetByID(id string) (*entity.User, error) {
	u, ok := uc.catalog.Snapshot().User(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

// Delete elimina un usuario. Nadie puede eliminarse a sí mismo.
func (uc *UserUseCase) Delete(ctx context.Context, actor entity.User, id string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if actor.ID == id {
		return fmt.Errorf("%w: no puede eliminar su propio usuario", domain.ErrConflict)
	}
	var name string
	err := uc.catalog.Mutate(ctx, repository.CollectionUsers, func(s *catalog.Snapshot) error {
		u, ok := s.User(id)
		if !ok {
			return domain.ErrUserNotFound
		}
		name = u.Name
		kept := s.Users[:0]
		for _, x := range s.Users {
			if x.ID != id {
				kept = append(kept, x)
			}
		}
		s.Users = kept
		return nil
	})
	if err != nil {
		return err
	}
	uc.recorder.Record(ctx, audit.Entry{
		Action:  entity.ActionUserDeleted,
		Details: fmt.Sprintf("User %q (ID: %s) was deleted.", name, id),
		UserID:  actor.ID,
	})
	return nil
}
