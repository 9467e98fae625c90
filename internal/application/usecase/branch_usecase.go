package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/clinic-inventory-api/internal/application/audit"
	"github.com/jhoicas/clinic-inventory-api/internal/application/catalog"
	"github.com/jhoicas/clinic-inventory-api/internal/application/dto"
	"github.com/jhoicas/clinic-inventory-api/internal/domain"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/inventory"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/repository"
	"github.com/jhoicas/clinic-inventory-api/pkg/logger"
)

// BranchUseCase alta, edición y baja de sedes.
type BranchUseCase struct {
	catalog  *catalog.Catalog
	recorder *audit.Recorder
	log      *logger.Logger
}

// NewBranchUseCase construye el caso de uso.
func NewBranchUseCase(cat *catalog.Catalog, recorder *audit.Recorder, log *logger.Logger) *BranchUseCase {
	return &BranchUseCase{catalog: cat, recorder: recorder, log: log}
}

// Create crea una sede.
func (uc *BranchUseCase) Create(ctx context.Context, user entity.User, in dto.BranchRequest) (*entity.Branch, error) {
	if !user.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	branch := entity.Branch{ID: uuid.New().String(), Name: name}
	err := uc.catalog.Mutate(ctx, repository.CollectionBranches, func(s *catalog.Snapshot) error {
		for _, b := range s.Branches {
			if strings.EqualFold(b.Name, name) {
				return fmt.Errorf("%w: ya existe la sede %q", domain.ErrDuplicate, name)
			}
		}
		s.Branches = append(s.Branches, branch)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, audit.Entry{
		Action:   entity.ActionBranchAdded,
		Details:  fmt.Sprintf("New branch %q added.", name),
		BranchID: branch.ID,
		UserID:   user.ID,
	})
	return &branch, nil
}

// List lista todas las sedes.
func (uc *BranchUseCase) List() []entity.Branch {
	return uc.catalog.Snapshot().Branches
}

// Rename cambia el nombre de una sede.
func (uc *BranchUseCase) Rename(ctx context.Context, user entity.User, id string, in dto.BranchRequest) (*entity.Branch, error) {
	if !user.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	var updated entity.Branch
	err := uc.catalog.Mutate(ctx, repository.CollectionBranches, func(s *catalog.Snapshot) error {
		for i := range s.Branches {
			if s.Branches[i].ID == id {
				s.Branches[i].Name = name
				updated = s.Branches[i]
				return nil
			}
		}
		return domain.ErrBranchNotFound
	})
	if err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, audit.Entry{
		Action:   entity.ActionBranchEdited,
		Details:  fmt.Sprintf("Branch ID %q renamed to %q.", id, name),
		BranchID: id,
		UserID:   user.ID,
	})
	return &updated, nil
}

// Delete elimina una sede sin stock positivo y sin usuarios asignados. La baja queda firme y
// auditada con el guardado de la colección de sedes; la limpieza posterior de los StockLevel
// vacíos es accesoria y si falla solo se registra.
func (uc *BranchUseCase) Delete(ctx context.Context, user entity.User, id string) error {
	if !user.IsAdmin() {
		return domain.ErrForbidden
	}
	var branch entity.Branch
	err := uc.catalog.Mutate(ctx, repository.CollectionBranches, func(s *catalog.Snapshot) error {
		b, ok := s.Branch(id)
		if !ok {
			return domain.ErrBranchNotFound
		}
		for _, p := range s.Products {
			if inventory.HasStockAt(p, id) {
				return fmt.Errorf("%w: la sede %q tiene stock del producto %q", domain.ErrReferentialConflict, b.Name, p.Name)
			}
		}
		for _, u := range s.Users {
			if u.BranchID == id {
				return fmt.Errorf("%w: la sede %q tiene usuarios asignados", domain.ErrReferentialConflict, b.Name)
			}
		}
		branch = b
		kept := s.Branches[:0]
		for _, sb := range s.Branches {
			if sb.ID != id {
				kept = append(kept, sb)
			}
		}
		s.Branches = kept
		return nil
	})
	if err != nil {
		return err
	}
	uc.recorder.Record(ctx, audit.Entry{
		Action:   entity.ActionBranchDeleted,
		Details:  fmt.Sprintf("Branch %q (ID: %s) was deleted.", branch.Name, id),
		BranchID: id,
		UserID:   user.ID,
	})

	err = uc.catalog.Mutate(ctx, repository.CollectionProducts, func(s *catalog.Snapshot) error {
		for i := range s.Products {
			levels := s.Products[i].StockLevels[:0]
			for _, sl := range s.Products[i].StockLevels {
				if sl.BranchID != id {
					levels = append(levels, sl)
				}
			}
			s.Products[i].StockLevels = levels
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("branch_id", id).Msg("sede eliminada; no se pudieron limpiar sus StockLevel vacíos")
	}
	return nil
}
