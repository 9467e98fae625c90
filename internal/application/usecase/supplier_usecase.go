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
	"github.com/jhoicas/clinic-inventory-api/internal/domain/repository"
)

// SupplierUseCase alta, edición y baja de proveedores, más el interruptor de pedido rápido.
type SupplierUseCase struct {
	catalog  *catalog.Catalog
	recorder *audit.Recorder
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(cat *catalog.Catalog, recorder *audit.Recorder) *SupplierUseCase {
	return &SupplierUseCase{catalog: cat, recorder: recorder}
}

func (uc *SupplierUseCase) Create(ctx context.Context, user entity.User, in dto.SupplierRequest) (*entity.Supplier, error) {
	if !user.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	supplier := entity.Supplier{
		ID:                  uuid.New().String(),
		Name:                name,
		ContactEmail:        strings.TrimSpace(in.ContactEmail),
		QuickReorderEnabled: in.QuickReorderEnabled,
	}
	if err := uc.catalog.Mutate(ctx, repository.CollectionSuppliers, func(s *catalog.Snapshot) error {
		s.Suppliers = append(s.Suppliers, supplier)
		return nil
	}); err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, audit.Entry{
		Action:  entity.ActionSupplierAdded,
		Details: fmt.Sprintf("New supplier %q added.", name),
		UserID:  user.ID,
	})
	return &supplier, nil
}

func (uc *SupplierUseCase) List() []entity.Supplier {
	return uc.catalog.Snapshot().Suppliers
}

func (uc *SupplierUseCase) GetByID(id string) (*entity.Supplier, error) {
	s, ok := uc.catalog.Snapshot().Supplier(id)
	if !ok {
		return nil, domain.ErrSupplierNotFound
	}
	return &s, nil
}

// Update reemplaza nombre, email y pedido rápido.
func (uc *SupplierUseCase) Update(ctx context.Context, user entity.User, id string, in dto.SupplierRequest) (*entity.Supplier, error) {
	if !user.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	updated, err := uc.modify(ctx, id, func(sp *entity.Supplier) {
		sp.Name = name
		sp.ContactEmail = strings.TrimSpace(in.ContactEmail)
		sp.QuickReorderEnabled = in.QuickReorderEnabled
	})
	if err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, audit.Entry{
		Action:  entity.ActionSupplierEdited,
		Details: fmt.Sprintf("Supplier ID %q details updated.", id),
		UserID:  user.ID,
	})
	return updated, nil
}

// SetQuickReorder activa o desactiva el botón de pedido rápido para los productos del proveedor.
func (uc *SupplierUseCase) SetQuickReorder(ctx context.Context, user entity.User, id string, enabled bool) (*entity.Supplier, error) {
	if !user.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	updated, err := uc.modify(ctx, id, func(sp *entity.Supplier) { sp.QuickReorderEnabled = enabled })
	if err != nil {
		return nil, err
	}
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	uc.recorder.Record(ctx, audit.Entry{
		Action:  entity.ActionSupplierEdited,
		Details: fmt.Sprintf("Quick reorder %s for supplier ID %q.", state, id),
		UserID:  user.ID,
	})
	return updated, nil
}

// Delete elimina un proveedor que no tenga productos asociados.
func (uc *SupplierUseCase) Delete(ctx context.Context, user entity.User, id string) error {
	if !user.IsAdmin() {
		return domain.ErrForbidden
	}
	var name string
	err := uc.catalog.Mutate(ctx, repository.CollectionSuppliers, func(s *catalog.Snapshot) error {
		sp, ok := s.Supplier(id)
		if !ok {
			return domain.ErrSupplierNotFound
		}
		count := 0
		for _, p := range s.Products {
			if p.SupplierID == id {
				count++
			}
		}
		if count > 0 {
			return fmt.Errorf("%w: el proveedor %q tiene %d productos asociados", domain.ErrReferentialConflict, sp.Name, count)
		}
		name = sp.Name
		kept := s.Suppliers[:0]
		for _, x := range s.Suppliers {
			if x.ID != id {
				kept = append(kept, x)
			}
		}
		s.Suppliers = kept
		return nil
	})
	if err != nil {
		return err
	}
	uc.recorder.Record(ctx, audit.Entry{
		Action:  entity.ActionSupplierDeleted,
		Details: fmt.Sprintf("Supplier %q (ID: %s) was deleted.", name, id),
		UserID:  user.ID,
	})
	return nil
}

func (uc *SupplierUseCase) modify(ctx context.Context, id string, fn func(*entity.Supplier)) (*entity.Supplier, error) {
	var updated entity.Supplier
	err := uc.catalog.Mutate(ctx, repository.CollectionSuppliers, func(s *catalog.Snapshot) error {
		for i := range s.Suppliers {
			if s.Suppliers[i].ID == id {
				fn(&s.Suppliers[i])
				updated = s.Suppliers[i]
				return nil
			}
		}
		return domain.ErrSupplierNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
