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
)

// ProductUseCase casos de uso CRUD para productos. El stock solo cambia vía el ledger.
type ProductUseCase struct {
	catalog  *catalog.Catalog
	recorder *audit.Recorder
	today    func() entity.Date
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(cat *catalog.Catalog, recorder *audit.Recorder) *ProductUseCase {
	return &ProductUseCase{catalog: cat, recorder: recorder, today: entity.Today}
}

// Create crea un producto. El stock inicial entra como recepciones del ledger.
func (uc *ProductUseCase) Create(ctx context.Context, user entity.User, in dto.CreateProductRequest) (*entity.Product, error) {
	if !user.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	if in.PurchasePrice != nil && in.PurchasePrice.IsNegative() {
		return nil, fmt.Errorf("%w: el precio de compra no puede ser negativo", domain.ErrInvalidInput)
	}

	product := entity.Product{
		ID:            uuid.New().String(),
		Name:          name,
		SupplierID:    in.SupplierID,
		MinStockLevel: in.MinStockLevel,
		PurchasePrice: in.PurchasePrice,
		StockLevels:   []entity.StockLevel{},
	}

	err := uc.catalog.Mutate(ctx, repository.CollectionProducts, func(s *catalog.Snapshot) error {
		if _, ok := s.Supplier(in.SupplierID); !ok {
			return fmt.Errorf("%w: %s", domain.ErrSupplierNotFound, in.SupplierID)
		}
		for _, st := range in.InitialStock {
			if _, ok := s.Branch(st.BranchID); !ok {
				return fmt.Errorf("%w: %s", domain.ErrBranchNotFound, st.BranchID)
			}
			var expiry *entity.Date
			if st.ExpiryDate != "" {
				d, err := entity.ParseDate(st.ExpiryDate)
				if err != nil {
					return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
				}
				expiry = &d
			}
			next, err := inventory.Receive(product, inventory.ReceiveInput{
				BranchID:     st.BranchID,
				Quantity:     st.Quantity,
				ExpiryDate:   expiry,
				ReceivedDate: uc.today(),
			})
			if err != nil {
				return err
			}
			product = next
		}
		s.Products = append(s.Products, product)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(ctx, audit.Entry{
		Action:    entity.ActionProductAdded,
		Details:   fmt.Sprintf("New product %q created.", product.Name),
		ProductID: product.ID,
		UserID:    user.ID,
	})
	return &product, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*entity.Product, error) {
	p, ok := uc.catalog.Snapshot().Product(id)
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

// Update actualiza datos maestros. No toca stock ni historiales.
func (uc *ProductUseCase) Update(ctx context.Context, user entity.User, id string, in dto.UpdateProductRequest) (*entity.Product, error) {
	if !user.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	var updated entity.Product
	err := uc.catalog.Mutate(ctx, repository.CollectionProducts, func(s *catalog.Snapshot) error {
		idx := s.ProductIndex(id)
		if idx < 0 {
			return domain.ErrProductNotFound
		}
		p := s.Products[idx]
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
			}
			p.Name = name
		}
		if in.SupplierID != nil {
			if _, ok := s.Supplier(*in.SupplierID); !ok {
				return fmt.Errorf("%w: %s", domain.ErrSupplierNotFound, *in.SupplierID)
			}
			p.SupplierID = *in.SupplierID
		}
		if in.MinStockLevel != nil {
			v := *in.MinStockLevel
			p.MinStockLevel = &v
		}
		if in.PurchasePrice != nil {
			if in.PurchasePrice.IsNegative() {
				return fmt.Errorf("%w: el precio de compra no puede ser negativo", domain.ErrInvalidInput)
			}
			v := *in.PurchasePrice
			p.PurchasePrice = &v
		}
		s.Products[idx] = p
		updated = p.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(ctx, audit.Entry{
		Action:    entity.ActionProductEdited,
		Details:   fmt.Sprintf("Product %q (ID: %s) updated.", updated.Name, updated.ID),
		ProductID: updated.ID,
		UserID:    user.ID,
	})
	return &updated, nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(limit, offset int) ([]entity.Product, int) {
	products := uc.catalog.Snapshot().Products
	return paginate(products, limit, offset), len(products)
}

// Delete elimina un producto solo si no tiene stock en ninguna sede.
func (uc *ProductUseCase) Delete(ctx context.Context, user entity.User, id string) error {
	if !user.IsAdmin() {
		return domain.ErrForbidden
	}
	var name string
	err := uc.catalog.Mutate(ctx, repository.CollectionProducts, func(s *catalog.Snapshot) error {
		idx := s.ProductIndex(id)
		if idx < 0 {
			return domain.ErrProductNotFound
		}
		if total := inventory.ProductTotal(s.Products[idx]); total > 0 {
			return fmt.Errorf("%w: el producto tiene %d unidades en stock", domain.ErrReferentialConflict, total)
		}
		name = s.Products[idx].Name
		s.Products = append(s.Products[:idx], s.Products[idx+1:]...)
		return nil
	})
	if err != nil {
		return err
	}

	uc.recorder.Record(ctx, audit.Entry{
		Action:    entity.ActionProductDeleted,
		Details:   fmt.Sprintf("Product %q (ID: %s) was deleted.", name, id),
		ProductID: id,
		UserID:    user.ID,
	})
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
