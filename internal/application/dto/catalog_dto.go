package dto

// BranchRequest alta o edición de una sede.
type BranchRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// SupplierRequest alta o edición de un proveedor.
type SupplierRequest struct {
	Name                string `json:"name" validate:"required,min=1,max=200"`
	ContactEmail        string `json:"contact_email" validate:"required,email"`
	QuickReorderEnabled bool   `json:"quick_reorder_enabled"`
}

// QuickReorderToggleRequest activa o desactiva el pedido rápido del proveedor.
type QuickReorderToggleRequest struct {
	Enabled bool `json:"enabled"`
}
