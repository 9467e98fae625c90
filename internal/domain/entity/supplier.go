package entity

// Supplier proveedor de insumos. QuickReorderEnabled habilita el pedido rápido desde sugerencias.
type Supplier struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	ContactEmail        string `json:"contact_email"`
	QuickReorderEnabled bool   `json:"quick_reorder_enabled"`
}

func (s Supplier) EntityID() string { return s.ID }
