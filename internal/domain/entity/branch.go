package entity

// Branch sede de la clínica donde se almacena inventario.
type Branch struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (b Branch) EntityID() string { return b.ID }
