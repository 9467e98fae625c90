package catalog

import (
	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
)

// Snapshot copia consistente del catálogo compartido.
type Snapshot struct {
	Products  []entity.Product  `json:"products"`
	Branches  []entity.Branch   `json:"branches"`
	Suppliers []entity.Supplier `json:"suppliers"`
	Users     []entity.User     `json:"users"`
}

// Clone copia profunda: quien recibe un Snapshot puede modificarlo sin afectar al catálogo.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Branches:  append([]entity.Branch(nil), s.Branches...),
		Suppliers: append([]entity.Supplier(nil), s.Suppliers...),
		Users:     append([]entity.User(nil), s.Users...),
	}
	if s.Products != nil {
		out.Products = make([]entity.Product, len(s.Products))
		for i, p := range s.Products {
			out.Products[i] = p.Clone()
		}
	}
	return out
}

func (s Snapshot) ProductIndex(id string) int {
	for i, p := range s.Products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s Snapshot) Product(id string) (entity.Product, bool) {
	if i := s.ProductIndex(id); i >= 0 {
		return s.Products[i], true
	}
	return entity.Product{}, false
}

func (s Snapshot) Branch(id string) (entity.Branch, bool) {
	for _, b := range s.Branches {
		if b.ID == id {
			return b, true
		}
	}
	return entity.Branch{}, false
}

func (s Snapshot) Supplier(id string) (entity.Supplier, bool) {
	for _, sp := range s.Suppliers {
		if sp.ID == id {
			return sp, true
		}
	}
	return entity.Supplier{}, false
}

func (s Snapshot) User(id string) (entity.User, bool) {
	for _, u := range s.Users {
		if u.ID == id {
			return u, true
		}
	}
	return entity.User{}, false
}

// UserByUsername búsqueda exacta por nombre de usuario.
func (s Snapshot) UserByUsername(username string) (entity.User, bool) {
	for _, u := range s.Users {
		if u.Username == username {
			return u, true
		}
	}
	return entity.User{}, false
}

// BranchName nombre de la sede o su id si no existe.
func (s Snapshot) BranchName(id string) string {
	if b, ok := s.Branch(id); ok {
		return b.Name
	}
	return id
}
