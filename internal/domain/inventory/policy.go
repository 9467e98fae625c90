package inventory

import (
	"sort"

	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
)

// Policy orden en que se agotan los lotes de una sede al consumir.
type Policy int

const (
	// PolicyFEFO primero lo que vence primero; lotes sin vencimiento al final. Desempate por fecha de ingreso.
	PolicyFEFO Policy = iota
	// PolicyFIFO primero lo que ingresó primero, sin mirar el vencimiento.
	PolicyFIFO
)

func (p Policy) String() string {
	switch p {
	case PolicyFIFO:
		return "FIFO"
	default:
		return "FEFO"
	}
}

// ParsePolicy acepta "FEFO" o "FIFO"; vacío = FEFO.
func ParsePolicy(s string) (Policy, bool) {
	switch s {
	case "", "FEFO", "fefo":
		return PolicyFEFO, true
	case "FIFO", "fifo":
		return PolicyFIFO, true
	}
	return PolicyFEFO, false
}

// Order devuelve una copia de los lotes en el orden de consumo de la política.
func (p Policy) Order(batches []entity.Batch) []entity.Batch {
	out := append([]entity.Batch(nil), batches...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if p == PolicyFEFO {
			switch {
			case a.ExpiryDate != nil && b.ExpiryDate == nil:
				return true
			case a.ExpiryDate == nil && b.ExpiryDate != nil:
				return false
			case a.ExpiryDate != nil && !a.ExpiryDate.Equal(*b.ExpiryDate):
				return a.ExpiryDate.Before(*b.ExpiryDate)
			}
		}
		return a.DateReceived.Before(b.DateReceived)
	})
	return out
}
