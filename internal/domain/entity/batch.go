package entity

// Batch unidad mínima de stock trazable: una recepción con cantidad, vencimiento opcional y fecha de ingreso.
// Un lote existe solo mientras Quantity > 0.
type Batch struct {
	BatchID      string `json:"batch_id"`
	Quantity     int    `json:"quantity"`
	ExpiryDate   *Date  `json:"expiry_date,omitempty"`
	DateReceived Date   `json:"date_received"`
}

// StockLevel lotes de un producto en una sede. Sin StockLevel o con lista vacía = stock cero.
type StockLevel struct {
	BranchID string  `json:"branch_id"`
	Batches  []Batch `json:"batches"`
}

// Total suma de cantidades de los lotes.
func (s StockLevel) Total() int {
	total := 0
	for _, b := range s.Batches {
		total += b.Quantity
	}
	return total
}

// Clone copia profunda (las fechas de vencimiento son punteros).
func (s StockLevel) Clone() StockLevel {
	out := StockLevel{BranchID: s.BranchID}
	if s.Batches == nil {
		return out
	}
	out.Batches = make([]Batch, len(s.Batches))
	for i, b := range s.Batches {
		out.Batches[i] = b
		if b.ExpiryDate != nil {
			exp := *b.ExpiryDate
			out.Batches[i].ExpiryDate = &exp
		}
	}
	return out
}
