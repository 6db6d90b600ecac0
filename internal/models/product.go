package models

// Product represents a product entity in the inventory system.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Stock       int    `json:"stock"`
	Threshold   int    `json:"threshold"`
	RestockDate string `json:"restock_date"`
	Category    string `json:"category"`
}

// LowStock reports whether the stock is at or below the alert threshold.
func (p Product) LowStock() bool {
	return p.Stock <= p.Threshold
}
