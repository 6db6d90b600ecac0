package models

import "time"

type Purchase struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Remaining int       `json:"remaining"`
	CreatedAt time.Time `json:"created_at"`
}
