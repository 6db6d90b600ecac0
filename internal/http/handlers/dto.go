package handlers

import (
	"time"

	"github.com/rogerio-castellano/inventory-system/internal/models"
)

type ProductRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Stock       int    `json:"stock"`
	Threshold   int    `json:"threshold"`
	RestockDate string `json:"restock_date"`
	Category    string `json:"category"`
}

type ProductResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Stock       int    `json:"stock"`
	Threshold   int    `json:"threshold"`
	RestockDate string `json:"restock_date"`
	Category    string `json:"category"`
	LowStock    bool   `json:"low_stock,omitempty"`
	OutOfStock  bool   `json:"out_of_stock,omitempty"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Stock:       p.Stock,
		Threshold:   p.Threshold,
		RestockDate: p.RestockDate,
		Category:    p.Category,
		LowStock:    p.LowStock(),
		OutOfStock:  p.Stock == 0,
	}
}

func toProductResponses(products []models.Product) []ProductResponse {
	resp := make([]ProductResponse, len(products))
	for i, p := range products {
		resp[i] = toProductResponse(p)
	}
	return resp
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type PurchaseRequest struct {
	Quantity int `json:"quantity"`
}

type PurchaseResponse struct {
	ProductID       string            `json:"product_id"`
	Quantity        int               `json:"quantity"`
	Outcome         string            `json:"outcome"`
	Remaining       int               `json:"remaining"`
	Available       int               `json:"available"`
	LowStockAlert   bool              `json:"low_stock_alert,omitempty"`
	RestockDate     string            `json:"restock_date,omitempty"`
	Recommendations []ProductResponse `json:"recommendations,omitempty"`
	Messages        []string          `json:"messages"`
}

const (
	OutcomePurchased         = "purchased"
	OutcomeNotFound          = "not_found"
	OutcomeOutOfStock        = "out_of_stock"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeInvalidQuantity   = "invalid_quantity"
)

type PurchaseRecordResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Remaining int       `json:"remaining"`
	CreatedAt time.Time `json:"created_at"`
}

type PurchasesSearchResult struct {
	Data []PurchaseRecordResponse `json:"data"`
	Meta Meta                     `json:"meta,omitempty"`
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string `json:"token"`
}

type ImportProductsResult struct {
	ImportedProductsCount int                      `json:"imported"`
	Errors                []ProductValidationError `json:"errors"`
}
