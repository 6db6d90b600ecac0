package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/inventory-system/internal/models"
)

// ProductRepository defines the interface for the product catalog.
//
// GetAll returns products in catalog order: the order in which each ID was
// first saved. Overwriting an existing ID keeps its position.
type ProductRepository interface {
	Save(ctx context.Context, product models.Product) (replaced bool, err error)
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (models.Product, error)
	DecrementStock(ctx context.Context, id string, quantity int) (models.Product, error)
}

var (
	// ErrProductNotFound is returned when a product is not found in the repository.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned when a decrement would take stock below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidQuantityChange is returned for non-positive decrements.
	ErrInvalidQuantityChange = errors.New("quantity change must be positive")
)
