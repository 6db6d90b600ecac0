package repo

import (
	"context"
	"sync"

	"github.com/rogerio-castellano/inventory-system/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	order    []string
	products map[string]models.Product
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: map[string]models.Product{},
	}
}

// Save inserts the product or overwrites the one stored under the same ID.
func (r *InMemoryProductRepository) Save(_ context.Context, product models.Product) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.products[product.ID]
	if !exists {
		r.order = append(r.order, product.ID)
	}
	r.products[product.ID] = product
	return exists, nil
}

// GetAll retrieves all products in catalog order.
func (r *InMemoryProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]models.Product, 0, len(r.order))
	for _, id := range r.order {
		products = append(products, r.products[id])
	}
	return products, nil
}

// GetByID retrieves a product by its ID.
func (r *InMemoryProductRepository) GetByID(_ context.Context, id string) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

// DecrementStock removes quantity units from the product's stock.
func (r *InMemoryProductRepository) DecrementStock(_ context.Context, id string, quantity int) (models.Product, error) {
	if quantity <= 0 {
		return models.Product{}, ErrInvalidQuantityChange
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	if p.Stock < quantity {
		return models.Product{}, ErrInsufficientStock
	}

	p.Stock -= quantity
	r.products[id] = p
	return p, nil
}

func (r *InMemoryProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = nil
	r.products = map[string]models.Product{}
}
