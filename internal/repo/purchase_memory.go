package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/rogerio-castellano/inventory-system/internal/models"
)

type InMemoryPurchaseRepository struct {
	mu        sync.RWMutex
	purchases []models.Purchase
}

func NewInMemoryPurchaseRepository() *InMemoryPurchaseRepository {
	return &InMemoryPurchaseRepository{
		purchases: []models.Purchase{},
	}
}

// Log appends a purchase record
func (r *InMemoryPurchaseRepository) Log(_ context.Context, purchase models.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purchases = append(r.purchases, purchase)
	return nil
}

// GetByProductID returns the purchases of a product, newest first, paginated
func (r *InMemoryPurchaseRepository) GetByProductID(_ context.Context, productID string, pf PurchaseFilter) ([]models.Purchase, int, error) {
	if pf.Offset != nil && *pf.Offset < 0 {
		return nil, 0, fmt.Errorf("offset must be non-negative")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	filtered := []models.Purchase{}
	for i := len(r.purchases) - 1; i >= 0; i-- {
		if r.purchases[i].ProductID == productID {
			filtered = append(filtered, r.purchases[i])
		}
	}

	start := clamp(pf.offset(), 0, len(filtered))
	end := clamp(start+pf.limit(), start, len(filtered))

	return filtered[start:end], len(filtered), nil
}

func (r *InMemoryPurchaseRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purchases = []models.Purchase{}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
