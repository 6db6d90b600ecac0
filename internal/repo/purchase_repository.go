package repo

import (
	"context"

	"github.com/rogerio-castellano/inventory-system/internal/models"
)

// PurchaseRepository keeps the log of successful purchases.
type PurchaseRepository interface {
	Log(ctx context.Context, purchase models.Purchase) error
	GetByProductID(ctx context.Context, productID string, pf PurchaseFilter) ([]models.Purchase, int, error)
}
