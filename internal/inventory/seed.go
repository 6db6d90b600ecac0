package inventory

import (
	"context"
	"fmt"

	"github.com/rogerio-castellano/inventory-system/internal/models"
)

// DemoProducts is the catalog used by the smoke demonstration.
func DemoProducts() []models.Product {
	return []models.Product{
		{ID: "P001", Name: "Widget", Stock: 5, Threshold: 2, RestockDate: "2025-07-01", Category: "Tools"},
		{ID: "P002", Name: "Gadget", Stock: 0, Threshold: 3, RestockDate: "2025-07-10", Category: "Tools"},
		{ID: "P003", Name: "Thingamajig", Stock: 3, Threshold: 1, RestockDate: "2025-07-05", Category: "Tools"},
		{ID: "P004", Name: "Toolbox", Stock: 10, Threshold: 5, RestockDate: "2025-07-15", Category: "Tools"},
	}
}

// Seed adds every product in order.
func (s *InventoryService) Seed(ctx context.Context, products []models.Product) error {
	for _, p := range products {
		if err := s.AddProduct(ctx, p); err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
	}
	return nil
}

// RunDemo seeds the demo catalog and issues the two fixed purchases: an out
// of stock request and one that triggers a low stock alert.
func (s *InventoryService) RunDemo(ctx context.Context) error {
	if err := s.Seed(ctx, DemoProducts()); err != nil {
		return err
	}
	_, _ = s.PurchaseProduct(ctx, "P002", 1)
	_, _ = s.PurchaseProduct(ctx, "P001", 4)
	return nil
}
