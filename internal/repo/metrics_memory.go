package repo

import "context"

type InMemoryMetricsRepository struct {
	productRepo  ProductRepository
	purchaseRepo PurchaseRepository
}

func NewInMemoryMetricsRepository(productRepo ProductRepository, purchaseRepo PurchaseRepository) *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{
		productRepo:  productRepo,
		purchaseRepo: purchaseRepo,
	}
}

// GetDashboardMetrics implements MetricsRepository.
func (i *InMemoryMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	m := Metrics{}

	products, err := i.productRepo.GetAll(ctx)
	if err != nil {
		return m, err
	}
	m.TotalProducts = len(products)

	for _, product := range products {
		_, count, err := i.purchaseRepo.GetByProductID(ctx, product.ID, PurchaseFilter{})
		if err != nil {
			return m, err
		}
		m.TotalPurchases += count
		if count > m.MostPurchasedProduct.PurchaseCount {
			m.MostPurchasedProduct = MostPurchasedProduct{ID: product.ID, Name: product.Name, PurchaseCount: count}
		}

		switch {
		case product.Stock == 0:
			m.OutOfStockCount++
		case product.LowStock():
			m.LowStockCount++
		}
	}

	return m, nil
}
