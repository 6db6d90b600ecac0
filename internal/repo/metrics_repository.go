package repo

import "context"

type MostPurchasedProduct struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PurchaseCount int    `json:"purchase_count"`
}

type Metrics struct {
	TotalProducts        int                  `json:"total_products"`
	TotalPurchases       int                  `json:"total_purchases"`
	LowStockCount        int                  `json:"low_stock_count"`
	OutOfStockCount      int                  `json:"out_of_stock_count"`
	MostPurchasedProduct MostPurchasedProduct `json:"most_purchased_product"`
}

type MetricsRepository interface {
	GetDashboardMetrics(ctx context.Context) (Metrics, error)
}
