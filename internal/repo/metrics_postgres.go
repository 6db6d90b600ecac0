package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type PostgresMetricsRepository struct {
	db *sql.DB
}

func NewPostgresMetricsRepository(db *sql.DB) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{db: db}
}

func (r *PostgresMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var m Metrics

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE stock = 0),
			COUNT(*) FILTER (WHERE stock > 0 AND stock <= threshold)
		FROM products
	`).Scan(&m.TotalProducts, &m.OutOfStockCount, &m.LowStockCount)
	if err != nil {
		return m, fmt.Errorf("failed to count products: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM purchases`).Scan(&m.TotalPurchases); err != nil {
		return m, fmt.Errorf("failed to count purchases: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT p.id, p.name, COUNT(*) AS cnt
		FROM purchases pu
		JOIN products p ON pu.product_id = p.id
		GROUP BY p.id, p.name, p.seq
		ORDER BY cnt DESC, p.seq
		LIMIT 1
	`).Scan(&m.MostPurchasedProduct.ID, &m.MostPurchasedProduct.Name, &m.MostPurchasedProduct.PurchaseCount)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return m, fmt.Errorf("failed to find most purchased product: %w", err)
	}

	return m, nil
}
