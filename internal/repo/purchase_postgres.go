package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rogerio-castellano/inventory-system/internal/models"
)

type PostgresPurchaseRepository struct {
	db *sql.DB
}

func NewPostgresPurchaseRepository(db *sql.DB) *PostgresPurchaseRepository {
	return &PostgresPurchaseRepository{db: db}
}

// Log inserts a new purchase record
func (r *PostgresPurchaseRepository) Log(ctx context.Context, p models.Purchase) error {
	query := `INSERT INTO purchases (id, product_id, quantity, remaining, created_at) VALUES ($1, $2, $3, $4, $5)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, query, p.ID, p.ProductID, p.Quantity, p.Remaining, p.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("failed to insert purchase: %w", err)
	}
	return nil
}

// GetByProductID returns the purchases of a product, newest first
func (r *PostgresPurchaseRepository) GetByProductID(ctx context.Context, productID string, pf PurchaseFilter) ([]models.Purchase, int, error) {
	if pf.Offset != nil && *pf.Offset < 0 {
		return nil, 0, fmt.Errorf("offset must be non-negative")
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM purchases WHERE product_id = $1`, productID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to get total count: %w", err)
	}

	if pf.Offset != nil && *pf.Offset >= total {
		return []models.Purchase{}, total, nil
	}

	query := `
		SELECT id, product_id, quantity, remaining, created_at
		FROM purchases
		WHERE product_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, productID, pf.limit(), pf.offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	purchases := []models.Purchase{}
	for rows.Next() {
		var p models.Purchase
		if err := rows.Scan(&p.ID, &p.ProductID, &p.Quantity, &p.Remaining, &p.CreatedAt); err != nil {
			return nil, 0, err
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return purchases, total, nil
}
