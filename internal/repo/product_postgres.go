package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/inventory-system/internal/models"
)

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

// Save upserts the product. xmax is zero only for freshly inserted rows.
func (r *PostgresProductRepository) Save(ctx context.Context, p models.Product) (bool, error) {
	query := `
		INSERT INTO products (id, name, stock, threshold, restock_date, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, stock = EXCLUDED.stock, threshold = EXCLUDED.threshold,
			restock_date = EXCLUDED.restock_date, category = EXCLUDED.category
		RETURNING (xmax <> 0)
	`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var replaced bool
	err := r.db.QueryRowContext(ctx, query, p.ID, p.Name, p.Stock, p.Threshold, p.RestockDate, p.Category).Scan(&replaced)
	if err != nil {
		return false, fmt.Errorf("failed to save product %s: %w", p.ID, err)
	}
	return replaced, nil
}

func (r *PostgresProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	query := `SELECT id, name, stock, threshold, restock_date, category FROM products ORDER BY seq`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Stock, &p.Threshold, &p.RestockDate, &p.Category); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	query := `SELECT id, name, stock, threshold, restock_date, category FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var p models.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Stock, &p.Threshold, &p.RestockDate, &p.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

// DecrementStock relies on the conditional update so concurrent buyers cannot
// take stock below zero.
func (r *PostgresProductRepository) DecrementStock(ctx context.Context, id string, quantity int) (models.Product, error) {
	if quantity <= 0 {
		return models.Product{}, ErrInvalidQuantityChange
	}

	query := `
		UPDATE products
		SET stock = stock - $1
		WHERE id = $2 AND stock >= $1
		RETURNING id, name, stock, threshold, restock_date, category
	`
	qctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var p models.Product
	err := r.db.QueryRowContext(qctx, query, quantity, id).
		Scan(&p.ID, &p.Name, &p.Stock, &p.Threshold, &p.RestockDate, &p.Category)
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return models.Product{}, getErr
		}
		return models.Product{}, ErrInsufficientStock
	}
	return p, err
}
