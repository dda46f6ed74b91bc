package storage

import (
	"context"
	"database/sql"
	"errors"
	"farmmarket_api/internal/marketplace/internal/models"
	"fmt"
	"log"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	log.Println("Successfully created marketplace product repository")
	return &ProductRepository{db: db}
}

const productColumns = `product_id, seller_id, name, category, price, stock_level, minimum_stock, status, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID, &p.SellerID, &p.Name, &p.Category, &p.Price,
		&p.StockLevel, &p.MinimumStock, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) ProductByID(ctx context.Context, id int64) (*models.Product, error) {
	query := `
		SELECT ` + productColumns + ` FROM marketplace.products
		WHERE product_id = $1
		`
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (r *ProductRepository) ActiveProductsAfter(ctx context.Context, afterID int64, limit int) ([]models.Product, error) {
	query := `
		SELECT ` + productColumns + ` FROM marketplace.products
		WHERE status = $1 AND product_id > $2
		ORDER BY product_id
		LIMIT $3
		`
	rows, err := r.db.QueryContext(ctx, query, models.ProductActive, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list active products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// DecrementStock runs the single conditional update that keeps stock
// non-negative under concurrent fulfillment. Zero affected rows with an
// existing product means the stock moved under us.
func (r *ProductRepository) DecrementStock(ctx context.Context, id int64, quantity int) (*models.StockMovement, error) {
	query := `
		UPDATE marketplace.products
		SET stock_level = stock_level - $2, updated_at = current_timestamp
		WHERE product_id = $1 AND stock_level >= $2
		RETURNING stock_level, minimum_stock
		`
	var after, minimum int
	err := r.db.QueryRowContext(ctx, query, id, quantity).Scan(&after, &minimum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			exists, existsErr := r.productExists(ctx, id)
			if existsErr != nil {
				return nil, existsErr
			}
			if !exists {
				return nil, nil
			}
			return nil, models.ErrInsufficientStock
		}
		return nil, fmt.Errorf("failed to decrement stock: %w", err)
	}

	return &models.StockMovement{
		ProductID:    id,
		StockBefore:  after + quantity,
		StockAfter:   after,
		MinimumStock: minimum,
	}, nil
}

func (r *ProductRepository) productExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM marketplace.products WHERE product_id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return exists, nil
}

func (r *ProductRepository) LowStockProducts(ctx context.Context) ([]models.Product, error) {
	query := `
		SELECT ` + productColumns + ` FROM marketplace.products
		WHERE status = $1 AND stock_level < minimum_stock
		ORDER BY product_id
		`
	rows, err := r.db.QueryContext(ctx, query, models.ProductActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) CountProducts(ctx context.Context) (total int, active int, err error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = $1)
		FROM marketplace.products
		`
	err = r.db.QueryRowContext(ctx, query, models.ProductActive).Scan(&total, &active)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, active, nil
}

func (r *ProductRepository) CountActiveBySeller(ctx context.Context, sellerID int64) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM marketplace.products
		WHERE seller_id = $1 AND status = $2
		`
	err := r.db.QueryRowContext(ctx, query, sellerID, models.ProductActive).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count seller listings: %w", err)
	}
	return count, nil
}

func (r *ProductRepository) CountSellers(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT seller_id) FROM marketplace.products").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sellers: %w", err)
	}
	return count, nil
}

func (r *ProductRepository) Close() error {
	return r.db.Close()
}
