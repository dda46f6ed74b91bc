package storage

import (
	"context"
	"database/sql"
	"errors"
	"farmmarket_api/internal/marketplace/internal/models"
	"fmt"
	"log"

	"github.com/google/uuid"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	log.Println("Successfully created order repository")
	return &OrderRepository{db: db}
}

const orderColumns = `order_id, buyer_id, seller_id, product_id, quantity, price_per_unit,
	total_amount, status, rejection_reason, cancelled_by, created_at, accepted_at,
	fulfilled_at, delivered_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*models.Order, error) {
	var o models.Order
	var rejectionReason, cancelledBy sql.NullString
	err := row.Scan(
		&o.ID, &o.BuyerID, &o.SellerID, &o.ProductID, &o.Quantity, &o.PricePerUnit,
		&o.TotalAmount, &o.Status, &rejectionReason, &cancelledBy, &o.CreatedAt,
		&o.AcceptedAt, &o.FulfilledAt, &o.DeliveredAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.RejectionReason = rejectionReason.String
	o.CancelledBy = cancelledBy.String
	return &o, nil
}

func (r *OrderRepository) OrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `
		SELECT ` + orderColumns + ` FROM marketplace.orders
		WHERE order_id = $1
		`
	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// TransitionOrder persists the order guarded on its expected current status,
// so two racing transitions cannot both apply.
func (r *OrderRepository) TransitionOrder(ctx context.Context, o *models.Order, from models.OrderStatus) error {
	query := `
		UPDATE marketplace.orders
		SET status = $3, rejection_reason = $4, cancelled_by = $5,
			accepted_at = $6, fulfilled_at = $7, delivered_at = $8, updated_at = $9
		WHERE order_id = $1 AND status = $2
		`
	result, err := r.db.ExecContext(ctx, query,
		o.ID, from, o.Status, nullString(o.RejectionReason), nullString(o.CancelledBy),
		o.AcceptedAt, o.FulfilledAt, o.DeliveredAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to transition order: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return models.ErrOrderChanged
	}
	return nil
}

// FulfillOrder commits the conditional stock decrement and the order status
// change as one transaction. Zero affected rows on either statement rolls
// everything back.
func (r *OrderRepository) FulfillOrder(ctx context.Context, o *models.Order, from models.OrderStatus) (*models.StockMovement, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	decrement := `
		UPDATE marketplace.products
		SET stock_level = stock_level - $2, updated_at = current_timestamp
		WHERE product_id = $1 AND stock_level >= $2
		RETURNING stock_level, minimum_stock
		`
	var after, minimum int
	err = tx.QueryRowContext(ctx, decrement, o.ProductID, o.Quantity).Scan(&after, &minimum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrInsufficientStock
		}
		return nil, fmt.Errorf("failed to decrement stock: %w", err)
	}

	transition := `
		UPDATE marketplace.orders
		SET status = $3, fulfilled_at = $4, updated_at = $5
		WHERE order_id = $1 AND status = $2
		`
	result, err := tx.ExecContext(ctx, transition, o.ID, from, o.Status, o.FulfilledAt, o.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to transition order: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return nil, models.ErrOrderChanged
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit fulfillment: %w", err)
	}

	return &models.StockMovement{
		ProductID:    o.ProductID,
		StockBefore:  after + o.Quantity,
		StockAfter:   after,
		MinimumStock: minimum,
	}, nil
}
