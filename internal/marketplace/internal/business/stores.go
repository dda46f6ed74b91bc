package business

import (
	"context"
	"farmmarket_api/internal/marketplace/internal/models"
	"time"

	"github.com/google/uuid"
)

// ProductStore is the persistence surface the ledger and the compliance
// scanner need. Lookups return (nil, nil) when the row does not exist.
type ProductStore interface {
	ProductByID(ctx context.Context, id int64) (*models.Product, error)

	// ActiveProductsAfter returns up to limit ACTIVE products with id >
	// afterID, ordered by id. Used for keyset-paginated catalog scans.
	ActiveProductsAfter(ctx context.Context, afterID int64, limit int) ([]models.Product, error)

	// DecrementStock atomically subtracts quantity from the product's stock.
	// Returns models.ErrInsufficientStock when the conditional update matches
	// no row but the product exists, and (nil, nil) when the product is gone.
	DecrementStock(ctx context.Context, id int64, quantity int) (*models.StockMovement, error)

	// LowStockProducts returns ACTIVE products with stock below minimum.
	LowStockProducts(ctx context.Context) ([]models.Product, error)

	CountProducts(ctx context.Context) (total int, active int, err error)
	CountActiveBySeller(ctx context.Context, sellerID int64) (int, error)
	CountSellers(ctx context.Context) (int, error)
}

type CeilingStore interface {
	// ActiveCeiling returns the ceiling in force for the category at the
	// given moment, or (nil, nil) when the category has none.
	ActiveCeiling(ctx context.Context, category string, at time.Time) (*models.PriceCeiling, error)
}

type ViolationStore interface {
	ViolationByID(ctx context.Context, id uuid.UUID) (*models.PriceViolation, error)
	OpenViolationByProduct(ctx context.Context, productID int64) (*models.PriceViolation, error)
	CreateViolation(ctx context.Context, v *models.PriceViolation) error
	UpdateViolation(ctx context.Context, v *models.PriceViolation) error

	// OpenViolationsBySeller returns open violations, newest first.
	OpenViolationsBySeller(ctx context.Context, sellerID int64) ([]models.PriceViolation, error)
	// ViolationsBySeller returns the full history, oldest first.
	ViolationsBySeller(ctx context.Context, sellerID int64) ([]models.PriceViolation, error)

	CountOpenViolations(ctx context.Context) (warnings int, criticals int, err error)
	// CountActiveNonCompliant counts ACTIVE products with an open violation.
	CountActiveNonCompliant(ctx context.Context) (int, error)
}

// OrderStore persists order transitions. Both transition methods guard on
// the expected current status so a lost race surfaces as
// models.ErrOrderChanged instead of a double-applied transition.
type OrderStore interface {
	OrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)

	// TransitionOrder persists the order's fields with a guard on from.
	TransitionOrder(ctx context.Context, o *models.Order, from models.OrderStatus) error

	// FulfillOrder commits the stock decrement and the ACCEPTED->FULFILLED
	// status change as a single transaction. Returns
	// models.ErrInsufficientStock when stock ran out and
	// models.ErrOrderChanged when the order left the from state; either way
	// nothing is applied.
	FulfillOrder(ctx context.Context, o *models.Order, from models.OrderStatus) (*models.StockMovement, error)
}
