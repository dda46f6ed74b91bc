package business

import (
	"context"
	"errors"
	"farmmarket_api/internal/marketplace/internal/models"
	"fmt"
	"log"
	"strconv"
)

// StockLedger is the sole authority over product stock. Every decrement goes
// through a single conditional update in the store, so stock can never go
// negative no matter how many fulfillments race.
type StockLedger struct {
	products ProductStore
}

func NewStockLedger(products ProductStore) *StockLedger {
	return &StockLedger{products: products}
}

type Availability struct {
	Available    bool `json:"available"`
	CurrentStock int  `json:"current_stock"`
	Shortage     int  `json:"shortage,omitempty"`
}

// CheckAvailability is a pure read; it reserves nothing.
func (l *StockLedger) CheckAvailability(ctx context.Context, productID int64, quantity int) (*Availability, error) {
	if quantity <= 0 {
		return nil, &ValidationError{Reason: "quantity must be positive"}
	}

	product, err := l.products.ProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, &NotFoundError{Entity: "product", ID: strconv.FormatInt(productID, 10)}
	}

	availability := &Availability{
		Available:    product.StockLevel >= quantity,
		CurrentStock: product.StockLevel,
	}
	if !availability.Available {
		availability.Shortage = quantity - product.StockLevel
	}
	return availability, nil
}

// Decrement subtracts quantity from the product's stock, failing with a
// ConflictError when the stock moved below the requested quantity between
// check and commit.
func (l *StockLedger) Decrement(ctx context.Context, productID int64, quantity int) (*models.StockMovement, error) {
	if quantity <= 0 {
		return nil, &ValidationError{Reason: "quantity must be positive"}
	}

	movement, err := l.products.DecrementStock(ctx, productID, quantity)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientStock) {
			return nil, &ConflictError{Reason: "insufficient stock"}
		}
		return nil, fmt.Errorf("failed to decrement stock: %w", err)
	}
	if movement == nil {
		return nil, &NotFoundError{Entity: "product", ID: strconv.FormatInt(productID, 10)}
	}

	if movement.IsLowStock() {
		log.Printf("Product %d dropped below minimum stock: %d < %d",
			productID, movement.StockAfter, movement.MinimumStock)
	}
	return movement, nil
}

// ScanLowStock reports ACTIVE products running low. CRITICAL means the stock
// is at or below half the minimum.
func (l *StockLedger) ScanLowStock(ctx context.Context) ([]models.LowStockAlert, error) {
	products, err := l.products.LowStockProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan low stock: %w", err)
	}

	alerts := make([]models.LowStockAlert, 0, len(products))
	for _, p := range products {
		if p.StockLevel >= p.MinimumStock {
			continue
		}
		severity := models.StockWarning
		if p.StockLevel <= p.MinimumStock/2 {
			severity = models.StockCritical
		}
		alerts = append(alerts, models.LowStockAlert{
			Product:      p,
			CurrentStock: p.StockLevel,
			MinimumStock: p.MinimumStock,
			Severity:     severity,
		})
	}
	return alerts, nil
}
