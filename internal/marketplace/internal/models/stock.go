package models

import "errors"

// ErrInsufficientStock is returned by stores when a conditional decrement
// matches no row because the requested quantity exceeds the available stock.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrOrderChanged is returned by stores when a guarded status update matches
// no row because a concurrent transition got there first.
var ErrOrderChanged = errors.New("order changed concurrently")

type StockSeverity string

const (
	StockWarning  StockSeverity = "WARNING"
	StockCritical StockSeverity = "CRITICAL"
)

// StockMovement describes one committed decrement of a product's stock.
type StockMovement struct {
	ProductID    int64 `json:"product_id"`
	StockBefore  int   `json:"stock_before"`
	StockAfter   int   `json:"stock_after"`
	MinimumStock int   `json:"-"`
}

// IsLowStock reports whether the product dropped below its minimum after
// the movement.
func (m StockMovement) IsLowStock() bool {
	return m.StockAfter < m.MinimumStock
}

// LowStockAlert is one row of the low stock report.
type LowStockAlert struct {
	Product      Product       `json:"product"`
	CurrentStock int           `json:"current_stock"`
	MinimumStock int           `json:"minimum_stock"`
	Severity     StockSeverity `json:"severity"`
}
