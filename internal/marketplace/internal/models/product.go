package models

import (
	"github.com/shopspring/decimal"
	"time"
)

type ProductStatus string

const (
	ProductPending  ProductStatus = "PENDING"
	ProductActive   ProductStatus = "ACTIVE"
	ProductInactive ProductStatus = "INACTIVE"
	ProductExpired  ProductStatus = "EXPIRED"
	ProductRejected ProductStatus = "REJECTED"
)

// Product is a seller listing. StockLevel is owned exclusively by the stock
// ledger; nothing else may write it.
type Product struct {
	ID           int64           `json:"id"`
	SellerID     int64           `json:"seller_id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	StockLevel   int             `json:"stock_level"`
	MinimumStock int             `json:"minimum_stock"`
	Status       ProductStatus   `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
