package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"time"
)

type ViolationStatus string

const (
	ViolationWarning  ViolationStatus = "WARNING"
	ViolationCritical ViolationStatus = "CRITICAL"
)

// PriceViolation records a listing priced above its category ceiling.
// Prices are snapshots taken at scan time; resolving a violation never
// touches the product itself. At most one open violation exists per product.
type PriceViolation struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      int64           `json:"product_id"`
	SellerID       int64           `json:"seller_id"`
	ListedPrice    decimal.Decimal `json:"listed_price"`
	CeilingPrice   decimal.Decimal `json:"ceiling_price"`
	OveragePercent decimal.Decimal `json:"overage_percent"`
	Status         ViolationStatus `json:"status"`
	IsResolved     bool            `json:"is_resolved"`
	ResolvedAt     *time.Time      `json:"resolved_at,omitempty"`
	ResolvedBy     string          `json:"resolved_by,omitempty"`
	AdminNotes     string          `json:"admin_notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
