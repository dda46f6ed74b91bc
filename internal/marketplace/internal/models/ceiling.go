package models

import (
	"github.com/shopspring/decimal"
	"time"
)

// PriceCeiling is an administrator-set maximum price for a category.
// Updates keep prior rows with Active=false, so the table doubles as history.
type PriceCeiling struct {
	ID           int64           `json:"id"`
	Category     string          `json:"category"`
	CeilingPrice decimal.Decimal `json:"ceiling_price"`
	Active       bool            `json:"active"`
	StartDate    *time.Time      `json:"start_date,omitempty"`
	EndDate      *time.Time      `json:"end_date,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// AppliesAt reports whether the ceiling is in force at the given moment.
// Nil window bounds mean open-ended.
func (c *PriceCeiling) AppliesAt(t time.Time) bool {
	if !c.Active {
		return false
	}
	if c.StartDate != nil && t.Before(*c.StartDate) {
		return false
	}
	if c.EndDate != nil && t.After(*c.EndDate) {
		return false
	}
	return true
}
