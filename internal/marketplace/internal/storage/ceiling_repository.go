package storage

import (
	"context"
	"database/sql"
	"errors"
	"farmmarket_api/internal/marketplace/internal/models"
	"fmt"
	"log"
	"time"
)

type CeilingRepository struct {
	db *sql.DB
}

func NewCeilingRepository(db *sql.DB) *CeilingRepository {
	log.Println("Successfully created price ceiling repository")
	return &CeilingRepository{db: db}
}

// ActiveCeiling picks the newest active ceiling whose window covers the
// given moment. Categories without one have no price limit.
func (r *CeilingRepository) ActiveCeiling(ctx context.Context, category string, at time.Time) (*models.PriceCeiling, error) {
	query := `
		SELECT ceiling_id, category, ceiling_price, active, start_date, end_date, created_at
		FROM marketplace.price_ceilings
		WHERE category = $1 AND active
			AND (start_date IS NULL OR start_date <= $2)
			AND (end_date IS NULL OR end_date >= $2)
		ORDER BY created_at DESC
		LIMIT 1
		`
	var c models.PriceCeiling
	err := r.db.QueryRowContext(ctx, query, category, at).Scan(
		&c.ID, &c.Category, &c.CeilingPrice, &c.Active, &c.StartDate, &c.EndDate, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get price ceiling: %w", err)
	}
	return &c, nil
}

// ReplaceCeiling deactivates the category's current ceiling and inserts the
// new one in a single transaction, so the old row stays as history.
func (r *CeilingRepository) ReplaceCeiling(ctx context.Context, c *models.PriceCeiling) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"UPDATE marketplace.price_ceilings SET active = FALSE WHERE category = $1 AND active",
		c.Category)
	if err != nil {
		return fmt.Errorf("failed to deactivate prior ceiling: %w", err)
	}

	query := `
		INSERT INTO marketplace.price_ceilings (category, ceiling_price, active, start_date, end_date, created_at)
		VALUES ($1, $2, TRUE, $3, $4, current_timestamp)
		RETURNING ceiling_id, created_at
		`
	err = tx.QueryRowContext(ctx, query, c.Category, c.CeilingPrice, c.StartDate, c.EndDate).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert price ceiling: %w", err)
	}
	c.Active = true

	return tx.Commit()
}
