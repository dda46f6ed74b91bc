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

type ViolationRepository struct {
	db *sql.DB
}

func NewViolationRepository(db *sql.DB) *ViolationRepository {
	log.Println("Successfully created price violation repository")
	return &ViolationRepository{db: db}
}

const violationColumns = `violation_id, product_id, seller_id, listed_price, ceiling_price,
	overage_percent, status, is_resolved, resolved_at, resolved_by, admin_notes, created_at, updated_at`

func scanViolation(row interface{ Scan(...interface{}) error }) (*models.PriceViolation, error) {
	var v models.PriceViolation
	var resolvedBy, adminNotes sql.NullString
	err := row.Scan(
		&v.ID, &v.ProductID, &v.SellerID, &v.ListedPrice, &v.CeilingPrice,
		&v.OveragePercent, &v.Status, &v.IsResolved, &v.ResolvedAt,
		&resolvedBy, &adminNotes, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.ResolvedBy = resolvedBy.String
	v.AdminNotes = adminNotes.String
	return &v, nil
}

func (r *ViolationRepository) ViolationByID(ctx context.Context, id uuid.UUID) (*models.PriceViolation, error) {
	query := `
		SELECT ` + violationColumns + ` FROM marketplace.price_violations
		WHERE violation_id = $1
		`
	v, err := scanViolation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get violation: %w", err)
	}
	return v, nil
}

func (r *ViolationRepository) OpenViolationByProduct(ctx context.Context, productID int64) (*models.PriceViolation, error) {
	query := `
		SELECT ` + violationColumns + ` FROM marketplace.price_violations
		WHERE product_id = $1 AND NOT is_resolved
		`
	v, err := scanViolation(r.db.QueryRowContext(ctx, query, productID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open violation: %w", err)
	}
	return v, nil
}

func (r *ViolationRepository) CreateViolation(ctx context.Context, v *models.PriceViolation) error {
	query := `
		INSERT INTO marketplace.price_violations
		(violation_id, product_id, seller_id, listed_price, ceiling_price,
		 overage_percent, status, is_resolved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8, $9)
		`
	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.ProductID, v.SellerID, v.ListedPrice, v.CeilingPrice,
		v.OveragePercent, v.Status, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create violation: %w", err)
	}
	return nil
}

func (r *ViolationRepository) UpdateViolation(ctx context.Context, v *models.PriceViolation) error {
	query := `
		UPDATE marketplace.price_violations
		SET listed_price = $2, ceiling_price = $3, overage_percent = $4, status = $5,
			is_resolved = $6, resolved_at = $7, resolved_by = $8, admin_notes = $9, updated_at = $10
		WHERE violation_id = $1
		`
	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.ListedPrice, v.CeilingPrice, v.OveragePercent, v.Status,
		v.IsResolved, v.ResolvedAt, nullString(v.ResolvedBy), nullString(v.AdminNotes), v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update violation: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *ViolationRepository) queryViolations(ctx context.Context, query string, args ...interface{}) ([]models.PriceViolation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list violations: %w", err)
	}
	defer rows.Close()

	var violations []models.PriceViolation
	for rows.Next() {
		v, err := scanViolation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan violation: %w", err)
		}
		violations = append(violations, *v)
	}
	return violations, rows.Err()
}

func (r *ViolationRepository) OpenViolationsBySeller(ctx context.Context, sellerID int64) ([]models.PriceViolation, error) {
	query := `
		SELECT ` + violationColumns + ` FROM marketplace.price_violations
		WHERE seller_id = $1 AND NOT is_resolved
		ORDER BY created_at DESC
		`
	return r.queryViolations(ctx, query, sellerID)
}

func (r *ViolationRepository) ViolationsBySeller(ctx context.Context, sellerID int64) ([]models.PriceViolation, error) {
	query := `
		SELECT ` + violationColumns + ` FROM marketplace.price_violations
		WHERE seller_id = $1
		ORDER BY created_at
		`
	return r.queryViolations(ctx, query, sellerID)
}

func (r *ViolationRepository) CountOpenViolations(ctx context.Context) (warnings int, criticals int, err error) {
	query := `
		SELECT COUNT(*) FILTER (WHERE status = $1), COUNT(*) FILTER (WHERE status = $2)
		FROM marketplace.price_violations
		WHERE NOT is_resolved
		`
	err = r.db.QueryRowContext(ctx, query, models.ViolationWarning, models.ViolationCritical).
		Scan(&warnings, &criticals)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count open violations: %w", err)
	}
	return warnings, criticals, nil
}

func (r *ViolationRepository) CountActiveNonCompliant(ctx context.Context) (int, error) {
	var count int
	query := `
		SELECT COUNT(DISTINCT v.product_id)
		FROM marketplace.price_violations v
		JOIN marketplace.products p ON p.product_id = v.product_id
		WHERE NOT v.is_resolved AND p.status = $1
		`
	err := r.db.QueryRowContext(ctx, query, models.ProductActive).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count non-compliant products: %w", err)
	}
	return count, nil
}
