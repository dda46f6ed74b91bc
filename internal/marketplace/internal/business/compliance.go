package business

import (
	"context"
	"farmmarket_api/internal/marketplace/internal/models"
	"farmmarket_api/pkg/logger"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

var hundred = decimal.NewFromInt(100)

// PriceComplianceChecker scans the active catalog against category price
// ceilings and maintains at most one open violation per product.
type PriceComplianceChecker struct {
	products   ProductStore
	ceilings   CeilingStore
	violations ViolationStore

	batchSize       int
	limiter         *rate.Limiter
	criticalOverage decimal.Decimal
	log             logger.Logger
}

// NewPriceComplianceChecker builds a checker scanning batchSize products at
// a time, at most batchesPerSecond batches per second. Overage strictly
// above criticalOveragePct is CRITICAL; exactly at the threshold it stays
// WARNING.
func NewPriceComplianceChecker(
	products ProductStore,
	ceilings CeilingStore,
	violations ViolationStore,
	batchSize int,
	batchesPerSecond float64,
	criticalOveragePct float64,
	writer io.Writer,
) *PriceComplianceChecker {
	if batchSize <= 0 {
		batchSize = 200
	}
	if batchesPerSecond <= 0 {
		batchesPerSecond = 5
	}
	_log := logger.NewLogger(writer, "[PriceCompliance]")
	return &PriceComplianceChecker{
		products:        products,
		ceilings:        ceilings,
		violations:      violations,
		batchSize:       batchSize,
		limiter:         rate.NewLimiter(rate.Limit(batchesPerSecond), 1),
		criticalOverage: decimal.NewFromFloat(criticalOveragePct),
		log:             _log,
	}
}

type ScanReport struct {
	Scanned         int `json:"scanned"`
	TotalViolations int `json:"total_violations"`
	NewViolations   int `json:"new_violations"`
}

// CheckPriceViolations walks the ACTIVE catalog in keyset batches. A product
// without a ceiling for its category is compliant by definition. A compliant
// product's existing open violation is left for manual resolution.
func (c *PriceComplianceChecker) CheckPriceViolations(ctx context.Context) (*ScanReport, error) {
	report := &ScanReport{}
	now := time.Now()

	var afterID int64
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		batch, err := c.products.ActiveProductsAfter(ctx, afterID, c.batchSize)
		if err != nil {
			return nil, fmt.Errorf("failed to load product batch: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		for i := range batch {
			product := &batch[i]
			afterID = product.ID
			report.Scanned++

			created, open, err := c.checkProduct(ctx, product, now)
			if err != nil {
				return nil, err
			}
			if open {
				report.TotalViolations++
			}
			if created {
				report.NewViolations++
			}
		}

		if len(batch) < c.batchSize {
			break
		}
	}

	c.log.Log("scan finished: %d scanned, %d violations (%d new)",
		report.Scanned, report.TotalViolations, report.NewViolations)
	return report, nil
}

// checkProduct reconciles one product against its ceiling. Returns whether a
// new violation was created and whether an open violation exists afterwards.
func (c *PriceComplianceChecker) checkProduct(ctx context.Context, product *models.Product, now time.Time) (created bool, open bool, err error) {
	ceiling, err := c.ceilings.ActiveCeiling(ctx, product.Category, now)
	if err != nil {
		return false, false, fmt.Errorf("failed to resolve ceiling for %q: %w", product.Category, err)
	}
	if ceiling == nil || ceiling.CeilingPrice.IsZero() {
		return false, false, nil
	}
	if product.Price.LessThanOrEqual(ceiling.CeilingPrice) {
		return false, false, nil
	}

	overage := product.Price.Sub(ceiling.CeilingPrice).
		Div(ceiling.CeilingPrice).
		Mul(hundred).
		Round(2)
	status := models.ViolationWarning
	if overage.GreaterThan(c.criticalOverage) {
		status = models.ViolationCritical
	}

	existing, err := c.violations.OpenViolationByProduct(ctx, product.ID)
	if err != nil {
		return false, false, fmt.Errorf("failed to look up open violation: %w", err)
	}
	if existing != nil {
		// Refresh the snapshot in place so the single open record tracks
		// the current overage.
		existing.ListedPrice = product.Price
		existing.CeilingPrice = ceiling.CeilingPrice
		existing.OveragePercent = overage
		existing.Status = status
		existing.UpdatedAt = now
		if err := c.violations.UpdateViolation(ctx, existing); err != nil {
			return false, false, fmt.Errorf("failed to update violation: %w", err)
		}
		return false, true, nil
	}

	violation := &models.PriceViolation{
		ID:             uuid.New(),
		ProductID:      product.ID,
		SellerID:       product.SellerID,
		ListedPrice:    product.Price,
		CeilingPrice:   ceiling.CeilingPrice,
		OveragePercent: overage,
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := c.violations.CreateViolation(ctx, violation); err != nil {
		return false, false, fmt.Errorf("failed to create violation: %w", err)
	}
	c.log.Log("opened %s violation for product %d: %s over ceiling %s",
		status, product.ID, product.Price.String(), ceiling.CeilingPrice.String())
	return true, true, nil
}

// SellerViolations returns the seller's open violations, newest first.
func (c *PriceComplianceChecker) SellerViolations(ctx context.Context, sellerID int64) ([]models.PriceViolation, error) {
	return c.violations.OpenViolationsBySeller(ctx, sellerID)
}

// ResolveViolation marks the violation resolved. Resolving twice is an
// idempotent no-op success; the stored resolution is not overwritten.
// The listing's price is never touched.
func (c *PriceComplianceChecker) ResolveViolation(ctx context.Context, id uuid.UUID, resolvedBy, adminNotes string) (*models.PriceViolation, error) {
	violation, err := c.violations.ViolationByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load violation: %w", err)
	}
	if violation == nil {
		return nil, &NotFoundError{Entity: "violation", ID: id.String()}
	}
	if violation.IsResolved {
		return violation, nil
	}

	now := time.Now()
	violation.IsResolved = true
	violation.ResolvedAt = &now
	violation.ResolvedBy = resolvedBy
	violation.AdminNotes = adminNotes
	violation.UpdatedAt = now
	if err := c.violations.UpdateViolation(ctx, violation); err != nil {
		return nil, fmt.Errorf("failed to resolve violation: %w", err)
	}
	return violation, nil
}
