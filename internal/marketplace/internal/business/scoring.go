package business

import (
	"context"
	"farmmarket_api/internal/marketplace/internal/models"
	"fmt"
)

// Per-violation deductions. The score must be deterministic and strictly
// non-increasing in open-violation count and severity.
const (
	warningPenalty  = 10
	criticalPenalty = 25
	densityPenalty  = 15
)

// SellerComplianceScorer derives a 0-100 score from a seller's open
// violations relative to their active catalog size.
type SellerComplianceScorer struct {
	products   ProductStore
	violations ViolationStore
}

func NewSellerComplianceScorer(products ProductStore, violations ViolationStore) *SellerComplianceScorer {
	return &SellerComplianceScorer{products: products, violations: violations}
}

// ComplianceScore starts at 100 and deducts warningPenalty per open WARNING
// and criticalPenalty per open CRITICAL; when open violations cover half or
// more of the seller's active listings, densityPenalty is deducted once on
// top. The result is clamped to [0,100].
func (s *SellerComplianceScorer) ComplianceScore(ctx context.Context, sellerID int64) (int, error) {
	open, err := s.violations.OpenViolationsBySeller(ctx, sellerID)
	if err != nil {
		return 0, fmt.Errorf("failed to load open violations: %w", err)
	}

	score := 100
	for _, v := range open {
		if v.Status == models.ViolationCritical {
			score -= criticalPenalty
		} else {
			score -= warningPenalty
		}
	}

	if len(open) > 0 {
		active, err := s.products.CountActiveBySeller(ctx, sellerID)
		if err != nil {
			return 0, fmt.Errorf("failed to count active listings: %w", err)
		}
		if active == 0 || len(open)*2 >= active {
			score -= densityPenalty
		}
	}

	return clampScore(score), nil
}

// ViolationHistory returns every violation for the seller, resolved and
// open, oldest first.
func (s *SellerComplianceScorer) ViolationHistory(ctx context.Context, sellerID int64) ([]models.PriceViolation, error) {
	return s.violations.ViolationsBySeller(ctx, sellerID)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
