package business

import (
	"context"
	"fmt"
	"math"

	"farmmarket_api/internal/marketplace/internal/models"
)

// Health score deductions. The score starts at 100 and loses
// nonCompliancePointPenalty per whole percentage point of non-compliance
// above nonComplianceGracePct, criticalAlertPenalty per open CRITICAL
// violation, and lowStockAlertPenalty per CRITICAL low stock alert.
const (
	nonComplianceGracePct     = 5.0
	nonCompliancePointPenalty = 2
	criticalAlertPenalty      = 5
	lowStockAlertPenalty      = 2
)

// MarketplaceHealthAggregator is a read-only view over the records the
// other services produce. It tolerates a moving target and does not need to
// be consistent with in-flight order commits.
type MarketplaceHealthAggregator struct {
	products   ProductStore
	violations ViolationStore
	ledger     *StockLedger
}

func NewMarketplaceHealthAggregator(products ProductStore, violations ViolationStore, ledger *StockLedger) *MarketplaceHealthAggregator {
	return &MarketplaceHealthAggregator{products: products, violations: violations, ledger: ledger}
}

type Overview struct {
	TotalProducts  int `json:"total_products"`
	ActiveProducts int `json:"active_products"`
	TotalSellers   int `json:"total_sellers"`
}

func (a *MarketplaceHealthAggregator) Overview(ctx context.Context) (*Overview, error) {
	total, active, err := a.products.CountProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	sellers, err := a.products.CountSellers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count sellers: %w", err)
	}
	return &Overview{TotalProducts: total, ActiveProducts: active, TotalSellers: sellers}, nil
}

type ComplianceMetrics struct {
	CompliantListings int     `json:"compliant_listings"`
	NonCompliant      int     `json:"non_compliant"`
	ComplianceRate    float64 `json:"compliance_rate"`
}

// ComplianceMetrics computes the share of ACTIVE listings without an open
// violation. An empty marketplace is 100% compliant.
func (a *MarketplaceHealthAggregator) ComplianceMetrics(ctx context.Context) (*ComplianceMetrics, error) {
	_, active, err := a.products.CountProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	nonCompliant, err := a.violations.CountActiveNonCompliant(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count non-compliant listings: %w", err)
	}
	if nonCompliant > active {
		nonCompliant = active
	}

	m := &ComplianceMetrics{
		CompliantListings: active - nonCompliant,
		NonCompliant:      nonCompliant,
		ComplianceRate:    100,
	}
	if active > 0 {
		m.ComplianceRate = math.Round(float64(m.CompliantListings)/float64(active)*100*100) / 100
	}
	return m, nil
}

// HealthScore folds compliance and alert volume into one 0-100 number.
func (a *MarketplaceHealthAggregator) HealthScore(ctx context.Context) (int, error) {
	compliance, err := a.ComplianceMetrics(ctx)
	if err != nil {
		return 0, err
	}

	score := 100

	nonCompliancePct := 100 - compliance.ComplianceRate
	if nonCompliancePct > nonComplianceGracePct {
		points := int(nonCompliancePct - nonComplianceGracePct)
		score -= nonCompliancePointPenalty * points
	}

	_, criticals, err := a.violations.CountOpenViolations(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count open violations: %w", err)
	}
	score -= criticalAlertPenalty * criticals

	alerts, err := a.ledger.ScanLowStock(ctx)
	if err != nil {
		return 0, err
	}
	for _, alert := range alerts {
		if alert.Severity == models.StockCritical {
			score -= lowStockAlertPenalty
		}
	}

	return clampScore(score), nil
}
