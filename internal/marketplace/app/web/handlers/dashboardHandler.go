package handlers

import (
	"farmmarket_api/internal/marketplace/internal/business"
	"farmmarket_api/metrics"
	"net/http"
)

type DashboardHandler struct {
	health *business.MarketplaceHealthAggregator
}

func NewDashboardHandler(health *business.MarketplaceHealthAggregator) *DashboardHandler {
	return &DashboardHandler{health: health}
}

type dashboardResponse struct {
	TotalProducts          int     `json:"total_products"`
	ActiveProducts         int     `json:"active_products"`
	TotalSellers           int     `json:"total_sellers"`
	ComplianceRate         float64 `json:"compliance_rate"`
	MarketplaceHealthScore int     `json:"marketplace_health_score"`
}

func (h *DashboardHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	overview, err := h.health.Overview(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	compliance, err := h.health.ComplianceMetrics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	score, err := h.health.HealthScore(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.MarketplaceHealthScore.Set(float64(score))

	writeJSON(w, http.StatusOK, dashboardResponse{
		TotalProducts:          overview.TotalProducts,
		ActiveProducts:         overview.ActiveProducts,
		TotalSellers:           overview.TotalSellers,
		ComplianceRate:         compliance.ComplianceRate,
		MarketplaceHealthScore: score,
	})
}
