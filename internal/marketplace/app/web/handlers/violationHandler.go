package handlers

import (
	"encoding/json"
	"farmmarket_api/internal/auth"
	"farmmarket_api/internal/marketplace/internal/business"
	"farmmarket_api/metrics"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

type ViolationHandler struct {
	compliance *business.PriceComplianceChecker
	scorer     *business.SellerComplianceScorer
}

func NewViolationHandler(compliance *business.PriceComplianceChecker, scorer *business.SellerComplianceScorer) *ViolationHandler {
	return &ViolationHandler{compliance: compliance, scorer: scorer}
}

func sellerID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &business.ValidationError{Reason: "invalid seller id"}
	}
	return id, nil
}

// ScanHandler triggers a full compliance scan on demand.
func (h *ViolationHandler) ScanHandler(w http.ResponseWriter, r *http.Request) {
	report, err := h.compliance.CheckPriceViolations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.ComplianceScansTotal.Inc()
	metrics.ViolationsOpenedTotal.Add(float64(report.NewViolations))
	writeJSON(w, http.StatusOK, report)
}

func (h *ViolationHandler) SellerViolationsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := sellerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	violations, err := h.compliance.SellerViolations(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"violations": violations})
}

type resolveRequest struct {
	AdminNotes string `json:"admin_notes"`
}

func (h *ViolationHandler) ResolveHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, &business.ValidationError{Reason: "invalid violation id"})
		return
	}
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &business.ValidationError{Reason: "invalid request body"})
		return
	}

	resolvedBy := "admin"
	if claims, ok := auth.FromContext(r.Context()); ok {
		resolvedBy = claims.SellerID
	}

	violation, err := h.compliance.ResolveViolation(r.Context(), id, resolvedBy, req.AdminNotes)
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.ViolationsResolvedTotal.Inc()
	writeJSON(w, http.StatusOK, map[string]interface{}{"violation": violation})
}

func (h *ViolationHandler) SellerComplianceHandler(w http.ResponseWriter, r *http.Request) {
	id, err := sellerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	score, err := h.scorer.ComplianceScore(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"seller_id": id, "compliance_score": score})
}

func (h *ViolationHandler) SellerHistoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := sellerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	history, err := h.scorer.ViolationHistory(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"violations": history})
}
