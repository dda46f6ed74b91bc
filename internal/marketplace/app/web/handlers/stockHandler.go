package handlers

import (
	"farmmarket_api/internal/marketplace/internal/business"
	"net/http"
)

type StockHandler struct {
	ledger *business.StockLedger
}

func NewStockHandler(ledger *business.StockLedger) *StockHandler {
	return &StockHandler{ledger: ledger}
}

func (h *StockHandler) LowStockHandler(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.ledger.ScanLowStock(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"alerts": alerts})
}
