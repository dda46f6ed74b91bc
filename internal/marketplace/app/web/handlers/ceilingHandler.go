package handlers

import (
	"farmmarket_api/internal/marketplace/internal/business"
	"farmmarket_api/internal/marketplace/internal/storage"
	"net/http"
)

type CeilingHandler struct {
	importer *storage.CeilingImporter
}

func NewCeilingHandler(importer *storage.CeilingImporter) *CeilingHandler {
	return &CeilingHandler{importer: importer}
}

// ImportHandler accepts a CSV body of category ceilings and replaces the
// active ceiling for each listed category.
func (h *CeilingHandler) ImportHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	imported, err := h.importer.ImportCSV(r.Context(), r.Body)
	if err != nil {
		writeError(w, &business.ValidationError{Reason: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"imported": imported})
}
