package handlers

import (
	"encoding/json"
	"errors"
	"farmmarket_api/internal/auth"
	"farmmarket_api/internal/marketplace/internal/business"
	"farmmarket_api/internal/marketplace/internal/models"
	"farmmarket_api/metrics"
	"net/http"

	"github.com/google/uuid"
)

type OrderHandler struct {
	fulfillment *business.OrderFulfillment
}

func NewOrderHandler(fulfillment *business.OrderFulfillment) *OrderHandler {
	return &OrderHandler{fulfillment: fulfillment}
}

type orderResponse struct {
	Order *models.Order `json:"order"`
	Stock *stockInfo    `json:"stock,omitempty"`
}

type stockInfo struct {
	StockBefore int  `json:"stock_before"`
	StockAfter  int  `json:"stock_after"`
	IsLowStock  bool `json:"is_low_stock"`
}

func orderID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &business.ValidationError{Reason: "invalid order id"}
	}
	return id, nil
}

func (h *OrderHandler) AcceptHandler(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	order, err := h.fulfillment.Accept(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{Order: order})
}

func (h *OrderHandler) FulfillHandler(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	order, movement, err := h.fulfillment.MarkFulfilled(r.Context(), id)
	if err != nil {
		var conflictErr *business.ConflictError
		if errors.As(err, &conflictErr) {
			metrics.FulfillmentConflictsTotal.Inc()
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{
		Order: order,
		Stock: &stockInfo{
			StockBefore: movement.StockBefore,
			StockAfter:  movement.StockAfter,
			IsLowStock:  movement.IsLowStock(),
		},
	})
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *OrderHandler) RejectHandler(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &business.ValidationError{Reason: "invalid request body"})
		return
	}
	if req.Reason == "" {
		writeError(w, &business.ValidationError{Reason: "rejection reason is required"})
		return
	}
	order, err := h.fulfillment.Reject(r.Context(), id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{Order: order})
}

func (h *OrderHandler) DeliverHandler(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	order, err := h.fulfillment.Deliver(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{Order: order})
}

func (h *OrderHandler) CancelHandler(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	actor := "unknown"
	if claims, ok := auth.FromContext(r.Context()); ok {
		actor = claims.SellerID
	}
	order, err := h.fulfillment.Cancel(r.Context(), id, actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{Order: order})
}
