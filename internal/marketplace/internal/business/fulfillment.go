package business

import (
	"context"
	"errors"
	"farmmarket_api/internal/marketplace/internal/models"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// OrderFulfillment drives the order lifecycle:
//
//	PENDING -> ACCEPTED -> FULFILLED -> DELIVERED
//	PENDING -> REJECTED
//	PENDING | ACCEPTED -> CANCELLED
//
// Accept checks stock without reserving it; the authoritative re-validation
// happens inside FulfillOrder's transaction, where the decrement and the
// status change commit together. A fulfillment that loses the race for the
// last units fails with ConflictError and leaves the order ACCEPTED.
type OrderFulfillment struct {
	orders OrderStore
	ledger *StockLedger
}

func NewOrderFulfillment(orders OrderStore, ledger *StockLedger) *OrderFulfillment {
	return &OrderFulfillment{orders: orders, ledger: ledger}
}

func (f *OrderFulfillment) loadOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := f.orders.OrderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, &NotFoundError{Entity: "order", ID: id.String()}
	}
	return order, nil
}

// Accept moves a PENDING order to ACCEPTED after a stock availability check.
func (f *OrderFulfillment) Accept(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := f.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(models.OrderAccepted) {
		return nil, &StateError{Reason: "Cannot accept order in status " + string(order.Status)}
	}

	availability, err := f.ledger.CheckAvailability(ctx, order.ProductID, order.Quantity)
	if err != nil {
		return nil, err
	}
	if !availability.Available {
		return nil, &ValidationError{Reason: "Insufficient stock"}
	}

	now := time.Now()
	order.Status = models.OrderAccepted
	order.AcceptedAt = &now
	order.UpdatedAt = now
	if err := f.persistTransition(ctx, order, models.OrderPending); err != nil {
		return nil, err
	}
	log.Printf("Order %s accepted (product %d, qty %d)", order.ID, order.ProductID, order.Quantity)
	return order, nil
}

// MarkFulfilled decrements stock and moves the order to FULFILLED in one
// transaction. The returned movement carries the low stock flag for alerting.
func (f *OrderFulfillment) MarkFulfilled(ctx context.Context, id uuid.UUID) (*models.Order, *models.StockMovement, error) {
	order, err := f.loadOrder(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !order.Status.CanTransitionTo(models.OrderFulfilled) {
		return nil, nil, &StateError{Reason: "Cannot fulfill order in status " + string(order.Status)}
	}

	now := time.Now()
	updated := *order
	updated.Status = models.OrderFulfilled
	updated.FulfilledAt = &now
	updated.UpdatedAt = now

	movement, err := f.orders.FulfillOrder(ctx, &updated, models.OrderAccepted)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientStock) {
			return nil, nil, &ConflictError{Reason: "Insufficient stock"}
		}
		if errors.Is(err, models.ErrOrderChanged) {
			return nil, nil, &StateError{Reason: "Cannot fulfill order in status " + string(order.Status)}
		}
		return nil, nil, fmt.Errorf("failed to fulfill order: %w", err)
	}

	*order = updated
	log.Printf("Order %s fulfilled: stock %d -> %d", order.ID, movement.StockBefore, movement.StockAfter)
	return order, movement, nil
}

// Reject declines a PENDING order with a reason.
func (f *OrderFulfillment) Reject(ctx context.Context, id uuid.UUID, reason string) (*models.Order, error) {
	order, err := f.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderPending {
		return nil, &StateError{Reason: "Cannot reject order in status " + string(order.Status)}
	}

	now := time.Now()
	order.Status = models.OrderRejected
	order.RejectionReason = reason
	order.UpdatedAt = now
	if err := f.persistTransition(ctx, order, models.OrderPending); err != nil {
		return nil, err
	}
	return order, nil
}

// Deliver closes out a FULFILLED order.
func (f *OrderFulfillment) Deliver(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := f.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(models.OrderDelivered) {
		return nil, &StateError{Reason: "Cannot deliver order in status " + string(order.Status)}
	}

	now := time.Now()
	order.Status = models.OrderDelivered
	order.DeliveredAt = &now
	order.UpdatedAt = now
	if err := f.persistTransition(ctx, order, models.OrderFulfilled); err != nil {
		return nil, err
	}
	return order, nil
}

// Cancel withdraws a PENDING or ACCEPTED order. Accepted orders hold no
// reservation, so there is no stock to release.
func (f *OrderFulfillment) Cancel(ctx context.Context, id uuid.UUID, actor string) (*models.Order, error) {
	order, err := f.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(models.OrderCancelled) {
		return nil, &StateError{Reason: "Cannot cancel order in status " + string(order.Status)}
	}

	from := order.Status
	now := time.Now()
	order.Status = models.OrderCancelled
	order.CancelledBy = actor
	order.UpdatedAt = now
	if err := f.persistTransition(ctx, order, from); err != nil {
		return nil, err
	}
	return order, nil
}

func (f *OrderFulfillment) persistTransition(ctx context.Context, order *models.Order, from models.OrderStatus) error {
	if err := f.orders.TransitionOrder(ctx, order, from); err != nil {
		if errors.Is(err, models.ErrOrderChanged) {
			return &StateError{Reason: "Order changed concurrently"}
		}
		return fmt.Errorf("failed to persist order transition: %w", err)
	}
	return nil
}
