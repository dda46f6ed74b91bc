package business

import (
	"context"
	"errors"
	"farmmarket_api/internal/marketplace/internal/models"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingOrder(productID int64, quantity int) models.Order {
	price := decimal.RequireFromString("50")
	return models.Order{
		ID:           uuid.New(),
		BuyerID:      1,
		SellerID:     10,
		ProductID:    productID,
		Quantity:     quantity,
		PricePerUnit: price,
		TotalAmount:  price.Mul(decimal.NewFromInt(int64(quantity))),
		Status:       models.OrderPending,
	}
}

func newFulfillment(store *memStore) *OrderFulfillment {
	return NewOrderFulfillment(store, NewStockLedger(store))
}

func TestAcceptPendingOrder(t *testing.T) {
	store := newMemStore()
	store.putProduct(activeProduct(1, 10, "50", 100, 20))
	order := pendingOrder(1, 50)
	store.putOrder(order)
	fulfillment := newFulfillment(store)
	ctx := context.Background()

	accepted, err := fulfillment.Accept(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderAccepted, accepted.Status)
	require.NotNil(t, accepted.AcceptedAt)

	// Accept checks availability without reserving anything.
	assert.Equal(t, 100, store.stockOf(1))

	// A second accept on the same order is a state error.
	_, err = fulfillment.Accept(ctx, order.ID)
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
}

func TestAcceptInsufficientStock(t *testing.T) {
	store := newMemStore()
	store.putProduct(activeProduct(1, 10, "50", 100, 20))
	order := pendingOrder(1, 150)
	store.putOrder(order)
	fulfillment := newFulfillment(store)

	_, err := fulfillment.Accept(context.Background(), order.ID)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Insufficient stock", validationErr.Reason)

	stored, err := store.OrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, stored.Status)
}

func TestAcceptUnknownOrder(t *testing.T) {
	fulfillment := newFulfillment(newMemStore())

	_, err := fulfillment.Accept(context.Background(), uuid.New())
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestMarkFulfilled(t *testing.T) {
	store := newMemStore()
	store.putProduct(activeProduct(1, 10, "50", 100, 80))
	order := pendingOrder(1, 25)
	store.putOrder(order)
	fulfillment := newFulfillment(store)
	ctx := context.Background()

	_, err := fulfillment.Accept(ctx, order.ID)
	require.NoError(t, err)

	fulfilled, movement, err := fulfillment.MarkFulfilled(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderFulfilled, fulfilled.Status)
	require.NotNil(t, fulfilled.FulfilledAt)
	assert.Equal(t, 100, movement.StockBefore)
	assert.Equal(t, 75, movement.StockAfter)
	assert.True(t, movement.IsLowStock())
	assert.Equal(t, 75, store.stockOf(1))
}

func TestMarkFulfilledRequiresAccepted(t *testing.T) {
	store := newMemStore()
	store.putProduct(activeProduct(1, 10, "50", 100, 20))
	order := pendingOrder(1, 10)
	store.putOrder(order)
	fulfillment := newFulfillment(store)

	_, _, err := fulfillment.MarkFulfilled(context.Background(), order.ID)
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, 100, store.stockOf(1))
}

func TestMarkFulfilledLateShortage(t *testing.T) {
	store := newMemStore()
	store.putProduct(activeProduct(1, 10, "50", 100, 20))
	first := pendingOrder(1, 80)
	second := pendingOrder(1, 80)
	store.putOrder(first)
	store.putOrder(second)
	fulfillment := newFulfillment(store)
	ctx := context.Background()

	// Both orders pass the availability check before either is fulfilled.
	_, err := fulfillment.Accept(ctx, first.ID)
	require.NoError(t, err)
	_, err = fulfillment.Accept(ctx, second.ID)
	require.NoError(t, err)

	_, _, err = fulfillment.MarkFulfilled(ctx, first.ID)
	require.NoError(t, err)

	// The loser of the race fails cleanly and stays ACCEPTED.
	_, _, err = fulfillment.MarkFulfilled(ctx, second.ID)
	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)

	stored, err := store.OrderByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderAccepted, stored.Status)
	assert.Equal(t, 20, store.stockOf(1))
}

func TestRejectPendingOrder(t *testing.T) {
	store := newMemStore()
	store.putProduct(activeProduct(1, 10, "50", 100, 20))
	order := pendingOrder(1, 10)
	store.putOrder(order)
	fulfillment := newFulfillment(store)
	ctx := context.Background()

	rejected, err := fulfillment.Reject(ctx, order.ID, "out of season")
	require.NoError(t, err)
	assert.Equal(t, models.OrderRejected, rejected.Status)
	assert.Equal(t, "out of season", rejected.RejectionReason)

	// Terminal: nothing moves a rejected order.
	_, err = fulfillment.Accept(ctx, order.ID)
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
}

func TestDeliverFulfilledOrder(t *testing.T) {
	store := newMemStore()
	store.putProduct(activeProduct(1, 10, "50", 100, 20))
	order := pendingOrder(1, 10)
	store.putOrder(order)
	fulfillment := newFulfillment(store)
	ctx := context.Background()

	_, err := fulfillment.Accept(ctx, order.ID)
	require.NoError(t, err)

	// Delivery before fulfillment is illegal.
	_, err = fulfillment.Deliver(ctx, order.ID)
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)

	_, _, err = fulfillment.MarkFulfilled(ctx, order.ID)
	require.NoError(t, err)

	delivered, err := fulfillment.Deliver(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderDelivered, delivered.Status)
	require.NotNil(t, delivered.DeliveredAt)
}

func TestCancelOrder(t *testing.T) {
	store := newMemStore()
	store.putProduct(activeProduct(1, 10, "50", 100, 20))
	pending := pendingOrder(1, 10)
	accepted := pendingOrder(1, 10)
	fulfilled := pendingOrder(1, 10)
	store.putOrder(pending)
	store.putOrder(accepted)
	store.putOrder(fulfilled)
	fulfillment := newFulfillment(store)
	ctx := context.Background()

	_, err := fulfillment.Accept(ctx, accepted.ID)
	require.NoError(t, err)
	_, err = fulfillment.Accept(ctx, fulfilled.ID)
	require.NoError(t, err)
	_, _, err = fulfillment.MarkFulfilled(ctx, fulfilled.ID)
	require.NoError(t, err)

	cancelled, err := fulfillment.Cancel(ctx, pending.ID, "buyer-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)
	assert.Equal(t, "buyer-1", cancelled.CancelledBy)

	cancelled, err = fulfillment.Cancel(ctx, accepted.ID, "seller-10")
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)

	// Fulfilled orders cannot be cancelled.
	_, err = fulfillment.Cancel(ctx, fulfilled.ID, "buyer-1")
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
}

func TestConcurrentFulfillmentsNeverOversell(t *testing.T) {
	store := newMemStore()
	store.putProduct(activeProduct(1, 10, "50", 55, 10))
	fulfillment := newFulfillment(store)
	ctx := context.Background()

	orders := make([]uuid.UUID, 10)
	for i := range orders {
		order := pendingOrder(1, 10)
		store.putOrder(order)
		orders[i] = order.ID
		_, err := fulfillment.Accept(ctx, order.ID)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	results := make(chan error, len(orders))
	for _, id := range orders {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, _, err := fulfillment.MarkFulfilled(ctx, id)
			results <- err
		}(id)
	}
	wg.Wait()
	close(results)

	succeeded, conflicted := 0, 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var conflictErr *ConflictError
		require.True(t, errors.As(err, &conflictErr), "unexpected error: %v", err)
		conflicted++
	}

	// 55 units cover exactly 5 of the 10 ten-unit orders.
	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 5, conflicted)
	assert.Equal(t, 5, store.stockOf(1))
}
