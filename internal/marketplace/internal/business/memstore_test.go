package business

import (
	"context"
	"farmmarket_api/internal/marketplace/internal/models"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memStore is an in-memory implementation of the store interfaces. A single
// mutex gives it the same atomicity guarantees the SQL implementations get
// from conditional updates and transactions, so the concurrency tests are
// meaningful.
type memStore struct {
	mu         sync.Mutex
	products   map[int64]*models.Product
	ceilings   map[string]*models.PriceCeiling
	violations map[uuid.UUID]*models.PriceViolation
	orders     map[uuid.UUID]*models.Order
}

func newMemStore() *memStore {
	return &memStore{
		products:   make(map[int64]*models.Product),
		ceilings:   make(map[string]*models.PriceCeiling),
		violations: make(map[uuid.UUID]*models.PriceViolation),
		orders:     make(map[uuid.UUID]*models.Order),
	}
}

func (s *memStore) putProduct(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = &p
}

func (s *memStore) putCeiling(c models.PriceCeiling) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ceilings[c.Category] = &c
}

func (s *memStore) putOrder(o models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = &o
}

func (s *memStore) stockOf(id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].StockLevel
}

func (s *memStore) priceOf(id int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].Price.String()
}

func (s *memStore) ProductByID(_ context.Context, id int64) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (s *memStore) ActiveProductsAfter(_ context.Context, afterID int64, limit int) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Product
	for _, p := range s.products {
		if p.Status == models.ProductActive && p.ID > afterID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) DecrementStock(_ context.Context, id int64, quantity int) (*models.StockMovement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	if p.StockLevel < quantity {
		return nil, models.ErrInsufficientStock
	}
	before := p.StockLevel
	p.StockLevel -= quantity
	return &models.StockMovement{
		ProductID:    id,
		StockBefore:  before,
		StockAfter:   p.StockLevel,
		MinimumStock: p.MinimumStock,
	}, nil
}

func (s *memStore) LowStockProducts(_ context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Product
	for _, p := range s.products {
		if p.Status == models.ProductActive && p.StockLevel < p.MinimumStock {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) CountProducts(_ context.Context) (total int, active int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		total++
		if p.Status == models.ProductActive {
			active++
		}
	}
	return total, active, nil
}

func (s *memStore) CountActiveBySeller(_ context.Context, sellerID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, p := range s.products {
		if p.SellerID == sellerID && p.Status == models.ProductActive {
			count++
		}
	}
	return count, nil
}

func (s *memStore) CountSellers(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sellers := make(map[int64]bool)
	for _, p := range s.products {
		sellers[p.SellerID] = true
	}
	return len(sellers), nil
}

func (s *memStore) ActiveCeiling(_ context.Context, category string, at time.Time) (*models.PriceCeiling, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.ceilings[category]
	if !ok || !c.AppliesAt(at) {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (s *memStore) ViolationByID(_ context.Context, id uuid.UUID) (*models.PriceViolation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.violations[id]
	if !ok {
		return nil, nil
	}
	copied := *v
	return &copied, nil
}

func (s *memStore) OpenViolationByProduct(_ context.Context, productID int64) (*models.PriceViolation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.violations {
		if v.ProductID == productID && !v.IsResolved {
			copied := *v
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memStore) CreateViolation(_ context.Context, v *models.PriceViolation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *v
	s.violations[v.ID] = &copied
	return nil
}

func (s *memStore) UpdateViolation(_ context.Context, v *models.PriceViolation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *v
	s.violations[v.ID] = &copied
	return nil
}

func (s *memStore) OpenViolationsBySeller(_ context.Context, sellerID int64) ([]models.PriceViolation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.PriceViolation
	for _, v := range s.violations {
		if v.SellerID == sellerID && !v.IsResolved {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) ViolationsBySeller(_ context.Context, sellerID int64) ([]models.PriceViolation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.PriceViolation
	for _, v := range s.violations {
		if v.SellerID == sellerID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) CountOpenViolations(_ context.Context) (warnings int, criticals int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.violations {
		if v.IsResolved {
			continue
		}
		if v.Status == models.ViolationCritical {
			criticals++
		} else {
			warnings++
		}
	}
	return warnings, criticals, nil
}

func (s *memStore) CountActiveNonCompliant(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	flagged := make(map[int64]bool)
	for _, v := range s.violations {
		if v.IsResolved {
			continue
		}
		p, ok := s.products[v.ProductID]
		if ok && p.Status == models.ProductActive {
			flagged[v.ProductID] = true
		}
	}
	return len(flagged), nil
}

func (s *memStore) OrderByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	copied := *o
	return &copied, nil
}

func (s *memStore) TransitionOrder(_ context.Context, o *models.Order, from models.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.orders[o.ID]
	if !ok || current.Status != from {
		return models.ErrOrderChanged
	}
	copied := *o
	s.orders[o.ID] = &copied
	return nil
}

func (s *memStore) FulfillOrder(_ context.Context, o *models.Order, from models.OrderStatus) (*models.StockMovement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.orders[o.ID]
	if !ok || current.Status != from {
		return nil, models.ErrOrderChanged
	}
	p, ok := s.products[o.ProductID]
	if !ok || p.StockLevel < o.Quantity {
		return nil, models.ErrInsufficientStock
	}

	before := p.StockLevel
	p.StockLevel -= o.Quantity
	copied := *o
	s.orders[o.ID] = &copied
	return &models.StockMovement{
		ProductID:    o.ProductID,
		StockBefore:  before,
		StockAfter:   p.StockLevel,
		MinimumStock: p.MinimumStock,
	}, nil
}
