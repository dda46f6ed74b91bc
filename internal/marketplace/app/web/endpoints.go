package web

import (
	"farmmarket_api/internal/auth"
	"farmmarket_api/internal/marketplace/app/web/handlers"
	"farmmarket_api/metrics"
	"farmmarket_api/pkg/middleware"
	"net/http"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Orders     *handlers.OrderHandler
	Violations *handlers.ViolationHandler
	Dashboard  *handlers.DashboardHandler
	Stock      *handlers.StockHandler
	Ceilings   *handlers.CeilingHandler
}

// NewRouter wires the operator API. Order actions require a seller or admin
// token; violation resolution, ceiling import and manual scans are admin
// only. The dashboard and health endpoints are open reads.
func NewRouter(h Handlers, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authed := auth.AuthMiddleware(jwtSecret)
	adminOnly := func(next http.HandlerFunc) http.Handler {
		return authed(auth.RoleMiddleware(auth.RoleAdmin)(next))
	}
	sellerOrAdmin := func(next http.HandlerFunc) http.Handler {
		return authed(auth.RoleMiddleware(auth.RoleSeller, auth.RoleAdmin)(next))
	}

	mux.Handle("POST /api/orders/{id}/accept", sellerOrAdmin(h.Orders.AcceptHandler))
	mux.Handle("POST /api/orders/{id}/reject", sellerOrAdmin(h.Orders.RejectHandler))
	mux.Handle("POST /api/orders/{id}/fulfill", sellerOrAdmin(h.Orders.FulfillHandler))
	mux.Handle("POST /api/orders/{id}/deliver", sellerOrAdmin(h.Orders.DeliverHandler))
	mux.Handle("POST /api/orders/{id}/cancel", sellerOrAdmin(h.Orders.CancelHandler))

	mux.Handle("POST /api/violations/{id}/resolve", adminOnly(h.Violations.ResolveHandler))
	mux.Handle("POST /api/compliance/scan", adminOnly(h.Violations.ScanHandler))
	mux.Handle("POST /api/ceilings/import", adminOnly(h.Ceilings.ImportHandler))
	mux.Handle("GET /api/sellers/{id}/violations", adminOnly(h.Violations.SellerViolationsHandler))
	mux.Handle("GET /api/sellers/{id}/violations/history", adminOnly(h.Violations.SellerHistoryHandler))
	mux.Handle("GET /api/sellers/{id}/compliance", adminOnly(h.Violations.SellerComplianceHandler))
	mux.Handle("GET /api/stock/low", adminOnly(h.Stock.LowStockHandler))

	mux.HandleFunc("GET /api/dashboard", h.Dashboard.DashboardHandler)
	mux.Handle("GET /metrics", metrics.MetricsHandler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return middleware.PrometheusMiddleware(mux)
}
