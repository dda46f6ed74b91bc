package app

import (
	"context"
	"farmmarket_api/config"
	"farmmarket_api/internal/marketplace/app/web"
	"farmmarket_api/internal/marketplace/app/web/handlers"
	"farmmarket_api/internal/marketplace/internal/business"
	"farmmarket_api/internal/marketplace/internal/storage"
	"farmmarket_api/metrics"
	"farmmarket_api/pkg/dbconnect"
	"farmmarket_api/pkg/dbconnect/migration"
	"log"
	"net/http"
	"os"
	"time"
)

type MarketplaceServer struct {
	dbconnect.DbConnector
	cfg *config.AppConfig
}

func NewMarketplaceServer(dbCon dbconnect.DbConnector, cfg *config.AppConfig) *MarketplaceServer {
	return &MarketplaceServer{DbConnector: dbCon, cfg: cfg}
}

func (s *MarketplaceServer) Run() {
	db, err := s.Connect()
	if err != nil {
		log.Fatalf("Error connecting to PostgreSQL: %s", err)
	}
	defer db.Close()

	migrationApply := []migration.MigrationInterface{
		&storage.MarketplaceSchema{},
		&storage.ProductsTable{},
		&storage.PriceCeilingsTable{},
		&storage.PriceViolationsTable{},
		&storage.OrdersTable{},
	}
	for _, m := range migrationApply {
		if err := m.UpMigration(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
	}
	log.Println("Marketplace migrations applied successfully!")

	productRepo := storage.NewProductRepository(db)
	ceilingRepo := storage.NewCeilingRepository(db)
	violationRepo := storage.NewViolationRepository(db)
	orderRepo := storage.NewOrderRepository(db)

	ledger := business.NewStockLedger(productRepo)
	compliance := business.NewPriceComplianceChecker(
		productRepo, ceilingRepo, violationRepo,
		s.cfg.Compliance.BatchSize,
		s.cfg.Compliance.BatchesPerSecond,
		s.cfg.Compliance.CriticalOveragePct,
		os.Stdout,
	)
	fulfillment := business.NewOrderFulfillment(orderRepo, ledger)
	scorer := business.NewSellerComplianceScorer(productRepo, violationRepo)
	health := business.NewMarketplaceHealthAggregator(productRepo, violationRepo, ledger)
	importer := storage.NewCeilingImporter(ceilingRepo)

	stopScans := s.startScanLoop(compliance)
	defer stopScans()

	router := web.NewRouter(web.Handlers{
		Orders:     handlers.NewOrderHandler(fulfillment),
		Violations: handlers.NewViolationHandler(compliance, scorer),
		Dashboard:  handlers.NewDashboardHandler(health),
		Stock:      handlers.NewStockHandler(ledger),
		Ceilings:   handlers.NewCeilingHandler(importer),
	}, s.cfg.Server.JwtSecret)

	log.Printf("Marketplace server listening on %s", s.cfg.Server.Addr)
	if err := http.ListenAndServe(s.cfg.Server.Addr, router); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// startScanLoop runs the scheduled compliance scan until the returned stop
// function is called.
func (s *MarketplaceServer) startScanLoop(compliance *business.PriceComplianceChecker) func() {
	ctx, cancel := context.WithCancel(context.Background())
	ticker := time.NewTicker(s.cfg.Compliance.ScanInterval())

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				report, err := compliance.CheckPriceViolations(ctx)
				if err != nil {
					log.Printf("Scheduled compliance scan failed: %v", err)
					continue
				}
				metrics.ComplianceScansTotal.Inc()
				metrics.ViolationsOpenedTotal.Add(float64(report.NewViolations))
			case <-ctx.Done():
				return
			}
		}
	}()
	return cancel
}
