package storage

import (
	"database/sql"
	"fmt"
	"log"
)

type MarketplaceSchema struct{}

func (m *MarketplaceSchema) UpMigration(db *sql.DB) error {
	if _, err := db.Exec("CREATE SCHEMA IF NOT EXISTS marketplace"); err != nil {
		return fmt.Errorf("failed to create marketplace schema: %w", err)
	}
	if _, err := db.Exec("CREATE SCHEMA IF NOT EXISTS migrations"); err != nil {
		return fmt.Errorf("failed to create migrations schema: %w", err)
	}
	query := `
		CREATE TABLE IF NOT EXISTS migrations.migrations (
		name VARCHAR(255) PRIMARY KEY,
		time TIMESTAMP NOT NULL
		);
		`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func migrationDone(db *sql.DB, name string) (bool, error) {
	var exists bool
	err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM migrations.migrations WHERE name = $1)", name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

func markMigration(db *sql.DB, name string) error {
	_, err := db.Exec("INSERT INTO migrations.migrations (name, time) VALUES ($1, current_timestamp)", name)
	if err != nil {
		return fmt.Errorf("failed to mark %s migration as complete: %w", name, err)
	}
	return nil
}

type ProductsTable struct{}

func (m *ProductsTable) UpMigration(db *sql.DB) error {
	done, err := migrationDone(db, "marketplace.products")
	if err != nil {
		return err
	}
	if done {
		log.Println("Migration 'marketplace.products' already completed. Skipping.")
		return nil
	}
	query :=
		`
		CREATE TABLE IF NOT EXISTS marketplace.products (
		product_id BIGSERIAL PRIMARY KEY,
		seller_id BIGINT NOT NULL,
		name TEXT NOT NULL,
		category VARCHAR(100) NOT NULL,
		price NUMERIC(12,2) NOT NULL,
		stock_level INT NOT NULL DEFAULT 0 CHECK (stock_level >= 0),
		minimum_stock INT NOT NULL DEFAULT 0,
		status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
		updated_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		);
		CREATE INDEX IF NOT EXISTS idx_products_seller ON marketplace.products (seller_id);
		CREATE INDEX IF NOT EXISTS idx_products_status ON marketplace.products (status);
		`
	if _, err = db.Exec(query); err != nil {
		return fmt.Errorf("failed to create marketplace.products table: %w", err)
	}
	if err = markMigration(db, "marketplace.products"); err != nil {
		return err
	}
	log.Println("Migration 'marketplace.products' completed successfully.")
	return nil
}

type PriceCeilingsTable struct{}

func (m *PriceCeilingsTable) UpMigration(db *sql.DB) error {
	done, err := migrationDone(db, "marketplace.price_ceilings")
	if err != nil {
		return err
	}
	if done {
		log.Println("Migration 'marketplace.price_ceilings' already completed. Skipping.")
		return nil
	}
	query :=
		`
		CREATE TABLE IF NOT EXISTS marketplace.price_ceilings (
		ceiling_id BIGSERIAL PRIMARY KEY,
		category VARCHAR(100) NOT NULL,
		ceiling_price NUMERIC(12,2) NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		start_date TIMESTAMP,
		end_date TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		);
		CREATE INDEX IF NOT EXISTS idx_ceilings_category ON marketplace.price_ceilings (category, active);
		`
	if _, err = db.Exec(query); err != nil {
		return fmt.Errorf("failed to create marketplace.price_ceilings table: %w", err)
	}
	if err = markMigration(db, "marketplace.price_ceilings"); err != nil {
		return err
	}
	log.Println("Migration 'marketplace.price_ceilings' completed successfully.")
	return nil
}

type PriceViolationsTable struct{}

func (m *PriceViolationsTable) UpMigration(db *sql.DB) error {
	done, err := migrationDone(db, "marketplace.price_violations")
	if err != nil {
		return err
	}
	if done {
		log.Println("Migration 'marketplace.price_violations' already completed. Skipping.")
		return nil
	}
	query :=
		`
		CREATE TABLE IF NOT EXISTS marketplace.price_violations (
		violation_id UUID PRIMARY KEY,
		product_id BIGINT NOT NULL REFERENCES marketplace.products(product_id),
		seller_id BIGINT NOT NULL,
		listed_price NUMERIC(12,2) NOT NULL,
		ceiling_price NUMERIC(12,2) NOT NULL,
		overage_percent NUMERIC(8,2) NOT NULL,
		status VARCHAR(20) NOT NULL,
		is_resolved BOOLEAN NOT NULL DEFAULT FALSE,
		resolved_at TIMESTAMP,
		resolved_by VARCHAR(255),
		admin_notes TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
		updated_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_violations_open_product
			ON marketplace.price_violations (product_id) WHERE NOT is_resolved;
		CREATE INDEX IF NOT EXISTS idx_violations_seller ON marketplace.price_violations (seller_id);
		`
	if _, err = db.Exec(query); err != nil {
		return fmt.Errorf("failed to create marketplace.price_violations table: %w", err)
	}
	if err = markMigration(db, "marketplace.price_violations"); err != nil {
		return err
	}
	log.Println("Migration 'marketplace.price_violations' completed successfully.")
	return nil
}

type OrdersTable struct{}

func (m *OrdersTable) UpMigration(db *sql.DB) error {
	done, err := migrationDone(db, "marketplace.orders")
	if err != nil {
		return err
	}
	if done {
		log.Println("Migration 'marketplace.orders' already completed. Skipping.")
		return nil
	}
	query :=
		`
		CREATE TABLE IF NOT EXISTS marketplace.orders (
		order_id UUID PRIMARY KEY,
		buyer_id BIGINT NOT NULL,
		seller_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL REFERENCES marketplace.products(product_id),
		quantity INT NOT NULL CHECK (quantity > 0),
		price_per_unit NUMERIC(12,2) NOT NULL,
		total_amount NUMERIC(14,2) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
		rejection_reason TEXT,
		cancelled_by VARCHAR(255),
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
		accepted_at TIMESTAMP,
		fulfilled_at TIMESTAMP,
		delivered_at TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		);
		CREATE INDEX IF NOT EXISTS idx_orders_seller ON marketplace.orders (seller_id, status);
		CREATE INDEX IF NOT EXISTS idx_orders_product ON marketplace.orders (product_id);
		`
	if _, err = db.Exec(query); err != nil {
		return fmt.Errorf("failed to create marketplace.orders table: %w", err)
	}
	if err = markMigration(db, "marketplace.orders"); err != nil {
		return err
	}
	log.Println("Migration 'marketplace.orders' completed successfully.")
	return nil
}
