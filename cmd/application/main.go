package main

import (
	"farmmarket_api/config"
	"farmmarket_api/internal/marketplace/app"
	"farmmarket_api/pkg/dbconnect/postgres"
	"flag"
	"log"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the application config")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Printf("Failed to load %s (%v), falling back to environment config", *configPath, err)
		cfg = config.DefaultConfig()
	}

	connector := postgres.NewPgConnector(&cfg.Postgres)
	server := app.NewMarketplaceServer(connector, cfg)
	server.Run()
}
