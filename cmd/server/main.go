package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gonyrida/sitedaily/internal/api"
	"github.com/gonyrida/sitedaily/internal/config"
	"github.com/gonyrida/sitedaily/internal/db"
	"github.com/gonyrida/sitedaily/internal/logging"
	"github.com/gonyrida/sitedaily/internal/metrics"
	"github.com/gonyrida/sitedaily/internal/routes"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	// Initialize structured logging
	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Sitedaily starting up",
		"environment", cfg.AppEnv,
		"db_driver", cfg.DBDriver,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	// Connect to the configured database. Postgres keeps the sqlx read
	// path alongside GORM; SQLite runs on GORM alone.
	switch cfg.DBDriver {
	case "sqlite":
		if _, err := db.InitSQLiteORM(cfg.SQLitePath); err != nil {
			logging.Error("Failed to open SQLite database", "error", err.Error())
			log.Fatalf("❌ Failed to open SQLite database: %v", err)
		}
		logging.Info("Connected to SQLite (GORM)", "path", cfg.SQLitePath)
	default:
		if err := db.InitPostgres(); err != nil {
			logging.Error("Failed to connect to Postgres (sqlx)", "error", err.Error())
			log.Fatalf("❌ Failed to connect to Postgres (sqlx): %v", err)
		}
		logging.Info("Connected to Postgres (sqlx)")

		if _, err := db.InitPostgresORM(cfg.PostgresDSN()); err != nil {
			logging.Error("Failed to connect to Postgres (GORM)", "error", err.Error())
			log.Fatalf("❌ Failed to connect to Postgres (GORM): %v", err)
		}
		logging.Info("Connected to Postgres (GORM)")
	}

	if err := db.Migrate(db.PgDB); err != nil {
		logging.Error("Failed to migrate report schema", "error", err.Error())
		log.Fatalf("❌ Failed to migrate report schema: %v", err)
	}

	upSince := time.Now()

	metricsReg := metrics.NewMetricsRegistry()

	deps, err := api.InitDependencies(cfg, db.PgDB, metricsReg)
	if err != nil {
		logging.Error("Failed to initialize dependencies", "error", err.Error())
		log.Fatalf("❌ Failed to initialize dependencies: %v", err)
	}

	router := routes.RegisterRoutes(cfg, deps, metricsReg, upSince)

	// Setup metrics endpoint outside of Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router) // Mount Chi router at root
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	logging.Info("Server starting",
		"port", cfg.Port,
		"environment", cfg.AppEnv,
	)

	log.Println("Starting server on :" + cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, mux))
}
