package db

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gormModels "github.com/gonyrida/sitedaily/internal/models/gorm"
)

var PgDB *gorm.DB

func InitPostgresORM(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	PgDB = db
	log.Println("Connected to Postgres via GORM")
	return db, nil
}

// InitSQLiteORM opens a file-backed (or :memory:) SQLite database for
// single-node and development deployments.
func InitSQLiteORM(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	PgDB = db
	log.Println("Connected to SQLite via GORM")
	return db, nil
}

// Migrate applies the report schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&gormModels.Report{})
}
