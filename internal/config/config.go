package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every environment-derived setting the service and the
// client tooling need.
type Config struct {
	AppEnv string
	Port   string

	// DBDriver selects "postgres" (sqlx + GORM) or "sqlite".
	DBDriver   string
	SQLitePath string

	RedisEnabled bool

	// JWTSecret enables bearer-token auth on the API when non-empty.
	JWTSecret string

	// Client-side settings.
	ReportAPIBaseURL string
	ReportAPIToken   string
	ExportBaseURL    string
	DraftStorePath   string

	AutoSaveDebounce time.Duration
	SnapshotInterval time.Duration

	RetentionInterval time.Duration
	RetentionKeepFor  time.Duration
}

// Load reads the environment, honoring a .env file when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		AppEnv:     getEnv("APP_ENV", "development"),
		Port:       getEnv("PORT", "8080"),
		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		SQLitePath: getEnv("SQLITE_PATH", "sitedaily.db"),

		RedisEnabled: getEnvBool("REDIS_ENABLED", false),
		JWTSecret:    os.Getenv("JWT_SECRET"),

		ReportAPIBaseURL: getEnv("REPORT_API_BASE_URL", "http://localhost:8080"),
		ReportAPIToken:   os.Getenv("REPORT_API_TOKEN"),
		ExportBaseURL:    getEnv("EXPORT_API_BASE_URL", "http://localhost:8090"),
		DraftStorePath:   getEnv("DRAFT_STORE_PATH", "drafts.db"),

		AutoSaveDebounce:  getEnvDuration("AUTOSAVE_DEBOUNCE", time.Second),
		SnapshotInterval:  getEnvDuration("SNAPSHOT_INTERVAL", 30*time.Second),
		RetentionInterval: getEnvDuration("RETENTION_INTERVAL", 24*time.Hour),
		RetentionKeepFor:  getEnvDuration("RETENTION_KEEP_FOR", 90*24*time.Hour),
	}
	return cfg
}

// PostgresDSN assembles the connection string from the PG_* variables.
func (c *Config) PostgresDSN() string {
	host := os.Getenv("PG_HOST")
	port := os.Getenv("PG_PORT")
	user := os.Getenv("PG_USER")
	dbname := os.Getenv("PG_DB")
	password := os.Getenv("PG_PASSWORD")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbname)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
