package api

import (
	"gorm.io/gorm"

	"github.com/gonyrida/sitedaily/internal/common"
	"github.com/gonyrida/sitedaily/internal/config"
	"github.com/gonyrida/sitedaily/internal/db"
	"github.com/gonyrida/sitedaily/internal/db/repositories"
	"github.com/gonyrida/sitedaily/internal/logging"
	"github.com/gonyrida/sitedaily/internal/metrics"
)

type Repositories struct {
	// Reader serves lookups: sqlx raw SQL on Postgres, the GORM
	// repository elsewhere.
	Reader  repositories.ReportReader
	Reports *repositories.ReportRepositoryGORM
}

type Services struct {
	Cache common.CacheInterface
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry
}

// Handlers bundles the HTTP handlers with their dependencies.
type Handlers struct {
	deps *Dependencies
}

func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{deps: deps}
}

// InitDependencies wires repositories and services from the connected
// database handles and the configuration.
func InitDependencies(cfg *config.Config, gormDB *gorm.DB, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {

	gormRepo := repositories.NewReportRepositoryGORM(gormDB)

	var reader repositories.ReportReader = gormRepo
	if db.DB != nil {
		reader = repositories.NewReportRepository(db.DB)
	}

	var cacheSvc common.CacheInterface
	if cfg.RedisEnabled {
		redisCache, err := common.NewRedisCacheService()
		if err != nil {
			logging.Warn("Redis unavailable, using in-memory cache", "error", err.Error())
			cacheSvc = common.NewCacheService(60, 600)
		} else {
			cacheSvc = redisCache
		}
	} else {
		cacheSvc = common.NewCacheService(60, 600)
	}

	return &Dependencies{
		Repo: &Repositories{
			Reader:  reader,
			Reports: gormRepo,
		},
		Services: &Services{
			Cache: cacheSvc,
		},
		Metrics: metricsReg,
	}, nil
}
