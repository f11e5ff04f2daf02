package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gonyrida/sitedaily/internal/models/entities"
)

// HealthCheckHandler handles GET /healthCheck
func HealthCheckHandler(db *sqlx.DB, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		services := make(map[string]entities.ServiceStatus)

		// Check the sqlx handle when one is connected (Postgres mode);
		// SQLite deployments run without it.
		if db != nil {
			pgstatus := "ok"
			pgDetails := "Postgres Connected"
			if err := db.Ping(); err != nil {
				pgstatus = "down"
				pgDetails = err.Error()
			}
			services["postgres"] = entities.ServiceStatus{
				Status:  pgstatus,
				Details: pgDetails,
			}
		}

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		now := time.Now()
		uptime := now.Sub(upSince).Round(time.Second).String()

		resp := entities.HealthCheckResponse{
			Services: services,
			Status:   overallStatus,
			UpSince:  upSince,
			Uptime:   uptime,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
