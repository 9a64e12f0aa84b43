// internal/handlers/health.go
package handlers

import (
	"net/http"
	"time"
)

// AppVersion defines the current version of the service
const AppVersion = "v1.0.0"

// HealthResponse defines the health-check response payload
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

var startTime = time.Now()

// HealthHandler returns service health and uptime
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Uptime:  time.Since(startTime).Round(time.Second).String(),
		Version: AppVersion,
	})
}
