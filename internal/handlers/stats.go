package handlers

import (
	"net/http"

	"scrawl/internal/middleware"
	"scrawl/internal/stats"
)

// StatsResponse carries both raw numbers and display strings.
type StatsResponse struct {
	Stats stats.View        `json:"stats"`
	Slots map[string]string `json:"slots"`
}

func statsResponse(v stats.View) StatsResponse {
	return StatsResponse{Stats: v, Slots: v.Slots()}
}

// Stats returns the session's statistics.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	v := middleware.SessionFrom(r.Context()).Stats()
	writeJSON(w, http.StatusOK, statsResponse(v))
}

// ResetStats zeroes the statistics and starts a new challenge.
func (h *Handlers) ResetStats(w http.ResponseWriter, r *http.Request) {
	v := middleware.SessionFrom(r.Context()).ResetStats()
	writeJSON(w, http.StatusOK, statsResponse(v))
}
