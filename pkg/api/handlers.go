package api

import (
	"net/http"

	"github.com/ssargent/clockstore/pkg/clock"
	"github.com/ssargent/clockstore/pkg/store"
)

// handleHealth mounts and unmounts the volume. 503 when it will not mount.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ok := s.store.TestMount()
	s.metrics.RecordHealthCheck(ok)
	if !ok {
		sendError(w, "storage volume cannot be mounted", http.StatusServiceUnavailable)
		return
	}
	sendSuccess(w, HealthResponse{Status: "healthy", Mounted: true})
}

// handleStats returns the statistics record. 404 before the first save.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var stats clock.Statistics
	switch s.store.ReadStatistics(&stats) {
	case store.Loaded:
		sendSuccess(w, newStatsResponse(stats))
	case store.Absent:
		sendError(w, "no statistics recorded", http.StatusNotFound)
	default:
		s.logger.Warn("statistics read failed")
		sendError(w, "failed to read statistics", http.StatusInternalServerError)
	}
}

// handleConfig returns the configuration record without the web password
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	var cfg clock.Configuration
	switch s.store.ReadConfiguration(&cfg) {
	case store.Loaded:
		sendSuccess(w, newConfigurationResponse(cfg))
	case store.Absent:
		sendError(w, "no configuration saved", http.StatusNotFound)
	default:
		s.logger.Warn("configuration read failed")
		sendError(w, "failed to read configuration", http.StatusInternalServerError)
	}
}
