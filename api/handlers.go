package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"refwatch/domain/core"
	"refwatch/internal/report"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListReferees returns every referee payload of the last run, keyed by
// referee ID.
func (s *Server) handleListReferees(w http.ResponseWriter, r *http.Request) {
	result := s.currentResult()
	if result == nil {
		writeError(w, http.StatusServiceUnavailable, "no analysis run available")
		return
	}
	writeJSON(w, http.StatusOK, result.PayloadMap())
}

// handleGetReferee returns a single referee payload from the last run
func (s *Server) handleGetReferee(w http.ResponseWriter, r *http.Request) {
	result := s.currentResult()
	if result == nil {
		writeError(w, http.StatusServiceUnavailable, "no analysis run available")
		return
	}
	id := core.RefereeID(chi.URLParam(r, "id"))
	profile, ok := result.Profiles[id]
	if !ok {
		writeError(w, http.StatusNotFound, "referee not found")
		return
	}
	writeJSON(w, http.StatusOK, profile.ToPayload())
}

// handleBaseline returns the league baseline of the last run
func (s *Server) handleBaseline(w http.ResponseWriter, r *http.Request) {
	result := s.currentResult()
	if result == nil {
		writeError(w, http.StatusServiceUnavailable, "no analysis run available")
		return
	}
	writeJSON(w, http.StatusOK, result.Baseline)
}

// handleManifest returns the audit manifest of the last run
func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	result := s.currentResult()
	if result == nil {
		writeError(w, http.StatusServiceUnavailable, "no analysis run available")
		return
	}
	writeJSON(w, http.StatusOK, result.Manifest)
}

// handleReport returns the plain-text league report of the last run
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	result := s.currentResult()
	if result == nil {
		writeError(w, http.StatusServiceUnavailable, "no analysis run available")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(report.Render(result.Manifest, result.Baseline, result.SortedProfiles())))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
