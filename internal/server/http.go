package server

import (
	"encoding/json"
	"net/http"

	"github.com/haowan-apps/fangboard/internal/model"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
func (s *GateServer) NewHTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /unlock", s.handleUnlock)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/visits", s.handleVisits)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return RecoveryMiddleware(s.logger, LoggingMiddleware(s.logger, mux))
}

// handleHealth handles GET /v1/health. Always open, never gated.
func (s *GateServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStatus handles GET /v1/status: the session's current gate decision.
func (s *GateServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	sess, err := s.sessions.Attach(w, r, now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sess.Lock()
	defer sess.Unlock()

	d := s.evaluate(r.Context(), sess, now)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            d.Status.String(),
		"granted":           d.Granted,
		"message":           d.Message,
		"remaining_seconds": int(d.Remaining.Seconds()),
	})
}

// handleVisits handles GET /v1/visits: today's visit tally. Gated: a locked
// session gets 401, and nothing past the gate runs.
func (s *GateServer) handleVisits(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	sess, err := s.sessions.Attach(w, r, now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sess.Lock()
	defer sess.Unlock()

	d := s.evaluate(r.Context(), sess, now)
	if !d.Granted {
		writeError(w, http.StatusUnauthorized, d.Message)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":  model.Day(now),
		"count": s.recorder.Today(r.Context(), now),
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
