package server

import (
	"encoding/json"
	"net/http"
	"time"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

// handleReady reports ready once the registry holds a result.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	stats := s.source.Stats()

	status, code := "ready", http.StatusOK
	if stats.Version == "" {
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]interface{}{
		"status":    status,
		"version":   stats.Version,
		"timestamp": time.Now().Unix(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.source.Stats())
}

func (s *Server) handleStems(w http.ResponseWriter, r *http.Request) {
	stems := s.source.Stems()
	if stems == nil {
		stems = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(stems),
		"stems": stems,
	})
}

func (s *Server) handleEntry(w http.ResponseWriter, r *http.Request) {
	stem := r.PathValue("stem")
	entry, ok := s.source.Entry(stem)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "no entry for stem " + stem,
		})
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
