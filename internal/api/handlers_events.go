package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleEventStatus reports the processing state of one event.
func (s *Server) handleEventStatus(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	ev := s.orchestrator.GetEvent(eventID)
	if ev == nil {
		jsonError(w, "event not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, ev.Snapshot())
}
