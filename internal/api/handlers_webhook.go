package api

import (
	"encoding/json"
	"net/http"

	"github.com/jmlago/tasksmith/internal/jira"
	"github.com/jmlago/tasksmith/internal/pipeline"
)

// webhookPayload is the slice of a Jira webhook delivery we read.
type webhookPayload struct {
	WebhookEvent string     `json:"webhookEvent"`
	Issue        jira.Issue `json:"issue"`
}

// handleWebhook accepts a signed issue event, filters it, and queues
// it for grooming. The response is always fast: Jira retires webhook
// deliveries that do not answer within a few seconds.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.recorder.IncWebhook("malformed")
		jsonError(w, "invalid payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	if payload.WebhookEvent != "jira:issue_created" {
		s.recorder.IncWebhook("ignored")
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored", "reason": "event type"})
		return
	}
	if payload.Issue.Key == "" {
		s.recorder.IncWebhook("malformed")
		jsonError(w, "payload has no issue key", http.StatusBadRequest)
		return
	}

	fields := payload.Issue.Fields
	if !s.orchestrator.Accepts(fields.Project.Key, fields.IssueType.Name) {
		s.recorder.IncWebhook("filtered")
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored", "reason": "filter"})
		return
	}

	ev := pipeline.NewEvent(payload.Issue.Key, fields.Project.Key, fields.IssueType.Name, fields.Summary, fields.Description)
	if err := s.orchestrator.Submit(ev); err != nil {
		s.recorder.IncWebhook("overloaded")
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	s.recorder.IncWebhook("accepted")
	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":   "accepted",
		"event_id": ev.ID,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
