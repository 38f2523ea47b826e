package jira

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetIssue(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/2/issue/PROJ-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if _, _, ok := r.BasicAuth(); !ok {
			t.Error("expected basic auth")
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"key": "PROJ-1",
			"fields": map[string]any{
				"summary":     "Add login page",
				"description": "h2. Context\nUsers need *login*.",
				"issuetype":   map[string]string{"name": "Story"},
				"project":     map[string]string{"key": "PROJ"},
				"labels":      []string{"frontend"},
			},
		})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "bot@example.com", "token")
	issue, err := c.GetIssue(context.Background(), "PROJ-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issue == nil {
		t.Fatal("expected an issue")
	}
	if issue.Fields.Summary != "Add login page" {
		t.Errorf("unexpected summary %q", issue.Fields.Summary)
	}
	if issue.Fields.Project.Key != "PROJ" {
		t.Errorf("unexpected project %q", issue.Fields.Project.Key)
	}
}

func TestGetIssueNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorMessages":["Issue does not exist"]}`, http.StatusNotFound)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "bot@example.com", "token")
	issue, err := c.GetIssue(context.Background(), "PROJ-404")
	if err != nil {
		t.Fatalf("missing issue must not be an error, got %v", err)
	}
	if issue != nil {
		t.Errorf("expected nil issue, got %+v", issue)
	}
}

func TestCreateSubtaskSendsADFDescription(t *testing.T) {
	var captured map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/rest/api/3/issue" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"key": "PROJ-2"})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "bot@example.com", "token")
	key, err := c.CreateSubtask(context.Background(), SubtaskRequest{
		ProjectKey:  "PROJ",
		ParentKey:   "PROJ-1",
		Summary:     "Implementation plan",
		SubtaskType: "Sub-task",
		Description: map[string]any{"version": 1, "type": "doc"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "PROJ-2" {
		t.Errorf("expected key PROJ-2, got %q", key)
	}

	fields := captured["fields"].(map[string]any)
	if fields["summary"] != "Implementation plan" {
		t.Errorf("unexpected summary %v", fields["summary"])
	}
	if fields["parent"].(map[string]any)["key"] != "PROJ-1" {
		t.Errorf("unexpected parent %v", fields["parent"])
	}
	desc := fields["description"].(map[string]any)
	if desc["type"] != "doc" {
		t.Errorf("description must be an ADF doc, got %v", desc)
	}
}

func TestTransientStatusYieldsRetryableError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "bot@example.com", "token")
	err := c.UpdateDescription(context.Background(), "PROJ-1", map[string]any{})
	var te *TransientError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransientError, got %v", err)
	}
	if te.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", te.StatusCode)
	}
}
