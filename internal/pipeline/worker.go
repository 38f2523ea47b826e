package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/jmlago/tasksmith/internal/config"
	"github.com/jmlago/tasksmith/internal/jira"
	"github.com/jmlago/tasksmith/internal/markdown"
	"github.com/jmlago/tasksmith/internal/metrics"
	"github.com/jmlago/tasksmith/internal/templates"
)

// Worker grooms a single issue: it fetches fresh state, drafts one
// description per template, converts each draft to ADF, and writes the
// subtasks back to the tracker.
type Worker struct {
	gen      Generator
	tracker  Tracker
	tpls     []templates.Template
	cfg      config.Config
	recorder *metrics.Recorder
	log      *slog.Logger
}

func NewWorker(gen Generator, tracker Tracker, tpls []templates.Template, cfg config.Config, rec *metrics.Recorder, log *slog.Logger) *Worker {
	return &Worker{
		gen:      gen,
		tracker:  tracker,
		tpls:     tpls,
		cfg:      cfg,
		recorder: rec,
		log:      log,
	}
}

// Process runs the grooming pipeline for one event.
func (w *Worker) Process(ctx context.Context, ev *Event) {
	log := w.log.With("event_id", ev.ID, "issue", ev.IssueKey)

	// Phase 1: fetch fresh issue state.
	ev.SetStatus(StatusFetching, "fetching")
	issue, err := w.fetchIssue(ctx, ev.IssueKey)
	if err != nil {
		log.Error("fetch failed", "error", err)
		ev.AddError(fmt.Sprintf("fetch: %s", err))
		ev.SetStatus(StatusFailed, "fetching")
		w.recorder.IncEventOutcome(string(StatusFailed))
		return
	}
	if issue == nil {
		log.Warn("issue no longer exists")
		ev.AddError("issue not found")
		ev.SetStatus(StatusSkipped, "fetching")
		w.recorder.IncEventOutcome(string(StatusSkipped))
		return
	}

	// Redelivered webhooks for an already groomed issue are dropped.
	if slices.Contains(issue.Fields.Labels, w.cfg.GroomedLabel) {
		log.Info("issue already groomed, skipping")
		ev.SetStatus(StatusSkipped, "dedup")
		w.recorder.IncEventOutcome(string(StatusSkipped))
		return
	}

	// Existing subtasks with a template summary get their description
	// rewritten instead of being duplicated.
	existing := make(map[string]string, len(issue.Fields.Subtasks))
	for _, st := range issue.Fields.Subtasks {
		existing[st.Fields.Summary] = st.Key
	}

	description := ev.Description()
	if description == "" {
		description = issue.Fields.Description
	}
	cleaned := jira.StripWikiMarkup(description)

	ev.SetPlanned(len(w.tpls))

	// Phase 2: one draft + conversion + write per template.
	hadErrors := false
	wroteAny := false
	for _, tpl := range w.tpls {
		if ctx.Err() != nil {
			ev.AddError("canceled")
			ev.SetStatus(StatusFailed, "generating")
			w.recorder.IncEventOutcome(string(StatusFailed))
			return
		}

		ev.SetStatus(StatusGenerating, tpl.Name)
		prompt := templates.BuildPrompt(tpl, issue.Key, issue.Fields.Summary, cleaned)
		draft, err := w.draftWithRetry(ctx, prompt, log)
		if err != nil {
			log.Error("generation failed", "template", tpl.Name, "error", err)
			ev.AddError(fmt.Sprintf("%s: generate: %s", tpl.Name, err))
			hadErrors = true
			continue
		}

		// Conversion cannot fail; whatever the model produced becomes
		// a valid document.
		doc := markdown.Convert(jira.SanitizeNewlines(draft))

		ev.SetStatus(StatusCreating, tpl.Name)
		if key, ok := existing[tpl.Summary]; ok {
			err = w.tracker.UpdateDescription(ctx, key, doc)
			if err == nil {
				log.Info("subtask description updated", "template", tpl.Name, "subtask", key)
				ev.IncrUpdated()
				wroteAny = true
			}
		} else {
			var key string
			key, err = w.tracker.CreateSubtask(ctx, jira.SubtaskRequest{
				ProjectKey:  issue.Fields.Project.Key,
				ParentKey:   issue.Key,
				Summary:     tpl.Summary,
				SubtaskType: w.cfg.SubtaskType,
				Description: doc,
			})
			if err == nil {
				log.Info("subtask created", "template", tpl.Name, "subtask", key)
				ev.IncrCreated()
				w.recorder.IncSubtasksCreated()
				wroteAny = true
			}
		}
		if err != nil {
			log.Error("tracker write failed", "template", tpl.Name, "error", err)
			ev.AddError(fmt.Sprintf("%s: tracker: %s", tpl.Name, err))
			hadErrors = true
		}
	}

	// Phase 3: mark the parent so redeliveries short-circuit.
	if wroteAny {
		if err := w.tracker.AddLabel(ctx, issue.Key, w.cfg.GroomedLabel); err != nil {
			log.Warn("label update failed", "error", err)
			ev.AddError(fmt.Sprintf("label: %s", err))
		}
	}

	switch {
	case hadErrors && wroteAny:
		ev.SetStatus(StatusPartial, "done")
	case hadErrors:
		ev.SetStatus(StatusFailed, "creating")
	default:
		ev.SetStatus(StatusCompleted, "done")
	}
	w.recorder.IncEventOutcome(string(ev.Snapshot().Status))
	log.Info("event processed", "status", ev.Snapshot().Status)
}

// fetchIssue retries transient tracker failures with backoff.
func (w *Worker) fetchIssue(ctx context.Context, key string) (*jira.Issue, error) {
	var issue *jira.Issue
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		issue, lastErr = w.tracker.GetIssue(ctx, key)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		w.log.Warn("retryable fetch error", "issue", key, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return issue, lastErr
}

// draftWithRetry runs one model call with retry on transient failures,
// recording call metrics either way.
func (w *Worker) draftWithRetry(ctx context.Context, prompt string, log *slog.Logger) (string, error) {
	var draft string
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		start := time.Now()
		draft, lastErr = w.gen.Draft(ctx, prompt)
		w.recorder.ObserveModelCall(time.Since(start), lastErr)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		log.Warn("retryable generation error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return draft, lastErr
}
