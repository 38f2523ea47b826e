package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventStatus represents the state of a webhook event being processed.
type EventStatus string

const (
	StatusQueued     EventStatus = "queued"
	StatusFetching   EventStatus = "fetching"
	StatusGenerating EventStatus = "generating"
	StatusCreating   EventStatus = "creating"
	StatusCompleted  EventStatus = "completed"
	StatusPartial    EventStatus = "partial"
	StatusFailed     EventStatus = "failed"
	StatusSkipped    EventStatus = "skipped"
)

// Event tracks one accepted webhook delivery through the pipeline.
type Event struct {
	mu sync.Mutex

	ID        string `json:"event_id"`
	IssueKey  string `json:"issue_key"`
	Project   string `json:"project"`
	IssueType string `json:"issue_type"`
	Summary   string `json:"summary"`

	Status EventStatus `json:"status"`
	Phase  string      `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Raw description from the webhook payload; legacy wiki markup,
	// never serialized back out.
	description string
	errors      []string
}

// Progress tracks per-template processing progress.
type Progress struct {
	SubtasksPlanned int      `json:"subtasks_planned"`
	SubtasksCreated int      `json:"subtasks_created"`
	SubtasksUpdated int      `json:"subtasks_updated"`
	Errors          []string `json:"errors"`
}

// NewEvent builds a queued event for an issue.
func NewEvent(issueKey, project, issueType, summary, description string) *Event {
	now := time.Now()
	return &Event{
		ID:          uuid.NewString(),
		IssueKey:    issueKey,
		Project:     project,
		IssueType:   issueType,
		Summary:     summary,
		Status:      StatusQueued,
		Phase:       "queued",
		CreatedAt:   now,
		UpdatedAt:   now,
		description: description,
	}
}

// Description returns the raw webhook description.
func (e *Event) Description() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.description
}

// SetStatus updates event status atomically.
func (e *Event) SetStatus(status EventStatus, phase string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Status = status
	e.Phase = phase
	e.UpdatedAt = time.Now()
}

// AddError records an error.
func (e *Event) AddError(err string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errors = append(e.errors, err)
	e.Progress.Errors = e.errors
	e.UpdatedAt = time.Now()
}

// SetPlanned records how many subtasks this event will produce.
func (e *Event) SetPlanned(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Progress.SubtasksPlanned = n
	e.UpdatedAt = time.Now()
}

// IncrCreated counts a created subtask.
func (e *Event) IncrCreated() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Progress.SubtasksCreated++
	e.UpdatedAt = time.Now()
}

// IncrUpdated counts a subtask whose description was rewritten.
func (e *Event) IncrUpdated() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Progress.SubtasksUpdated++
	e.UpdatedAt = time.Now()
}

// EventSnapshot is a read-only, JSON-safe copy of event state.
type EventSnapshot struct {
	ID        string      `json:"event_id"`
	IssueKey  string      `json:"issue_key"`
	Project   string      `json:"project"`
	IssueType string      `json:"issue_type"`
	Summary   string      `json:"summary"`
	Status    EventStatus `json:"status"`
	Phase     string      `json:"phase"`
	Progress  Progress    `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the event state.
func (e *Event) Snapshot() EventSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	errs := e.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return EventSnapshot{
		ID:        e.ID,
		IssueKey:  e.IssueKey,
		Project:   e.Project,
		IssueType: e.IssueType,
		Summary:   e.Summary,
		Status:    e.Status,
		Phase:     e.Phase,
		Progress: Progress{
			SubtasksPlanned: e.Progress.SubtasksPlanned,
			SubtasksCreated: e.Progress.SubtasksCreated,
			SubtasksUpdated: e.Progress.SubtasksUpdated,
			Errors:          errs,
		},
	}
}

// EventStore is a thread-safe in-memory event registry with TTL
// eviction.
type EventStore struct {
	mu     sync.Mutex
	events map[string]*Event
	ttl    time.Duration
}

func NewEventStore(ttl time.Duration) *EventStore {
	return &EventStore{
		events: make(map[string]*Event),
		ttl:    ttl,
	}
}

func (s *EventStore) Put(ev *Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[ev.ID] = ev
}

func (s *EventStore) Get(id string) *Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[id]
}

// Cleanup removes expired events.
func (s *EventStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, ev := range s.events {
		if now.Sub(ev.UpdatedAt) > s.ttl {
			delete(s.events, id)
		}
	}
}
