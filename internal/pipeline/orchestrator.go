package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/jmlago/tasksmith/internal/config"
	"github.com/jmlago/tasksmith/internal/jira"
	"github.com/jmlago/tasksmith/internal/metrics"
	"github.com/jmlago/tasksmith/internal/templates"
)

// Generator drafts Markdown text from a prompt.
type Generator interface {
	Draft(ctx context.Context, prompt string) (string, error)
}

// Tracker is the slice of the issue tracker the pipeline touches.
type Tracker interface {
	GetIssue(ctx context.Context, key string) (*jira.Issue, error)
	CreateSubtask(ctx context.Context, req jira.SubtaskRequest) (string, error)
	UpdateDescription(ctx context.Context, key string, description any) error
	AddLabel(ctx context.Context, key, label string) error
}

// Orchestrator manages the webhook event processing pipeline.
type Orchestrator struct {
	events   *EventStore
	queue    chan *Event
	gen      Generator
	tracker  Tracker
	tpls     []templates.Template
	log      *slog.Logger
	cfg      config.Config
	recorder *metrics.Recorder

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOrchestrator(cfg config.Config, gen Generator, tracker Tracker, tpls []templates.Template, rec *metrics.Recorder, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		events:   NewEventStore(cfg.EventTTL),
		queue:    make(chan *Event, cfg.MaxQueueSize),
		gen:      gen,
		tracker:  tracker,
		tpls:     tpls,
		log:      log,
		cfg:      cfg,
		recorder: rec,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.gen, o.tracker, o.tpls, o.cfg, o.recorder, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case ev, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, ev)
					o.recorder.SetQueueDepth(len(o.queue))
				}
			}
		}()
	}

	// Periodic event store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.events.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Accepts reports whether an event passes the project and issue-type
// filters. Empty filter lists accept everything.
func (o *Orchestrator) Accepts(projectKey, issueType string) bool {
	if len(o.cfg.ProjectKeys) > 0 && !slices.Contains(o.cfg.ProjectKeys, projectKey) {
		return false
	}
	if len(o.cfg.TriggerIssueTypes) > 0 && !slices.Contains(o.cfg.TriggerIssueTypes, issueType) {
		return false
	}
	return true
}

// Submit queues a new event for processing.
func (o *Orchestrator) Submit(ev *Event) error {
	o.events.Put(ev)
	select {
	case o.queue <- ev:
		o.recorder.SetQueueDepth(len(o.queue))
		return nil
	default:
		ev.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("event queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetEvent returns an event by ID.
func (o *Orchestrator) GetEvent(id string) *Event {
	return o.events.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
