// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder registers and updates the service metrics on one registry.
type Recorder struct {
	registry *prom.Registry

	webhooks        *prom.CounterVec
	eventOutcomes   *prom.CounterVec
	modelCalls      *prom.CounterVec
	modelDuration   prom.Histogram
	subtasksCreated prom.Counter
	queueDepth      prom.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{registry: prom.NewRegistry()}

	r.webhooks = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "tasksmith",
		Name:      "webhooks_total",
		Help:      "Received webhook deliveries by disposition",
	}, []string{"disposition"})
	r.eventOutcomes = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "tasksmith",
		Name:      "event_outcomes_total",
		Help:      "Processed events by final status",
	}, []string{"outcome"})
	r.modelCalls = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "tasksmith",
		Name:      "model_calls_total",
		Help:      "Model calls by result",
	}, []string{"result"})
	r.modelDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: "tasksmith",
		Name:      "model_call_duration_seconds",
		Help:      "Duration of model calls",
		Buckets:   prom.DefBuckets,
	})
	r.subtasksCreated = prom.NewCounter(prom.CounterOpts{
		Namespace: "tasksmith",
		Name:      "subtasks_created_total",
		Help:      "Subtasks created in the tracker",
	})
	r.queueDepth = prom.NewGauge(prom.GaugeOpts{
		Namespace: "tasksmith",
		Name:      "event_queue_depth",
		Help:      "Events waiting in the processing queue",
	})

	r.registry.MustRegister(
		r.webhooks, r.eventOutcomes, r.modelCalls,
		r.modelDuration, r.subtasksCreated, r.queueDepth,
	)
	return r
}

// Handler serves the registry in Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) IncWebhook(disposition string) {
	if r == nil {
		return
	}
	r.webhooks.WithLabelValues(disposition).Inc()
}

func (r *Recorder) IncEventOutcome(outcome string) {
	if r == nil {
		return
	}
	r.eventOutcomes.WithLabelValues(outcome).Inc()
}

func (r *Recorder) ObserveModelCall(d time.Duration, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.modelCalls.WithLabelValues(result).Inc()
	r.modelDuration.Observe(d.Seconds())
}

func (r *Recorder) IncSubtasksCreated() {
	if r == nil {
		return
	}
	r.subtasksCreated.Inc()
}

func (r *Recorder) SetQueueDepth(n int) {
	if r == nil {
		return
	}
	r.queueDepth.Set(float64(n))
}
