package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonathan/cv-tailor/internal/llm"
)

const namespace = "cv_tailor"

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds the pipeline's Prometheus collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	stageDuration     *prometheus.HistogramVec
	requests          *prometheus.CounterVec
	llmCalls          *prometheus.CounterVec
	llmDuration       *prometheus.HistogramVec
	semanticFailures  prometheus.Counter
	adaptationReverts prometheus.Counter
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 9),
		}, []string{"stage", "outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tailor_requests_total",
			Help:      "Tailoring requests by style and outcome.",
		}, []string{"style", "outcome"}),
		llmCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_calls_total",
			Help:      "Language model calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		llmDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_call_duration_seconds",
			Help:      "Language model call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		semanticFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "semantic_skill_failures_total",
			Help:      "Skills whose semantic evaluation failed and were skipped.",
		}),
		adaptationReverts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adaptation_reverts_total",
			Help:      "Rewrites rejected in favor of the original text.",
		}),
	}
	m.registry.MustRegister(
		m.stageDuration, m.requests, m.llmCalls, m.llmDuration,
		m.semanticFailures, m.adaptationReverts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveStage records how long a stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage, outcome(err)).Observe(d.Seconds())
}

// CountRequest records a finished tailoring request.
func (m *Metrics) CountRequest(style string, err error) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(style, outcome(err)).Inc()
}

// CountSemanticFailure records one skipped semantic evaluation.
func (m *Metrics) CountSemanticFailure() {
	if m == nil {
		return
	}
	m.semanticFailures.Inc()
}

// CountAdaptationReverts records rewrites that fell back to the original text.
func (m *Metrics) CountAdaptationReverts(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.adaptationReverts.Add(float64(n))
}

func (m *Metrics) observeLLM(op string, start time.Time, err error) {
	m.llmCalls.WithLabelValues(op, outcome(err)).Inc()
	m.llmDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, llm.ErrNotConfigured):
		return "unconfigured"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case llm.IsRetryable(err):
		return "retryable"
	default:
		return OutcomeError
	}
}

// InstrumentClient wraps client so every call is counted and timed.
// It returns client unchanged when m is nil.
func (m *Metrics) InstrumentClient(client llm.Client) llm.Client {
	if m == nil || client == nil {
		return client
	}
	return &instrumentedClient{Client: client, metrics: m}
}

type instrumentedClient struct {
	llm.Client
	metrics *Metrics
}

func (c *instrumentedClient) GenerateText(ctx context.Context, prompt, systemPrompt string) (string, error) {
	start := time.Now()
	out, err := c.Client.GenerateText(ctx, prompt, systemPrompt)
	c.metrics.observeLLM("generate", start, err)
	return out, err
}

func (c *instrumentedClient) RewriteText(ctx context.Context, original, instruction string) (string, error) {
	start := time.Now()
	out, err := c.Client.RewriteText(ctx, original, instruction)
	c.metrics.observeLLM("rewrite", start, err)
	return out, err
}
