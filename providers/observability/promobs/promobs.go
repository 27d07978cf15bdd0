package promobs

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/leofalp/blueprint/providers/observability"
)

// Namespace prefixes every exported metric name.
const Namespace = "blueprint"

// metricSpec describes how an observability metric name maps to Prometheus.
type metricSpec struct {
	name    string
	help    string
	labels  []string
	buckets []float64
}

// known maps metric names to their Prometheus shape. Attributes whose key is
// not a declared label are dropped, keeping label cardinality bounded.
var known = map[string]metricSpec{
	observability.MetricClientRequestCount: {
		name:   "client_requests_total",
		help:   "Chat completions sent to the model provider.",
		labels: []string{observability.AttrStatus, observability.AttrLLMModel},
	},
	observability.MetricClientRequestDuration: {
		name:    "client_request_duration_seconds",
		help:    "Chat completion latency.",
		labels:  []string{observability.AttrLLMModel},
		buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	},
	observability.MetricClientTokensPrompt: {
		name:   "client_prompt_tokens_total",
		help:   "Prompt tokens reported by the model provider.",
		labels: []string{observability.AttrLLMModel},
	},
	observability.MetricClientTokensCompletion: {
		name:   "client_completion_tokens_total",
		help:   "Completion tokens reported by the model provider.",
		labels: []string{observability.AttrLLMModel},
	},
	observability.MetricRecoveryStrategy: {
		name:   "recovery_strategy_total",
		help:   "Recovery strategy outcomes.",
		labels: []string{observability.AttrRecoveryStrategy, observability.AttrRecoveryOutcome},
	},
	observability.MetricGenerationAttempts: {
		name:   "generation_attempts_total",
		help:   "Generation attempts by status.",
		labels: []string{observability.AttrStatus},
	},
	observability.MetricGenerationDuration: {
		name:    "generation_duration_seconds",
		help:    "End-to-end blueprint generation latency, retries included.",
		labels:  []string{observability.AttrStatus},
		buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120, 300},
	},
	observability.MetricHTTPRequests: {
		name:   "http_requests_total",
		help:   "HTTP API requests.",
		labels: []string{observability.AttrHTTPRoute, observability.AttrHTTPStatusCode},
	},
}

// Provider registers Prometheus collectors lazily, on first use of a name.
type Provider struct {
	registerer prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]*counter
	histograms map[string]*histogram
}

var _ observability.Provider = (*Provider)(nil)

// New returns a Provider registering on reg. A nil reg means
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Provider {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &Provider{
		registerer: reg,
		counters:   make(map[string]*counter),
		histograms: make(map[string]*histogram),
	}
}

func (p *Provider) Counter(name string) observability.Counter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.counters[name]; ok {
		return c
	}

	spec := lookup(name)
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      spec.name,
		Help:      spec.help,
	}, promLabels(spec.labels))
	vec = register(p.registerer, vec).(*prometheus.CounterVec)

	c := &counter{vec: vec, labels: spec.labels}
	p.counters[name] = c
	return c
}

func (p *Provider) Histogram(name string) observability.Histogram {
	p.mu.Lock()
	defer p.mu.Unlock()

	if h, ok := p.histograms[name]; ok {
		return h
	}

	spec := lookup(name)
	buckets := spec.buckets
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      spec.name,
		Help:      spec.help,
		Buckets:   buckets,
	}, promLabels(spec.labels))
	vec = register(p.registerer, vec).(*prometheus.HistogramVec)

	h := &histogram{vec: vec, labels: spec.labels}
	p.histograms[name] = h
	return h
}

// register returns the already registered collector when an identical one
// exists, so two Providers can share a registry.
func register(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return already.ExistingCollector
		}
		panic(fmt.Sprintf("promobs: %v", err))
	}
	return c
}

// lookup returns the spec for name, deriving one without labels for names
// missing from the table.
func lookup(name string) metricSpec {
	if spec, ok := known[name]; ok {
		return spec
	}
	return metricSpec{
		name: sanitize(strings.TrimPrefix(name, Namespace+".")),
		help: name,
	}
}

// sanitize turns a dotted metric or attribute name into a Prometheus name.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

func promLabels(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = sanitize(k)
	}
	return out
}

// labelValues picks the declared labels out of attrs, in declaration order.
func labelValues(keys []string, attrs []observability.Attribute) []string {
	values := make([]string, len(keys))
	for _, attr := range attrs {
		for i, k := range keys {
			if attr.Key == k {
				values[i] = fmt.Sprint(attr.Value)
			}
		}
	}
	return values
}

type counter struct {
	vec    *prometheus.CounterVec
	labels []string
}

// Add ignores negative values, which Prometheus counters cannot represent.
func (c *counter) Add(_ context.Context, value int64, attrs ...observability.Attribute) {
	if value < 0 {
		return
	}
	c.vec.WithLabelValues(labelValues(c.labels, attrs)...).Add(float64(value))
}

type histogram struct {
	vec    *prometheus.HistogramVec
	labels []string
}

func (h *histogram) Record(_ context.Context, value float64, attrs ...observability.Attribute) {
	h.vec.WithLabelValues(labelValues(h.labels, attrs)...).Observe(value)
}

// --- no-op tracing and logging ---

func (p *Provider) StartSpan(ctx context.Context, _ string, _ ...observability.Attribute) (context.Context, observability.Span) {
	return ctx, noopSpan{}
}

func (p *Provider) Trace(context.Context, string, ...observability.Attribute) {}
func (p *Provider) Debug(context.Context, string, ...observability.Attribute) {}
func (p *Provider) Info(context.Context, string, ...observability.Attribute)  {}
func (p *Provider) Warn(context.Context, string, ...observability.Attribute)  {}
func (p *Provider) Error(context.Context, string, ...observability.Attribute) {}

type noopSpan struct{}

func (noopSpan) End()                                        {}
func (noopSpan) SetAttributes(...observability.Attribute)    {}
func (noopSpan) SetStatus(observability.StatusCode, string)  {}
func (noopSpan) RecordError(error)                           {}
func (noopSpan) AddEvent(string, ...observability.Attribute) {}
