package client

import (
	"context"
	"errors"
	"testing"

	"github.com/leofalp/blueprint/providers/ai"
	"github.com/leofalp/blueprint/providers/observability"
)

// ========== Mock observer ==========

// mockObserver records all observability calls for assertion in tests.
type mockObserver struct {
	spanStartCount int
	spanEndCount   int
	errorCount     int
	infoCount      int
	debugCount     int
	counterAdds    map[string]int64 // counter name -> cumulative value
	histogramRecs  int
	errorMessages  []string
	infoMessages   []string
	lastSpan       *mockSpan
}

func newMockObserver() *mockObserver {
	return &mockObserver{counterAdds: make(map[string]int64)}
}

func (m *mockObserver) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	m.spanStartCount++
	span := &mockSpan{observer: m, name: name}
	m.lastSpan = span
	return ctx, span
}

func (m *mockObserver) Counter(name string) observability.Counter {
	return &mockCounter{observer: m, name: name}
}

func (m *mockObserver) Histogram(_ string) observability.Histogram {
	return &mockHistogram{observer: m}
}

func (m *mockObserver) Trace(_ context.Context, _ string, _ ...observability.Attribute) {}
func (m *mockObserver) Debug(_ context.Context, msg string, _ ...observability.Attribute) {
	m.debugCount++
}
func (m *mockObserver) Info(_ context.Context, msg string, _ ...observability.Attribute) {
	m.infoCount++
	m.infoMessages = append(m.infoMessages, msg)
}
func (m *mockObserver) Warn(_ context.Context, _ string, _ ...observability.Attribute) {}
func (m *mockObserver) Error(_ context.Context, msg string, _ ...observability.Attribute) {
	m.errorCount++
	m.errorMessages = append(m.errorMessages, msg)
}

type mockSpan struct {
	observer    *mockObserver
	name        string
	ended       bool
	statusCode  observability.StatusCode
	errorEvents int
}

func (s *mockSpan) End()                                              { s.ended = true; s.observer.spanEndCount++ }
func (s *mockSpan) SetAttributes(_ ...observability.Attribute)        {}
func (s *mockSpan) SetStatus(code observability.StatusCode, _ string) { s.statusCode = code }
func (s *mockSpan) RecordError(_ error)                               { s.errorEvents++ }
func (s *mockSpan) AddEvent(_ string, _ ...observability.Attribute)   {}

type mockCounter struct {
	observer *mockObserver
	name     string
}

func (c *mockCounter) Add(_ context.Context, value int64, _ ...observability.Attribute) {
	c.observer.counterAdds[c.name] += value
}

type mockHistogram struct {
	observer *mockObserver
}

func (h *mockHistogram) Record(_ context.Context, _ float64, _ ...observability.Attribute) {
	h.observer.histogramRecs++
}

// ========== Helpers ==========

func successSendFunc() SendFunc {
	return func(_ context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
		return &ai.ChatResponse{
			Model:        "test-model",
			Content:      "hello world",
			FinishReason: "stop",
			Usage:        &ai.Usage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30},
		}, nil
	}
}

func errorSendFunc(err error) SendFunc {
	return func(_ context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
		return nil, err
	}
}

// ========== Tests ==========

func TestObservabilityMiddleware_Success(t *testing.T) {
	obs := newMockObserver()
	chain := NewObservabilityMiddleware(obs, "default-model").Send(successSendFunc())

	resp, err := chain(context.Background(), ai.ChatRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "hello world" {
		t.Errorf("content = %q", resp.Content)
	}

	if obs.spanStartCount != 1 || obs.spanEndCount != 1 {
		t.Errorf("spans started/ended = %d/%d, want 1/1", obs.spanStartCount, obs.spanEndCount)
	}
	if obs.lastSpan.name != observability.SpanClientComplete {
		t.Errorf("span name = %q", obs.lastSpan.name)
	}
	if obs.lastSpan.statusCode != observability.StatusOK {
		t.Errorf("span status = %v", obs.lastSpan.statusCode)
	}
	if obs.histogramRecs != 1 {
		t.Errorf("histogram records = %d", obs.histogramRecs)
	}
	if obs.counterAdds[observability.MetricClientRequestCount] != 1 {
		t.Errorf("request count = %d", obs.counterAdds[observability.MetricClientRequestCount])
	}
	if obs.counterAdds[observability.MetricClientTokensPrompt] != 10 ||
		obs.counterAdds[observability.MetricClientTokensCompletion] != 20 {
		t.Errorf("token counters = %v", obs.counterAdds)
	}
	if obs.infoCount != 1 || obs.infoMessages[0] != "llm send completed" {
		t.Errorf("info messages = %v", obs.infoMessages)
	}
	if obs.debugCount != 1 {
		t.Errorf("debug count = %d", obs.debugCount)
	}
}

func TestObservabilityMiddleware_Error(t *testing.T) {
	obs := newMockObserver()
	wantErr := errors.New("upstream down")
	chain := NewObservabilityMiddleware(obs, "").Send(errorSendFunc(wantErr))

	_, err := chain(context.Background(), ai.ChatRequest{Model: "m"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}

	if obs.lastSpan.statusCode != observability.StatusError || obs.lastSpan.errorEvents != 1 || !obs.lastSpan.ended {
		t.Errorf("span = %+v", obs.lastSpan)
	}
	if obs.errorCount != 1 || obs.errorMessages[0] != "llm send failed" {
		t.Errorf("error messages = %v", obs.errorMessages)
	}
	if obs.counterAdds[observability.MetricClientRequestCount] != 1 {
		t.Errorf("request count = %d", obs.counterAdds[observability.MetricClientRequestCount])
	}
	if obs.histogramRecs != 0 {
		t.Errorf("no latency should be recorded on error, got %d", obs.histogramRecs)
	}
}

func TestObservabilityMiddleware_InjectsContext(t *testing.T) {
	obs := newMockObserver()

	var gotSpan observability.Span
	var gotObserver observability.Provider
	next := func(ctx context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
		gotSpan = observability.SpanFromContext(ctx)
		gotObserver = observability.ObserverFromContext(ctx)
		return &ai.ChatResponse{Content: "x"}, nil
	}

	if _, err := NewObservabilityMiddleware(obs, "").Send(next)(context.Background(), ai.ChatRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotSpan == nil || gotObserver == nil {
		t.Fatal("span and observer should be available to the provider")
	}
}

func TestObservabilityMiddleware_NoUsage(t *testing.T) {
	obs := newMockObserver()
	next := func(_ context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
		return &ai.ChatResponse{Content: "x"}, nil
	}

	if _, err := NewObservabilityMiddleware(obs, "").Send(next)(context.Background(), ai.ChatRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := obs.counterAdds[observability.MetricClientTokensPrompt]; ok {
		t.Error("token counters should not be touched without usage")
	}
}

func TestEffectiveModel(t *testing.T) {
	tests := []struct {
		request, fallback, want string
	}{
		{"a", "b", "a"},
		{"", "b", "b"},
		{"", "", ""},
	}
	for _, tt := range tests {
		if got := effectiveModel(tt.request, tt.fallback); got != tt.want {
			t.Errorf("effectiveModel(%q, %q) = %q, want %q", tt.request, tt.fallback, got, tt.want)
		}
	}
}
