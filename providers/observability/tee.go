package observability

import "context"

// Tee returns a Provider that forwards every call to each of providers in
// order. Nil providers are skipped; with none left Tee returns nil.
func Tee(providers ...Provider) Provider {
	kept := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return tee(kept)
}

type tee []Provider

func (t tee) StartSpan(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	spans := make(teeSpan, 0, len(t))
	for _, p := range t {
		var span Span
		ctx, span = p.StartSpan(ctx, name, attrs...)
		if span != nil {
			spans = append(spans, span)
		}
	}
	return ctx, spans
}

func (t tee) Counter(name string) Counter {
	counters := make(teeCounter, 0, len(t))
	for _, p := range t {
		if c := p.Counter(name); c != nil {
			counters = append(counters, c)
		}
	}
	return counters
}

func (t tee) Histogram(name string) Histogram {
	histograms := make(teeHistogram, 0, len(t))
	for _, p := range t {
		if h := p.Histogram(name); h != nil {
			histograms = append(histograms, h)
		}
	}
	return histograms
}

func (t tee) Trace(ctx context.Context, msg string, attrs ...Attribute) {
	for _, p := range t {
		p.Trace(ctx, msg, attrs...)
	}
}

func (t tee) Debug(ctx context.Context, msg string, attrs ...Attribute) {
	for _, p := range t {
		p.Debug(ctx, msg, attrs...)
	}
}

func (t tee) Info(ctx context.Context, msg string, attrs ...Attribute) {
	for _, p := range t {
		p.Info(ctx, msg, attrs...)
	}
}

func (t tee) Warn(ctx context.Context, msg string, attrs ...Attribute) {
	for _, p := range t {
		p.Warn(ctx, msg, attrs...)
	}
}

func (t tee) Error(ctx context.Context, msg string, attrs ...Attribute) {
	for _, p := range t {
		p.Error(ctx, msg, attrs...)
	}
}

type teeSpan []Span

func (s teeSpan) End() {
	for _, span := range s {
		span.End()
	}
}

func (s teeSpan) SetAttributes(attrs ...Attribute) {
	for _, span := range s {
		span.SetAttributes(attrs...)
	}
}

func (s teeSpan) SetStatus(code StatusCode, description string) {
	for _, span := range s {
		span.SetStatus(code, description)
	}
}

func (s teeSpan) RecordError(err error) {
	for _, span := range s {
		span.RecordError(err)
	}
}

func (s teeSpan) AddEvent(name string, attrs ...Attribute) {
	for _, span := range s {
		span.AddEvent(name, attrs...)
	}
}

type teeCounter []Counter

func (c teeCounter) Add(ctx context.Context, value int64, attrs ...Attribute) {
	for _, counter := range c {
		counter.Add(ctx, value, attrs...)
	}
}

type teeHistogram []Histogram

func (h teeHistogram) Record(ctx context.Context, value float64, attrs ...Attribute) {
	for _, histogram := range h {
		histogram.Record(ctx, value, attrs...)
	}
}
