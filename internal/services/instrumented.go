package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedGenerator wraps a Generator with a span and a latency
// histogram per upstream call.
type InstrumentedGenerator struct {
	next      Generator
	transport string
	tracer    trace.Tracer
	latency   metric.Float64Histogram
}

func Instrument(next Generator, transport string, tracer trace.Tracer, meter metric.Meter) (*InstrumentedGenerator, error) {
	histogram, err := meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("Gemini request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &InstrumentedGenerator{
		next:      next,
		transport: transport,
		tracer:    tracer,
		latency:   histogram,
	}, nil
}

func (g *InstrumentedGenerator) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	ctx, span := g.tracer.Start(ctx, "gemini_generate_content",
		trace.WithAttributes(
			attribute.String("gemini.transport", g.transport),
			attribute.Int("gemini.prompt_chars", len(prompt)),
		),
	)
	defer span.End()

	start := time.Now()
	text, err := g.next.Generate(ctx, apiKey, prompt)

	outcome := "success"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	g.latency.Record(ctx, float64(time.Since(start).Milliseconds()),
		metric.WithAttributes(
			attribute.String("gemini.transport", g.transport),
			attribute.String("outcome", outcome),
		),
	)

	return text, err
}
