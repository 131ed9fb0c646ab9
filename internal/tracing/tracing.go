// Package tracing wires OpenTelemetry spans around the compiler's phases
// (lex, parse, expand, link): exporter selection and resource/sampler
// setup for a batch compile, with no HTTP header propagation to carry.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Config selects the exporter backing a compile run's spans.
type Config struct {
	ServiceName  string
	Endpoint     string
	UseOTLP      bool
	SamplingRate float64
}

// DefaultConfig traces every compile via the stdout exporter, suited to a
// local CLI run rather than a long-lived service.
func DefaultConfig() Config {
	return Config{ServiceName: "huffc", SamplingRate: 1.0}
}

// Provider wraps the tracer provider for one process lifetime.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// Init builds and installs the global tracer provider from cfg.
func Init(cfg Config) (*Provider, error) {
	var exporter sdktrace.SpanExporter
	var err error

	if cfg.UseOTLP {
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = "localhost:4317"
		}
		client := otlptracegrpc.NewClient(
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
		exporter, err = otlptrace.New(context.Background(), client)
	} else {
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	if err != nil {
		return nil, fmt.Errorf("tracing: create exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(cfg.ServiceName),
			attribute.String("library.language", "go"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("tracing: build resource: %w", err)
	}

	sampler := sdktrace.TraceIDRatioBased(cfg.SamplingRate)
	if cfg.SamplingRate >= 1.0 {
		sampler = sdktrace.AlwaysSample()
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)
	otel.SetTracerProvider(tp)
	return &Provider{tp: tp}, nil
}

// Shutdown flushes and stops the tracer provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.tp == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}

func tracer() trace.Tracer { return otel.Tracer("huffc") }

// StartPhase opens a span for one named compiler phase ("lex", "parse",
// "expand", "link") tagged with the contract's entry macro name and the
// session.ID of the compile run it belongs to.
func StartPhase(ctx context.Context, phase, entry string, sessionID string) (context.Context, trace.Span) {
	ctx, span := tracer().Start(ctx, "huffc."+phase)
	span.SetAttributes(
		attribute.String("huffc.entry", entry),
		attribute.String("huffc.session_id", sessionID),
	)
	return ctx, span
}
