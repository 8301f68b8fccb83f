package obs

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "archive-route-service"

// Tracer returns the service tracer from the global provider (a no-op until
// InitStdoutTracing is called).
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// InitStdoutTracing installs a global tracer provider that writes spans to w.
// The returned function flushes and shuts the provider down.
func InitStdoutTracing(w io.Writer) (func(context.Context) error, error) {
	exp, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("init tracing: stdout exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
