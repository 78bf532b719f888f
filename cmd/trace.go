// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"

	"github.com/hashicorp/go-hclog"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// logExporter writes finished spans to a logger.
type logExporter struct {
	logger hclog.Logger
}

var _ sdktrace.SpanExporter = (*logExporter)(nil)

func (x *logExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		args := []interface{}{
			"duration", s.EndTime().Sub(s.StartTime()),
			"status", s.Status().Code.String(),
		}
		for _, kv := range s.Attributes() {
			args = append(args, string(kv.Key), kv.Value.Emit())
		}
		x.logger.Info(s.Name(), args...)
	}
	return nil
}

func (x *logExporter) Shutdown(ctx context.Context) error {
	return nil
}

func newTracerProvider(logger hclog.Logger) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(&logExporter{logger: logger}),
	)
}
