package server

import (
	"go.opencensus.io/trace"

	"go.viam.com/rx160/logging"
)

// loggingSpanExporter writes finished spans to a logger at debug level.
type loggingSpanExporter struct {
	logger logging.Logger
}

func newLoggingSpanExporter(logger logging.Logger) *loggingSpanExporter {
	return &loggingSpanExporter{logger: logger}
}

// ExportSpan implements trace.Exporter.
func (e *loggingSpanExporter) ExportSpan(s *trace.SpanData) {
	keysAndValues := []interface{}{
		"trace_id", s.TraceID.String(),
		"span_id", s.SpanID.String(),
		"duration", s.EndTime.Sub(s.StartTime),
	}
	if s.ParentSpanID != (trace.SpanID{}) {
		keysAndValues = append(keysAndValues, "parent_id", s.ParentSpanID.String())
	}
	if s.Status.Code != trace.StatusCodeOK {
		keysAndValues = append(keysAndValues, "status", s.Status.Code, "status_message", s.Status.Message)
	}
	for k, v := range s.Attributes {
		keysAndValues = append(keysAndValues, k, v)
	}
	e.logger.Debugw(s.Name, keysAndValues...)
}
