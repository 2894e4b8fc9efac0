package core

import (
	"context"
	"strings"
)

const metricNamespace = "ecm_events"

// metricSeries builds the namespaced series name for an operation, for
// example "ecm_events.dispatch.total".
func metricSeries(operation string, suffix string) string {
	operation = normalizeOperation(operation)
	if operation == "" {
		operation = "unknown"
	}
	return metricNamespace + "." + operation + "." + strings.TrimSpace(suffix)
}

// metricTagKeys are the envelope dimensions promoted from log fields onto
// metric tags. Everything else stays log-only to keep series cardinality
// bounded.
var metricTagKeys = []string{"event_type", "entity_type", "document_id", "endpoint_id", "delivery_id"}

type NopMetricsRecorder struct{}

func (NopMetricsRecorder) IncCounter(context.Context, string, int64, map[string]string) {}

func (NopMetricsRecorder) ObserveHistogram(context.Context, string, float64, map[string]string) {}

func cloneTags(tags map[string]string) map[string]string {
	if len(tags) == 0 {
		return map[string]string{}
	}
	copied := make(map[string]string, len(tags))
	for key, value := range tags {
		copied[key] = value
	}
	return copied
}

var _ MetricsRecorder = NopMetricsRecorder{}
