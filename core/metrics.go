package core

import (
	"context"
	"fmt"
	"strings"
)

const metricPrefix = "payware."

// metricTagFields are the operation fields promoted to metric tags. Anything
// else stays in the log line only, to keep tag cardinality bounded.
var metricTagFields = []string{"role", "digest_algorithm", "key_format"}

// NopMetricsRecorder drops the payware.<operation>.total counters and
// payware.<operation>.duration_ms histograms. It is the Service default.
type NopMetricsRecorder struct{}

func (NopMetricsRecorder) IncCounter(context.Context, string, int64, map[string]string) {}

func (NopMetricsRecorder) ObserveHistogram(context.Context, string, float64, map[string]string) {}

var _ MetricsRecorder = NopMetricsRecorder{}

func operationCounterName(operation string) string {
	return metricPrefix + operation + ".total"
}

func operationDurationName(operation string) string {
	return metricPrefix + operation + ".duration_ms"
}

// operationTags builds the tag set shared by an operation's counter and
// histogram. Empty or nil field values are left out.
func operationTags(operation string, status string, fields map[string]any) map[string]string {
	tags := map[string]string{
		"operation": operation,
		"status":    status,
	}
	for _, key := range metricTagFields {
		raw, ok := fields[key]
		if !ok || raw == nil {
			continue
		}
		if value := strings.TrimSpace(fmt.Sprint(raw)); value != "" {
			tags[key] = value
		}
	}
	return tags
}

// cloneTags hands recorders their own copy so a sink that keeps the map
// cannot see later mutations.
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
