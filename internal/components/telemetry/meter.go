package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterAPI forwards every report to the wrapped API and additionally adds
// counts to the "report_count" counter, keyed by the report id.
type MeterAPI struct {
	API
	counter metric.Int64Counter
}

func NewMeterAPI(inner API, provider metric.MeterProvider) (MeterAPI, error) {
	counter, err := provider.Meter("leaders-scraper/telemetry").Int64Counter(
		"report_count",
		metric.WithDescription("Counts reported by the scraper, the report id is the id attribute."),
	)
	if err != nil {
		return MeterAPI{}, fmt.Errorf("create report_count counter: %w", err)
	}
	return MeterAPI{API: inner, counter: counter}, nil
}

func (m MeterAPI) ReportCount(id string, count int64) {
	m.API.ReportCount(id, count)
	m.counter.Add(context.Background(), count, metric.WithAttributes(attribute.String("id", id)))
}
