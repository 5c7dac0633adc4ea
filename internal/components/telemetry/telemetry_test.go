package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Aggregation{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestScopedAPI(t *testing.T) {
	rec := &Recorder{}
	scoped := NewScopedAPI("leaders", rec)

	scoped.ReportBroken("client.countries", "boom")
	scoped.ReportWarning("session.refresh", 500)
	scoped.ReportCount("scrape.excerpts", 3)

	broken := rec.Reports(REPORT_BROKEN)
	require.Len(t, broken, 1)
	require.Equal(t, "leaders: client.countries", broken[0].Id)
	require.Equal(t, []any{"boom"}, broken[0].Params)

	require.True(t, rec.Has(REPORT_WARNING, "session.refresh"))
	require.False(t, rec.Has(REPORT_WARNING, "client.countries"))

	counts := rec.Reports(REPORT_COUNT)
	require.Len(t, counts, 1)
	require.Equal(t, int64(3), counts[0].Count)
}

func TestSetupWithoutEndpoints(t *testing.T) {
	tel, err := Setup(context.Background(), "test:telemetry", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestReportPerfStats(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	rec := &Recorder{}
	ReportPerfStats(context.Background(), rec, provider)
	require.True(t, rec.Has(REPORT_COUNT, report_perf_allocated_mb))
	require.True(t, rec.Has(REPORT_COUNT, report_perf_live_objects))
	require.False(t, rec.Has(REPORT_WARNING, report_perf_gauges))

	metrics := collect(t, reader)

	memory, ok := metrics["allocated_mb"].(metricdata.Gauge[int64])
	require.True(t, ok, "allocated_mb gauge missing")
	require.Len(t, memory.DataPoints, 1)

	liveObjects, ok := metrics["live_objects"].(metricdata.Gauge[int64])
	require.True(t, ok, "live_objects gauge missing")
	require.Len(t, liveObjects.DataPoints, 1)
	require.Greater(t, liveObjects.DataPoints[0].Value, int64(0))
}

func TestMeterAPI(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	rec := &Recorder{}
	tel, err := NewMeterAPI(rec, provider)
	require.NoError(t, err)

	tel.ReportCount("run.excerpts", 3)
	tel.ReportCount("links.ok", 2)
	tel.ReportCount("links.ok", 2)
	tel.ReportWarning("links.link", "timeout")

	require.Len(t, rec.Reports(REPORT_COUNT), 3)
	require.True(t, rec.Has(REPORT_WARNING, "links.link"))

	sum, ok := collect(t, reader)["report_count"].(metricdata.Sum[int64])
	require.True(t, ok, "report_count counter missing")
	require.True(t, sum.IsMonotonic)

	byId := map[string]int64{}
	for _, point := range sum.DataPoints {
		id, ok := point.Attributes.Value(attribute.Key("id"))
		require.True(t, ok)
		byId[id.AsString()] = point.Value
	}
	require.Equal(t, map[string]int64{"run.excerpts": 3, "links.ok": 4}, byId)
}
