package telemetry

import (
	"context"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel/metric"
)

const (
	report_perf_cpu          = "perf.cpu-percent"
	report_perf_allocated_mb = "perf.allocated-mb"
	report_perf_live_objects = "perf.live-objects"
	report_perf_gauges       = "perf.gauges"
)

// ReportPerfStats reports a single snapshot of process resource usage and
// records it on the perf gauges of the given meter provider.
func ReportPerfStats(ctx context.Context, tel API, provider metric.MeterProvider) {
	meter := provider.Meter("go.perf_stats")
	cpuGauge, err := meter.Float64Gauge("cpu_usage")
	if err != nil {
		tel.ReportWarning(report_perf_gauges, err)
	}
	memoryGauge, err := meter.Int64Gauge("allocated_mb")
	if err != nil {
		tel.ReportWarning(report_perf_gauges, err)
	}
	liveObjectsGauge, err := meter.Int64Gauge("live_objects")
	if err != nil {
		tel.ReportWarning(report_perf_gauges, err)
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	cpuUsage, err := cpu.Percent(0, false)
	if err != nil || len(cpuUsage) == 0 {
		tel.ReportWarning(report_perf_cpu, err)
	} else {
		tel.ReportCount(report_perf_cpu, int64(cpuUsage[0]))
		if cpuGauge != nil {
			cpuGauge.Record(ctx, cpuUsage[0])
		}
	}

	allocatedMb := int64(memStats.Alloc / 1_000_000)
	liveObjects := int64(memStats.Mallocs) - int64(memStats.Frees)
	tel.ReportCount(report_perf_allocated_mb, allocatedMb)
	tel.ReportCount(report_perf_live_objects, liveObjects)
	if memoryGauge != nil {
		memoryGauge.Record(ctx, allocatedMb)
	}
	if liveObjectsGauge != nil {
		liveObjectsGauge.Record(ctx, liveObjects)
	}
}
