package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

var meter = otel.Meter("go.perf_stats")
var cpuGauge, _ = meter.Float64Gauge("cpu_usage")
var memoryGauge, _ = meter.Int64Gauge("allocated_mb")
var liveObjectsGauge, _ = meter.Int64Gauge("live_objects")
var goroutineGauge, _ = meter.Int64Gauge("goroutine_count")

// InstrumentPerfStats records process stats every 30 seconds until the
// context is cancelled. useful for keeping an eye on long scrape runs.
func InstrumentPerfStats(ctx context.Context) {
	go recordPerfStats(ctx, time.Second*30)
}

func recordPerfStats(ctx context.Context, interval time.Duration) {
	var memStats runtime.MemStats
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			runtime.ReadMemStats(&memStats)

			// interval 0 compares against the previous sample instead
			// of blocking the loop
			cpuUsage, err := cpu.Percent(0, false)
			if err == nil && len(cpuUsage) > 0 {
				cpuGauge.Record(ctx, cpuUsage[0])
			} else if err != nil {
				slog.ErrorContext(ctx, "failed to read cpu usage", "err", err)
			}

			memoryGauge.Record(ctx, int64(memStats.Alloc/1_000_000))
			liveObjectsGauge.Record(ctx, int64(memStats.Mallocs)-int64(memStats.Frees))
			goroutineGauge.Record(ctx, int64(runtime.NumGoroutine()))
		case <-ctx.Done():
			return
		}
	}
}
