package observability

import (
	"context"
	"runtime"
	"strings"
	"sync"

	"github.com/samber/lo"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var once sync.Once

func meterName(name string) string {
	builder := &strings.Builder{}
	builder.WriteString("xlist/app")
	builder.WriteString("/")
	if len(strings.TrimSpace(name)) > 0 {
		builder.WriteString(name)
	} else {
		builder.WriteString("default")
	}
	return builder.String()
}

// InitAppStats starts the runtime instrumentation once per process.
func InitAppStats(name string) {
	once.Do(func() {
		lo.Must(otel.Meter(
			meterName(name),
			metric.WithInstrumentationVersion(otelruntime.Version()),
		).Int64ObservableUpDownCounter(
			"app.core.goroutines",
			metric.WithDescription(`The application goroutines' info.`),
			metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
				ob.Observe(int64(runtime.NumGoroutine()))
				return nil
			}),
		))
		_ = otelruntime.Start()
	})
}

// PlaygroundStats counts the list operations issued by the playground.
// A nil *PlaygroundStats records nothing.
type PlaygroundStats struct {
	ops      metric.Int64Counter
	failures metric.Int64Counter
	size     metric.Int64Histogram
}

func NewPlaygroundStats(meter metric.Meter) *PlaygroundStats {
	if meter == nil {
		meter = otel.Meter(meterName("playground"))
	}
	return &PlaygroundStats{
		ops: lo.Must(meter.Int64Counter(
			"playground.ops",
			metric.WithDescription("The linked list operations issued by the playground."),
		)),
		failures: lo.Must(meter.Int64Counter(
			"playground.op.failures",
			metric.WithDescription("The operations that were not applicable, i.e. empty list."),
		)),
		size: lo.Must(meter.Int64Histogram(
			"playground.list.size",
			metric.WithDescription("The list size after each operation."),
		)),
	}
}

func (stats *PlaygroundStats) RecordOp(ctx context.Context, variant, op string, size int64, err error) {
	if stats == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("variant", variant),
		attribute.String("op", op),
	)
	stats.ops.Add(ctx, 1, attrs)
	stats.size.Record(ctx, size, metric.WithAttributes(attribute.String("variant", variant)))
	if err != nil {
		stats.failures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("variant", variant),
			attribute.String("op", op),
			attribute.String("reason", err.Error()),
		))
	}
}
