package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"

	"github.com/benz9527/xlist/lib/infra"
)

type ExporterType string

const (
	NoneExporter       ExporterType = "none"
	StdoutExporter     ExporterType = "stdout"
	PrometheusExporter ExporterType = "prometheus"
)

func ParseExporterType(typ string) (ExporterType, error) {
	switch t := ExporterType(strings.ToLower(strings.TrimSpace(typ))); t {
	case "":
		return NoneExporter, nil
	case NoneExporter, StdoutExporter, PrometheusExporter:
		return t, nil
	default:
	}
	return NoneExporter, infra.NewErrorStack("unknown metrics exporter: " + typ)
}

// Serves for test/dev environment.
func newConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (func(ctx context.Context) error, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// Serves for the product environment and fetch stats metrics by HTTP.
func newPrometheusMetricsExporter() (func(ctx context.Context) error, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// InitMetricsExporter installs the global meter provider and returns its
// shutdown callback. The none exporter keeps the otel no-op provider.
func InitMetricsExporter(typ ExporterType, interval time.Duration) (func(ctx context.Context) error, error) {
	var (
		shutdown func(ctx context.Context) error
		err      error
	)
	switch typ {
	case StdoutExporter:
		if interval <= 0 {
			interval = 30 * time.Second
		}
		shutdown, err = newConsoleMetricsExporter(interval, interval/2)
	case PrometheusExporter:
		shutdown, err = newPrometheusMetricsExporter()
	default:
		return func(ctx context.Context) error { return nil }, nil
	}
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "init "+string(typ)+" metrics exporter")
	}
	return shutdown, nil
}
