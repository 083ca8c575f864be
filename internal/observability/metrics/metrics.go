package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	ReportFunnel  = "funnel"
	ReportHeatmap = "heatmap"

	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes report instruments.
type Metrics struct {
	reports        metric.Int64Counter
	reportDuration metric.Float64Histogram
	heatmapPages   metric.Int64Counter
	storesScanned  metric.Int64Counter
	rateLimited    metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the report instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "storepulse"
	}
	meter := provider.Meter(name)

	reports, err := meter.Int64Counter("storepulse_reports_total")
	if err != nil {
		return nil, err
	}
	reportDuration, err := meter.Float64Histogram("storepulse_report_duration_ms", metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}
	heatmapPages, err := meter.Int64Counter("storepulse_heatmap_pages_total")
	if err != nil {
		return nil, err
	}
	storesScanned, err := meter.Int64Counter("storepulse_stores_scanned_total")
	if err != nil {
		return nil, err
	}

	rateLimited, err := meter.Int64Counter("storepulse_report_rate_limited_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		reports:        reports,
		reportDuration: reportDuration,
		heatmapPages:   heatmapPages,
		storesScanned:  storesScanned,
		rateLimited:    rateLimited,
	}, nil
}

// RecordReport counts one report generation and its latency.
func (m *Metrics) RecordReport(ctx context.Context, report, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("report", strings.TrimSpace(report)),
		attribute.String("outcome", strings.TrimSpace(outcome)),
	)
	m.reports.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.reportDuration.Record(ctx, float64(elapsed.Microseconds())/1000, metric.WithAttributes(attrs...))
}

// RecordHeatmapPages counts store_daily_orders pages read for one heatmap.
func (m *Metrics) RecordHeatmapPages(ctx context.Context, pages int) {
	if m == nil || pages <= 0 {
		return
	}
	m.heatmapPages.Add(ctx, int64(pages))
}

// RecordStoresScanned counts stores read for a report.
func (m *Metrics) RecordStoresScanned(ctx context.Context, report string, stores int) {
	if m == nil || stores <= 0 {
		return
	}
	attrs := FilterAttributes(attribute.String("report", strings.TrimSpace(report)))
	m.storesScanned.Add(ctx, int64(stores), metric.WithAttributes(attrs...))
}

// RecordRateLimitDenied counts a report request rejected by the limiter.
func (m *Metrics) RecordRateLimitDenied(ctx context.Context, report, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("report", strings.TrimSpace(report)),
		attribute.String("reason", strings.TrimSpace(reason)),
	)
	m.rateLimited.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"report":      {},
	"outcome":     {},
	"route":       {},
	"method":      {},
	"status_code": {},
	"reason":      {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
