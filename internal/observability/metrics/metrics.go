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

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	teamsFormed      metric.Int64Counter
	answersRecorded  metric.Int64Counter
	rankingsComputed metric.Int64Counter
	rateLimitDenied  metric.Int64Counter
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

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "teampulse"
	}
	meter := provider.Meter(name)

	teamsFormed, err := meter.Int64Counter("teampulse_teams_formed_total")
	if err != nil {
		return nil, err
	}
	answersRecorded, err := meter.Int64Counter("teampulse_answers_recorded_total")
	if err != nil {
		return nil, err
	}
	rankingsComputed, err := meter.Int64Counter("teampulse_rankings_computed_total")
	if err != nil {
		return nil, err
	}
	rateLimitDenied, err := meter.Int64Counter("teampulse_rate_limit_denied_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		teamsFormed:      teamsFormed,
		answersRecorded:  answersRecorded,
		rankingsComputed: rankingsComputed,
		rateLimitDenied:  rateLimitDenied,
	}, nil
}

// RecordTeamsFormed counts teams created for a period.
func (m *Metrics) RecordTeamsFormed(ctx context.Context, periodKey string, count int) {
	if m == nil {
		return
	}
	m.teamsFormed.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("period", periodKey),
	))
}

// RecordAnswer counts a stored evaluation answer by source.
func (m *Metrics) RecordAnswer(ctx context.Context, source string) {
	if m == nil {
		return
	}
	m.answersRecorded.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
	))
}

// RecordRankingComputed counts full ranking recomputations (cache misses).
func (m *Metrics) RecordRankingComputed(ctx context.Context, periodKey string) {
	if m == nil {
		return
	}
	m.rankingsComputed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("period", periodKey),
	))
}

// RecordRateLimitDenied counts rejected submissions.
func (m *Metrics) RecordRateLimitDenied(ctx context.Context) {
	if m == nil {
		return
	}
	m.rateLimitDenied.Add(ctx, 1)
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	ctx := context.Background()
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "", "grpc":
		return otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case "http", "http/protobuf":
		return otlpmetrichttp.New(ctx,
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported otlp metric protocol %q", protocol)
	}
}
