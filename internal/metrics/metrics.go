package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/anonto42/ideahub/backend/internal/models"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metrics holds the service instruments. A nil *Metrics records nothing.
type Metrics struct {
	HTTPRequests      metric.Int64Counter
	HTTPDuration      metric.Float64Histogram
	SocialActions     metric.Int64Counter
	PointsAwarded     metric.Int64Counter
	NotificationsSent metric.Int64Counter
	SagaSteps         metric.Int64Counter
	CacheHits         metric.Int64Counter
	CacheMisses       metric.Int64Counter
}

// Setup registers the instruments on a fresh Prometheus registry and returns
// the scrape handler for it.
func Setup(serviceName string) (*Metrics, http.Handler, error) {
	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	m := &Metrics{}

	m.HTTPRequests, err = meter.Int64Counter(
		"ideahub_http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.HTTPDuration, err = meter.Float64Histogram(
		"ideahub_http_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.SocialActions, err = meter.Int64Counter(
		"ideahub_social_actions_total",
		metric.WithDescription("Completed social actions by kind"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.PointsAwarded, err = meter.Int64Counter(
		"ideahub_points_awarded_total",
		metric.WithDescription("Points awarded, labelled by the resulting level"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.NotificationsSent, err = meter.Int64Counter(
		"ideahub_notifications_created_total",
		metric.WithDescription("Notifications created by type"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.SagaSteps, err = meter.Int64Counter(
		"ideahub_saga_steps_total",
		metric.WithDescription("Executed side-effect steps by kind and outcome"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.CacheHits, err = meter.Int64Counter(
		"ideahub_cache_hits_total",
		metric.WithDescription("Total number of cache hits"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.CacheMisses, err = meter.Int64Counter(
		"ideahub_cache_misses_total",
		metric.WithDescription("Total number of cache misses"),
	)
	if err != nil {
		return nil, nil, err
	}

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m, handler, nil
}

func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.Int("status", status),
	)

	m.HTTPRequests.Add(ctx, 1, labels)
	m.HTTPDuration.Record(ctx, duration.Seconds(), labels)
}

func (m *Metrics) RecordSocialAction(ctx context.Context, action string) {
	if m == nil {
		return
	}
	m.SocialActions.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
}

func (m *Metrics) RecordPointsAwarded(ctx context.Context, delta int, level models.Level) {
	if m == nil {
		return
	}
	m.PointsAwarded.Add(ctx, int64(delta), metric.WithAttributes(attribute.String("level", string(level))))
}

func (m *Metrics) RecordNotificationCreated(ctx context.Context, notificationType models.NotificationType) {
	if m == nil {
		return
	}
	m.NotificationsSent.Add(ctx, 1, metric.WithAttributes(attribute.String("type", string(notificationType))))
}

func (m *Metrics) RecordSagaStep(ctx context.Context, kind string, ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.SagaSteps.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	))
}

func (m *Metrics) RecordCacheHit(ctx context.Context, key string) {
	if m == nil {
		return
	}
	m.CacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("key", key)))
}

func (m *Metrics) RecordCacheMiss(ctx context.Context, key string) {
	if m == nil {
		return
	}
	m.CacheMisses.Add(ctx, 1, metric.WithAttributes(attribute.String("key", key)))
}
