package telemetry

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// InitMeterProvider initializes the Prometheus exporter and MeterProvider.
// It returns an http.Handler for the /metrics endpoint and a shutdown function.
func InitMeterProvider(serviceName, serviceVersion string) (http.Handler, func(context.Context) error, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, err
	}

	mp := metric.NewMeterProvider(
		metric.WithReader(exporter),
		metric.WithResource(serviceResource(serviceName, serviceVersion)),
	)

	otel.SetMeterProvider(mp)

	return promhttp.Handler(), mp.Shutdown, nil
}

// Metrics are the storefront's own instruments. Outcome is recorded as the
// "outcome" attribute: "ok" or "error".
type Metrics struct {
	catalogLoads   otelmetric.Int64Counter
	orderSubmits   otelmetric.Int64Counter
	orderMutations otelmetric.Int64Counter
	cartMutations  otelmetric.Int64Counter
}

func NewMetrics(meter otelmetric.Meter) (*Metrics, error) {
	catalogLoads, err := meter.Int64Counter("storefront.catalog.loads",
		otelmetric.WithDescription("Catalog fetches by outcome"))
	if err != nil {
		return nil, err
	}
	orderSubmits, err := meter.Int64Counter("storefront.orders.submitted",
		otelmetric.WithDescription("Order submissions by outcome"))
	if err != nil {
		return nil, err
	}
	orderMutations, err := meter.Int64Counter("storefront.orders.mutations",
		otelmetric.WithDescription("Order status updates and deletions by operation and outcome"))
	if err != nil {
		return nil, err
	}
	cartMutations, err := meter.Int64Counter("storefront.cart.mutations",
		otelmetric.WithDescription("Cart changes by operation"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		catalogLoads:   catalogLoads,
		orderSubmits:   orderSubmits,
		orderMutations: orderMutations,
		cartMutations:  cartMutations,
	}, nil
}

func (m *Metrics) CatalogLoaded(ctx context.Context, err error) {
	m.catalogLoads.Add(ctx, 1, otelmetric.WithAttributes(outcome(err)))
}

func (m *Metrics) OrderSubmitted(ctx context.Context, err error) {
	m.orderSubmits.Add(ctx, 1, otelmetric.WithAttributes(outcome(err)))
}

func (m *Metrics) OrderMutated(ctx context.Context, operation string, err error) {
	m.orderMutations.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("operation", operation), outcome(err)))
}

func (m *Metrics) CartMutated(ctx context.Context, operation string) {
	m.cartMutations.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("operation", operation)))
}

func outcome(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String("outcome", "error")
	}
	return attribute.String("outcome", "ok")
}
