package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"

	"github.com/joao-fontenele/storefront/internal/catalog"
	"github.com/joao-fontenele/storefront/internal/config"
	"github.com/joao-fontenele/storefront/internal/messaging"
	"github.com/joao-fontenele/storefront/internal/orders"
	"github.com/joao-fontenele/storefront/internal/storefront"
	"github.com/joao-fontenele/storefront/internal/telemetry"
	"github.com/joao-fontenele/storefront/internal/ui"
	"github.com/joao-fontenele/storefront/internal/view"
)

const serviceName = "storefront"

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.OTLPEndpoint, serviceName, cfg.ServiceVersion)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, cfg.ServiceVersion)
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	if err := runtime.Start(); err != nil {
		logger.Error("failed to start runtime metrics", "error", err)
	}

	metrics, err := telemetry.NewMetrics(otel.Meter(serviceName))
	if err != nil {
		logger.Error("failed to create metrics", "error", err)
		os.Exit(1)
	}

	httpClient := telemetry.NewHTTPClient()
	opts := []storefront.Option{storefront.WithMetrics(metrics)}

	if brokers := cfg.Brokers(); len(brokers) > 0 {
		producer := messaging.NewProducer(brokers, cfg.EventsTopic)
		defer func() { _ = producer.Close() }()
		opts = append(opts, storefront.WithEventPublisher(producer))
		logger.Info("publishing storefront events", "brokers", brokers, "topic", cfg.EventsTopic)
	}

	app := storefront.NewApp(
		catalog.NewClient(cfg.CatalogBaseURL, httpClient),
		orders.NewClient(cfg.BackendBaseURL, httpClient),
		logger,
		opts...,
	)
	unsubscribe := app.Subscribe(func(c storefront.Change) {
		logger.Debug("view changed",
			"view", c.View.String(),
			"products", len(c.Snapshot.Products),
			"cart_lines", len(c.Snapshot.CartLines),
			"orders", len(c.Snapshot.Orders),
		)
	})
	defer unsubscribe()

	// Initial load failures are already shown as notices; the server still starts.
	if err := app.Start(ctx); err != nil {
		logger.Warn("initial load incomplete", "error", err)
	}

	mux := http.NewServeMux()
	ui.NewHandler(app, view.NewRenderer(cfg.CurrencySymbol), logger).Register(mux)
	mux.Handle("GET /metrics", metricsHandler)

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: otelhttp.NewHandler(mux, serviceName,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("starting storefront", "port", cfg.Port, "backend", cfg.BackendBaseURL, "catalog", cfg.CatalogBaseURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
