// Package telemetry manages the OpenTelemetry TracerProvider for the
// spanattrs demo binary: OTLP gRPC export, sampling, resource attributes,
// and shutdown flushing.
package telemetry

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/credentials/insecure"
)

// Config holds the tracing settings for the demo binary.
type Config struct {
	// Enabled indicates whether tracing is active at all.
	Enabled bool

	// Endpoint is the OTLP gRPC collector endpoint (e.g. "localhost:4317").
	Endpoint string

	// Insecure disables TLS on the collector connection.
	Insecure bool

	// SamplingRate is the fraction of traces to sample (0.0 to 1.0).
	SamplingRate float64

	// ServiceName and ServiceVersion identify this process in traces.
	ServiceName    string
	ServiceVersion string

	// PeerService names the probed target, recorded as a resource attribute
	// when set.
	PeerService string
}

// Manager owns the TracerProvider lifecycle. Create it with NewManager, call
// Initialize once at startup and Shutdown once at exit.
//
// Initialization failures degrade gracefully: the manager logs a warning and
// disables tracing instead of failing startup, so the demo keeps working when
// no collector is reachable.
type Manager struct {
	enabled        bool
	config         Config
	tracerProvider *sdktrace.TracerProvider
}

// NewManager creates an uninitialized manager for the given configuration.
func NewManager(cfg Config) *Manager {
	return &Manager{
		enabled: cfg.Enabled,
		config:  cfg,
	}
}

// Initialize creates the OTLP exporter and TracerProvider and registers the
// provider globally. When disabled it does nothing; when setup fails it
// disables tracing and returns nil so the caller can continue without
// telemetry.
func (m *Manager) Initialize(ctx context.Context) error {
	if !m.config.Enabled {
		logrus.Debug("Tracing is disabled in configuration")
		return nil
	}

	exporter, err := m.createExporter(ctx)
	if err != nil {
		logrus.Warnf("Failed to initialize tracing: %v. Continuing without it.", err)
		m.enabled = false
		return nil
	}

	res, err := m.createResource()
	if err != nil {
		logrus.Warnf("Failed to create trace resource: %v. Continuing without tracing.", err)
		m.enabled = false
		return nil
	}

	m.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(m.createSampler()),
	)

	otel.SetTracerProvider(m.tracerProvider)

	logrus.Infof("Tracing initialized (endpoint: %s, sampling: %.2f)",
		m.config.Endpoint, m.config.SamplingRate)

	return nil
}

func (m *Manager) createExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(m.config.Endpoint),
	}
	if m.config.Insecure {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()))
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}
	return exporter, nil
}

func (m *Manager) createResource() (*resource.Resource, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	attrs := []resource.Option{
		resource.WithAttributes(
			semconv.ServiceNameKey.String(m.config.ServiceName),
			semconv.ServiceVersionKey.String(m.config.ServiceVersion),
			semconv.HostNameKey.String(hostname),
		),
	}
	if m.config.PeerService != "" {
		attrs = append(attrs, resource.WithAttributes(
			semconv.PeerServiceKey.String(m.config.PeerService),
		))
	}

	return resource.New(context.Background(), attrs...)
}

func (m *Manager) createSampler() sdktrace.Sampler {
	if m.config.SamplingRate >= 1.0 {
		return sdktrace.AlwaysSample()
	}
	return sdktrace.TraceIDRatioBased(m.config.SamplingRate)
}

// Shutdown flushes pending spans and releases the provider. Safe to call when
// the manager never initialized.
func (m *Manager) Shutdown(ctx context.Context) error {
	if !m.enabled || m.tracerProvider == nil {
		return nil
	}

	logrus.Info("Shutting down TracerProvider...")
	if err := m.tracerProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown TracerProvider: %w", err)
	}
	return nil
}

// IsEnabled reports whether tracing is operational. False when disabled by
// configuration or when initialization failed.
func (m *Manager) IsEnabled() bool {
	return m.enabled
}

// TracerProvider returns the provider for explicit injection, or nil when
// tracing is unavailable.
func (m *Manager) TracerProvider() trace.TracerProvider {
	return m.tracerProvider
}
