// Spanattrs Demo probes an HTTP target on an interval, traces every probe,
// and records validated custom attributes on the probe span through the
// spanattrs library. Probe and attribute-write counters are exposed for
// Prometheus scraping.
//
// Usage:
//
//	spanattrs-demo --config config.yaml [--debug]
//
// Configuration is provided via YAML file specifying:
//   - Server settings (host, port, metrics URI, log file)
//   - Probe target (URL, interval, timeout)
//   - OpenTelemetry settings (endpoint, sampling)
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/fjacquet/spanattrs"
	"github.com/fjacquet/spanattrs/internal/config"
	"github.com/fjacquet/spanattrs/internal/metrics"
	"github.com/fjacquet/spanattrs/internal/telemetry"
)

const (
	programName       = "spanattrs-demo"
	programVersion    = "1.0.0"
	shutdownTimeout   = 10 * time.Second // Maximum time to wait for graceful shutdown
	readHeaderTimeout = 5 * time.Second  // HTTP server read header timeout
)

var (
	configFile string
	debug      bool
)

// Server runs the probe loop and the metrics endpoint. Server errors are
// delivered through ErrorChan() so the caller can shut down gracefully
// instead of the goroutine calling log.Fatal.
type Server struct {
	cfg              *config.Config
	httpSrv          *http.Server
	metrics          *metrics.Metrics
	telemetryManager *telemetry.Manager
	tracer           trace.Tracer
	client           *resty.Client
	attrs            *spanattrs.Instrumentation

	// serverErrChan is buffered so the HTTP goroutine can report an error
	// even before the main select starts listening.
	serverErrChan chan error
	stopProbes    chan struct{}
	probesDone    chan struct{}
}

// NewServer creates a server for the given configuration.
func NewServer(cfg *config.Config) *Server {
	var telemetryMgr *telemetry.Manager
	if cfg.OpenTelemetry.Enabled {
		telemetryMgr = telemetry.NewManager(telemetry.Config{
			Enabled:        cfg.OpenTelemetry.Enabled,
			Endpoint:       cfg.OpenTelemetry.Endpoint,
			Insecure:       cfg.OpenTelemetry.Insecure,
			SamplingRate:   cfg.OpenTelemetry.SamplingRate,
			ServiceName:    programName,
			ServiceVersion: programVersion,
			PeerService:    cfg.ProbeHost(),
		})
	}

	return &Server{
		cfg:              cfg,
		metrics:          metrics.New(),
		telemetryManager: telemetryMgr,
		attrs:            spanattrs.New(),
		serverErrChan:    make(chan error, 1),
		stopProbes:       make(chan struct{}),
		probesDone:       make(chan struct{}),
	}
}

// Start initializes telemetry, the HTTP client, the metrics endpoint and the
// probe loop.
func (s *Server) Start() error {
	s.tracer = noop.NewTracerProvider().Tracer(programName)

	if s.telemetryManager != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.telemetryManager.Initialize(ctx); err != nil {
			log.Warnf("Failed to initialize tracing: %v. Continuing without it.", err)
		}

		if s.telemetryManager.IsEnabled() {
			s.tracer = s.telemetryManager.TracerProvider().Tracer(programName)
			otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
				propagation.TraceContext{},
				propagation.Baggage{},
			))
		}
	}

	s.client = resty.New().
		SetTimeout(s.cfg.ProbeTimeout()).
		SetHeader("User-Agent", programName+"/"+programVersion)

	mux := http.NewServeMux()
	mux.Handle(s.cfg.Server.URI, promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))

	s.httpSrv = &http.Server{
		Addr:              s.cfg.ServerAddress(),
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Infof("Starting %s on %s%s", programName, s.cfg.ServerAddress(), s.cfg.Server.URI)
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	go s.probeLoop()

	return nil
}

// ErrorChan returns the channel for receiving server errors.
func (s *Server) ErrorChan() <-chan error {
	return s.serverErrChan
}

// probeLoop probes the target once immediately and then on every interval
// tick until stopped.
func (s *Server) probeLoop() {
	defer close(s.probesDone)

	ticker := time.NewTicker(s.cfg.ProbeInterval())
	defer ticker.Stop()

	var attempt int64
	for {
		attempt++
		s.runProbe(context.Background(), attempt)

		select {
		case <-s.stopProbes:
			return
		case <-ticker.C:
		}
	}
}

// runProbe performs one traced probe request and records its outcome as
// custom span attributes.
func (s *Server) runProbe(ctx context.Context, attempt int64) {
	ctx, span := s.tracer.Start(ctx, "probe.request")
	defer span.End()

	start := time.Now()
	resp, err := s.client.R().SetContext(ctx).Get(s.cfg.Probe.URL)
	elapsed := time.Since(start)

	s.setAttr(ctx, "string", telemetry.AttrProbeTarget, s.cfg.ProbeHost())
	s.setAttr(ctx, "string", telemetry.AttrProbeMethod, http.MethodGet)
	s.setAttr(ctx, "int", telemetry.AttrProbeAttempt, attempt)
	s.setAttr(ctx, "float", telemetry.AttrProbeDurationMS, float64(elapsed.Milliseconds()))

	if err != nil {
		span.RecordError(err)
		s.setAttr(ctx, "bool", telemetry.AttrProbeSuccess, false)
		s.metrics.ObserveProbe("failure")
		log.Warnf("Probe %d failed: %v", attempt, err)
		return
	}

	s.setAttr(ctx, "int", telemetry.AttrProbeStatusCode, resp.StatusCode())
	s.setAttr(ctx, "bool", telemetry.AttrProbeSuccess, resp.IsSuccess())

	tags := []*string{spanattrs.Ptr(programName), spanattrs.Ptr(s.cfg.ProbeHost())}
	if err := s.attrs.SetStrList(ctx, telemetry.AttrProbeTags, tags); err != nil {
		s.observeSetError(telemetry.AttrProbeTags, err)
	} else {
		s.metrics.ObserveWrite("string.list")
	}

	s.metrics.ObserveProbe("success")
	log.Debugf("Probe %d: %d in %s", attempt, resp.StatusCode(), elapsed)
}

// setAttr writes one attribute through the spanattrs library, counting the
// write or the rejection.
func (s *Server) setAttr(ctx context.Context, kind, key string, value any) {
	if err := s.attrs.Set(ctx, key, value); err != nil {
		s.observeSetError(key, err)
		return
	}
	s.metrics.ObserveWrite(kind)
}

// observeSetError counts a rejected write under its error kind.
func (s *Server) observeSetError(key string, err error) {
	var verr *spanattrs.ValidationError
	if errors.As(err, &verr) {
		s.metrics.ObserveFailure("validation")
	} else {
		s.metrics.ObserveFailure("span.context")
	}
	log.Debugf("Attribute %q dropped: %v", key, err)
}

// Shutdown stops the probe loop, the HTTP server, and telemetry, in that
// order. Telemetry goes last so in-flight probe spans are flushed.
func (s *Server) Shutdown() error {
	var errs []error

	close(s.stopProbes)
	select {
	case <-s.probesDone:
	case <-time.After(shutdownTimeout):
		errs = append(errs, errors.New("probe loop did not stop in time"))
	}

	if s.httpSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info("Shutting down HTTP server...")
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		}
	}

	if s.telemetryManager != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info("Shutting down telemetry...")
		if err := s.telemetryManager.Shutdown(ctx); err != nil {
			log.Warnf("Telemetry shutdown warning: %v", err)
		}
	}

	return errors.Join(errs...)
}

// setupLogging configures logrus: debug level when requested, and JSON output
// to stdout plus the configured log file when one is set.
func setupLogging(cfg *config.Config, debug bool) error {
	if debug {
		log.SetLevel(log.DebugLevel)
	}

	if cfg.Server.LogName == "" {
		return nil
	}

	logFile, err := os.OpenFile(cfg.Server.LogName, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(io.MultiWriter(os.Stdout, logFile))
	log.SetFormatter(&log.JSONFormatter{})
	return nil
}

// waitForShutdown blocks until a termination signal arrives or the server
// reports an error.
func waitForShutdown(serverErr <-chan error) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Infof("Received signal %v, initiating graceful shutdown...", sig)
		return nil
	case err := <-serverErr:
		return err
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:   programName,
		Short: "Traced HTTP probe demonstrating validated custom span attributes",
		Long: "Spanattrs Demo probes an HTTP target inside OpenTelemetry spans and records " +
			"namespaced custom attributes on them through the spanattrs library",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}

			if err := setupLogging(cfg, debug); err != nil {
				return err
			}

			log.Infof("Starting %s...", programName)
			log.Infof("Probe target: %s every %s", cfg.Probe.URL, cfg.Probe.Interval)

			server := NewServer(cfg)
			if err := server.Start(); err != nil {
				return err
			}

			if err := waitForShutdown(server.ErrorChan()); err != nil {
				log.Errorf("Server error: %v", err)
			}

			return server.Shutdown()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (required)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	_ = rootCmd.MarkPersistentFlagRequired("config")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
