package commands

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/arcadefleet/hub/internal/logger"
	"github.com/arcadefleet/hub/internal/telemetry"
	"github.com/arcadefleet/hub/pkg/adminapi"
	"github.com/arcadefleet/hub/pkg/artifactstore"
	"github.com/arcadefleet/hub/pkg/artifactstore/memory"
	artifacts3 "github.com/arcadefleet/hub/pkg/artifactstore/s3"
	"github.com/arcadefleet/hub/pkg/batterymonitor"
	"github.com/arcadefleet/hub/pkg/command"
	"github.com/arcadefleet/hub/pkg/config"
	"github.com/arcadefleet/hub/pkg/devicereg"
	"github.com/arcadefleet/hub/pkg/events"
	"github.com/arcadefleet/hub/pkg/hubapi"
	"github.com/arcadefleet/hub/pkg/hubapi/devicetoken"
	"github.com/arcadefleet/hub/pkg/metrics"
	"github.com/arcadefleet/hub/pkg/namestore"
	"github.com/arcadefleet/hub/pkg/orchestrator"
	"github.com/arcadefleet/hub/pkg/registry"

	// Registers the Prometheus constructors for pkg/metrics's indirection
	// layer; never referenced directly.
	_ "github.com/arcadefleet/hub/pkg/metrics/prometheus"
)

var adminToken string

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the hub control-plane server",
	Long: `Start the hub control-plane server.

Runs the TCP device-protocol listener that headsets connect to and the HTTP
surface the delta-sync agent depends on, side by side in one process.

Use --config to specify a custom configuration file, or it will use the
default location discovered by viper (./config.yaml, or $ARCADE_* env vars).`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().StringVar(&adminToken, "admin-token", "", "Bearer token required on the operator admin API (default: unauthenticated, local-dev only)")
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadHub(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := InitLogger(cfg.Logging); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryShutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "arcade-hub",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", logger.Err(err))
		}
	}()

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		reg := metrics.InitRegistry()
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		metricsServer = &http.Server{Addr: fmt.Sprintf(":%d", cfg.Metrics.Port), Handler: mux}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server error", logger.Err(err))
			}
		}()
		logger.Info("metrics enabled", "port", cfg.Metrics.Port)
	}

	names, err := namestore.Open(cfg.NameStore.Dir)
	if err != nil {
		return fmt.Errorf("failed to open name store: %w", err)
	}
	defer func() {
		if err := names.Close(); err != nil {
			logger.Error("name store close error", logger.Err(err))
		}
	}()

	artifacts, err := buildArtifactStore(ctx, cfg.Artifacts)
	if err != nil {
		return fmt.Errorf("failed to build artifact store: %w", err)
	}

	tokens, err := devicetoken.New(devicetoken.Config{
		Secret:        cfg.Token.Secret,
		TokenDuration: cfg.Token.Duration,
	})
	if err != nil {
		return fmt.Errorf("failed to build device token service: %w", err)
	}

	bindHost, bindPort, err := splitHostPort(cfg.Bind)
	if err != nil {
		return fmt.Errorf("invalid bind address %q: %w", cfg.Bind, err)
	}

	sessions := registry.New()
	devices := devicereg.New()
	bus := events.NewBus()

	orch := orchestrator.New(orchestrator.Config{
		BindAddress:      bindHost,
		Port:             bindPort,
		MaxConnections:   cfg.MaxConnections,
		HeartbeatTimeout: cfg.HeartbeatTimeout,
		ShutdownTimeout:  cfg.ShutdownTimeout,
	}, sessions, devices, bus, names)

	executor := command.New(devices, sessions)
	battery := batterymonitor.New(devices, sessions, executor, cfg.BatteryPollInterval)

	assignments := hubapi.NewAssignmentStore()
	httpHandler := hubapi.NewRouter(assignments, artifacts, tokens)
	adminHandler := adminapi.NewRouter(devices, executor, adminToken)

	mux := http.NewServeMux()
	mux.Handle("/api/arcade/", httpHandler)
	mux.Handle("/health", httpHandler)
	mux.Handle("/api/admin/", adminHandler)

	httpServer := &http.Server{
		Addr:         cfg.HTTPBind,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logger.Info("starting hub control plane", "bind", cfg.Bind, "http_bind", cfg.HTTPBind)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 2)
	go func() {
		if err := orch.Serve(ctx); err != nil {
			errCh <- fmt.Errorf("device-control server: %w", err)
		}
	}()
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go battery.Run(ctx)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		logger.Error("server error, shutting down", logger.Err(err))
	}

	cancel()
	orch.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown error", logger.Err(err))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown error", logger.Err(err))
		}
	}

	return nil
}

func splitHostPort(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port %q: %w", portStr, err)
	}
	return host, port, nil
}

func buildArtifactStore(ctx context.Context, cfg config.ArtifactsConfig) (artifactstore.Store, error) {
	switch cfg.Backend {
	case "s3":
		client, err := artifacts3.NewClientFromConfig(ctx, cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.ForcePathStyle)
		if err != nil {
			return nil, err
		}
		return artifacts3.New(artifacts3.Config{Client: client, Bucket: cfg.S3.Bucket, KeyPrefix: cfg.S3.KeyPrefix})
	case "memory", "":
		return memory.New(cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown artifact store backend %q", cfg.Backend)
	}
}
