package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/joseph-ayodele/lease-extractor/internal/app"
	"github.com/joseph-ayodele/lease-extractor/internal/async"
	"github.com/joseph-ayodele/lease-extractor/internal/common"
	"github.com/joseph-ayodele/lease-extractor/internal/ingest"
	"github.com/joseph-ayodele/lease-extractor/internal/metrics"
)

// pipelineService is the health service name reporting watcher state.
const pipelineService = "lease.Pipeline"

func main() {
	configPath := flag.String("config", "", "YAML config file (optional; env vars win over it)")
	flag.Parse()

	cfg, err := common.LoadConfigFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := common.NewLogger("leased", cfg.LogLevel)
	slog.SetDefault(logger)
	logger.Info("config loaded", "config", cfg.String())

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.NewPipelineMetrics("leased")
	a, err := app.New(ctx, cfg, logger, m)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}()

	queue := async.NewProcessorQueue(func(ctx context.Context, job async.Job) error {
		_, err := a.Processor.ProcessFile(ctx, job.Path)
		return err
	}, logger,
		async.WithWorkers(cfg.Pipeline.Workers),
		async.WithQueueSize(cfg.Server.QueueSize),
		async.WithProcessTimeout(cfg.Pipeline.DocumentTimeout),
	)

	// gRPC server
	grpcServer := grpc.NewServer()
	// Health service
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(pipelineService, healthpb.HealthCheckResponse_NOT_SERVING)
	// Reflection for grpcurl
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("listen", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}
	go func() {
		logger.Info("gRPC serving", "addr", cfg.Server.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("grpc serve", "error", err)
			stop()
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	metricsSrv := &http.Server{Addr: cfg.Server.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("metrics serving", "addr", cfg.Server.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics serve", "error", err)
			stop()
		}
	}()

	events, watchErrs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Root:        cfg.Paths.InputDir,
		InitialScan: true,
		Debounce:    cfg.Server.WatchDebounce,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("start watcher", "dir", cfg.Paths.InputDir, "error", err)
		os.Exit(1)
	}
	hs.SetServingStatus(pipelineService, healthpb.HealthCheckResponse_SERVING)
	logger.Info("watching for contracts", "dir", cfg.Paths.InputDir)

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case path, ok := <-events:
			if !ok {
				break loop
			}
			if err := queue.Enqueue(ctx, async.Job{Path: path, SubmittedAt: time.Now()}); err != nil {
				logger.Warn("enqueue failed", "path", path, "error", err)
			}
		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			logger.Warn("watcher error", "error", err)
		}
	}

	logger.Info("shutting down...")
	hs.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Pipeline.DocumentTimeout+5*time.Second)
	defer cancel()
	queue.Shutdown(shutdownCtx)
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics shutdown", "error", err)
	}
	grpcServer.GracefulStop()
	logger.Info("stopped")
}
