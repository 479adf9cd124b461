// cmd/coordinator/main.go
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	http_api "distributed-imaging/internal/api/http"
	"distributed-imaging/internal/config"
	"distributed-imaging/internal/coordinator"
	"distributed-imaging/internal/domain"
	"distributed-imaging/internal/infra/etcd"
	"distributed-imaging/internal/infra/sqlstore"
	"distributed-imaging/internal/tracing"
	"distributed-imaging/internal/usecase"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// 1. Initialize logger and tracer
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	tracerShutdown, err := tracing.InitTracer("distributed-imaging-coordinator")
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tracerShutdown(context.Background()); err != nil {
			log.Printf("failed to shutdown tracer: %v", err)
		}
	}()

	log.Println("Starting image processing coordinator...")

	// 2. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	instanceID := uuid.New().String()
	log.Printf("Coordinator instance ID: %s", instanceID)

	// 3. Create root context for lifecycle management
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Setup graceful shutdown
	setupGracefulShutdown(cancel)

	// 5. Open the shared store and run migrations
	db, err := sqlstore.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer db.Close()
	if err := sqlstore.Migrate(rootCtx, db); err != nil {
		log.Fatalf("Failed to migrate store: %v", err)
	}

	nodeRepo := sqlstore.NewNodeRepository(db, logger)
	jobRepo := sqlstore.NewJobRepository(db, logger)

	// 6. Leader election is optional; a single replica sweeps unconditionally.
	var leaderManager domain.LeaderElectionManager
	if len(cfg.EtcdEndpoints) > 0 {
		etcdClient, err := etcd.NewClient(cfg.EtcdEndpoints, cfg.EtcdTimeout)
		if err != nil {
			log.Fatalf("Failed to create etcd client: %v", err)
		}
		defer etcdClient.Close()
		log.Println("Connected to etcd.")
		leaderManager = etcd.NewEtcdLeaderElectionManager(etcdClient, instanceID, cfg.LeaderElectionTTL, logger)
	}

	// 7. Instantiate components
	dispatcher := coordinator.NewDispatcher(jobRepo, cfg.DispatchTimeout, logger)
	packager := coordinator.NewPackager(cfg.NodeResultsDir, cfg.ArchiveDir, logger)
	sweeper := coordinator.NewSweeper(nodeRepo, cfg.SweepInterval, cfg.LivenessWindow, logger)

	processingService := usecase.NewProcessingService(
		nodeRepo, jobRepo, coordinator.NewRandomSelector(), dispatcher, packager, sweeper,
		cfg.UploadDir, cfg.LivenessWindow, logger,
	)
	sweepService := usecase.NewSweepService(leaderManager, sweeper, instanceID, logger)

	handler := http_api.NewHandler(processingService, cfg.MaxUploadBytes, logger)

	// 8. Register routes and metrics endpoint
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	// 9. Start the sweep service
	go func() {
		if err := sweepService.Start(rootCtx); err != nil && err != context.Canceled {
			log.Fatalf("Sweep service stopped with error: %v", err)
		}
	}()

	// 10. Start HTTP API server
	log.Printf("Starting HTTP API server on %s", cfg.HttpListenAddr)
	server := &http.Server{
		Addr:    cfg.HttpListenAddr,
		Handler: mux,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// 11. Block until shutdown
	<-rootCtx.Done()
	log.Println("Shutting down coordinator gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("HTTP server shutdown failed: %v", err)
	}

	log.Println("Coordinator shut down.")
}

func setupGracefulShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal %v. Initiating graceful shutdown...", sig)
		cancel()
	}()
}
