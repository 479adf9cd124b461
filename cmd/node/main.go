// cmd/node/main.go
package main

import (
	"context"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"distributed-imaging/internal/config"
	"distributed-imaging/internal/infra/sqlstore"
	"distributed-imaging/internal/tracing"
	"distributed-imaging/internal/worker"
	pb "distributed-imaging/proto"

	"github.com/google/uuid"
	otelgrpc "go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
)

func main() {
	// 1. Init logger, tracer, config
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	tracerShutdown, err := tracing.InitTracer("distributed-imaging-node")
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tracerShutdown(context.Background()); err != nil {
			log.Printf("failed to shutdown tracer: %v", err)
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	nodeName := cfg.NodeName
	if nodeName == "" {
		nodeName = "node-" + uuid.New().String()[:8]
	}
	log.Printf("Starting worker node %s, listening on %s", nodeName, cfg.NodeListenAddr)

	// 2. Create root context for lifecycle management
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Setup graceful shutdown
	setupGracefulShutdown(cancel)

	// 4. Open the shared store; nodes report state through the same ledger
	// the coordinator reads.
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

	// 5. Start the heartbeat loop so the coordinator can find this node
	heartbeat := worker.NewHeartbeat(
		nodeRepo, nodeName, cfg.NodeAdvertiseHost, cfg.NodeAdvertisePort,
		cfg.HeartbeatInterval, logger,
	)
	go func() {
		if err := heartbeat.Start(rootCtx); err != nil && err != context.Canceled {
			log.Fatalf("Heartbeat loop stopped with error: %v", err)
		}
	}()

	// 6. Instantiate and start the gRPC server
	lis, err := net.Listen("tcp", cfg.NodeListenAddr)
	if err != nil {
		log.Fatalf("Failed to listen for gRPC: %v", err)
	}

	nodeServer := worker.NewServer(jobRepo, nodeName, cfg.NodeResultsDir, logger)
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
	)
	pb.RegisterImageNodeServer(grpcServer, nodeServer)

	log.Printf("gRPC server listening on %s", cfg.NodeListenAddr)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("gRPC server failed: %v", err)
		}
	}()

	// 7. Block until shutdown
	<-rootCtx.Done()
	log.Println("Shutting down node gracefully...")
	grpcServer.GracefulStop()
	log.Println("Node shut down.")
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
