package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"distributed-imaging/internal/domain"
	"distributed-imaging/internal/metrics"
	pb "distributed-imaging/proto"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ledgerWriteTimeout bounds the failure write that follows a dead or timed
// out dispatch call.
const ledgerWriteTimeout = 10 * time.Second

// clientFactory creates an ImageNode client for an address. Injected so
// tests can dispatch against a fake node.
type clientFactory func(addr string) (pb.ImageNodeClient, error)

// Dispatcher sends jobs to worker nodes via gRPC.
type Dispatcher struct {
	jobs      domain.JobRepository
	clients   map[string]pb.ImageNodeClient // A cache for gRPC clients
	mu        sync.Mutex
	timeout   time.Duration
	newClient clientFactory
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewDispatcher creates the dispatch engine. timeout bounds each remote call.
func NewDispatcher(jobs domain.JobRepository, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		jobs:      jobs,
		clients:   make(map[string]pb.ImageNodeClient),
		timeout:   timeout,
		newClient: dialNode,
		logger:    logger.With("component", "dispatcher"),
		tracer:    otel.Tracer("distributed-imaging-dispatcher"),
	}
}

// Dispatch hands the job to the node in the background and returns
// immediately. The outcome is visible only through the ledger: a failed call
// marks the job failed, a successful one leaves the state transitions to the
// node.
func (d *Dispatcher) Dispatch(node domain.Node, req domain.DispatchRequest) {
	go func() {
		// Deliberately detached from the submission request's context; the
		// HTTP response has already been sent by the time this runs.
		ctx, span := d.tracer.Start(context.Background(), "dispatcher.Dispatch",
			trace.WithAttributes(
				attribute.String("job.id", req.JobUUID),
				attribute.String("node.name", node.Name),
			))
		defer span.End()

		if err := d.dispatchOnce(ctx, node, req); err != nil {
			span.RecordError(err)
			metrics.DispatchTotal.WithLabelValues(node.Name, "error").Inc()
			d.logger.Error("dispatch failed", "job_id", req.JobUUID, "node", node.Name, "error", err)
			d.recordFailure(req.JobUUID, node.Name, err)
			return
		}
		metrics.DispatchTotal.WithLabelValues(node.Name, "ok").Inc()
	}()
}

func (d *Dispatcher) dispatchOnce(ctx context.Context, node domain.Node, req domain.DispatchRequest) error {
	client, err := d.getOrCreateClient(node.Addr())
	if err != nil {
		return err
	}

	grpcReq, err := d.buildRequest(req)
	if err != nil {
		return err
	}

	d.logger.Info("dispatching job to node",
		"job_id", req.JobUUID, "node", node.Name, "addr", node.Addr(),
		"image", req.ImageName, "bytes", len(req.Payload))

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	resp, err := client.ProcessImage(callCtx, grpcReq)
	if err != nil {
		return fmt.Errorf("process call to node %s failed: %w", node.Name, err)
	}
	if !resp.GetSuccess() {
		return fmt.Errorf("node %s rejected job: %s", node.Name, resp.GetMessage())
	}

	d.logger.Info("node accepted job", "job_id", req.JobUUID, "node", node.Name, "message", resp.GetMessage())
	return nil
}

// recordFailure writes the failed state under a fresh context so the write
// survives even though the dispatch context may already be dead.
func (d *Dispatcher) recordFailure(jobUUID, nodeName string, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), ledgerWriteTimeout)
	defer cancel()

	message := fmt.Sprintf("dispatch to node %s failed: %v", nodeName, cause)
	if err := d.jobs.MarkFailed(ctx, jobUUID, message); err != nil {
		d.logger.Error("failed to record dispatch failure", "job_id", jobUUID, "error", err)
	}
}

func (d *Dispatcher) buildRequest(req domain.DispatchRequest) (*pb.ProcessImageRequest, error) {
	transformations, err := json.Marshal(req.Transformations)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transformations: %w", err)
	}

	grpcReq := &pb.ProcessImageRequest{
		JobId:           req.JobUUID,
		ImageName:       req.ImageName,
		ImageData:       req.Payload,
		ImageFormat:     domain.FileFormat(req.ImageName),
		Transformations: req.Transformations,
		Metadata: map[string]string{
			"transformations": string(transformations),
			"submitted_at":    time.Now().UTC().Format(time.RFC3339),
		},
	}
	for _, p := range req.Parameters {
		grpcReq.Parameters = append(grpcReq.Parameters, &pb.TransformParameter{
			Name:  p.Name,
			Value: p.Value,
		})
	}
	return grpcReq, nil
}

func (d *Dispatcher) getOrCreateClient(addr string) (pb.ImageNodeClient, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if client, ok := d.clients[addr]; ok {
		return client, nil
	}

	client, err := d.newClient(addr)
	if err != nil {
		return nil, err
	}
	d.clients[addr] = client
	d.logger.Info("created new gRPC client for node", "addr", addr)
	return client, nil
}

func dialNode(addr string) (pb.ImageNodeClient, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		// OpenTelemetry stats handler propagates the dispatch trace.
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to node at %s: %w", addr, err)
	}
	return pb.NewImageNodeClient(conn), nil
}
