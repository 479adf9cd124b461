package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"distributed-imaging/internal/domain"
	pb "distributed-imaging/proto"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Server implements the proto.ImageNodeServer interface. It applies the
// requested transformations and reports progress through the shared ledger:
// processing when work starts, completed with the result path when it ends.
type Server struct {
	pb.UnimplementedImageNodeServer
	jobs       domain.JobRepository
	nodeName   string
	resultsDir string
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewServer creates the node's gRPC server. Results land under
// <resultsDir>/<nodeName>/.
func NewServer(jobs domain.JobRepository, nodeName, resultsDir string, logger *slog.Logger) *Server {
	return &Server{
		jobs:       jobs,
		nodeName:   nodeName,
		resultsDir: resultsDir,
		logger:     logger.With("component", "grpc-server", "node", nodeName),
		tracer:     otel.Tracer("distributed-imaging-node"),
	}
}

// ProcessImage is the RPC called by the coordinator to run one job.
func (s *Server) ProcessImage(ctx context.Context, req *pb.ProcessImageRequest) (*pb.ProcessImageResponse, error) {
	ctx, span := s.tracer.Start(ctx, "node.ProcessImage",
		trace.WithAttributes(
			attribute.String("job.id", req.GetJobId()),
			attribute.String("image.name", req.GetImageName()),
		))
	defer span.End()

	logger := s.logger.With("job_id", req.GetJobId(), "image", req.GetImageName())
	logger.Info("received processing request",
		"format", req.GetImageFormat(),
		"transformations", req.GetTransformations(),
		"bytes", len(req.GetImageData()))

	if err := s.jobs.MarkProcessing(ctx, req.GetJobId()); err != nil {
		logger.Error("failed to mark job processing", "error", err)
		span.RecordError(err)
		// Processing continues; the ledger transition is advisory.
	}

	resultPath, err := s.process(req)
	if err != nil {
		logger.Error("processing failed", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "processing failed")
		if markErr := s.jobs.MarkFailed(ctx, req.GetJobId(), err.Error()); markErr != nil {
			logger.Error("failed to record processing failure", "error", markErr)
		}
		return &pb.ProcessImageResponse{Success: false, Message: err.Error()}, nil
	}

	if err := s.jobs.Complete(ctx, req.GetJobId(), resultPath); err != nil {
		logger.Error("failed to record completion", "error", err)
		span.RecordError(err)
		return &pb.ProcessImageResponse{Success: false, Message: "failed to record completion"}, nil
	}

	logger.Info("job completed", "result_path", resultPath)
	return &pb.ProcessImageResponse{Success: true, Message: "processed by " + s.nodeName}, nil
}

// process applies the transformation pipeline and writes the result into the
// node's results directory, returning the written path.
//
// TODO: apply the actual pixel transformations; for now the pipeline is an
// identity pass that preserves the dispatch contract end to end.
func (s *Server) process(req *pb.ProcessImageRequest) (string, error) {
	if len(req.GetImageData()) == 0 {
		return "", fmt.Errorf("empty image payload for job %s", req.GetJobId())
	}

	dir := filepath.Join(s.resultsDir, s.nodeName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	resultPath := filepath.Join(dir, filepath.Base(req.GetImageName()))
	if err := os.WriteFile(resultPath, req.GetImageData(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write result: %w", err)
	}
	return resultPath, nil
}
