package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"distributed-imaging/internal/domain"
	"distributed-imaging/internal/metrics"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ResultPackager assembles downloadable results from the shared results
// directory.
type ResultPackager interface {
	PackageSingle(job *domain.Job) (path, name string, err error)
	PackageBatch(batchID string, jobs []*domain.Job) (string, error)
}

// LivenessSweeper runs a single node-expiry pass on demand.
type LivenessSweeper interface {
	RunOnce(ctx context.Context) (int64, error)
}

// ImageUpload is one file received for processing together with the
// transformations requested for it.
type ImageUpload struct {
	Filename        string
	Data            []byte
	Transformations []string
	Parameters      []domain.TransformParameter
}

// UploadedFile is a batch member before it is paired with its configuration.
type UploadedFile struct {
	Filename string
	Data     []byte
}

// JobConfig is the per-file configuration of a batch submission.
type JobConfig struct {
	Transformations []string                    `json:"transformations" validate:"required"`
	Parameters      []domain.TransformParameter `json:"parameters"`
}

// SubmissionResult acknowledges an accepted job. The job is pending at this
// point; dispatch happens in the background.
type SubmissionResult struct {
	JobID           string   `json:"job_id"`
	Node            string   `json:"assigned_node"`
	ImageName       string   `json:"image_name"`
	Transformations []string `json:"transformations"`
}

// BatchSubmissionResult acknowledges an accepted batch.
type BatchSubmissionResult struct {
	BatchID string             `json:"batch_id"`
	Jobs    []SubmissionResult `json:"jobs"`
	Skipped []string           `json:"skipped_files,omitempty"`
}

// BatchStatus is the aggregate view of a batch.
type BatchStatus struct {
	BatchID string            `json:"batch_id"`
	State   domain.BatchState `json:"state"`
	Jobs    []*domain.Job     `json:"jobs"`
}

// ProcessingService is the coordinator's core: it accepts uploads, records
// them in the ledger, assigns a live node, and hands each job to the
// dispatch engine.
type ProcessingService struct {
	nodes      domain.NodeRepository
	jobs       domain.JobRepository
	selector   domain.NodeSelector
	dispatcher domain.Dispatcher
	packager   ResultPackager
	sweeper    LivenessSweeper

	uploadDir      string
	livenessWindow time.Duration

	logger *slog.Logger
	tracer trace.Tracer
}

// NewProcessingService wires the coordinator's dependencies together.
func NewProcessingService(
	nodes domain.NodeRepository,
	jobs domain.JobRepository,
	selector domain.NodeSelector,
	dispatcher domain.Dispatcher,
	packager ResultPackager,
	sweeper LivenessSweeper,
	uploadDir string,
	livenessWindow time.Duration,
	logger *slog.Logger,
) *ProcessingService {
	return &ProcessingService{
		nodes:          nodes,
		jobs:           jobs,
		selector:       selector,
		dispatcher:     dispatcher,
		packager:       packager,
		sweeper:        sweeper,
		uploadDir:      uploadDir,
		livenessWindow: livenessWindow,
		logger:         logger.With("component", "processing-service"),
		tracer:         otel.Tracer("distributed-imaging-usecase"),
	}
}

// SubmitImage accepts a single upload and returns once the job is recorded
// and handed to the dispatcher.
func (s *ProcessingService) SubmitImage(ctx context.Context, upload ImageUpload) (*SubmissionResult, error) {
	ctx, span := s.tracer.Start(ctx, "service.SubmitImage")
	defer span.End()

	if !domain.AllowedFile(upload.Filename) {
		return nil, domain.ErrInvalidFileType
	}

	result, err := s.submitOne(ctx, upload, "")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit image")
		return nil, err
	}

	metrics.JobsSubmittedTotal.WithLabelValues("single").Inc()
	return result, nil
}

// SubmitBatch accepts several uploads sharing one batch id. configs must
// pair one-to-one with files; files with a disallowed extension are skipped
// rather than failing the batch.
func (s *ProcessingService) SubmitBatch(ctx context.Context, files []UploadedFile, configs []JobConfig) (*BatchSubmissionResult, error) {
	ctx, span := s.tracer.Start(ctx, "service.SubmitBatch")
	defer span.End()
	span.SetAttributes(attribute.Int("batch.size", len(files)))

	if len(files) != len(configs) {
		return nil, domain.ErrConfigMismatch
	}

	batch := &BatchSubmissionResult{BatchID: uuid.NewString()}
	var lastErr error
	for i, file := range files {
		if !domain.AllowedFile(file.Filename) {
			s.logger.Warn("skipping batch file with disallowed type", "batch_id", batch.BatchID, "file", file.Filename)
			batch.Skipped = append(batch.Skipped, file.Filename)
			continue
		}

		result, err := s.submitOne(ctx, ImageUpload{
			Filename:        file.Filename,
			Data:            file.Data,
			Transformations: configs[i].Transformations,
			Parameters:      configs[i].Parameters,
		}, batch.BatchID)
		if err != nil {
			// No capacity dooms every member; give up on the whole batch.
			if errors.Is(err, domain.ErrNoNodesAvailable) {
				span.RecordError(err)
				span.SetStatus(codes.Error, "no nodes available for batch")
				return nil, err
			}
			s.logger.Error("skipping batch file after submission failure", "batch_id", batch.BatchID, "file", file.Filename, "error", err)
			span.RecordError(err)
			batch.Skipped = append(batch.Skipped, file.Filename)
			lastErr = err
			continue
		}
		batch.Jobs = append(batch.Jobs, *result)
	}

	if len(batch.Jobs) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, domain.ErrInvalidFileType
	}

	metrics.JobsSubmittedTotal.WithLabelValues("batch").Add(float64(len(batch.Jobs)))
	s.logger.Info("batch accepted", "batch_id", batch.BatchID, "jobs", len(batch.Jobs), "skipped", len(batch.Skipped))
	return batch, nil
}

// submitOne stores the upload, picks a node, writes the pending ledger row,
// and hands the job to the dispatcher. The stored name carries a timestamp
// prefix so repeated uploads of the same file never collide.
func (s *ProcessingService) submitOne(ctx context.Context, upload ImageUpload, batchID string) (*SubmissionResult, error) {
	storedName := fmt.Sprintf("%d_%s", time.Now().Unix(), filepath.Base(upload.Filename))
	transformations := domain.FilterTransformations(upload.Transformations)

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.uploadDir, storedName), upload.Data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	node, err := s.pickNode(ctx)
	if err != nil {
		return nil, err
	}

	jobID, err := s.jobs.Create(ctx, domain.NewJob{
		ImageName:       storedName,
		ImageSize:       int64(len(upload.Data)),
		Transformations: transformations,
		Parameters:      upload.Parameters,
		NodeID:          node.ID,
		BatchID:         batchID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("job accepted", "job_id", jobID, "image", storedName, "node", node.Name, "batch_id", batchID)
	s.dispatcher.Dispatch(node, domain.DispatchRequest{
		JobUUID:         jobID,
		ImageName:       storedName,
		Payload:         upload.Data,
		Transformations: transformations,
		Parameters:      upload.Parameters,
	})

	return &SubmissionResult{
		JobID:           jobID,
		Node:            node.Name,
		ImageName:       storedName,
		Transformations: transformations,
	}, nil
}

// pickNode selects one live node. A registry read error degrades to "no
// nodes": the caller sees the capacity error either way and the submission
// is refused rather than half-recorded.
func (s *ProcessingService) pickNode(ctx context.Context) (domain.Node, error) {
	cutoff := time.Now().UTC().Add(-s.livenessWindow)
	nodes, err := s.nodes.ListAvailable(ctx, cutoff)
	if err != nil {
		s.logger.Error("failed to read node registry", "error", err)
		nodes = nil
	}
	if len(nodes) == 0 {
		return domain.Node{}, domain.ErrNoNodesAvailable
	}
	return s.selector.Select(nodes)
}

// JobStatus returns the ledger view of one job.
func (s *ProcessingService) JobStatus(ctx context.Context, jobID string) (*domain.Job, error) {
	ctx, span := s.tracer.Start(ctx, "service.JobStatus")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", jobID))

	job, err := s.jobs.GetByUUID(ctx, jobID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return job, nil
}

// BatchStatus aggregates the states of a batch's jobs. An unknown batch id
// is indistinguishable from an empty one and reported as not found.
func (s *ProcessingService) BatchStatus(ctx context.Context, batchID string) (*BatchStatus, error) {
	ctx, span := s.tracer.Start(ctx, "service.BatchStatus")
	defer span.End()
	span.SetAttributes(attribute.String("batch.id", batchID))

	jobs, err := s.jobs.ListByBatch(ctx, batchID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, domain.ErrBatchNotFound
	}

	return &BatchStatus{
		BatchID: batchID,
		State:   domain.AggregateBatchState(jobs),
		Jobs:    jobs,
	}, nil
}

// Nodes returns the full registry inventory with derived fields.
func (s *ProcessingService) Nodes(ctx context.Context) ([]domain.NodeStatus, error) {
	ctx, span := s.tracer.Start(ctx, "service.Nodes")
	defer span.End()

	return s.nodes.ListAll(ctx)
}

// SweepNow triggers a liveness sweep outside the periodic schedule.
func (s *ProcessingService) SweepNow(ctx context.Context) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "service.SweepNow")
	defer span.End()

	return s.sweeper.RunOnce(ctx)
}

// DownloadResult resolves the downloadable file of one completed job.
func (s *ProcessingService) DownloadResult(ctx context.Context, jobID string) (path, name string, err error) {
	ctx, span := s.tracer.Start(ctx, "service.DownloadResult")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", jobID))

	job, err := s.jobs.GetByUUID(ctx, jobID)
	if err != nil {
		span.RecordError(err)
		return "", "", err
	}
	return s.packager.PackageSingle(job)
}

// DownloadBatch packages a fully completed batch into a zip archive and
// returns its path.
func (s *ProcessingService) DownloadBatch(ctx context.Context, batchID string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "service.DownloadBatch")
	defer span.End()
	span.SetAttributes(attribute.String("batch.id", batchID))

	jobs, err := s.jobs.ListByBatch(ctx, batchID)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	if len(jobs) == 0 {
		return "", domain.ErrBatchNotFound
	}
	return s.packager.PackageBatch(batchID, jobs)
}

// SupportedTransformations lists the transformation names nodes understand.
func (s *ProcessingService) SupportedTransformations() []string {
	return domain.SupportedTransformations
}
