package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"distributed-imaging/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const JobsTableName = "jobs"

const (
	JobsUUIDColumn            = "job_uuid"
	JobsImageNameColumn       = "image_name"
	JobsImageSizeColumn       = "image_size"
	JobsTransformationsColumn = "transformations"
	JobsParametersColumn      = "parameters"
	JobsNodeIdColumn          = "assigned_node_id"
	JobsBatchIdColumn         = "batch_id"
	JobsStateColumn           = "state"
	JobsResultPathColumn      = "result_path"
	JobsErrorMessageColumn    = "error_message"
	JobsCreatedAtColumn       = "created_at"
	JobsUpdatedAtColumn       = "updated_at"
	JobsProcessedAtColumn     = "processed_at"
)

type jobRepo struct {
	db     *sql.DB
	logger *slog.Logger
	tracer trace.Tracer
}

// NewJobRepository creates the job/batch ledger backed by the shared store.
func NewJobRepository(db *sql.DB, logger *slog.Logger) domain.JobRepository {
	return &jobRepo{
		db:     db,
		logger: logger.With("component", "job-repo"),
		tracer: otel.Tracer("distributed-imaging-sqlstore"),
	}
}

// Create inserts a pending ledger row and returns its fresh unique id.
func (r *jobRepo) Create(ctx context.Context, job domain.NewJob) (string, error) {
	ctx, span := r.tracer.Start(ctx, "repo.sql.CreateJob")
	defer span.End()

	jobUUID := uuid.NewString()
	span.SetAttributes(attribute.String("job.id", jobUUID))

	transformations, err := json.Marshal(job.Transformations)
	if err != nil {
		return "", fmt.Errorf("failed to encode transformations: %w", err)
	}

	var parameters interface{}
	if len(job.Parameters) > 0 {
		encoded, err := json.Marshal(job.Parameters)
		if err != nil {
			return "", fmt.Errorf("failed to encode parameters: %w", err)
		}
		parameters = string(encoded)
	}

	var batchID interface{}
	if job.BatchID != "" {
		batchID = job.BatchID
	}

	now := time.Now().UTC()
	_, err = sq.Insert(JobsTableName).
		Columns(
			JobsUUIDColumn,
			JobsImageNameColumn,
			JobsImageSizeColumn,
			JobsTransformationsColumn,
			JobsParametersColumn,
			JobsNodeIdColumn,
			JobsBatchIdColumn,
			JobsStateColumn,
			JobsCreatedAtColumn,
			JobsUpdatedAtColumn,
		).
		Values(
			jobUUID,
			job.ImageName,
			job.ImageSize,
			string(transformations),
			parameters,
			job.NodeID,
			batchID,
			string(domain.JobStatePending),
			now,
			now,
		).
		RunWith(r.db).
		ExecContext(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to insert job row")
		return "", fmt.Errorf("failed to create job record: %w", err)
	}

	return jobUUID, nil
}

func (r *jobRepo) selectJobs() sq.SelectBuilder {
	return sq.Select(
		"j."+JobsUUIDColumn,
		"j."+JobsImageNameColumn,
		"j."+JobsImageSizeColumn,
		"j."+JobsTransformationsColumn,
		"j."+JobsParametersColumn,
		"j."+JobsNodeIdColumn,
		"j."+JobsBatchIdColumn,
		"j."+JobsStateColumn,
		"j."+JobsResultPathColumn,
		"j."+JobsErrorMessageColumn,
		"j."+JobsCreatedAtColumn,
		"j."+JobsUpdatedAtColumn,
		"j."+JobsProcessedAtColumn,
		"n."+NodesNameColumn+" AS node_name",
	).
		From(JobsTableName + " j").
		LeftJoin(NodesTableName + " n ON j." + JobsNodeIdColumn + " = n." + NodesIdColumn)
}

func (r *jobRepo) scanJob(rows *sql.Rows) (*domain.Job, error) {
	var (
		job             domain.Job
		transformations string
		parameters      sql.NullString
		nodeID          sql.NullInt64
		batchID         sql.NullString
		resultPath      sql.NullString
		errorMessage    sql.NullString
		processedAt     sql.NullTime
		nodeName        sql.NullString
	)

	if err := rows.Scan(
		&job.UUID,
		&job.ImageName,
		&job.ImageSize,
		&transformations,
		&parameters,
		&nodeID,
		&batchID,
		&job.State,
		&resultPath,
		&errorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
		&processedAt,
		&nodeName,
	); err != nil {
		return nil, fmt.Errorf("failed to scan job row: %w", err)
	}

	// Encoded lists live only at the store boundary.
	if err := json.Unmarshal([]byte(transformations), &job.Transformations); err != nil {
		r.logger.Warn("failed to decode transformations column", "job_id", job.UUID, "error", err)
		job.Transformations = []string{}
	}
	if parameters.Valid && parameters.String != "" {
		if err := json.Unmarshal([]byte(parameters.String), &job.Parameters); err != nil {
			r.logger.Warn("failed to decode parameters column", "job_id", job.UUID, "error", err)
			job.Parameters = nil
		}
	}

	job.NodeID = nodeID.Int64
	job.BatchID = batchID.String
	job.ResultPath = resultPath.String
	job.ErrorMessage = errorMessage.String
	job.NodeName = nodeName.String
	if processedAt.Valid {
		t := processedAt.Time
		job.ProcessedAt = &t
	}
	return &job, nil
}

// GetByUUID resolves the job row joined with its assigned node's name.
func (r *jobRepo) GetByUUID(ctx context.Context, jobUUID string) (*domain.Job, error) {
	ctx, span := r.tracer.Start(ctx, "repo.sql.GetJob")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", jobUUID))

	rows, err := r.selectJobs().
		Where(sq.Eq{"j." + JobsUUIDColumn: jobUUID}).
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query job")
		return nil, fmt.Errorf("failed to get job %s: %w", jobUUID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get job %s: %w", jobUUID, err)
		}
		return nil, domain.ErrJobNotFound
	}
	return r.scanJob(rows)
}

// ListByBatch returns all jobs sharing the batch id in insertion order.
func (r *jobRepo) ListByBatch(ctx context.Context, batchID string) ([]*domain.Job, error) {
	ctx, span := r.tracer.Start(ctx, "repo.sql.ListBatchJobs")
	defer span.End()
	span.SetAttributes(attribute.String("batch.id", batchID))

	rows, err := r.selectJobs().
		Where(sq.Eq{"j." + JobsBatchIdColumn: batchID}).
		OrderBy("j.id").
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query batch jobs")
		return nil, fmt.Errorf("failed to list jobs for batch %s: %w", batchID, err)
	}
	defer rows.Close()

	var jobs []*domain.Job
	for rows.Next() {
		job, err := r.scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate batch jobs: %w", err)
	}
	span.SetAttributes(attribute.Int("job.count", len(jobs)))
	return jobs, nil
}

// MarkFailed sets the terminal failed state. The write is conditional on the
// job not being completed, so a late failure can never clobber a result the
// node already reported; repeated calls just replace the message.
func (r *jobRepo) MarkFailed(ctx context.Context, jobUUID, message string) error {
	ctx, span := r.tracer.Start(ctx, "repo.sql.MarkJobFailed")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", jobUUID))

	_, err := sq.Update(JobsTableName).
		Set(JobsStateColumn, string(domain.JobStateFailed)).
		Set(JobsErrorMessageColumn, message).
		Set(JobsUpdatedAtColumn, time.Now().UTC()).
		Where(sq.Eq{JobsUUIDColumn: jobUUID}).
		Where(sq.NotEq{JobsStateColumn: string(domain.JobStateCompleted)}).
		RunWith(r.db).
		ExecContext(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to mark job failed")
		return fmt.Errorf("failed to mark job %s failed: %w", jobUUID, err)
	}
	return nil
}

// MarkProcessing is the node-side pending → processing transition.
func (r *jobRepo) MarkProcessing(ctx context.Context, jobUUID string) error {
	ctx, span := r.tracer.Start(ctx, "repo.sql.MarkJobProcessing")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", jobUUID))

	_, err := sq.Update(JobsTableName).
		Set(JobsStateColumn, string(domain.JobStateProcessing)).
		Set(JobsUpdatedAtColumn, time.Now().UTC()).
		Where(sq.Eq{
			JobsUUIDColumn:  jobUUID,
			JobsStateColumn: string(domain.JobStatePending),
		}).
		RunWith(r.db).
		ExecContext(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to mark job processing")
		return fmt.Errorf("failed to mark job %s processing: %w", jobUUID, err)
	}
	return nil
}

// Complete is the node-side terminal transition. Conditional on the job
// still being in flight: a job the coordinator already failed (for example
// after a dispatch timeout) stays failed.
func (r *jobRepo) Complete(ctx context.Context, jobUUID, resultPath string) error {
	ctx, span := r.tracer.Start(ctx, "repo.sql.CompleteJob")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", jobUUID))

	now := time.Now().UTC()
	_, err := sq.Update(JobsTableName).
		Set(JobsStateColumn, string(domain.JobStateCompleted)).
		Set(JobsResultPathColumn, resultPath).
		Set(JobsProcessedAtColumn, now).
		Set(JobsUpdatedAtColumn, now).
		Where(sq.Eq{JobsUUIDColumn: jobUUID}).
		Where(sq.Eq{JobsStateColumn: []string{
			string(domain.JobStatePending),
			string(domain.JobStateProcessing),
		}}).
		RunWith(r.db).
		ExecContext(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to complete job")
		return fmt.Errorf("failed to complete job %s: %w", jobUUID, err)
	}
	return nil
}
