package http

import (
	"time"

	"distributed-imaging/internal/domain"
)

// JobResponse is the public status view of a single job.
type JobResponse struct {
	JobID           string                      `json:"job_id"`
	ImageName       string                      `json:"image_name"`
	ImageSize       int64                       `json:"image_size"`
	Transformations []string                    `json:"transformations"`
	Parameters      []domain.TransformParameter `json:"parameters,omitempty"`
	AssignedNode    string                      `json:"assigned_node,omitempty"`
	BatchID         string                      `json:"batch_id,omitempty"`
	State           string                      `json:"state"`
	ErrorMessage    string                      `json:"error_message,omitempty"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
	ProcessedAt     *time.Time                  `json:"processed_at,omitempty"`
}

// ToJobResponse converts a ledger job to its public view. The node-local
// result path is deliberately not exposed; callers fetch results through the
// download endpoints.
func ToJobResponse(job *domain.Job) JobResponse {
	return JobResponse{
		JobID:           job.UUID,
		ImageName:       job.ImageName,
		ImageSize:       job.ImageSize,
		Transformations: job.Transformations,
		Parameters:      job.Parameters,
		AssignedNode:    job.NodeName,
		BatchID:         job.BatchID,
		State:           string(job.State),
		ErrorMessage:    job.ErrorMessage,
		CreatedAt:       job.CreatedAt,
		UpdatedAt:       job.UpdatedAt,
		ProcessedAt:     job.ProcessedAt,
	}
}

// BatchResponse is the aggregate status view of a batch.
type BatchResponse struct {
	BatchID string        `json:"batch_id"`
	State   string        `json:"state"`
	Jobs    []JobResponse `json:"jobs"`
}

// SweepResponse acknowledges a manual liveness sweep.
type SweepResponse struct {
	DeactivatedNodes int64 `json:"deactivated_nodes"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}
