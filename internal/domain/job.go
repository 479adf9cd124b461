package domain

import (
	"context"
	"path/filepath"
	"strings"
	"time"
)

// JobState advances pending → processing → {completed, failed} and never
// reverts. The coordinator itself writes only pending (at creation) and
// failed (dispatch reconciliation); processing and completed arrive from the
// node side through the shared ledger.
type JobState string

const (
	JobStatePending    JobState = "pending"
	JobStateProcessing JobState = "processing"
	JobStateCompleted  JobState = "completed"
	JobStateFailed     JobState = "failed"
)

// TransformParameter is one name/value pair for a transformation, in the
// order the caller supplied it.
type TransformParameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Job is one unit of dispatched work tied to a single uploaded file.
type Job struct {
	UUID            string               `json:"job_id"`
	ImageName       string               `json:"image_name"`
	ImageSize       int64                `json:"image_size"`
	Transformations []string             `json:"transformations"`
	Parameters      []TransformParameter `json:"parameters,omitempty"`
	NodeID          int64                `json:"assigned_node_id"`
	NodeName        string               `json:"assigned_node,omitempty"`
	BatchID         string               `json:"batch_id,omitempty"`
	State           JobState             `json:"state"`
	ResultPath      string               `json:"result_path,omitempty"`
	ErrorMessage    string               `json:"error_message,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	ProcessedAt     *time.Time           `json:"processed_at,omitempty"`
}

// NewJob carries everything needed to create a pending ledger row.
type NewJob struct {
	ImageName       string
	ImageSize       int64
	Transformations []string
	Parameters      []TransformParameter
	NodeID          int64
	BatchID         string
}

// JobRepository is the job/batch ledger. Transformation and parameter lists
// are structured values in memory and JSON only at the store boundary.
type JobRepository interface {
	// Create inserts a pending row and returns its fresh unique id. A
	// returned error aborts a single submission; batches skip the member.
	Create(ctx context.Context, job NewJob) (string, error)

	// GetByUUID resolves the assigned node name alongside the row. A missing
	// id yields ErrJobNotFound.
	GetByUUID(ctx context.Context, uuid string) (*Job, error)

	// ListByBatch returns all jobs sharing the batch id in insertion order.
	// An empty result means the batch does not exist.
	ListByBatch(ctx context.Context, batchID string) ([]*Job, error)

	// MarkFailed transitions the job to failed with the given message. It is
	// idempotent (a second call replaces the message) but refuses to
	// overwrite a completed job.
	MarkFailed(ctx context.Context, uuid, message string) error

	// MarkProcessing is the node-side pending → processing transition.
	MarkProcessing(ctx context.Context, uuid string) error

	// Complete is the node-side transition to completed with the node-local
	// result path. It never resurrects a job already marked failed.
	Complete(ctx context.Context, uuid, resultPath string) error
}

// SupportedTransformations are the transformation names worker nodes
// understand. Unknown names are filtered out of submissions, not rejected.
var SupportedTransformations = []string{
	"grayscale",
	"resize",
	"crop",
	"rotate",
	"flip",
	"blur",
	"sharpen",
	"adjust_brightness",
	"adjust_contrast",
	"watermark",
	"convert_jpg",
	"convert_png",
	"convert_tif",
}

var supportedTransformationSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(SupportedTransformations))
	for _, t := range SupportedTransformations {
		set[t] = struct{}{}
	}
	return set
}()

// allowedExtensions are the upload file types accepted for dispatch.
var allowedExtensions = map[string]struct{}{
	"png": {}, "jpg": {}, "jpeg": {}, "gif": {}, "bmp": {}, "tiff": {}, "tif": {},
}

// FileFormat returns the lowercased extension of name without the dot.
func FileFormat(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// AllowedFile reports whether the file's extension is an accepted image type.
func AllowedFile(name string) bool {
	ext := FileFormat(name)
	if ext == "" {
		return false
	}
	_, ok := allowedExtensions[ext]
	return ok
}

// FilterTransformations keeps only supported transformation names,
// preserving order. Matching is case-insensitive.
func FilterTransformations(names []string) []string {
	valid := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := supportedTransformationSet[strings.ToLower(name)]; ok {
			valid = append(valid, strings.ToLower(name))
		}
	}
	return valid
}
