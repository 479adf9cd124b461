package domain

import "errors"

// ErrJobNotFound is returned when a job id has no ledger row.
var ErrJobNotFound = errors.New("job not found")

// ErrBatchNotFound is returned when no job shares the given batch id.
var ErrBatchNotFound = errors.New("batch not found")

// ErrNoNodesAvailable means the registry has no live node; the submission is
// rejected before any ledger entry is created.
var ErrNoNodesAvailable = errors.New("no nodes available")

// ErrInvalidFileType rejects uploads with a disallowed extension.
var ErrInvalidFileType = errors.New("file type not allowed")

// ErrConfigMismatch rejects a batch whose file and configuration counts
// disagree.
var ErrConfigMismatch = errors.New("file and configuration counts do not match")

// ErrJobNotCompleted is returned when a result is requested for a job that
// has not completed.
var ErrJobNotCompleted = errors.New("job not completed")

// ErrBatchIncomplete is returned when packaging is requested for a batch
// with at least one job not yet completed. No partial archives are produced.
var ErrBatchIncomplete = errors.New("batch has uncompleted jobs")

// ErrResultNotFound means the ledger says completed but the node-local
// result file is absent, indicating drift between ledger and node storage.
var ErrResultNotFound = errors.New("result file not found")
