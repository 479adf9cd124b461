package domain

// BatchState is the derived aggregate state of a batch. A batch is not a
// stored row of its own; it is the projection of all jobs sharing one
// batch id.
type BatchState string

const (
	BatchStateProcessing BatchState = "processing"
	BatchStateCompleted  BatchState = "completed"
	BatchStateFailed     BatchState = "failed"
	BatchStateUnknown    BatchState = "unknown"
)

// AggregateBatchState grades the batch from its constituent job states.
// Precedence is fixed: failed > in-flight > completed > unknown. Callers
// must treat an empty job list as "batch not found" before asking.
func AggregateBatchState(jobs []*Job) BatchState {
	inFlight := false
	completed := 0
	for _, job := range jobs {
		switch job.State {
		case JobStateFailed:
			return BatchStateFailed
		case JobStatePending, JobStateProcessing:
			inFlight = true
		case JobStateCompleted:
			completed++
		}
	}
	if inFlight {
		return BatchStateProcessing
	}
	if len(jobs) > 0 && completed == len(jobs) {
		return BatchStateCompleted
	}
	return BatchStateUnknown
}
