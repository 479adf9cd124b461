package domain

// DispatchRequest is the payload handed to the dispatch engine for one job.
type DispatchRequest struct {
	JobUUID         string
	ImageName       string
	Payload         []byte
	Transformations []string
	Parameters      []TransformParameter
}

// Dispatcher sends a job to a selected node over the remote-call protocol.
// Dispatch is fire-and-forget relative to the caller: it returns immediately
// and the unit's only externally observable effect is a ledger write when
// the call resolves. There is no cancellation path once started.
type Dispatcher interface {
	Dispatch(node Node, req DispatchRequest)
}
