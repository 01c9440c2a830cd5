package domain

import "time"

// BatchSummary aggregates the outcome of one batch run.
type BatchSummary struct {
	// Total is the number of documents submitted.
	Total int

	// Completed is the number of documents that reached completed.
	Completed int

	// Failed is the number of documents that reached failed.
	Failed int

	// TimedOut is the number of documents still in progress when the
	// batch deadline fired.
	TimedOut int
}

// BatchResult is the full outcome of a batch run. Every submitted
// document appears exactly once, keyed by its ID, whatever its fate.
type BatchResult struct {
	// Documents maps document ID to its final state.
	Documents map[string]*Document

	// Summary aggregates the per-document outcomes.
	Summary BatchSummary

	// Elapsed is the wall-clock duration of the batch.
	Elapsed time.Duration
}

// BatchStatus is a point-in-time snapshot of a running batch,
// used for progress reporting.
type BatchStatus struct {
	// Running is true while the batch is executing.
	Running bool

	// Total is the number of documents submitted.
	Total int

	// Processed is the number of documents that reached a terminal state.
	Processed int

	// Failed is the number of documents that failed so far.
	Failed int

	// InFlight is the number of documents currently being processed.
	InFlight int

	// StartedAt is when the batch began.
	StartedAt time.Time
}
