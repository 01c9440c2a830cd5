package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown stage, extractor or
	// provider type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Composition Errors.

	// ErrConfiguration indicates an invalid pipeline composition:
	// duplicate stage names, unknown stages, unsatisfied requirements
	// or bad policies. Raised when a pipeline is built, never mid-run.
	ErrConfiguration = errors.New("invalid pipeline configuration")

	// Extraction Errors.

	// ErrEmptyInput indicates a document with no extractable text.
	ErrEmptyInput = errors.New("empty input")

	// ErrExtraction indicates the raw-extract capability failed on the
	// document's content.
	ErrExtraction = errors.New("extraction failed")

	// Classification Errors.

	// ErrCompletion indicates the completion backend call failed.
	ErrCompletion = errors.New("completion failed")

	// ErrParse indicates a backend response that could not be mapped to
	// a taxonomy label.
	ErrParse = errors.New("unparsable completion response")

	// ErrUnknownLabel indicates the backend returned a label outside
	// the taxonomy.
	ErrUnknownLabel = errors.New("label not in taxonomy")

	// ErrRateLimited indicates the backend rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrCompletionUnavailable indicates no completion backend is
	// configured. Classification is disabled without one.
	ErrCompletionUnavailable = errors.New("completion service unavailable")

	// Batch Errors.

	// ErrBatchInProgress indicates a batch is already running.
	ErrBatchInProgress = errors.New("batch in progress")

	// ErrBatchTimeout indicates the batch deadline fired before all
	// documents finished.
	ErrBatchTimeout = errors.New("batch timed out")
)
