package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidSubmission signals a submission that failed validation.
	ErrInvalidSubmission = errors.New("invalid submission")
	// ErrEmptyText signals that no text could be extracted from an upload.
	ErrEmptyText = errors.New("no text extracted")
	// ErrUnsupportedFormat signals an upload format the extractor cannot read.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrTooLarge signals an upload above the configured size limit.
	ErrTooLarge = errors.New("payload too large")
	// ErrInvalidDocument signals structurally invalid input to an analysis run.
	// Nothing from such a run is persisted.
	ErrInvalidDocument = errors.New("invalid document")
	// ErrInvalidQuery signals malformed read parameters.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrTooManyDocuments signals a run over the configured document limit.
	ErrTooManyDocuments = errors.New("too many documents")
)
