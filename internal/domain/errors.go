package domain

import "errors"

var (
	// ErrNotFound signals a missing resource (document, notification, application).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput signals a malformed request.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized signals a missing or invalid credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden signals that the caller does not own the resource or lacks the role.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidState signals a transition that the resource's current state does not allow.
	ErrInvalidState = errors.New("invalid state")

	// ErrEmbeddingProviderError signals an upstream embedding failure: error, timeout or malformed data.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrEmptyCandidateSet signals a ranking request without candidates.
	ErrEmptyCandidateSet = errors.New("empty candidate set")
	// ErrDimensionMismatch signals a comparison between vectors of different length.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrUnsupportedFormat signals a file format without an extraction strategy.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrExtraction signals that a supported file could not be turned into text.
	ErrExtraction = errors.New("text extraction failed")

	// ErrBusSealed signals an observer registry change after start-up.
	ErrBusSealed = errors.New("notification bus is sealed")
)
