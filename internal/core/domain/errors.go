package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
//
// Each failure the pipeline can surface maps to exactly one sentinel
// so callers can distinguish "fix your input" (format, dimension)
// from "try again" (backend) from "not found" via errors.Is.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates the declared MIME type is not
	// one of the supported document formats.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrParse indicates text extraction from a document failed.
	// It wraps the lower-level extractor failure.
	ErrParse = errors.New("document parse failed")

	// ErrEmbeddingBackend indicates the embedding backend is
	// unreachable, timed out, or rejected the input.
	ErrEmbeddingBackend = errors.New("embedding backend failure")

	// ErrDimensionMismatch indicates a vector's length does not match
	// the index dimensionality. The index is left unmodified.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmptyIndex indicates a search was attempted against an index
	// with zero entries.
	ErrEmptyIndex = errors.New("vector index is empty")

	// ErrUserIndexNotFound indicates no ingestion has occurred for the
	// user, so there is no index to query.
	ErrUserIndexNotFound = errors.New("user index not found")

	// ErrChatBackend indicates the completion backend call failed.
	ErrChatBackend = errors.New("chat backend failure")
)
