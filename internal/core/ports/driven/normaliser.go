package driven

import (
	"context"

	"github.com/paperchat-io/paperchat/internal/core/domain"
)

// Normaliser converts an uploaded file into normalised text plus flat
// metadata. Each normaliser handles specific MIME types (e.g., PDF, CSV).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise extracts text and metadata from the raw document.
	// A document with no extractable elements yields empty text and
	// empty metadata, not an error.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.ParsedDocument, error)
}

// NormaliserRegistry selects the appropriate normaliser for a document.
// It maintains a priority-ordered list of normalisers and dispatches by
// declared MIME type.
type NormaliserRegistry interface {
	// Normalise parses a raw document using the best matching
	// normaliser. Unrecognised MIME types fail with
	// domain.ErrUnsupportedFormat.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.ParsedDocument, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedMIMETypes returns all MIME types that can be parsed.
	SupportedMIMETypes() []string
}
