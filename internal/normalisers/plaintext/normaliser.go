// Package plaintext normalises plain text uploads.
package plaintext

import (
	"context"
	"fmt"
	"os"

	"github.com/paperchat-io/paperchat/internal/core/domain"
	"github.com/paperchat-io/paperchat/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents. The file bytes are the
// text; there is no element structure and no metadata to extract.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/plain"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise reads the file verbatim. An empty file yields empty text
// and empty metadata, not an error.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.ParsedDocument, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	data, err := os.ReadFile(raw.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrParse, raw.Path, err)
	}

	return &domain.ParsedDocument{
		Text:     string(data),
		Metadata: map[string]string{},
	}, nil
}
