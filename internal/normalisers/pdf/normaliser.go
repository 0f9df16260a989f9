// Package pdf normalises PDF uploads.
package pdf

import (
	"context"
	"fmt"
	"os"

	"code.sajari.com/docconv/v2"

	"github.com/paperchat-io/paperchat/internal/core/domain"
	"github.com/paperchat-io/paperchat/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser extracts text and metadata from PDF documents.
// Extraction is delegated to docconv, which walks the document's
// structural elements and joins their text.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 60
}

// Normalise extracts the PDF's text and flattens its document
// information dictionary into string metadata. A PDF with no content
// elements yields empty text and empty metadata, not an error.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.ParsedDocument, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	f, err := os.Open(raw.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrParse, raw.Path, err)
	}
	defer f.Close()

	body, meta, err := docconv.ConvertPDF(f)
	if err != nil {
		return nil, fmt.Errorf("%w: convert pdf: %w", domain.ErrParse, err)
	}

	if meta == nil {
		meta = map[string]string{}
	}

	return &domain.ParsedDocument{
		Text:     body,
		Metadata: meta,
	}, nil
}
