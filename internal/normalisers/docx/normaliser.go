// Package docx normalises Word (OOXML) uploads.
package docx

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

// Normaliser extracts text and metadata from DOCX documents via
// docconv: paragraphs and table cells become newline-joined text,
// core document properties become flat string metadata.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/vnd.openxmlformats-officedocument.wordprocessingml.document"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 60
}

// Normalise extracts the document's text and properties. A document
// with no content elements yields empty text and empty metadata.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.ParsedDocument, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	f, err := os.Open(raw.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrParse, raw.Path, err)
	}
	defer f.Close()

	body, meta, err := docconv.ConvertDocx(f)
	if err != nil {
		return nil, fmt.Errorf("%w: convert docx: %w", domain.ErrParse, err)
	}

	if meta == nil {
		meta = map[string]string{}
	}

	return &domain.ParsedDocument{
		Text:     body,
		Metadata: meta,
	}, nil
}
