// Package pptx normalises PowerPoint (OOXML) uploads.
package pptx

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

// Normaliser extracts text from PPTX documents via docconv. Slide
// text boxes become newline-joined text; presentations carry no
// flattenable metadata beyond what docconv reports.
type Normaliser struct{}

// New creates a new PPTX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/vnd.openxmlformats-officedocument.presentationml.presentation"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 60
}

// Normalise extracts the presentation's text. An empty deck yields
// empty text and empty metadata, not an error.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.ParsedDocument, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	f, err := os.Open(raw.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrParse, raw.Path, err)
	}
	defer f.Close()

	body, meta, err := docconv.ConvertPptx(f)
	if err != nil {
		return nil, fmt.Errorf("%w: convert pptx: %w", domain.ErrParse, err)
	}

	if meta == nil {
		meta = map[string]string{}
	}

	return &domain.ParsedDocument{
		Text:     body,
		Metadata: meta,
	}, nil
}
