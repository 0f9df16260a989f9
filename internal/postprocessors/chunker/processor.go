// Package chunker provides a fixed-size text chunking processor.
package chunker

import (
	"context"

	"github.com/google/uuid"

	"github.com/paperchat-io/paperchat/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
// Tuned to the embedding backend's input limit.
const DefaultChunkSize = 2048

// Processor splits document content into fixed-size character windows.
// Windows do not overlap by default; concatenating the chunks in order
// reproduces the document content exactly. It implements the
// PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
// Non-zero overlap makes the windowing lossy-compatible with stores
// built with overlap; the default is zero.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Overlap must leave the window advancing
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured window size in characters.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from
// document content. Empty content yields zero chunks, not an error.
//
// Windows are byte-indexed, so a boundary can fall inside a multi-byte
// UTF-8 rune. Concatenating the chunks in order still reproduces the
// document exactly; only the individual fragments at a split may not be
// valid UTF-8 on their own.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc.Content == "" {
		return nil, nil
	}

	content := doc.Content
	contentLen := len(content)

	step := p.chunkSize - p.overlap
	chunks := make([]domain.Chunk, 0, contentLen/step+1)

	position := 0
	for start := 0; start < contentLen; start += step {
		end := start + p.chunkSize
		if end > contentLen {
			end = contentLen
		}

		chunks = append(chunks, domain.Chunk{
			ID:           uuid.New().String(),
			DocumentID:   doc.ID,
			Content:      content[start:end],
			Position:     position,
			SourceOffset: start,
		})
		position++
	}

	return chunks, nil
}
