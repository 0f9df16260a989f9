package domain

import "time"

// Document represents an ingested document owned by a user.
// It is the canonical representation after parsing.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// UserID identifies the owner. Every retrieval operation is
	// scoped to a single user's documents.
	UserID string

	// Name is the original file name.
	Name string

	// MIMEType is the declared content type (e.g., "application/pdf").
	MIMEType string

	// Content is the full text content after parsing.
	// This is the complete document text before chunking.
	Content string

	// Metadata contains flat string key-value pairs extracted
	// during parsing (page counts, authors, and so on).
	Metadata map[string]string

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// Chunk represents a fixed-size window of document text.
// Chunks are the unit of embedding and retrieval.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the insertion position within the user's vector
	// index. It is the join key between index hits and chunk text.
	Position int

	// SourceOffset is the character offset of this chunk within the
	// parent document's content.
	SourceOffset int
}

// ParsedDocument is the output of the document parser: normalised
// text plus a flat metadata mapping. It is immutable after creation
// and owned by the ingestion call that produced it.
type ParsedDocument struct {
	// Text is the extracted plain text, element strings joined
	// with newlines.
	Text string

	// Metadata holds flattened element metadata. On key collision
	// the last element wins.
	Metadata map[string]string
}
