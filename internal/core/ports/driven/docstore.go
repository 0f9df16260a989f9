package driven

import (
	"context"

	"github.com/paperchat-io/paperchat/internal/core/domain"
)

// DocumentStore persists documents, chunks and extracted metadata.
// Backed by SQLite.
//
// Chunks carry their vector index Position; the store is the durable
// side of the position-to-chunk mapping the in-memory index cannot
// provide by itself.
type DocumentStore interface {
	// SaveDocument stores a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores chunks for a document.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunkByPosition retrieves the user's chunk at the given
	// vector index position.
	GetChunkByPosition(ctx context.Context, userID string, position int) (*domain.Chunk, error)

	// GetChunks retrieves all chunks for a document in position order.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// ChunkCount returns the number of chunks stored for a user.
	// This equals the user's vector index size after a reload.
	ChunkCount(ctx context.Context, userID string) (int, error)

	// ListDocuments returns all documents owned by a user.
	ListDocuments(ctx context.Context, userID string) ([]domain.Document, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error
}

// TranscriptStore persists per-user conversation transcripts.
// Transcripts are append-only; there is no shared global log.
type TranscriptStore interface {
	// Append adds a message to the user's transcript.
	Append(ctx context.Context, msg domain.ChatMessage) error

	// History returns the user's most recent messages in
	// chronological order, up to limit. A limit <= 0 returns all.
	History(ctx context.Context, userID string, limit int) ([]domain.ChatMessage, error)
}
