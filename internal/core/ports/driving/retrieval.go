package driving

import (
	"context"

	"github.com/paperchat-io/paperchat/internal/core/domain"
)

// RetrievalService runs the ingestion and query sides of the pipeline.
type RetrievalService interface {
	// Ingest parses, chunks, embeds and indexes a file for the given
	// user. The user's index is created lazily on first ingestion.
	// A document either fully ingests or not at all.
	Ingest(ctx context.Context, userID string, raw domain.RawDocument) (*IngestResult, error)

	// Query embeds queryText and returns the k nearest chunks from
	// the user's index, hydrated with chunk text. Fails with
	// domain.ErrUserIndexNotFound if the user has never ingested.
	Query(ctx context.Context, userID, queryText string, k int) ([]domain.RetrievedChunk, error)

	// ListDocuments returns all documents the user has ingested.
	ListDocuments(ctx context.Context, userID string) ([]domain.Document, error)

	// DeleteDocument removes a document and its chunks from storage.
	// The in-memory index is append-only; freed positions simply stop
	// hydrating and are skipped in results.
	DeleteDocument(ctx context.Context, userID, documentID string) error
}

// IngestResult summarises one successful ingestion.
type IngestResult struct {
	// DocumentID is the ID assigned to the ingested document.
	DocumentID string

	// DocumentText is the full parsed text.
	DocumentText string

	// Metadata is the flattened metadata extracted during parsing.
	Metadata map[string]string

	// ChunkCount is the number of chunks embedded and indexed.
	ChunkCount int
}

// ChatService answers questions against a user's indexed content.
type ChatService interface {
	// Answer retrieves context for queryText from the user's index,
	// combines it with the user's recent transcript, submits the
	// prompt to the completion backend and appends both the query and
	// the answer to the transcript.
	Answer(ctx context.Context, userID, queryText string) (string, error)

	// History returns the user's transcript, newest last.
	History(ctx context.Context, userID string, limit int) ([]domain.ChatMessage, error)
}
