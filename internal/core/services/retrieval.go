package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/paperchat-io/paperchat/internal/core/domain"
	"github.com/paperchat-io/paperchat/internal/core/ports/driven"
	"github.com/paperchat-io/paperchat/internal/core/ports/driving"
	"github.com/paperchat-io/paperchat/internal/index/flat"
	"github.com/paperchat-io/paperchat/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// DefaultTopK is the number of chunks returned when the caller asks
// for zero or fewer.
const DefaultTopK = 2

// userIndex pairs a user's vector index with its write lock. All
// mutation of the index and of the user's stored chunks happens under
// mu; searches take the read side.
type userIndex struct {
	mu    sync.RWMutex
	index driven.VectorIndex
}

// RetrievalService runs the ingestion and query pipeline: parse,
// chunk, embed, index, search. Each user gets an isolated index,
// created lazily on first ingestion and persisted alongside the
// metadata store.
type RetrievalService struct {
	registry driven.NormaliserRegistry
	pipeline driven.PostProcessorPipeline
	embedder driven.EmbeddingService
	docStore driven.DocumentStore
	indexDir string

	mu    sync.Mutex // guards users
	users map[string]*userIndex
}

// NewRetrievalService creates a new retrieval service. Index files
// are persisted under indexDir, one per user.
func NewRetrievalService(
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	docStore driven.DocumentStore,
	indexDir string,
) *RetrievalService {
	return &RetrievalService{
		registry: registry,
		pipeline: pipeline,
		embedder: embedder,
		docStore: docStore,
		indexDir: indexDir,
		users:    make(map[string]*userIndex),
	}
}

// Ingest parses, chunks, embeds and indexes a file for the given user.
// A document either fully ingests or not at all.
func (s *RetrievalService) Ingest(ctx context.Context, userID string, raw domain.RawDocument) (*driving.IngestResult, error) {
	logger.Section("Ingestion")
	logger.Debug("File: %s (%s) for user %s", raw.Name, raw.MIMEType, userID)

	parsed, err := s.registry.Normalise(ctx, &raw)
	if err != nil {
		return nil, fmt.Errorf("normalising document: %w", err)
	}

	doc := &domain.Document{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      raw.Name,
		MIMEType:  raw.MIMEType,
		Content:   parsed.Text,
		Metadata:  parsed.Metadata,
		CreatedAt: time.Now().UTC(),
	}

	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("chunking document: %w", err)
	}
	logger.Debug("Produced %d chunks", len(chunks))

	// An empty document still gets recorded; there is nothing to embed.
	if len(chunks) == 0 {
		if err := s.docStore.SaveDocument(ctx, doc); err != nil {
			return nil, fmt.Errorf("saving document: %w", err)
		}
		return &driving.IngestResult{
			DocumentID:   doc.ID,
			DocumentText: doc.Content,
			Metadata:     doc.Metadata,
		}, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding chunks: %w", err)
	}

	ui, err := s.indexFor(userID, true)
	if err != nil {
		return nil, err
	}

	ui.mu.Lock()
	defer ui.mu.Unlock()

	// Positions continue from the current index size. The chunker
	// numbered chunks within the document; rebase onto the index.
	base := ui.index.Len()
	for i := range chunks {
		chunks[i].Position = base + i
	}

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}
	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		s.compensate(ctx, doc.ID)
		return nil, fmt.Errorf("saving chunks: %w", err)
	}

	if err := ui.index.Add(vectors); err != nil {
		s.compensate(ctx, doc.ID)
		return nil, fmt.Errorf("indexing vectors: %w", err)
	}

	if err := ui.index.Save(s.indexPath(userID)); err != nil {
		// A reloaded index would not contain these positions, so the
		// chunk rows must go too. The in-memory vectors stay behind as
		// stale positions, filtered at query time like deleted
		// documents.
		s.compensate(ctx, doc.ID)
		return nil, fmt.Errorf("persisting index: %w", err)
	}

	logger.Debug("Indexed %d vectors at positions %d..%d", len(vectors), base, base+len(vectors)-1)

	return &driving.IngestResult{
		DocumentID:   doc.ID,
		DocumentText: doc.Content,
		Metadata:     doc.Metadata,
		ChunkCount:   len(chunks),
	}, nil
}

// Query embeds queryText and returns the k nearest chunks from the
// user's index, hydrated with chunk text.
func (s *RetrievalService) Query(ctx context.Context, userID, queryText string, k int) ([]domain.RetrievedChunk, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	ui, err := s.indexFor(userID, false)
	if err != nil {
		return nil, err
	}

	query, err := s.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	ui.mu.RLock()
	hits, err := ui.index.Search(query, k)
	ui.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	results := make([]domain.RetrievedChunk, 0, len(hits))
	for _, hit := range hits {
		chunk, err := s.docStore.GetChunkByPosition(ctx, userID, hit.Position)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Position belongs to a deleted document.
				logger.Debug("Skipping stale position %d", hit.Position)
				continue
			}
			return nil, fmt.Errorf("hydrating position %d: %w", hit.Position, err)
		}
		results = append(results, domain.RetrievedChunk{
			Chunk:    *chunk,
			Position: hit.Position,
			Distance: hit.Distance,
		})
	}

	return results, nil
}

// ListDocuments returns all documents the user has ingested.
func (s *RetrievalService) ListDocuments(ctx context.Context, userID string) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx, userID)
}

// DeleteDocument removes a document and its chunks from storage. The
// index keeps its positions; stale hits are filtered at query time.
func (s *RetrievalService) DeleteDocument(ctx context.Context, userID, documentID string) error {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.UserID != userID {
		// Don't leak existence of other users' documents.
		return domain.ErrNotFound
	}
	return s.docStore.DeleteDocument(ctx, documentID)
}

// indexFor returns the user's index, loading it from disk or creating
// it if allowed. With create false a user that never ingested gets
// domain.ErrUserIndexNotFound.
func (s *RetrievalService) indexFor(userID string, create bool) (*userIndex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ui, ok := s.users[userID]; ok {
		return ui, nil
	}

	path := s.indexPath(userID)
	if _, err := os.Stat(path); err == nil {
		idx, err := flat.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading index for user %s: %w", userID, err)
		}
		ui := &userIndex{index: idx}
		s.users[userID] = ui
		return ui, nil
	}

	if !create {
		return nil, domain.ErrUserIndexNotFound
	}

	if err := os.MkdirAll(s.indexDir, 0700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	idx, err := flat.New(s.embedder.Dimensions())
	if err != nil {
		return nil, fmt.Errorf("creating index for user %s: %w", userID, err)
	}
	ui := &userIndex{index: idx}
	s.users[userID] = ui
	return ui, nil
}

// indexPath returns the on-disk location of a user's index.
func (s *RetrievalService) indexPath(userID string) string {
	return filepath.Join(s.indexDir, userID+".bin")
}

// compensate removes a half-ingested document so a failed ingestion
// leaves no trace.
func (s *RetrievalService) compensate(ctx context.Context, documentID string) {
	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		logger.Warn("Rollback of document %s failed: %v", documentID, err)
	}
}
