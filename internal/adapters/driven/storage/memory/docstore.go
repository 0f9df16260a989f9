// Package memory provides in-memory driven adapter implementations,
// used in tests and as lightweight defaults.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/paperchat-io/paperchat/internal/core/domain"
	"github.com/paperchat-io/paperchat/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	chunks    map[string][]domain.Chunk
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.Chunk),
	}
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = *doc
	return nil
}

// SaveChunks stores chunks for a document.
func (s *DocumentStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	docID := chunks[0].DocumentID
	s.chunks[docID] = append([]domain.Chunk(nil), chunks...)
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetChunkByPosition retrieves the user's chunk at the given vector
// index position.
func (s *DocumentStore) GetChunkByPosition(_ context.Context, userID string, position int) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for docID, chunks := range s.chunks {
		doc, ok := s.documents[docID]
		if !ok || doc.UserID != userID {
			continue
		}
		for _, chunk := range chunks {
			if chunk.Position == position {
				c := chunk
				return &c, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// GetChunks retrieves all chunks for a document in position order.
func (s *DocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunks := append([]domain.Chunk(nil), s.chunks[documentID]...)
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Position < chunks[j].Position })
	return chunks, nil
}

// ChunkCount returns the number of chunks stored for a user.
func (s *DocumentStore) ChunkCount(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for docID, chunks := range s.chunks {
		if doc, ok := s.documents[docID]; ok && doc.UserID == userID {
			count += len(chunks)
		}
	}
	return count, nil
}

// ListDocuments returns all documents owned by a user, ordered by
// ingestion time.
func (s *DocumentStore) ListDocuments(_ context.Context, userID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []domain.Document
	for _, doc := range s.documents {
		if doc.UserID == userID {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.Before(docs[j].CreatedAt) })
	return docs, nil
}

// DeleteDocument removes a document and its chunks.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	delete(s.chunks, id)
	return nil
}
