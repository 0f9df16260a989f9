package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/paperchat-io/paperchat/internal/core/domain"
	"github.com/paperchat-io/paperchat/internal/core/ports/driven"
)

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores a document and its extracted metadata in one
// transaction.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, user_id, name, mime_type, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			name = excluded.name,
			mime_type = excluded.mime_type,
			content = excluded.content
	`, doc.ID, doc.UserID, doc.Name, doc.MIMEType, doc.Content, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	for key, value := range doc.Metadata {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO document_metadata (document_id, key, value)
			VALUES (?, ?, ?)
			ON CONFLICT(document_id, key) DO UPDATE SET value = excluded.value
		`, doc.ID, key, value); err != nil {
			return fmt.Errorf("saving document metadata: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// SaveChunks stores chunks for a document.
func (s *documentStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, content, position, source_offset)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			content = excluded.content,
			position = excluded.position,
			source_offset = excluded.source_offset
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID,
			chunk.Content, chunk.Position, chunk.SourceOffset); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, mime_type, content, created_at
		FROM documents WHERE id = ?
	`, id)

	var doc domain.Document
	if err := row.Scan(&doc.ID, &doc.UserID, &doc.Name, &doc.MIMEType,
		&doc.Content, &doc.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	metadata, err := s.loadMetadata(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	doc.Metadata = metadata

	return &doc, nil
}

// GetChunkByPosition retrieves the user's chunk at the given vector
// index position. Positions are scoped per user through the owning
// document.
func (s *documentStore) GetChunkByPosition(ctx context.Context, userID string, position int) (*domain.Chunk, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT c.id, c.document_id, c.content, c.position, c.source_offset
		FROM chunks c
		JOIN documents d ON d.id = c.document_id
		WHERE d.user_id = ? AND c.position = ?
	`, userID, position)

	var chunk domain.Chunk
	if err := row.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Content,
		&chunk.Position, &chunk.SourceOffset); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}
	return &chunk, nil
}

// GetChunks retrieves all chunks for a document in position order.
func (s *documentStore) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, content, position, source_offset
		FROM chunks WHERE document_id = ?
		ORDER BY position
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Content,
			&chunk.Position, &chunk.SourceOffset); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// ChunkCount returns the number of chunks stored for a user.
func (s *documentStore) ChunkCount(ctx context.Context, userID string) (int, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM chunks c
		JOIN documents d ON d.id = c.document_id
		WHERE d.user_id = ?
	`, userID)

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// ListDocuments returns all documents owned by a user, ordered by
// ingestion time.
func (s *documentStore) ListDocuments(ctx context.Context, userID string) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, user_id, name, mime_type, content, created_at
		FROM documents WHERE user_id = ?
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		var doc domain.Document
		if err := rows.Scan(&doc.ID, &doc.UserID, &doc.Name, &doc.MIMEType,
			&doc.Content, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	for i := range docs {
		metadata, err := s.loadMetadata(ctx, docs[i].ID)
		if err != nil {
			return nil, err
		}
		docs[i].Metadata = metadata
	}

	return docs, nil
}

// DeleteDocument removes a document. Chunks and metadata follow via
// foreign key cascade.
func (s *documentStore) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// loadMetadata reads the metadata key-value pairs for a document.
func (s *documentStore) loadMetadata(ctx context.Context, documentID string) (map[string]string, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT key, value FROM document_metadata WHERE document_id = ?
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying document metadata: %w", err)
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning document metadata: %w", err)
		}
		metadata[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document metadata: %w", err)
	}

	return metadata, nil
}
