package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/paperchat-io/paperchat/internal/core/domain"
	"github.com/paperchat-io/paperchat/internal/core/ports/driven"
)

// transcriptStore implements driven.TranscriptStore.
type transcriptStore struct {
	store *Store
}

var _ driven.TranscriptStore = (*transcriptStore)(nil)

// Append adds a message to the user's transcript.
func (s *transcriptStore) Append(ctx context.Context, msg domain.ChatMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO transcripts (user_id, role, content, created_at)
		VALUES (?, ?, ?, ?)
	`, msg.UserID, msg.Role, msg.Content, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("appending transcript message: %w", err)
	}
	return nil
}

// History returns the user's most recent messages in chronological
// order, up to limit. A limit <= 0 returns the full transcript.
func (s *transcriptStore) History(ctx context.Context, userID string, limit int) ([]domain.ChatMessage, error) {
	query := `
		SELECT user_id, role, content, created_at
		FROM transcripts WHERE user_id = ?
		ORDER BY id DESC
	`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transcript: %w", err)
	}
	defer rows.Close()

	var messages []domain.ChatMessage //nolint:prealloc // size unknown from query
	for rows.Next() {
		var msg domain.ChatMessage
		if err := rows.Scan(&msg.UserID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning transcript message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transcript: %w", err)
	}

	// Rows came back newest first; reverse into chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}
