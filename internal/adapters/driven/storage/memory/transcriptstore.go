package memory

import (
	"context"
	"sync"
	"time"

	"github.com/paperchat-io/paperchat/internal/core/domain"
	"github.com/paperchat-io/paperchat/internal/core/ports/driven"
)

// Ensure TranscriptStore implements the interface.
var _ driven.TranscriptStore = (*TranscriptStore)(nil)

// TranscriptStore is an in-memory implementation of driven.TranscriptStore.
type TranscriptStore struct {
	mu       sync.RWMutex
	messages map[string][]domain.ChatMessage
}

// NewTranscriptStore creates a new in-memory transcript store.
func NewTranscriptStore() *TranscriptStore {
	return &TranscriptStore{
		messages: make(map[string][]domain.ChatMessage),
	}
}

// Append adds a message to the user's transcript.
func (s *TranscriptStore) Append(_ context.Context, msg domain.ChatMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[msg.UserID] = append(s.messages[msg.UserID], msg)
	return nil
}

// History returns the user's most recent messages in chronological
// order, up to limit. A limit <= 0 returns the full transcript.
func (s *TranscriptStore) History(_ context.Context, userID string, limit int) ([]domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	messages := s.messages[userID]
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return append([]domain.ChatMessage(nil), messages...), nil
}
