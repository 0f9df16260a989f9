package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/paperchat-io/paperchat/internal/core/domain"
	"github.com/paperchat-io/paperchat/internal/core/ports/driven"
	"github.com/paperchat-io/paperchat/internal/core/ports/driving"
	"github.com/paperchat-io/paperchat/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// Chat defaults.
const (
	// DefaultAnswerMaxTokens caps answer length.
	DefaultAnswerMaxTokens = 150

	// DefaultHistoryLimit is how many transcript messages are carried
	// into each prompt.
	DefaultHistoryLimit = 10
)

// systemPrompt frames the conversation. The retrieved chunks are
// appended below it so the model answers from document content rather
// than from its own knowledge.
const systemPrompt = `You are a document assistant. Answer the user's question using the provided document excerpts. If the excerpts do not contain the answer, say so instead of guessing.`

// ChatService answers questions against a user's indexed documents.
// Every answer is grounded in retrieved chunks, and each user has a
// private transcript.
type ChatService struct {
	retrieval   driving.RetrievalService
	llm         driven.LLMService
	transcripts driven.TranscriptStore

	topK         int
	maxTokens    int
	historyLimit int
}

// ChatOption configures a ChatService.
type ChatOption func(*ChatService)

// WithTopK sets how many chunks are retrieved per question.
func WithTopK(k int) ChatOption {
	return func(s *ChatService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithMaxTokens caps the generated answer length.
func WithMaxTokens(n int) ChatOption {
	return func(s *ChatService) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

// WithHistoryLimit sets how many recent transcript messages are
// included in each prompt.
func WithHistoryLimit(n int) ChatOption {
	return func(s *ChatService) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// NewChatService creates a new chat service.
func NewChatService(
	retrieval driving.RetrievalService,
	llm driven.LLMService,
	transcripts driven.TranscriptStore,
	opts ...ChatOption,
) *ChatService {
	s := &ChatService{
		retrieval:    retrieval,
		llm:          llm,
		transcripts:  transcripts,
		topK:         DefaultTopK,
		maxTokens:    DefaultAnswerMaxTokens,
		historyLimit: DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Answer retrieves context for queryText, combines it with the user's
// recent transcript, generates a completion and records the exchange.
// The transcript only grows when generation succeeds.
func (s *ChatService) Answer(ctx context.Context, userID, queryText string) (string, error) {
	queryText = strings.TrimSpace(queryText)
	if queryText == "" {
		return "", fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	logger.Section("Chat")
	logger.Debug("Question from user %s: %q", userID, queryText)

	retrieved, err := s.retrieval.Query(ctx, userID, queryText, s.topK)
	if err != nil {
		return "", err
	}
	logger.Debug("Retrieved %d context chunks", len(retrieved))

	history, err := s.transcripts.History(ctx, userID, s.historyLimit)
	if err != nil {
		return "", fmt.Errorf("loading transcript: %w", err)
	}

	messages := make([]driven.LLMMessage, 0, len(history)+2)
	messages = append(messages, driven.LLMMessage{
		Role:    "system",
		Content: buildContextPrompt(retrieved),
	})
	for _, msg := range history {
		messages = append(messages, driven.LLMMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	messages = append(messages, driven.LLMMessage{
		Role:    domain.RoleUser,
		Content: queryText,
	})

	answer, err := s.llm.Chat(ctx, messages, driven.GenerateOptions{
		MaxTokens: s.maxTokens,
	})
	if err != nil {
		return "", err
	}

	if err := s.transcripts.Append(ctx, domain.ChatMessage{
		UserID:  userID,
		Role:    domain.RoleUser,
		Content: queryText,
	}); err != nil {
		return "", fmt.Errorf("recording question: %w", err)
	}
	if err := s.transcripts.Append(ctx, domain.ChatMessage{
		UserID:  userID,
		Role:    domain.RoleAssistant,
		Content: answer,
	}); err != nil {
		return "", fmt.Errorf("recording answer: %w", err)
	}

	return answer, nil
}

// History returns the user's transcript, newest last.
func (s *ChatService) History(ctx context.Context, userID string, limit int) ([]domain.ChatMessage, error) {
	return s.transcripts.History(ctx, userID, limit)
}

// buildContextPrompt renders the system prompt plus retrieved chunks.
// Chunks appear in relevance order, nearest first.
func buildContextPrompt(retrieved []domain.RetrievedChunk) string {
	var b strings.Builder
	b.WriteString(systemPrompt)

	if len(retrieved) == 0 {
		b.WriteString("\n\nNo document excerpts matched the question.")
		return b.String()
	}

	b.WriteString("\n\nDocument excerpts:")
	for i, rc := range retrieved {
		fmt.Fprintf(&b, "\n\n[%d] %s", i+1, rc.Chunk.Content)
	}
	return b.String()
}
