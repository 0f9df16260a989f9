package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperchat-io/paperchat/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func testDocument(id, userID string) *domain.Document {
	return &domain.Document{
		ID:       id,
		UserID:   userID,
		Name:     "notes.txt",
		MIMEType: "text/plain",
		Content:  "some document text",
		Metadata: map[string]string{
			"columns": "3",
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestStore_MigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening the same database must not re-run applied migrations.
	store, err = NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestDocumentStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	docs := newTestStore(t).DocumentStore()

	doc := testDocument("doc-1", "alice")
	require.NoError(t, docs.SaveDocument(ctx, doc))

	got, err := docs.GetDocument(ctx, "doc-1")
	require.NoError(t, err)

	assert.Equal(t, "alice", got.UserID)
	assert.Equal(t, "notes.txt", got.Name)
	assert.Equal(t, "some document text", got.Content)
	assert.Equal(t, map[string]string{"columns": "3"}, got.Metadata)
}

func TestDocumentStore_GetDocument_NotFound(t *testing.T) {
	docs := newTestStore(t).DocumentStore()

	_, err := docs.GetDocument(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDocumentStore_ChunksByPosition(t *testing.T) {
	ctx := context.Background()
	docs := newTestStore(t).DocumentStore()

	require.NoError(t, docs.SaveDocument(ctx, testDocument("doc-1", "alice")))
	require.NoError(t, docs.SaveChunks(ctx, []domain.Chunk{
		{ID: "c-0", DocumentID: "doc-1", Content: "first window", Position: 0, SourceOffset: 0},
		{ID: "c-1", DocumentID: "doc-1", Content: "second window", Position: 1, SourceOffset: 2048},
	}))

	chunk, err := docs.GetChunkByPosition(ctx, "alice", 1)
	require.NoError(t, err)
	assert.Equal(t, "second window", chunk.Content)
	assert.Equal(t, 2048, chunk.SourceOffset)

	// The position space is per user.
	_, err = docs.GetChunkByPosition(ctx, "bob", 1)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	count, err := docs.ChunkCount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestDocumentStore_GetChunks_OrderedByPosition(t *testing.T) {
	ctx := context.Background()
	docs := newTestStore(t).DocumentStore()

	require.NoError(t, docs.SaveDocument(ctx, testDocument("doc-1", "alice")))
	require.NoError(t, docs.SaveChunks(ctx, []domain.Chunk{
		{ID: "c-2", DocumentID: "doc-1", Content: "c", Position: 2},
		{ID: "c-0", DocumentID: "doc-1", Content: "a", Position: 0},
		{ID: "c-1", DocumentID: "doc-1", Content: "b", Position: 1},
	}))

	chunks, err := docs.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, "a", chunks[0].Content)
	assert.Equal(t, "b", chunks[1].Content)
	assert.Equal(t, "c", chunks[2].Content)
}

func TestDocumentStore_ListDocuments_ScopedToUser(t *testing.T) {
	ctx := context.Background()
	docs := newTestStore(t).DocumentStore()

	require.NoError(t, docs.SaveDocument(ctx, testDocument("doc-1", "alice")))
	require.NoError(t, docs.SaveDocument(ctx, testDocument("doc-2", "bob")))

	listed, err := docs.ListDocuments(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "doc-1", listed[0].ID)
}

func TestDocumentStore_DeleteDocument_CascadesToChunks(t *testing.T) {
	ctx := context.Background()
	docs := newTestStore(t).DocumentStore()

	require.NoError(t, docs.SaveDocument(ctx, testDocument("doc-1", "alice")))
	require.NoError(t, docs.SaveChunks(ctx, []domain.Chunk{
		{ID: "c-0", DocumentID: "doc-1", Content: "text", Position: 0},
	}))

	require.NoError(t, docs.DeleteDocument(ctx, "doc-1"))

	_, err := docs.GetChunkByPosition(ctx, "alice", 0)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	err = docs.DeleteDocument(ctx, "doc-1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestTranscriptStore_AppendAndHistory(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	transcripts := store.TranscriptStore()

	require.NoError(t, transcripts.Append(ctx, domain.ChatMessage{
		UserID: "alice", Role: domain.RoleUser, Content: "what is chapter 2 about?",
	}))
	require.NoError(t, transcripts.Append(ctx, domain.ChatMessage{
		UserID: "alice", Role: domain.RoleAssistant, Content: "it covers indexing",
	}))
	require.NoError(t, transcripts.Append(ctx, domain.ChatMessage{
		UserID: "bob", Role: domain.RoleUser, Content: "unrelated",
	}))

	history, err := transcripts.History(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, domain.RoleAssistant, history[1].Role)
}

func TestTranscriptStore_History_LimitKeepsMostRecent(t *testing.T) {
	ctx := context.Background()
	transcripts := newTestStore(t).TranscriptStore()

	for _, content := range []string{"one", "two", "three", "four"} {
		require.NoError(t, transcripts.Append(ctx, domain.ChatMessage{
			UserID: "alice", Role: domain.RoleUser, Content: content,
		}))
	}

	history, err := transcripts.History(ctx, "alice", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "three", history[0].Content)
	assert.Equal(t, "four", history[1].Content)
}
