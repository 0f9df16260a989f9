package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperchat-io/paperchat/internal/core/domain"
)

func TestDocumentStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()

	doc := &domain.Document{ID: "doc-1", UserID: "alice", Name: "a.txt", Content: "hello"}
	require.NoError(t, store.SaveDocument(ctx, doc))

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)

	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))

	_, err = store.GetDocument(ctx, "doc-1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	err = store.DeleteDocument(ctx, "doc-1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDocumentStore_ChunkPositionLookup(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-1", UserID: "alice"}))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "c-0", DocumentID: "doc-1", Content: "first", Position: 0},
		{ID: "c-1", DocumentID: "doc-1", Content: "second", Position: 1},
	}))

	chunk, err := store.GetChunkByPosition(ctx, "alice", 1)
	require.NoError(t, err)
	assert.Equal(t, "second", chunk.Content)

	_, err = store.GetChunkByPosition(ctx, "bob", 1)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	count, err := store.ChunkCount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestDocumentStore_ListDocuments(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()

	now := time.Now()
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-2", UserID: "alice", CreatedAt: now.Add(time.Second)}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-1", UserID: "alice", CreatedAt: now}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-3", UserID: "bob", CreatedAt: now}))

	docs, err := store.ListDocuments(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "doc-1", docs[0].ID)
	assert.Equal(t, "doc-2", docs[1].ID)
}

func TestTranscriptStore_AppendAndHistory(t *testing.T) {
	ctx := context.Background()
	store := NewTranscriptStore()

	require.NoError(t, store.Append(ctx, domain.ChatMessage{UserID: "alice", Role: domain.RoleUser, Content: "one"}))
	require.NoError(t, store.Append(ctx, domain.ChatMessage{UserID: "alice", Role: domain.RoleAssistant, Content: "two"}))
	require.NoError(t, store.Append(ctx, domain.ChatMessage{UserID: "alice", Role: domain.RoleUser, Content: "three"}))

	history, err := store.History(ctx, "alice", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "two", history[0].Content)
	assert.Equal(t, "three", history[1].Content)

	all, err := store.History(ctx, "alice", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
