package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperchat-io/paperchat/internal/adapters/driven/storage/memory"
	"github.com/paperchat-io/paperchat/internal/core/domain"
	"github.com/paperchat-io/paperchat/internal/normalisers"
	"github.com/paperchat-io/paperchat/internal/normalisers/plaintext"
	"github.com/paperchat-io/paperchat/internal/postprocessors"
	"github.com/paperchat-io/paperchat/internal/postprocessors/chunker"
)

// fakeEmbedder maps each text to a deterministic vector so nearest
// neighbour results are predictable in tests.
type fakeEmbedder struct {
	dims  int
	calls int
	fail  bool
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.fail {
		return nil, domain.ErrEmbeddingBackend
	}
	f.calls++
	vec := make([]float32, f.dims)
	// Texts sharing a first byte embed close together.
	if len(text) > 0 {
		vec[0] = float32(text[0])
	}
	vec[1] = float32(len(text) % 7)
	return vec, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := f.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (f *fakeEmbedder) Dimensions() int              { return f.dims }
func (f *fakeEmbedder) ModelName() string            { return "fake" }
func (f *fakeEmbedder) Ping(_ context.Context) error { return nil }
func (f *fakeEmbedder) Close() error                 { return nil }

func newTestRetrieval(t *testing.T, embedder *fakeEmbedder) (*RetrievalService, *memory.DocumentStore) {
	t.Helper()

	registry := normalisers.NewRegistry()
	registry.Register(plaintext.New())

	pipeline := postprocessors.NewPipeline(chunker.New(chunker.WithChunkSize(16)))

	store := memory.NewDocumentStore()
	svc := NewRetrievalService(registry, pipeline, embedder, store, t.TempDir())
	return svc, store
}

func writeSpoolFile(t *testing.T, content string) domain.RawDocument {
	t.Helper()

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return domain.RawDocument{
		UserID:   "alice",
		Path:     path,
		Name:     "notes.txt",
		MIMEType: "text/plain",
	}
}

func TestIngest_ChunksEmbedsAndIndexes(t *testing.T) {
	ctx := context.Background()
	embedder := &fakeEmbedder{dims: 4}
	svc, store := newTestRetrieval(t, embedder)

	// 40 chars with a 16-char window yields 3 chunks.
	result, err := svc.Ingest(ctx, "alice", writeSpoolFile(t, "aaaaaaaaaaaaaaaabbbbbbbbbbbbbbbbcccccccc"))
	require.NoError(t, err)

	assert.Equal(t, 3, result.ChunkCount)
	assert.NotEmpty(t, result.DocumentID)

	count, err := store.ChunkCount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	chunk, err := store.GetChunkByPosition(ctx, "alice", 2)
	require.NoError(t, err)
	assert.Equal(t, "cccccccc", chunk.Content)
}

func TestIngest_PositionsContinueAcrossDocuments(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestRetrieval(t, &fakeEmbedder{dims: 4})

	_, err := svc.Ingest(ctx, "alice", writeSpoolFile(t, "aaaaaaaaaaaaaaaabbbbbbbbbbbbbbbb"))
	require.NoError(t, err)

	second, err := svc.Ingest(ctx, "alice", writeSpoolFile(t, "cccccccc"))
	require.NoError(t, err)

	chunks, err := store.GetChunks(ctx, second.DocumentID)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 2, chunks[0].Position)
}

func TestIngest_UnsupportedFormat(t *testing.T) {
	svc, _ := newTestRetrieval(t, &fakeEmbedder{dims: 4})

	raw := writeSpoolFile(t, "binary stuff")
	raw.MIMEType = "image/png"

	_, err := svc.Ingest(context.Background(), "alice", raw)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat))
}

func TestIngest_EmbedFailureLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	embedder := &fakeEmbedder{dims: 4, fail: true}
	svc, store := newTestRetrieval(t, embedder)

	_, err := svc.Ingest(ctx, "alice", writeSpoolFile(t, "some content here"))
	require.Error(t, err)

	docs, err := store.ListDocuments(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, docs)

	count, err := store.ChunkCount(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIngest_IndexPersistFailureLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	embedder := &fakeEmbedder{dims: 4}

	registry := normalisers.NewRegistry()
	registry.Register(plaintext.New())
	pipeline := postprocessors.NewPipeline(chunker.New(chunker.WithChunkSize(16)))
	store := memory.NewDocumentStore()
	indexDir := t.TempDir()

	svc := NewRetrievalService(registry, pipeline, embedder, store, indexDir)

	// A directory squatting on the temp file path makes the index
	// write fail after the document and chunks were stored.
	require.NoError(t, os.MkdirAll(filepath.Join(indexDir, "alice.bin.tmp"), 0o700))

	_, err := svc.Ingest(ctx, "alice", writeSpoolFile(t, "some content here"))
	require.Error(t, err)

	docs, err := store.ListDocuments(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, docs)

	count, err := store.ChunkCount(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, count)

	// A service reading the same data directory sees no index file,
	// so later ingestions start cleanly from position zero.
	require.NoError(t, os.RemoveAll(filepath.Join(indexDir, "alice.bin.tmp")))
	fresh := NewRetrievalService(registry, pipeline, embedder, store, indexDir)
	result, err := fresh.Ingest(ctx, "alice", writeSpoolFile(t, "dddddddd"))
	require.NoError(t, err)

	chunks, err := store.GetChunks(ctx, result.DocumentID)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].Position)
}

func TestIngest_EmptyDocumentIsRecordedWithoutChunks(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestRetrieval(t, &fakeEmbedder{dims: 4})

	result, err := svc.Ingest(ctx, "alice", writeSpoolFile(t, ""))
	require.NoError(t, err)
	assert.Zero(t, result.ChunkCount)

	docs, err := store.ListDocuments(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestQuery_ReturnsNearestChunks(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestRetrieval(t, &fakeEmbedder{dims: 4})

	_, err := svc.Ingest(ctx, "alice", writeSpoolFile(t, "aaaaaaaaaaaaaaaazzzzzzzzzzzzzzzz"))
	require.NoError(t, err)

	// Query text starting with 'a' embeds closest to the 'a' chunk.
	results, err := svc.Query(ctx, "alice", "aaaaaaaaaaaaaaaa", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "aaaaaaaaaaaaaaaa", results[0].Chunk.Content)
	assert.Equal(t, 0, results[0].Position)
}

func TestQuery_NeverIngestedUser(t *testing.T) {
	svc, _ := newTestRetrieval(t, &fakeEmbedder{dims: 4})

	_, err := svc.Query(context.Background(), "nobody", "anything", 2)
	assert.True(t, errors.Is(err, domain.ErrUserIndexNotFound))
}

func TestQuery_SkipsChunksOfDeletedDocuments(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestRetrieval(t, &fakeEmbedder{dims: 4})

	first, err := svc.Ingest(ctx, "alice", writeSpoolFile(t, "aaaaaaaa"))
	require.NoError(t, err)
	_, err = svc.Ingest(ctx, "alice", writeSpoolFile(t, "bbbbbbbb"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDocument(ctx, "alice", first.DocumentID))

	results, err := svc.Query(ctx, "alice", "aaaaaaaa", 2)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "bbbbbbbb", results[0].Chunk.Content)
}

func TestQuery_UsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestRetrieval(t, &fakeEmbedder{dims: 4})

	_, err := svc.Ingest(ctx, "alice", writeSpoolFile(t, "aaaaaaaa"))
	require.NoError(t, err)

	bobRaw := writeSpoolFile(t, "bbbbbbbb")
	bobRaw.UserID = "bob"
	_, err = svc.Ingest(ctx, "bob", bobRaw)
	require.NoError(t, err)

	results, err := svc.Query(ctx, "bob", "aaaaaaaa", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "bbbbbbbb", results[0].Chunk.Content)
}

func TestDeleteDocument_OwnershipEnforced(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestRetrieval(t, &fakeEmbedder{dims: 4})

	result, err := svc.Ingest(ctx, "alice", writeSpoolFile(t, "aaaaaaaa"))
	require.NoError(t, err)

	err = svc.DeleteDocument(ctx, "bob", result.DocumentID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, svc.DeleteDocument(ctx, "alice", result.DocumentID))
}

func TestIndexPersistsAcrossServiceRestarts(t *testing.T) {
	ctx := context.Background()
	embedder := &fakeEmbedder{dims: 4}

	registry := normalisers.NewRegistry()
	registry.Register(plaintext.New())
	pipeline := postprocessors.NewPipeline(chunker.New(chunker.WithChunkSize(16)))
	store := memory.NewDocumentStore()
	indexDir := t.TempDir()

	svc := NewRetrievalService(registry, pipeline, embedder, store, indexDir)
	_, err := svc.Ingest(ctx, "alice", writeSpoolFile(t, "aaaaaaaa"))
	require.NoError(t, err)

	// A fresh service instance loads the persisted index from disk.
	reloaded := NewRetrievalService(registry, pipeline, embedder, store, indexDir)
	results, err := reloaded.Query(ctx, "alice", "aaaaaaaa", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "aaaaaaaa", results[0].Chunk.Content)
}

func TestIngest_ManyDocumentsKeepStoreAndIndexAligned(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestRetrieval(t, &fakeEmbedder{dims: 4})

	total := 0
	for i := 0; i < 5; i++ {
		result, err := svc.Ingest(ctx, "alice", writeSpoolFile(t, fmt.Sprintf("document %d content", i)))
		require.NoError(t, err)
		total += result.ChunkCount
	}

	count, err := store.ChunkCount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, total, count)
}
