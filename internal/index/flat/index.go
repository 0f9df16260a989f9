// Package flat provides an exhaustive-scan vector index.
//
// The index stores fixed-dimension vectors append-only and answers
// k-nearest-neighbour queries by brute force over squared Euclidean
// distance: O(n*d) per query. At the modest per-user scale this
// system targets, the linear scan beats approximate structures on
// simplicity and exactness.
package flat

import (
	"sort"
	"sync"

	"github.com/paperchat-io/paperchat/internal/core/domain"
	"github.com/paperchat-io/paperchat/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is a flat L2 vector index. A single writer mutates it while
// concurrent readers search a consistent snapshot.
type Index struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float32
}

// New creates an empty index fixed at the given dimensionality.
func New(dimension int) (*Index, error) {
	if dimension <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return &Index{dimension: dimension}, nil
}

// Dimensions returns the fixed vector length of this index.
func (ix *Index) Dimensions() int {
	return ix.dimension
}

// Len returns the number of stored vectors.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.vectors)
}

// Add appends vectors in order. Each vector's position equals the prior
// index size plus its offset within the batch. The whole batch is
// validated before anything is stored, so a mismatched vector rejects
// the batch with domain.ErrDimensionMismatch and leaves the index
// unchanged.
func (ix *Index) Add(vectors [][]float32) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for _, v := range vectors {
		if len(v) != ix.dimension {
			return domain.ErrDimensionMismatch
		}
	}

	for _, v := range vectors {
		stored := make([]float32, ix.dimension)
		copy(stored, v)
		ix.vectors = append(ix.vectors, stored)
	}
	return nil
}

// Search returns the k entries with the lowest squared Euclidean
// distance to query, ascending, ties broken by lower position.
// Fewer than k entries returns them all. An empty index fails with
// domain.ErrEmptyIndex; k <= 0 or a mismatched query fail with
// domain.ErrInvalidInput / domain.ErrDimensionMismatch.
func (ix *Index) Search(query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if len(query) != ix.dimension {
		return nil, domain.ErrDimensionMismatch
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if len(ix.vectors) == 0 {
		return nil, domain.ErrEmptyIndex
	}

	hits := make([]driven.VectorHit, len(ix.vectors))
	for i, v := range ix.vectors {
		hits[i] = driven.VectorHit{
			Position: i,
			Distance: squaredL2(query, v),
		}
	}

	// Stable keeps insertion order for equal distances
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// squaredL2 computes the squared Euclidean distance between two
// equal-length vectors. The square root is never needed for ranking.
func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
