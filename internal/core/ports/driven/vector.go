package driven

// VectorIndex provides nearest-neighbour search over a growing
// collection of fixed-dimension vectors. Entries are append-only;
// a vector's position is its insertion order, starting at zero.
type VectorIndex interface {
	// Dimensions returns the fixed vector length of this index.
	Dimensions() int

	// Len returns the number of stored vectors.
	Len() int

	// Add appends vectors in order. Each vector's position equals the
	// prior index size plus its offset within the batch. If any vector
	// has a mismatched length the whole batch is rejected with
	// domain.ErrDimensionMismatch and the index is unchanged.
	Add(vectors [][]float32) error

	// Search returns the k entries with the lowest squared Euclidean
	// distance to query, ordered ascending, ties broken by lower
	// position. Fewer than k entries returns them all. Searching an
	// empty index fails with domain.ErrEmptyIndex.
	Search(query []float32, k int) ([]VectorHit, error)

	// Save persists the index to the given path in a versioned
	// binary format.
	Save(path string) error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Position is the matched vector's insertion position.
	Position int

	// Distance is the squared Euclidean distance to the query vector.
	Distance float32
}
