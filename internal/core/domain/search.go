package domain

// RetrievedChunk is a single nearest-neighbour hit, hydrated with the
// chunk text the index position corresponds to.
type RetrievedChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Position is the chunk's position in the user's vector index.
	Position int

	// Distance is the squared Euclidean distance to the query vector.
	// Lower is closer.
	Distance float32
}

// Identity describes the authenticated caller. The core treats it as
// an opaque namespace key; issuing and verifying credentials is the
// auth collaborator's job.
type Identity struct {
	// UserID is the stable identifier used to scope indexes,
	// documents and transcripts.
	UserID string

	// Username is a display name, never used as a key.
	Username string
}
