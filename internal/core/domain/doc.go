// Package domain defines the core business entities for paperchat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ParsedDocument: Raw file bytes converted to text plus flat metadata
//   - Document: An ingested document owned by a user
//   - Chunk: A fixed-size window of document text, the unit of embedding
//   - ChatMessage: One entry in a user's conversation transcript
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
