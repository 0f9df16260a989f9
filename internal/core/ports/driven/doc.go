// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Normaliser: Converts an uploaded file into text plus metadata
//   - NormaliserRegistry: Selects the normaliser for a MIME type
//   - PostProcessorPipeline: Splits document text into chunks
//   - EmbeddingService: Generates vector embeddings
//   - VectorIndex: Flat nearest-neighbour index over embeddings
//   - DocumentStore: Document, chunk and metadata persistence
//   - TranscriptStore: Per-user conversation transcript persistence
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Completion backend. Without it, chat is disabled
//     while ingest and query keep working.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
