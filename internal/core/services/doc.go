// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
//   - RetrievalService: parse, chunk, embed and index documents;
//     nearest-neighbour queries over a user's index
//   - ChatService: retrieval-grounded answers with per-user transcripts
//   - SpoolWatcher: automatic ingestion of files dropped in a directory
package services
