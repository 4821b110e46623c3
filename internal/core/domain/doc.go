// Package domain defines the core entities of docgraph.
//
// This package is the innermost layer of the hexagonal architecture.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: ingested bytes, identified by content hash
//   - Splitting: a (chunk size, chunk overlap) strategy
//   - Chunk: an ordered, hashed slice of a Document under a Splitting
//   - EmbeddingVector: a vector keyed by (embeddings config, content hash)
//   - RegistryEntry: an embeddings/vector-db client or config
//   - Collection, IndexProfile, CollectionIndex, Session: the retrieval graph
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
