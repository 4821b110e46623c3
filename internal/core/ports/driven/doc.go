// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Transactor: atomic multi-statement batches
//   - SplittingStore, DocumentStore, ChunkStore, EmbeddingVectorStore:
//     content-addressed persistence
//   - RegistryStore: one per configuration registry kind
//   - CollectionStore, IndexProfileStore, CollectionIndexStore, SessionStore:
//     the relationship graph
//   - BlobStore: content-addressed file staging
//   - ConfigStore: application configuration
//
// # Contract
//
// Stores report a missing row with domain.ErrNotFound, a uniqueness
// violation with domain.ErrAlreadyExists, a dangling reference with
// domain.ErrInvalidInput and undecodable stored data with domain.ErrFormat.
// Everything else is domain.ErrStore.
//
// Every store method runs inside the transaction carried by ctx when there
// is one, so a service composes several calls into one atomic unit by
// wrapping them in Transactor.WithinTx.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
