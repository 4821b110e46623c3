// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Queries are built with squirrel and
// scanned with sqlx. It implements every store interface through a single
// connection pool:
//
//   - SplittingStore, DocumentStore, ChunkStore, EmbeddingVectorStore
//   - RegistryStore: one generic implementation, instantiated per registry kind
//   - CollectionStore, IndexProfileStore, CollectionIndexStore, SessionStore
//   - Transactor: WithinTx places a transaction in the context; every store
//     method picks it up from there
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Uniqueness of content hashes and splitting pairs is enforced by the schema,
// and the relationship graph uses restricting foreign keys, so an
// out-of-order delete fails instead of leaving orphans.
//
// # Errors
//
// SQLite result codes are mapped to domain kinds: UNIQUE and PRIMARY KEY
// violations to domain.ErrAlreadyExists, FOREIGN KEY, CHECK and NOT NULL
// violations to domain.ErrInvalidInput, missing rows to domain.ErrNotFound,
// and everything else to domain.ErrStore.
//
// # Data Location
//
// By default, the database is stored at ~/.docgraph/data/docgraph.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode, and transactions take the write lock when they begin.
package sqlite
