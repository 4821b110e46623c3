package sqlite

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/custodia-labs/docgraph/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// insertBatchSize bounds the rows per multi-row INSERT so statements stay
// well under SQLite's bound-parameter limit.
const insertBatchSize = 500

// dsnParams apply to every pooled connection: WAL for concurrent readers,
// a busy timeout so writers queue instead of failing, enforced foreign keys
// and BEGIN IMMEDIATE so a transaction holds the write lock from its start.
const dsnParams = "?_pragma=journal_mode(WAL)" +
	"&_pragma=busy_timeout(5000)" +
	"&_pragma=foreign_keys(1)" +
	"&_txlock=immediate"

// txKey carries the active *sqlx.Tx in a context.
type txKey struct{}

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sqlx.DB
	path string
}

var _ driven.Transactor = (*Store)(nil)

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.docgraph/data/docgraph.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docgraph", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "docgraph.db")

	db, err := sqlx.Open("sqlite", dbPath+dsnParams)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SplittingStore returns a SplittingStore interface backed by this store.
func (s *Store) SplittingStore() driven.SplittingStore {
	return &splittingStore{store: s}
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// ChunkStore returns a ChunkStore interface backed by this store.
func (s *Store) ChunkStore() driven.ChunkStore {
	return &chunkStore{store: s}
}

// EmbeddingVectorStore returns an EmbeddingVectorStore interface backed by this store.
func (s *Store) EmbeddingVectorStore() driven.EmbeddingVectorStore {
	return &vectorStore{store: s}
}

// RegistryStore returns the RegistryStore for one registry kind.
func (s *Store) RegistryStore(kind domain.RegistryKind) (driven.RegistryStore, error) {
	schema, ok := registrySchemas[kind]
	if !ok {
		return nil, domain.Invalid("open", "registry", "unknown registry kind %q", kind)
	}
	return &registryStore{store: s, kind: kind, schema: schema}, nil
}

// CollectionStore returns a CollectionStore interface backed by this store.
func (s *Store) CollectionStore() driven.CollectionStore {
	return &collectionStore{store: s}
}

// IndexProfileStore returns an IndexProfileStore interface backed by this store.
func (s *Store) IndexProfileStore() driven.IndexProfileStore {
	return &indexProfileStore{store: s}
}

// CollectionIndexStore returns a CollectionIndexStore interface backed by this store.
func (s *Store) CollectionIndexStore() driven.CollectionIndexStore {
	return &collectionIndexStore{store: s}
}

// SessionStore returns a SessionStore interface backed by this store.
func (s *Store) SessionStore() driven.SessionStore {
	return &sessionStore{store: s}
}

// WithinTx runs fn inside a transaction carried by the returned context.
// If ctx already carries one, fn joins it and the outer call decides the outcome.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return mapError("begin", "transaction", "", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapError("commit", "transaction", "", err)
	}
	return nil
}

// conn returns the transaction in ctx, or the pool.
func (s *Store) conn(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return s.db
}

// get runs a squirrel SELECT expecting one row.
func (s *Store) get(ctx context.Context, dest any, q sq.SelectBuilder) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	return sqlx.GetContext(ctx, s.conn(ctx), dest, query, args...)
}

// selectAll runs a squirrel SELECT into a slice.
func (s *Store) selectAll(ctx context.Context, dest any, q sq.SelectBuilder) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	return sqlx.SelectContext(ctx, s.conn(ctx), dest, query, args...)
}

// exec runs any squirrel statement and returns rows affected and the last insert id.
func (s *Store) exec(ctx context.Context, q sq.Sqlizer) (affected, lastID int64, err error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("building statement: %w", err)
	}
	res, err := s.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, 0, err
	}
	affected, err = res.RowsAffected()
	if err != nil {
		return 0, 0, err
	}
	lastID, err = res.LastInsertId()
	if err != nil {
		return 0, 0, err
	}
	return affected, lastID, nil
}

// migrate runs all pending migrations, each in its own transaction.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	if err := s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations"); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Beginx()
		if err != nil {
			return fmt.Errorf("starting migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// notFound reports whether err is a missing-row result.
func notFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
