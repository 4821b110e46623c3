package sqlite

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"

	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
)

// sessionStore implements driven.SessionStore.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

type sessionRow struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	IndexID string `db:"index_id"`
	History string `db:"history"`
}

func (r sessionRow) toDomain() domain.Session {
	return domain.Session(r)
}

func selectSessions() sq.SelectBuilder {
	return sq.Select("id", "name", "index_id", "history").From("sessions")
}

func sessionKey(id int64) string {
	return fmt.Sprintf("id=%d", id)
}

// Insert stores a session and sets s.ID. An unknown index is reported as
// domain.ErrInvalidInput by the foreign key.
func (s *sessionStore) Insert(ctx context.Context, sess *domain.Session) error {
	_, id, err := s.store.exec(ctx, sq.Insert("sessions").
		Columns("name", "index_id", "history").
		Values(sess.Name, sess.IndexID, sess.History))
	if err != nil {
		return mapError("create", "session", "index_id="+sess.IndexID, err)
	}
	sess.ID = id
	return nil
}

// Get retrieves a session by id.
func (s *sessionStore) Get(ctx context.Context, id int64) (*domain.Session, error) {
	var row sessionRow
	if err := s.store.get(ctx, &row, selectSessions().Where(sq.Eq{"id": id})); err != nil {
		return nil, mapError("get", "session", sessionKey(id), err)
	}
	sess := row.toDomain()
	return &sess, nil
}

// List returns all sessions.
func (s *sessionStore) List(ctx context.Context) ([]domain.Session, error) {
	return s.list(ctx, selectSessions(), "")
}

// ListByIndex returns the sessions on one index.
func (s *sessionStore) ListByIndex(ctx context.Context, indexID string) ([]domain.Session, error) {
	return s.list(ctx, selectSessions().Where(sq.Eq{"index_id": indexID}), "index_id="+indexID)
}

func (s *sessionStore) list(ctx context.Context, q sq.SelectBuilder, key string) ([]domain.Session, error) {
	var rows []sessionRow
	if err := s.store.selectAll(ctx, &rows, q.OrderBy("id")); err != nil {
		return nil, mapError("list", "session", key, err)
	}
	return lo.Map(rows, func(r sessionRow, _ int) domain.Session { return r.toDomain() }), nil
}

// Update applies the non-nil fields of upd.
func (s *sessionStore) Update(ctx context.Context, id int64, upd domain.SessionUpdate) error {
	q := sq.Update("sessions").Where(sq.Eq{"id": id})
	if upd.Name != nil {
		q = q.Set("name", *upd.Name)
	}
	if upd.History != nil {
		q = q.Set("history", *upd.History)
	}
	if upd.Name == nil && upd.History == nil {
		// Nothing to change; still report a missing row.
		_, err := s.Get(ctx, id)
		if err != nil {
			return mapError("update", "session", sessionKey(id), err)
		}
		return nil
	}

	affected, _, err := s.store.exec(ctx, q)
	if err != nil {
		return mapError("update", "session", sessionKey(id), err)
	}
	if affected == 0 {
		return domain.E("update", "session", sessionKey(id), domain.ErrNotFound, nil)
	}
	return nil
}

// Delete removes one session and returns rows affected.
func (s *sessionStore) Delete(ctx context.Context, id int64) (int64, error) {
	affected, _, err := s.store.exec(ctx, sq.Delete("sessions").Where(sq.Eq{"id": id}))
	if err != nil {
		return 0, mapError("delete", "session", sessionKey(id), err)
	}
	return affected, nil
}

// DeleteByIndexIDs removes every session on the given indexes.
func (s *sessionStore) DeleteByIndexIDs(ctx context.Context, indexIDs []string) (int64, error) {
	if len(indexIDs) == 0 {
		return 0, nil
	}
	affected, _, err := s.store.exec(ctx, sq.Delete("sessions").Where(sq.Eq{"index_id": indexIDs}))
	if err != nil {
		return 0, mapError("delete", "session", "index_ids="+strings.Join(indexIDs, ","), err)
	}
	return affected, nil
}
