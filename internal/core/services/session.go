package services

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
	"github.com/custodia-labs/docgraph/internal/core/ports/driving"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService manages conversation sessions bound to a collection index.
type SessionService struct {
	store driven.SessionStore
	rec   driven.Recorder
}

// NewSessionService creates a new session service. rec may be nil.
func NewSessionService(store driven.SessionStore, rec driven.Recorder) *SessionService {
	return &SessionService{store: store, rec: recorderOrNoop(rec)}
}

// Create starts a session against an index.
func (s *SessionService) Create(ctx context.Context, name, indexID, history string) (*domain.Session, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.Invalid("create", "session", "name is required")
	}
	if indexID == "" {
		return nil, domain.Invalid("create", "session", "index_id is required")
	}

	sess := &domain.Session{Name: name, IndexID: indexID, History: history}
	if err := s.store.Insert(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Update changes a session's name and/or history and returns the result.
func (s *SessionService) Update(ctx context.Context, id int64, upd domain.SessionUpdate) (*domain.Session, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, domain.Invalid("update", "session", "name must not be empty")
	}
	if err := s.store.Update(ctx, id, upd); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

// Get retrieves a session by id. Returns nil if absent.
func (s *SessionService) Get(ctx context.Context, id int64) (*domain.Session, error) {
	return optional(s.store.Get(ctx, id))
}

// List returns all sessions.
func (s *SessionService) List(ctx context.Context) ([]domain.Session, error) {
	return s.store.List(ctx)
}

// ListByIndex returns the sessions bound to one index.
func (s *SessionService) ListByIndex(ctx context.Context, indexID string) ([]domain.Session, error) {
	return s.store.ListByIndex(ctx, indexID)
}

// Delete removes one session.
func (s *SessionService) Delete(ctx context.Context, id int64) error {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.E("delete", "session", idKey(id), domain.ErrNotFound, nil)
	}
	return nil
}

// DeleteByIndexIDs removes every session bound to any of the indexes.
func (s *SessionService) DeleteByIndexIDs(ctx context.Context, indexIDs []string) (int64, error) {
	indexIDs = lo.Compact(lo.Uniq(indexIDs))
	if len(indexIDs) == 0 {
		return 0, nil
	}
	var n int64
	err := retry(ctx, s.rec, "delete_sessions_by_index_ids", func() error {
		var err error
		n, err = s.store.DeleteByIndexIDs(ctx, indexIDs)
		return err
	})
	return n, err
}
