package services

import (
	"context"

	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
	"github.com/custodia-labs/docgraph/internal/core/ports/driving"
)

// Ensure SplittingService implements the interface.
var _ driving.SplittingService = (*SplittingService)(nil)

// SplittingService resolves splitting strategies.
type SplittingService struct {
	store driven.SplittingStore
	rec   driven.Recorder
}

// NewSplittingService creates a new splitting service. rec may be nil.
func NewSplittingService(store driven.SplittingStore, rec driven.Recorder) *SplittingService {
	return &SplittingService{store: store, rec: recorderOrNoop(rec)}
}

// GetOrCreate returns the strategy for (chunkSize, chunkOverlap), creating it when absent.
func (s *SplittingService) GetOrCreate(ctx context.Context, chunkSize, chunkOverlap int) (*domain.Splitting, error) {
	cfg := domain.SplittingConfig{ChunkSize: chunkSize, ChunkOverlap: chunkOverlap}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return getOrCreate(ctx, s.rec, "splitting",
		func(ctx context.Context) (*domain.Splitting, error) {
			return s.store.FindByConfig(ctx, cfg)
		},
		func(ctx context.Context) (*domain.Splitting, error) {
			id, err := s.store.Insert(ctx, cfg)
			if err != nil {
				return nil, err
			}
			return &domain.Splitting{ID: id, ChunkSize: chunkSize, ChunkOverlap: chunkOverlap}, nil
		})
}

// Resolve turns an id-or-config reference into a strategy id. An id is
// returned as given; writes that use it fail if it does not exist.
func (s *SplittingService) Resolve(ctx context.Context, ref domain.SplittingRef) (int64, error) {
	if err := ref.Validate(); err != nil {
		return 0, err
	}
	if ref.Config == nil {
		return ref.ID, nil
	}
	sp, err := s.GetOrCreate(ctx, ref.Config.ChunkSize, ref.Config.ChunkOverlap)
	if err != nil {
		return 0, err
	}
	return sp.ID, nil
}

// Get retrieves a strategy by id. Returns nil if absent.
func (s *SplittingService) Get(ctx context.Context, id int64) (*domain.Splitting, error) {
	return optional(s.store.Get(ctx, id))
}

// List returns all strategies.
func (s *SplittingService) List(ctx context.Context) ([]domain.Splitting, error) {
	return s.store.List(ctx)
}
