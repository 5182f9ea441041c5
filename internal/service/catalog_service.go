package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"alcyxob/session-planner/internal/domain"
	"alcyxob/session-planner/internal/repository"
)

// ErrCatalogUnavailable means no catalog could be fetched and none is cached ("no data available").
var ErrCatalogUnavailable = errors.New("no exercise data available")

// CatalogService caches the exercise catalog between requests. The cached slice is only
// ever replaced wholesale, never mutated in place.
type CatalogService interface {
	// Exercises returns the cached catalog, fetching it on first use.
	Exercises(ctx context.Context) ([]domain.Exercise, error)
	// Refresh refetches the catalog. On failure the previous catalog stays cached.
	Refresh(ctx context.Context) ([]domain.Exercise, error)
	// Invalidate drops the cache so the next Exercises call refetches.
	Invalidate()
	// FetchedAt is when the cached catalog was fetched, zero when nothing is cached.
	FetchedAt() time.Time
}

type catalogService struct {
	source repository.CatalogSource
	log    *zap.Logger
	now    func() time.Time

	mu        sync.RWMutex
	exercises []domain.Exercise
	fetchedAt time.Time
}

// NewCatalogService creates a new instance of catalogService.
func NewCatalogService(source repository.CatalogSource, log *zap.Logger) CatalogService {
	return &catalogService{
		source: source,
		log:    log,
		now:    time.Now,
	}
}

func (s *catalogService) Exercises(ctx context.Context) ([]domain.Exercise, error) {
	s.mu.RLock()
	exercises, cached := s.exercises, s.exercises != nil
	s.mu.RUnlock()
	if cached {
		return exercises, nil
	}
	return s.Refresh(ctx)
}

func (s *catalogService) Refresh(ctx context.Context) ([]domain.Exercise, error) {
	rows, err := s.source.FetchRows(ctx)
	if err != nil {
		s.log.Error("catalog fetch failed", zap.String("source", s.source.Name()), zap.Error(err))
		return nil, errors.Join(ErrCatalogUnavailable, err)
	}
	exercises := domain.NewExercises(rows)

	s.mu.Lock()
	s.exercises = exercises
	s.fetchedAt = s.now()
	s.mu.Unlock()

	s.log.Info("catalog fetched", zap.String("source", s.source.Name()), zap.Int("exercises", len(exercises)))
	return exercises, nil
}

func (s *catalogService) Invalidate() {
	s.mu.Lock()
	s.exercises = nil
	s.fetchedAt = time.Time{}
	s.mu.Unlock()
}

func (s *catalogService) FetchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt
}
