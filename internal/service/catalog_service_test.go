package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newCatalog(src *fakeSource, log *zap.Logger) *catalogService {
	s := NewCatalogService(src, log).(*catalogService)
	s.now = func() time.Time { return fixedTime }
	return s
}

func TestExercisesFetchesOnce(t *testing.T) {
	src := &fakeSource{rows: sampleRows()}
	s := newCatalog(src, zap.NewNop())

	assert.True(t, s.FetchedAt().IsZero())
	first, err := s.Exercises(context.Background())
	require.NoError(t, err)
	second, err := s.Exercises(context.Background())
	require.NoError(t, err)

	assert.Len(t, first, 3)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.fetches())
	assert.Equal(t, fixedTime, s.FetchedAt())
}

func TestEmptyCatalogIsCached(t *testing.T) {
	src := &fakeSource{}
	s := newCatalog(src, zap.NewNop())

	for i := 0; i < 2; i++ {
		exercises, err := s.Exercises(context.Background())
		require.NoError(t, err)
		assert.Empty(t, exercises)
	}
	assert.Equal(t, 1, src.fetches())
}

func TestRefreshFailureKeepsPreviousCatalog(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	src := &fakeSource{rows: sampleRows()}
	s := newCatalog(src, zap.New(core))

	_, err := s.Exercises(context.Background())
	require.NoError(t, err)

	src.fail(errSheetDown)
	_, err = s.Refresh(context.Background())
	require.ErrorIs(t, err, ErrCatalogUnavailable)
	require.ErrorIs(t, err, errSheetDown)
	assert.Equal(t, 1, logs.FilterMessage("catalog fetch failed").Len())

	exercises, err := s.Exercises(context.Background())
	require.NoError(t, err)
	assert.Len(t, exercises, 3)
}

func TestUnavailableWithoutCache(t *testing.T) {
	s := newCatalog(&fakeSource{err: errSheetDown}, zap.NewNop())

	exercises, err := s.Exercises(context.Background())
	require.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.Nil(t, exercises)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	src := &fakeSource{rows: sampleRows()}
	s := newCatalog(src, zap.NewNop())

	_, err := s.Exercises(context.Background())
	require.NoError(t, err)
	s.Invalidate()
	assert.True(t, s.FetchedAt().IsZero())

	_, err = s.Exercises(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, src.fetches())
}

func TestConcurrentReaders(t *testing.T) {
	src := &fakeSource{rows: sampleRows()}
	s := newCatalog(src, zap.NewNop())
	_, err := s.Exercises(context.Background())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(refresh bool) {
			defer wg.Done()
			if refresh {
				_, _ = s.Refresh(context.Background())
				return
			}
			exercises, err := s.Exercises(context.Background())
			assert.NoError(t, err)
			assert.Len(t, exercises, 3)
		}(i%4 == 0)
	}
	wg.Wait()
}
