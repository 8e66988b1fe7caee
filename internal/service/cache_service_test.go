package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/naac-sar-api/pkg/errors"
)

type cacheRepoStub struct {
	items   map[string][]byte
	deleted []string
	getErr  error
	setErr  error
}

func (s *cacheRepoStub) Get(_ context.Context, key string, dest interface{}) error {
	if s.getErr != nil {
		return s.getErr
	}
	raw, ok := s.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *cacheRepoStub) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.setErr != nil {
		return s.setErr
	}
	raw, _ := json.Marshal(value)
	s.items[key] = raw
	return nil
}

func (s *cacheRepoStub) DeleteByPattern(_ context.Context, pattern string) error {
	s.deleted = append(s.deleted, pattern)
	return nil
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := &cacheRepoStub{items: map[string][]byte{}}
	metrics := NewMetricsService()
	svc := NewCacheService(repo, metrics, time.Minute, nil, true)

	var out map[string]int
	assert.False(t, svc.Get(context.Background(), summaryCacheKey(2025), &out))

	svc.Set(context.Background(), summaryCacheKey(2025), map[string]int{"total": 1}, 0)
	assert.True(t, svc.Get(context.Background(), summaryCacheKey(2025), &out))
	assert.Equal(t, 1, out["total"])

	svc.Invalidate(context.Background(), scoresCachePattern)
	assert.Equal(t, []string{scoresCachePattern}, repo.deleted)
	assert.Equal(t, 0.5, metrics.Snapshot().CacheHitRatio)
}

func TestCacheServiceDegrades(t *testing.T) {
	repo := &cacheRepoStub{items: map[string][]byte{}, getErr: errors.New("dial tcp: refused"), setErr: errors.New("dial tcp: refused")}
	svc := NewCacheService(repo, nil, 0, nil, true)

	var out map[string]int
	assert.False(t, svc.Get(context.Background(), cycleCacheKey, &out))
	svc.Set(context.Background(), cycleCacheKey, map[string]int{"a": 1}, 0)

	disabled := NewCacheService(repo, nil, 0, nil, false)
	assert.False(t, disabled.Enabled())
	disabled.Invalidate(context.Background(), scoresCachePattern)
	assert.Empty(t, repo.deleted)

	var nilCache *CacheService
	assert.False(t, nilCache.Get(context.Background(), cycleCacheKey, &out))
}
