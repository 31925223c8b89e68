package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/medlocator/internal/models"
)

// fakeRedis is an in-memory CacheBackend. down simulates an unreachable server.
type fakeRedis struct {
	mu     sync.Mutex
	data   map[string]string
	ttls   map[string]time.Duration
	down   bool
	writes int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

var errRedisDown = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return redis.NewStringResult("", errRedisDown)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return redis.NewStatusResult("", errRedisDown)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttls[key] = expiration
	f.writes++
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Incr(ctx context.Context, key string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return redis.NewIntResult(0, errRedisDown)
	}
	var n int64
	if v, ok := f.data[key]; ok {
		for _, c := range v {
			n = n*10 + int64(c-'0')
		}
	}
	n++
	f.data[key] = itoa(n)
	return redis.NewIntResult(n, nil)
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	var buf []byte
	for n > 0 {
		buf = append([]byte{byte('0' + n%10)}, buf...)
		n /= 10
	}
	return string(buf)
}

func cacheFixture() []models.InventoryItem {
	s := pharmacy("Cached Chemist", 28.6, 77.2)
	return []models.InventoryItem{stocked("Paracetamol", s, 8)}
}

func TestCachedStore_ReadThroughThenHit(t *testing.T) {
	filter := CandidateFilter{Text: "paracetamol", AsOf: models.DateOf(fixedNow)}
	inner := new(mockStore)
	inner.On("FindCandidates", mock.Anything, filter).Return(cacheFixture(), nil).Once()

	backend := newFakeRedis()
	cached := NewCachedStore(inner, backend, 30*time.Second)

	first, err := cached.FindCandidates(context.Background(), filter)
	require.NoError(t, err)
	second, err := cached.FindCandidates(context.Background(), filter)
	require.NoError(t, err)

	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, "Cached Chemist", second[0].Store.Name)
	assert.True(t, first[0].UnitPrice.Equal(second[0].UnitPrice))
	assert.Equal(t, 1, backend.writes)
	for _, ttl := range backend.ttls {
		assert.Equal(t, 30*time.Second, ttl)
	}
	inner.AssertExpectations(t)
}

func TestCachedStore_InvalidateForcesReload(t *testing.T) {
	filter := CandidateFilter{Text: "paracetamol", AsOf: models.DateOf(fixedNow)}
	inner := new(mockStore)
	inner.On("FindCandidates", mock.Anything, filter).Return(cacheFixture(), nil).Twice()

	cached := NewCachedStore(inner, newFakeRedis(), time.Minute)
	_, err := cached.FindCandidates(context.Background(), filter)
	require.NoError(t, err)

	require.NoError(t, cached.Invalidate(context.Background()))

	_, err = cached.FindCandidates(context.Background(), filter)
	require.NoError(t, err)
	inner.AssertExpectations(t)
}

func TestCachedStore_DifferentDayIsDifferentKey(t *testing.T) {
	today := CandidateFilter{Text: "paracetamol", AsOf: models.DateOf(fixedNow)}
	tomorrow := CandidateFilter{Text: "paracetamol", AsOf: models.DateOf(fixedNow.AddDate(0, 0, 1))}

	inner := new(mockStore)
	inner.On("FindCandidates", mock.Anything, mock.Anything).Return(cacheFixture(), nil).Twice()

	cached := NewCachedStore(inner, newFakeRedis(), time.Minute)
	_, err := cached.FindCandidates(context.Background(), today)
	require.NoError(t, err)
	_, err = cached.FindCandidates(context.Background(), tomorrow)
	require.NoError(t, err)
	inner.AssertNumberOfCalls(t, "FindCandidates", 2)
}

func TestCachedStore_FallsThroughWhenRedisIsDown(t *testing.T) {
	filter := CandidateFilter{Text: "insulin", AsOf: models.DateOf(fixedNow)}
	inner := new(mockStore)
	inner.On("FindCandidates", mock.Anything, filter).Return(cacheFixture(), nil)

	backend := newFakeRedis()
	backend.down = true
	cached := NewCachedStore(inner, backend, time.Minute)

	for i := 0; i < 2; i++ {
		items, err := cached.FindCandidates(context.Background(), filter)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	}
	inner.AssertNumberOfCalls(t, "FindCandidates", 2)
	assert.Error(t, cached.Invalidate(context.Background()))
}

func TestCachedStore_DoesNotCacheFailures(t *testing.T) {
	filter := CandidateFilter{Text: "insulin", AsOf: models.DateOf(fixedNow)}
	inner := new(mockStore)
	inner.On("FindCandidates", mock.Anything, filter).Return(nil, errors.New("timeout")).Once()
	inner.On("FindCandidates", mock.Anything, filter).Return(cacheFixture(), nil).Once()

	backend := newFakeRedis()
	cached := NewCachedStore(inner, backend, time.Minute)

	_, err := cached.FindCandidates(context.Background(), filter)
	require.Error(t, err)
	assert.Zero(t, backend.writes)

	items, err := cached.FindCandidates(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCachedStore_EngineResultsMatchUncached(t *testing.T) {
	inner := new(mockStore)
	inner.On("FindCandidates", mock.Anything, mock.Anything).Return(cacheFixture(), nil)

	req := Request{Query: "paracetamol", Origin: nil, RadiusKm: 2000}
	plain, err := newTestEngine(inner).Search(context.Background(), req)
	require.NoError(t, err)

	cachedEngine := newTestEngine(NewCachedStore(inner, newFakeRedis(), time.Minute))
	_, err = cachedEngine.Search(context.Background(), req)
	require.NoError(t, err)
	viaCache, err := cachedEngine.Search(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, plain.Count, viaCache.Count)
	for i := range plain.Results {
		assert.Equal(t, plain.Results[i].Item.ID, viaCache.Results[i].Item.ID)
		assert.InDelta(t, plain.Results[i].DistanceKm, viaCache.Results[i].DistanceKm, 1e-9)
	}
}
