package cache

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-search/internal/common/logger"
	"property-search/internal/models"
)

type fakeSource struct {
	mu    sync.Mutex
	calls []string
	total int64
}

func (f *fakeSource) GetLocationTrends(_ context.Context, location, propertyType, timePeriod string) *models.LocationTrends {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, location+"|"+propertyType+"|"+timePeriod)
	return &models.LocationTrends{
		Location:     location,
		PropertyType: propertyType,
		TimePeriod:   timePeriod,
		Summary: models.TrendSummary{
			TotalProperties: f.total,
			AveragePrice:    350000,
			PropertyTypes:   []models.TypeCount{{Type: "house", Count: f.total}},
		},
	}
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestKey(t *testing.T) {
	assert.Equal(t, "trends:Austin::1year", Key(" Austin ", "", ""))
	assert.Equal(t, "trends:AUSTIN:Condo:6months", Key("AUSTIN", "Condo", "6months"))
	assert.NotEqual(t, Key("austin", "", ""), Key("Austin", "", ""))
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, "Austin", escapeGlob("Austin"))
	assert.Equal(t, `\*`, escapeGlob("*"))
	assert.Equal(t, `St\\. \[North\]\?`, escapeGlob(`St\. [North]?`))
}

func TestGetLocationTrends_MissThenHit(t *testing.T) {
	mr, rdb := setupRedis(t)
	source := &fakeSource{total: 4}
	c := NewTrendsCache(rdb, source, 15*time.Minute, logger.NewTestLogger(t))
	ctx := context.Background()

	first := c.GetLocationTrends(ctx, "Austin", "house", "1year")
	second := c.GetLocationTrends(ctx, " Austin ", "house", "1year")

	assert.Equal(t, 1, source.callCount())
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists("trends:Austin:house:1year"))
	assert.Equal(t, 15*time.Minute, mr.TTL("trends:Austin:house:1year"))
}

// caseSensitiveSource only knows "Austin", the way a keyword field matches.
type caseSensitiveSource struct{ fakeSource }

func (s *caseSensitiveSource) GetLocationTrends(ctx context.Context, location, propertyType, timePeriod string) *models.LocationTrends {
	trends := s.fakeSource.GetLocationTrends(ctx, location, propertyType, timePeriod)
	if location != "Austin" {
		trends.Summary = models.TrendSummary{}
	}
	return trends
}

func TestGetLocationTrends_CaseExact(t *testing.T) {
	_, rdb := setupRedis(t)
	source := &caseSensitiveSource{fakeSource{total: 4}}
	c := NewTrendsCache(rdb, source, time.Minute, logger.NewTestLogger(t))
	ctx := context.Background()

	before := c.GetLocationTrends(ctx, "austin", "", "")
	c.GetLocationTrends(ctx, "Austin", "", "")
	after := c.GetLocationTrends(ctx, "austin", "", "")

	assert.Zero(t, before.Summary.TotalProperties)
	assert.Zero(t, after.Summary.TotalProperties)
	assert.Equal(t, "austin", after.Location)
	assert.Equal(t, 3, source.callCount())
}

func TestGetLocationTrends_EmptyResultNotCached(t *testing.T) {
	mr, rdb := setupRedis(t)
	source := &fakeSource{total: 0}
	c := NewTrendsCache(rdb, source, time.Minute, logger.NewTestLogger(t))

	c.GetLocationTrends(context.Background(), "Nowhere", "", "")
	c.GetLocationTrends(context.Background(), "Nowhere", "", "")

	assert.Equal(t, 2, source.callCount())
	assert.False(t, mr.Exists(Key("Nowhere", "", "")))
}

func TestGetLocationTrends_CorruptEntryReplaced(t *testing.T) {
	mr, rdb := setupRedis(t)
	require.NoError(t, mr.Set(Key("Austin", "", ""), "{not json"))
	source := &fakeSource{total: 2}
	c := NewTrendsCache(rdb, source, time.Minute, logger.NewTestLogger(t))

	trends := c.GetLocationTrends(context.Background(), "Austin", "", "")
	assert.Equal(t, int64(2), trends.Summary.TotalProperties)
	assert.Equal(t, 1, source.callCount())

	raw, err := mr.Get(Key("Austin", "", ""))
	require.NoError(t, err)
	var cached models.LocationTrends
	require.NoError(t, json.Unmarshal([]byte(raw), &cached))
	assert.Equal(t, int64(2), cached.Summary.TotalProperties)
}

func TestGetLocationTrends_RedisDown(t *testing.T) {
	mr, rdb := setupRedis(t)
	mr.Close()
	source := &fakeSource{total: 3}
	c := NewTrendsCache(rdb, source, time.Minute, logger.NewTestLogger(t))

	trends := c.GetLocationTrends(context.Background(), "Austin", "", "")
	require.NotNil(t, trends)
	assert.Equal(t, int64(3), trends.Summary.TotalProperties)
	assert.Equal(t, 1, source.callCount())
}

func TestGetLocationTrends_Disabled(t *testing.T) {
	source := &fakeSource{total: 3}
	c := NewTrendsCache(nil, source, time.Minute, logger.NewTestLogger(t))

	c.GetLocationTrends(context.Background(), "Austin", "", "")
	c.GetLocationTrends(context.Background(), "Austin", "", "")
	assert.Equal(t, 2, source.callCount())

	n, err := c.Invalidate(context.Background(), "Austin")
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestInvalidate(t *testing.T) {
	mr, rdb := setupRedis(t)
	for _, k := range []string{
		Key("Austin", "", "1year"),
		Key("Austin", "condo", "6months"),
		Key("Austin Heights", "", "1year"),
		Key("Denver", "", "1year"),
	} {
		require.NoError(t, mr.Set(k, "{}"))
	}
	c := NewTrendsCache(rdb, &fakeSource{}, time.Minute, logger.NewTestLogger(t))

	n, err := c.Invalidate(context.Background(), "AUSTIN")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = c.Invalidate(context.Background(), "Austin")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, mr.Exists(Key("Austin Heights", "", "1year")))
	assert.True(t, mr.Exists(Key("Denver", "", "1year")))
}

func TestInvalidate_WildcardCity(t *testing.T) {
	mr, rdb := setupRedis(t)
	for _, k := range []string{
		Key("*", "", "1year"),
		Key("Austin", "", "1year"),
		Key("Denver", "condo", "1year"),
		Key("[AD]enver", "", "1year"),
	} {
		require.NoError(t, mr.Set(k, "{}"))
	}
	c := NewTrendsCache(rdb, &fakeSource{}, time.Minute, logger.NewTestLogger(t))

	n, err := c.Invalidate(context.Background(), "*")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = c.Invalidate(context.Background(), "[AD]enver")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.True(t, mr.Exists(Key("Austin", "", "1year")))
	assert.True(t, mr.Exists(Key("Denver", "condo", "1year")))
}

func TestRefresh(t *testing.T) {
	mr, rdb := setupRedis(t)
	require.NoError(t, mr.Set(Key("Austin", "condo", "6months"), "{}"))
	source := &fakeSource{total: 5}
	c := NewTrendsCache(rdb, source, time.Minute, logger.NewTestLogger(t))

	n := c.Refresh(context.Background(), []string{"Austin", " Austin", "", "Denver"})

	assert.Equal(t, 2, n)
	assert.Equal(t, 2, source.callCount())
	assert.False(t, mr.Exists(Key("Austin", "condo", "6months")))
	assert.True(t, mr.Exists(Key("Austin", "", "1year")))
	assert.True(t, mr.Exists(Key("Denver", "", "1year")))
}
