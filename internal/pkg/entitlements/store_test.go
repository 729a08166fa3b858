package entitlements

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource records lookups so tests can assert cache hit/miss behavior.
type fakeSource struct {
	rules   map[string]string // "plan/key" -> value
	lookups int
	err     error
}

func (f *fakeSource) Lookup(planID string, key FeatureKey) (string, bool, error) {
	f.lookups++
	if f.err != nil {
		return "", false, f.err
	}
	v, ok := f.rules[planID+"/"+string(key)]
	return v, ok, nil
}

// fakeClockCache is an in-memory TTL cache driven by a settable clock.
type fakeClockCache struct {
	now     time.Time
	entries map[string]fakeEntry
}

type fakeEntry struct {
	value     string
	expiresAt time.Time
}

func newFakeClockCache() *fakeClockCache {
	return &fakeClockCache{now: time.Unix(1_700_000_000, 0), entries: map[string]fakeEntry{}}
}

func (c *fakeClockCache) Get(key string) (string, bool, error) {
	e, ok := c.entries[key]
	if !ok || c.now.After(e.expiresAt) {
		return "", false, nil
	}
	return e.value, true, nil
}

func (c *fakeClockCache) Set(key string, value string, ttl time.Duration) error {
	c.entries[key] = fakeEntry{value: value, expiresAt: c.now.Add(ttl)}
	return nil
}

func (c *fakeClockCache) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func TestRuleStoreCachesWithinTTL(t *testing.T) {
	src := &fakeSource{rules: map[string]string{"pro/billboards.max": "25"}}
	clock := newFakeClockCache()
	store := NewRuleStoreWith(src, clock)

	for i := 0; i < 3; i++ {
		v, ok, err := store.Get("pro", LimitBillboardsMax)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "25", v)
	}
	assert.Equal(t, 1, src.lookups, "repeated reads within TTL must not re-query the source")
}

func TestRuleStoreRefreshesAfterTTLExpiry(t *testing.T) {
	src := &fakeSource{rules: map[string]string{"pro/billboards.max": "25"}}
	clock := newFakeClockCache()
	store := NewRuleStoreWith(src, clock)

	_, _, err := store.Get("pro", LimitBillboardsMax)
	require.NoError(t, err)

	clock.advance(RuleCacheTTL + time.Second)
	src.rules["pro/billboards.max"] = "50"

	v, ok, err := store.Get("pro", LimitBillboardsMax)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "50", v, "a read after TTL expiry sees the updated row")
	assert.Equal(t, 2, src.lookups)
}

func TestRuleStoreCachesAbsentRows(t *testing.T) {
	src := &fakeSource{rules: map[string]string{}}
	store := NewRuleStoreWith(src, newFakeClockCache())

	for i := 0; i < 2; i++ {
		_, ok, err := store.Get("free", FeatureTeamInvitations)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, 1, src.lookups, "absence is cached too")
}

func TestRuleStoreDistinguishesEmptyValueFromAbsent(t *testing.T) {
	src := &fakeSource{rules: map[string]string{"free/team.invitations": ""}}
	store := NewRuleStoreWith(src, newFakeClockCache())

	v, ok, err := store.Get("free", FeatureTeamInvitations)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "", v)

	// Second read comes from cache and must still report the row as present.
	v, ok, err = store.Get("free", FeatureTeamInvitations)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestRuleStorePropagatesSourceErrors(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}
	store := NewRuleStoreWith(src, newFakeClockCache())

	_, _, err := store.Get("pro", LimitBillboardsMax)
	assert.Error(t, err, "infrastructure failures are not swallowed")
}

// errCache fails every operation; the store must fall through to the source.
type errCache struct{}

func (errCache) Get(string) (string, bool, error)        { return "", false, errors.New("cache down") }
func (errCache) Set(string, string, time.Duration) error { return errors.New("cache down") }

func TestRuleStoreSurvivesCacheFailure(t *testing.T) {
	src := &fakeSource{rules: map[string]string{"pro/billboards.max": "25"}}
	store := NewRuleStoreWith(src, errCache{})

	v, ok, err := store.Get("pro", LimitBillboardsMax)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "25", v)
}
