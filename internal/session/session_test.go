package session

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Streamflix/internal/catalog"
	"Streamflix/internal/query"
	"Streamflix/internal/query/querytest"
)

func newStore(t *testing.T, n int) *catalog.Store {
	t.Helper()

	ds := catalog.Dataset{Categories: map[string][]int{}}
	for i := 1; i <= n; i++ {
		ds.Items = append(ds.Items, catalog.Item{ID: i, Title: "Movie", Year: 2000 + i})
		ds.Categories["trending"] = append(ds.Categories["trending"], i)
	}
	s, err := catalog.NewStore(ds)
	require.NoError(t, err)
	return s
}

func newManager(t *testing.T, clock *querytest.FakeClock, now *time.Time) (*Manager, *catalog.Store) {
	t.Helper()

	store := newStore(t, 45)
	m := NewManager(store, query.NewEngine(store, nil), Config{
		Clock: clock,
		TTL:   time.Minute,
		Now:   func() time.Time { return *now },
	})
	return m, store
}

func TestSession_LoadMoreIsMonotonic(t *testing.T) {
	now := time.Unix(0, 0)
	m, _ := newManager(t, querytest.NewFakeClock(), &now)
	s := m.Create()

	assert.Equal(t, 1, s.Cursor("trending"))
	assert.Equal(t, 2, s.LoadMore("trending"))
	assert.Equal(t, 3, s.LoadMore("trending"))
	assert.Equal(t, 3, s.Cursor("trending"))

	assert.Equal(t, 2, s.LoadMore("unknown"))
	assert.Equal(t, map[string]int{"trending": 3, "unknown": 2}, s.Cursors())
}

func TestSession_RowFollowsCursor(t *testing.T) {
	now := time.Unix(0, 0)
	m, _ := newManager(t, querytest.NewFakeClock(), &now)
	s := m.Create()

	p := s.Row("trending")
	require.Len(t, p.Items, catalog.DefaultPageSize)
	assert.Equal(t, 1, p.Items[0].ID)
	assert.True(t, p.HasMore)

	s.LoadMore("trending")
	s.LoadMore("trending")
	p = s.Row("trending")
	require.Len(t, p.Items, 5)
	assert.Equal(t, 41, p.Items[0].ID)
	assert.False(t, p.HasMore)

	s.LoadMore("trending")
	assert.Empty(t, s.Row("trending").Items)
}

func TestSession_DebouncedSearch(t *testing.T) {
	now := time.Unix(0, 0)
	clock := querytest.NewFakeClock()
	m, _ := newManager(t, clock, &now)
	s := m.Create()

	s.SetQuery("20")
	s.SetQuery("204")
	res := s.SetQuery("2045")
	assert.True(t, res.Searching)

	clock.Advance(query.DefaultDebounce)

	res, err := s.WaitSearch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2045", res.Query)
	assert.Equal(t, 1, res.Scans)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 45, res.Items[0].ID)
}

func TestSession_BlankQueryClearsImmediately(t *testing.T) {
	now := time.Unix(0, 0)
	m, _ := newManager(t, querytest.NewFakeClock(), &now)
	s := m.Create()

	res := s.SetQuery("   ")
	assert.False(t, res.Searching)
	assert.Empty(t, res.Items)
	assert.Equal(t, res, s.Search())
}

func TestManager_CreateGetDelete(t *testing.T) {
	now := time.Unix(0, 0)
	m, _ := newManager(t, querytest.NewFakeClock(), &now)

	a := m.Create()
	b := m.Create()
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, m.Len())

	got, ok := m.Get(a.ID)
	require.True(t, ok)
	assert.Same(t, a, got)

	assert.True(t, m.Delete(a.ID))
	assert.False(t, m.Delete(a.ID))
	_, ok = m.Get(a.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestManager_SweepDropsIdleSessions(t *testing.T) {
	now := time.Unix(1000, 0)
	clock := querytest.NewFakeClock()
	m, _ := newManager(t, clock, &now)

	idle := m.Create()
	busy := m.Create()
	idle.SetQuery("bat")

	now = now.Add(45 * time.Second)
	_, ok := m.Get(busy.ID)
	require.True(t, ok)

	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, m.Sweep(now))

	_, ok = m.Get(idle.ID)
	assert.False(t, ok)
	_, ok = m.Get(busy.ID)
	assert.True(t, ok)

	assert.Zero(t, clock.Pending())
}

func TestManager_ActiveGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	store := newStore(t, 3)
	m := NewManager(store, query.NewEngine(store, nil), Config{Registry: reg, Clock: querytest.NewFakeClock()})

	m.Create()
	s := m.Create()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.active))

	m.Delete(s.ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.active))
}

func TestManager_RunStopsWithContext(t *testing.T) {
	now := time.Unix(0, 0)
	m, _ := newManager(t, querytest.NewFakeClock(), &now)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, time.Millisecond) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}
