package session

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/moviefinder/internal/config"
	"github.com/user/moviefinder/internal/model"
)

func newTestRegistry(meta *fakeMetadata, pop *fakePopularity) *Registry {
	cfg := &config.Config{
		Search:     config.SearchConfig{Debounce: time.Second, TrendingLimit: 5},
		SessionTTL: time.Minute,
	}
	return NewRegistry(meta, pop, cfg, clockwork.NewFakeClock(), zerolog.Nop())
}

func TestRegistry_CreateStartsSession(t *testing.T) {
	meta := newFakeMetadata()
	meta.setResults("", 1, model.Movie{ID: 1})
	pop := &fakePopularity{trending: []*model.PopularityRecord{{SearchTerm: "batman", Count: 2}}}

	r := newTestRegistry(meta, pop)
	s := r.Create()
	s.Search.Wait()

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, model.SearchSuccess, s.Search.State().Status)
	require.Eventually(t, func() bool { return len(s.Trending.Records()) == 1 }, time.Second, 5*time.Millisecond)

	got, ok := r.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_SessionsAreIndependent(t *testing.T) {
	meta := newFakeMetadata()
	meta.setResults("", 1, model.Movie{ID: 1})
	meta.setResults("", 2, model.Movie{ID: 2})

	r := newTestRegistry(meta, &fakePopularity{})
	a, b := r.Create(), r.Create()
	a.Search.Wait()
	b.Search.Wait()

	a.Search.Next()
	a.Search.Wait()

	assert.Equal(t, 2, a.Search.State().Page)
	assert.Equal(t, 1, b.Search.State().Page)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestRegistry_DeleteClosesSession(t *testing.T) {
	meta := newFakeMetadata()
	meta.setResults("", 1, model.Movie{ID: 1})

	r := newTestRegistry(meta, &fakePopularity{})
	s := r.Create()
	s.Search.Wait()

	r.Delete(s.ID)

	_, ok := r.Get(s.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Count())

	s.Search.Next()
	assert.Equal(t, 1, s.Search.State().Page, "closed session ignores input")
}

func TestRegistry_GetDropsClosedSession(t *testing.T) {
	meta := newFakeMetadata()
	meta.setResults("", 1, model.Movie{ID: 1})

	r := newTestRegistry(meta, &fakePopularity{})
	s := r.Create()
	s.Search.Wait()

	// 清理协程已关闭会话，但条目又被刷新写回
	s.Close()
	require.Equal(t, 1, r.Count())

	_, ok := r.Get(s.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Count())

	fresh := r.Create()
	fresh.Search.Wait()
	assert.False(t, fresh.Closed())
	got, ok := r.Get(fresh.ID)
	require.True(t, ok)
	assert.Same(t, fresh, got)
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := newTestRegistry(newFakeMetadata(), &fakePopularity{})
	_, ok := r.Get("")
	assert.False(t, ok)
	_, ok = r.Get("missing")
	assert.False(t, ok)
}
