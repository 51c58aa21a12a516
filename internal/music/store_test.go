package music

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musicbox/internal/catalog"
	"musicbox/internal/kvstore"
	"musicbox/internal/playlist"
)

type stubCatalog struct {
	popular func(ctx context.Context) catalog.Result
	search  func(ctx context.Context, query string) catalog.Result
}

func (s *stubCatalog) FetchPopular(ctx context.Context) catalog.Result {
	return s.popular(ctx)
}

func (s *stubCatalog) Search(ctx context.Context, query string) catalog.Result {
	return s.search(ctx, query)
}

const (
	testTimeout = 2 * time.Second
	testPoll    = 5 * time.Millisecond
)

func tracks(ids ...string) []catalog.Track {
	out := make([]catalog.Track, 0, len(ids))
	for _, id := range ids {
		out = append(out, catalog.Track{ID: id, Name: id, Artist: "a", Duration: "3:30"})
	}
	return out
}

func TestLoadPopularAppliesTracksAndRefreshesDefault(t *testing.T) {
	ctx := context.Background()
	stub := &stubCatalog{
		popular: func(context.Context) catalog.Result {
			return catalog.Result{Source: catalog.SourceOK, Tracks: tracks("t1", "t2")}
		},
	}
	playlists := playlist.NewStore(kvstore.NewMemoryStore())
	s := NewStore(stub, playlists)

	st := s.LoadPopular(ctx)

	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
	require.Len(t, st.PopularTracks, 2)

	def, err := playlists.Get(ctx, playlist.DefaultPlaylistID)
	require.NoError(t, err)
	assert.Len(t, def.Tracks, 2, "popular fetch feeds the default playlist")
}

func TestLoadPopularFallbackSurfacesNotice(t *testing.T) {
	stub := &stubCatalog{
		popular: func(context.Context) catalog.Result {
			return catalog.Result{Source: catalog.SourceFallback, Tracks: tracks("t1")}
		},
	}
	s := NewStore(stub, nil)

	st := s.LoadPopular(context.Background())

	assert.Equal(t, fallbackNotice, st.Error)
	assert.Len(t, st.PopularTracks, 1)
}

func TestSearchAppliesResultsAndQuery(t *testing.T) {
	stub := &stubCatalog{
		search: func(_ context.Context, query string) catalog.Result {
			assert.Equal(t, "queen", query)
			return catalog.Result{Source: catalog.SourceOK, Tracks: tracks("q1")}
		},
	}
	s := NewStore(stub, nil)

	st := s.Search(context.Background(), "  queen  ")

	assert.Equal(t, "queen", st.SearchQuery)
	assert.Len(t, st.SearchResults, 1)
	assert.False(t, st.Loading)
}

func TestSearchBlankQueryClearsWithoutFetching(t *testing.T) {
	called := false
	stub := &stubCatalog{
		search: func(context.Context, string) catalog.Result {
			called = true
			return catalog.Result{}
		},
	}
	s := NewStore(stub, nil)
	s.Search(context.Background(), "queen")

	st := s.Search(context.Background(), "   ")

	assert.Empty(t, st.SearchResults)
	assert.Empty(t, st.SearchQuery)
	assert.True(t, called, "only the first, non-blank query fetches")
}

func TestStalePopularFetchIsDiscarded(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	calls := 0
	var mu sync.Mutex

	stub := &stubCatalog{
		popular: func(context.Context) catalog.Result {
			mu.Lock()
			calls++
			first := calls == 1
			mu.Unlock()
			if first {
				<-release
				return catalog.Result{Source: catalog.SourceOK, Tracks: tracks("stale")}
			}
			return catalog.Result{Source: catalog.SourceOK, Tracks: tracks("fresh")}
		},
	}
	s := NewStore(stub, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.LoadPopular(ctx)
	}()

	// wait for the slow fetch to be in flight, then run a newer one
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	}, testTimeout, testPoll)
	s.LoadPopular(ctx)

	close(release)
	wg.Wait()

	st := s.State()
	require.Len(t, st.PopularTracks, 1)
	assert.Equal(t, "fresh", st.PopularTracks[0].ID, "slow response must not clobber the newer one")
}

func TestClearError(t *testing.T) {
	stub := &stubCatalog{
		popular: func(context.Context) catalog.Result {
			return catalog.Result{Source: catalog.SourceFallback, Tracks: tracks("t1")}
		},
	}
	s := NewStore(stub, nil)
	s.LoadPopular(context.Background())

	st := s.ClearError()

	assert.Empty(t, st.Error)
}
