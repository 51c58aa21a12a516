// Package music holds the browsing state: popular tracks, search results and
// the in-flight flags the UI renders from. Fetches are sequence-numbered so a
// slow response never overwrites the result of a newer request.
package music

import (
	"context"
	"log"
	"strings"
	"sync"

	"musicbox/internal/catalog"
	"musicbox/internal/playlist"
)

// Catalog is the slice of the track provider this store needs.
type Catalog interface {
	FetchPopular(ctx context.Context) catalog.Result
	Search(ctx context.Context, query string) catalog.Result
}

const fallbackNotice = "serviço de músicas indisponível, exibindo catálogo local"

// BrowseState mirrors what clients render.
type BrowseState struct {
	PopularTracks []catalog.Track `json:"popularTracks"`
	SearchResults []catalog.Track `json:"searchResults"`
	SearchQuery   string          `json:"searchQuery"`
	Loading       bool            `json:"loading"`
	Error         string          `json:"error,omitempty"`
}

type Store struct {
	provider  Catalog
	playlists *playlist.Store

	mu  sync.Mutex
	st  BrowseState
	seq uint64
}

// NewStore wires the browsing store to the provider and, when playlists is
// non-nil, keeps the default playlist in sync with every popular fetch.
func NewStore(provider Catalog, playlists *playlist.Store) *Store {
	return &Store{provider: provider, playlists: playlists}
}

// LoadPopular fetches the popular tracks and applies them unless a newer
// request started meanwhile. A non-empty result also refreshes the default
// playlist's membership.
func (s *Store) LoadPopular(ctx context.Context) BrowseState {
	seq := s.begin()

	res := s.provider.FetchPopular(ctx)

	s.mu.Lock()
	if seq != s.seq {
		log.Printf("music: discarding stale popular fetch %d (latest %d)", seq, s.seq)
		st := s.st
		s.mu.Unlock()
		return st
	}
	s.st.Loading = false
	s.st.PopularTracks = res.Tracks
	s.st.Error = ""
	if res.Source == catalog.SourceFallback {
		s.st.Error = fallbackNotice
	}
	st := s.st
	s.mu.Unlock()

	if s.playlists != nil && len(res.Tracks) > 0 {
		s.playlists.RefreshDefault(ctx, res.Tracks)
	}
	return st
}

// Search fetches matches for the query. A blank query clears the results
// instead of hitting the provider.
func (s *Store) Search(ctx context.Context, query string) BrowseState {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ClearSearch()
	}

	seq := s.begin()

	res := s.provider.Search(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		log.Printf("music: discarding stale search %q", query)
		return s.st
	}
	s.st.Loading = false
	s.st.SearchResults = res.Tracks
	s.st.SearchQuery = query
	s.st.Error = ""
	if res.Source == catalog.SourceFallback {
		s.st.Error = fallbackNotice
	}
	return s.st
}

// ClearSearch drops the results and the remembered query.
func (s *Store) ClearSearch() BrowseState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.SearchResults = []catalog.Track{}
	s.st.SearchQuery = ""
	return s.st
}

// ClearError wipes the surfaced error message.
func (s *Store) ClearError() BrowseState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Error = ""
	return s.st
}

func (s *Store) State() BrowseState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}

// begin marks a new in-flight fetch and returns its sequence number.
func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.st.Loading = true
	s.st.Error = ""
	return s.seq
}
