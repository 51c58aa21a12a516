// Package catalog fetches track listings from TheAudioDB, degrading to a
// curated fallback table on any failure. Lookups never return errors; the
// Result's Source tag tells callers what they actually got.
package catalog

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// PopularCount is the fixed size of the popular feed.
const PopularCount = 10

const tracksPerArtist = 2

// Remote is the slice of AudioDBClient the provider needs; injected so
// tests can stub the API.
type Remote interface {
	SearchArtist(ctx context.Context, name string) (*Artist, error)
	TopTracks(ctx context.Context, artistName string) ([]RemoteTrack, error)
}

type Provider struct {
	remote  Remote
	limiter *rate.Limiter

	mu      sync.Mutex
	idCache map[string]string // artist|title -> first minted id
}

func NewProvider(remote Remote) *Provider {
	return &Provider{
		remote: remote,
		// one remote artist lookup per 500ms, like the original client's
		// inter-request delay
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		idCache: make(map[string]string),
	}
}

// FetchPopular collects up to two tracks from each popular artist until ten
// are gathered, topping up from the fallback table. Worst case it returns
// the whole fallback table; it never fails.
func (p *Provider) FetchPopular(ctx context.Context) Result {
	var tracks []Track
	remoteHit := false

	for _, name := range popularArtists {
		if len(tracks) >= PopularCount {
			break
		}
		if err := p.limiter.Wait(ctx); err != nil {
			break
		}
		got, err := p.lookupArtist(ctx, name)
		if err != nil {
			log.Printf("catalog: popular lookup %q: %v", name, err)
			continue
		}
		if len(got) > 0 {
			remoteHit = true
			tracks = append(tracks, got...)
		}
	}

	for _, t := range fallbackTracks {
		if len(tracks) >= PopularCount {
			break
		}
		if !containsID(tracks, t.ID) {
			tracks = append(tracks, t)
		}
	}
	if len(tracks) > PopularCount {
		tracks = tracks[:PopularCount]
	}

	source := SourceOK
	if !remoteHit {
		source = SourceFallback
	}
	return Result{Source: source, Tracks: tracks}
}

// Search resolves a single artist-like query. Remote failures degrade to a
// substring match against the fallback table; no match at all yields
// SourceEmpty, never an error.
func (p *Provider) Search(ctx context.Context, query string) Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{Source: SourceEmpty}
	}

	got, err := p.lookupArtist(ctx, query)
	if err != nil {
		log.Printf("catalog: search %q: %v", query, err)
	} else if len(got) > 0 {
		return Result{Source: SourceOK, Tracks: got}
	}

	if matches := fallbackMatches(query); len(matches) > 0 {
		return Result{Source: SourceFallback, Tracks: matches}
	}
	return Result{Source: SourceEmpty}
}

func (p *Provider) lookupArtist(ctx context.Context, name string) ([]Track, error) {
	artist, err := p.remote.SearchArtist(ctx, name)
	if err != nil {
		return nil, err
	}
	if artist == nil {
		return nil, nil
	}
	top, err := p.remote.TopTracks(ctx, artist.Name)
	if err != nil {
		return nil, err
	}
	return p.convert(artist, top, tracksPerArtist), nil
}

func (p *Provider) convert(artist *Artist, remote []RemoteTrack, limit int) []Track {
	genre := artistGenre(artist)
	thumb := workingThumbnail(artist.Thumb)

	var out []Track
	for _, rt := range remote {
		if len(out) >= limit {
			break
		}
		if rt.Title == "" && rt.Album == "" {
			continue
		}
		t := Track{
			ID:        p.mintID(artist.Name, rt.Title),
			Name:      rt.Title,
			Artist:    artist.Name,
			Genre:     rt.Genre,
			Year:      rt.Year,
			Duration:  formatDuration(rt.DurationMs),
			Album:     rt.Album,
			Thumbnail: thumb,
		}
		if t.Genre == "" {
			t.Genre = genre
		}
		if t.Year == "" {
			t.Year = "2020"
		}
		if t.Album == "" {
			t.Album = artist.Name + " Album"
		}
		out = append(out, t)
	}
	return out
}

// mintID derives a stable id from artist+title text. Ids minted once are
// cached by (artist,title) so refetches of the same logical track agree.
func (p *Provider) mintID(artist, title string) string {
	key := strings.ToLower(artist + "|" + title)

	p.mu.Lock()
	defer p.mu.Unlock()
	if id, ok := p.idCache[key]; ok {
		return id
	}

	var id string
	if title == "" {
		id = slugify(artist) + "_" + uuid.NewString()[:8]
	} else {
		id = slugify(artist) + "_" + slugify(title)
	}
	p.idCache[key] = id
	return id
}

func slugify(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "_")
}

func artistGenre(artist *Artist) string {
	if artist.Genre == "" {
		return "Pop"
	}
	first := strings.TrimSpace(strings.Split(artist.Genre, ",")[0])
	if first == "" {
		return "Pop"
	}
	return first
}

func workingThumbnail(thumb string) string {
	if strings.HasPrefix(thumb, "http") && !strings.Contains(thumb, "null") {
		return thumb
	}
	return placeholderThumb
}

// formatDuration turns TheAudioDB's millisecond string into "mm:ss".
func formatDuration(ms string) string {
	n, err := strconv.Atoi(strings.TrimSpace(ms))
	if err != nil || n <= 0 {
		return "3:30"
	}
	total := n / 1000
	return strconv.Itoa(total/60) + ":" + pad(total%60)
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func containsID(tracks []Track, id string) bool {
	for _, t := range tracks {
		if t.ID == id {
			return true
		}
	}
	return false
}

func fallbackMatches(query string) []Track {
	q := strings.ToLower(query)
	var out []Track
	for _, t := range fallbackTracks {
		if strings.Contains(strings.ToLower(t.Artist), q) {
			out = append(out, t)
		}
	}
	return out
}

// SetLimiter replaces the lookup pacer. Tests use rate.NewLimiter(rate.Inf, 1).
func (p *Provider) SetLimiter(l *rate.Limiter) {
	p.limiter = l
}
