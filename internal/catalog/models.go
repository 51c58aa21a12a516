package catalog

// Track is a catalog entry. The JSON names are the wire format the browser
// client renders (inherited from the original data model); tracks are
// immutable once fetched.
type Track struct {
	ID        string `json:"id"`
	Name      string `json:"nome"`
	Artist    string `json:"artista"`
	Genre     string `json:"genero"`
	Year      string `json:"ano"`
	Duration  string `json:"duracao"` // "mm:ss"
	Album     string `json:"album"`
	Thumbnail string `json:"thumbnail"`
}

// Source tags where a Result's tracks came from, so callers can tell
// degraded data from real data.
type Source string

const (
	SourceOK       Source = "ok"
	SourceFallback Source = "fallback"
	SourceEmpty    Source = "empty"
)

// Result is the outcome of a catalog lookup. Lookups never fail: the worst
// case is SourceEmpty with no tracks.
type Result struct {
	Source Source  `json:"source"`
	Tracks []Track `json:"tracks"`
}
