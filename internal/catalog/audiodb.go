package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://theaudiodb.com/api/v1/json/2"

// AudioDBClient talks to TheAudioDB JSON API.
type AudioDBClient struct {
	baseURL string
	http    *http.Client
}

func NewAudioDBClient(baseURL string) *AudioDBClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &AudioDBClient{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Artist is the subset of TheAudioDB artist record we consume.
type Artist struct {
	ID    string `json:"idArtist"`
	Name  string `json:"strArtist"`
	Genre string `json:"strGenre"`
	Thumb string `json:"strArtistThumb"`
}

type adbArtistResponse struct {
	Artists []Artist `json:"artists"`
}

// RemoteTrack is the subset of TheAudioDB track record we consume.
type RemoteTrack struct {
	ID         string `json:"idTrack"`
	Title      string `json:"strTrack"`
	Album      string `json:"strAlbum"`
	Genre      string `json:"strGenre"`
	Year       string `json:"intYearReleased"`
	DurationMs string `json:"intDuration"`
}

type adbTrackResponse struct {
	Track []RemoteTrack `json:"track"`
}

// SearchArtist looks up a single artist by name. A nil artist with nil error
// means the API answered but found nothing.
func (c *AudioDBClient) SearchArtist(ctx context.Context, name string) (*Artist, error) {
	var body adbArtistResponse
	if err := c.getJSON(ctx, "/search.php", url.Values{"s": {name}}, &body); err != nil {
		return nil, err
	}
	if len(body.Artists) == 0 {
		return nil, nil
	}
	return &body.Artists[0], nil
}

// TopTracks returns the artist's most popular tracks.
func (c *AudioDBClient) TopTracks(ctx context.Context, artistName string) ([]RemoteTrack, error) {
	var body adbTrackResponse
	if err := c.getJSON(ctx, "/track-top10.php", url.Values{"s": {artistName}}, &body); err != nil {
		return nil, err
	}
	return body.Track, nil
}

func (c *AudioDBClient) getJSON(ctx context.Context, path string, val url.Values, dest any) error {
	reqURL := c.baseURL + path + "?" + val.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("audiodb status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}
