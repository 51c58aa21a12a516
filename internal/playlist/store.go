// Package playlist manages the named playlist collection and the current
// selection, both persisted. Every read guarantees the protected default
// playlist exists, synthesizing it on the fly when storage lost it.
package playlist

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"musicbox/internal/catalog"
	"musicbox/internal/kvstore"
)

const (
	playlistsKey = "playlists"
	selectionKey = "currentPlaylist"
)

type Store struct {
	persistent kvstore.Store

	// storage ops are read-modify-write over the whole collection
	mu sync.Mutex
}

func NewStore(persistent kvstore.Store) *Store {
	return &Store{persistent: persistent}
}

// List returns every playlist, default first.
func (s *Store) List(ctx context.Context) []Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadAll(ctx)
}

func (s *Store) Get(ctx context.Context, id string) (Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.loadAll(ctx)
	if i := indexOf(all, id); i != -1 {
		return all[i], nil
	}
	return Playlist{}, ErrNotFound
}

// Create adds a playlist owned by ownerID. Blank names and unknown owners
// are rejected before any storage write.
func (s *Store) Create(ctx context.Context, name string, tracks []catalog.Track, ownerID string) (Playlist, error) {
	if strings.TrimSpace(name) == "" {
		return Playlist{}, ErrNameRequired
	}
	if ownerID == "" {
		return Playlist{}, ErrOwnerRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.loadAll(ctx)
	now := time.Now().UTC()
	p := Playlist{
		ID:        newPlaylistID(now),
		Name:      strings.TrimSpace(name),
		OwnerID:   ownerID,
		Tracks:    append([]catalog.Track{}, tracks...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	all = append(all, p)
	s.persistent.Set(ctx, playlistsKey, all)
	return p, nil
}

// Update overwrites the stored playlist's editable fields. Identity,
// ownership and the default flag are preserved; the default playlist and
// playlists owned by someone else are rejected. The current selection is
// refreshed in place when it is the one being edited.
func (s *Store) Update(ctx context.Context, p Playlist, actorID string) (Playlist, error) {
	if strings.TrimSpace(p.Name) == "" {
		return Playlist{}, ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.loadAll(ctx)
	i := indexOf(all, p.ID)
	if i == -1 {
		return Playlist{}, ErrNotFound
	}
	if all[i].IsDefault {
		return Playlist{}, ErrProtected
	}
	if all[i].OwnerID != actorID {
		return Playlist{}, ErrNotOwner
	}

	updated := all[i]
	updated.Name = strings.TrimSpace(p.Name)
	updated.Tracks = append([]catalog.Track{}, p.Tracks...)
	updated.UpdatedAt = time.Now().UTC()
	all[i] = updated

	s.persistent.Set(ctx, playlistsKey, all)
	s.refreshSelection(ctx, updated)
	return updated, nil
}

// Delete removes a playlist owned by the actor. The default playlist is
// protected; deleting the current selection falls the selection back to the
// default.
func (s *Store) Delete(ctx context.Context, id, actorID string) error {
	if id == DefaultPlaylistID {
		return ErrProtected
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.loadAll(ctx)
	i := indexOf(all, id)
	if i == -1 {
		return ErrNotFound
	}
	if all[i].IsDefault {
		return ErrProtected
	}
	if all[i].OwnerID != actorID {
		return ErrNotOwner
	}
	all = append(all[:i], all[i+1:]...)
	s.persistent.Set(ctx, playlistsKey, all)

	if cur := s.selection(ctx, all); cur.ID == id {
		s.persistent.Set(ctx, selectionKey, all[indexOf(all, DefaultPlaylistID)])
	}
	return nil
}

// AddTrack inserts the track if absent. No-op (with a reported reason) on
// the default playlist and on playlists the actor does not own.
func (s *Store) AddTrack(ctx context.Context, playlistID, actorID string, track catalog.Track) error {
	return s.editTracks(ctx, playlistID, actorID, func(tracks []catalog.Track) []catalog.Track {
		for _, t := range tracks {
			if t.ID == track.ID {
				return tracks
			}
		}
		return append(tracks, track)
	})
}

// RemoveTrack removes the track by id, under the same guards as AddTrack.
func (s *Store) RemoveTrack(ctx context.Context, playlistID, actorID, trackID string) error {
	return s.editTracks(ctx, playlistID, actorID, func(tracks []catalog.Track) []catalog.Track {
		out := tracks[:0]
		for _, t := range tracks {
			if t.ID != trackID {
				out = append(out, t)
			}
		}
		return out
	})
}

// RefreshDefault replaces the default playlist's membership wholesale,
// called whenever the catalog provider returns fresh data.
func (s *Store) RefreshDefault(ctx context.Context, tracks []catalog.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.loadAll(ctx)
	i := indexOf(all, DefaultPlaylistID)
	all[i].Tracks = append([]catalog.Track{}, tracks...)
	all[i].UpdatedAt = time.Now().UTC()
	s.persistent.Set(ctx, playlistsKey, all)
	s.refreshSelection(ctx, all[i])
}

// Select makes the playlist the current selection, persisted so it
// survives reloads.
func (s *Store) Select(ctx context.Context, id string) (Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.loadAll(ctx)
	i := indexOf(all, id)
	if i == -1 {
		return Playlist{}, ErrNotFound
	}
	s.persistent.Set(ctx, selectionKey, all[i])
	return all[i], nil
}

// Selection returns the current selection, defaulting to the default
// playlist when none is stored.
func (s *Store) Selection(ctx context.Context) Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection(ctx, s.loadAll(ctx))
}

// ResetSelection points the selection back at the default playlist; called
// on fresh logins so a new user does not inherit a stale selection.
func (s *Store) ResetSelection(ctx context.Context) Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.loadAll(ctx)
	def := all[indexOf(all, DefaultPlaylistID)]
	s.persistent.Set(ctx, selectionKey, def)
	return def
}

// BackupAll snapshots the collection and selection for export.
func (s *Store) BackupAll(ctx context.Context) Backup {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.loadAll(ctx)
	b := Backup{Playlists: all, BackupDate: time.Now().UTC()}
	var sel Playlist
	if s.persistent.Get(ctx, selectionKey, &sel) {
		b.CurrentPlaylist = &sel
	}
	return b
}

// Restore replaces the collection and selection from a backup. The default
// playlist is re-guaranteed afterwards.
func (s *Store) Restore(ctx context.Context, b Backup) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.Playlists != nil {
		s.persistent.Set(ctx, playlistsKey, b.Playlists)
	}
	if b.CurrentPlaylist != nil {
		s.persistent.Set(ctx, selectionKey, *b.CurrentPlaylist)
	}
	s.loadAll(ctx)
}

func (s *Store) editTracks(ctx context.Context, playlistID, actorID string, edit func([]catalog.Track) []catalog.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.loadAll(ctx)
	i := indexOf(all, playlistID)
	if i == -1 {
		return ErrNotFound
	}
	if all[i].IsDefault {
		return ErrProtected
	}
	if all[i].OwnerID != actorID {
		return ErrNotOwner
	}

	before := len(all[i].Tracks)
	all[i].Tracks = edit(all[i].Tracks)
	if len(all[i].Tracks) == before {
		return nil
	}
	all[i].UpdatedAt = time.Now().UTC()
	s.persistent.Set(ctx, playlistsKey, all)
	s.refreshSelection(ctx, all[i])
	return nil
}

// loadAll reads the collection, synthesizing and persisting the default
// playlist whenever it is missing. Callers hold the mutex.
func (s *Store) loadAll(ctx context.Context) []Playlist {
	var all []Playlist
	s.persistent.Get(ctx, playlistsKey, &all)

	if indexOf(all, DefaultPlaylistID) == -1 {
		all = append([]Playlist{newDefaultPlaylist()}, all...)
		s.persistent.Set(ctx, playlistsKey, all)
	}
	return all
}

func (s *Store) selection(ctx context.Context, all []Playlist) Playlist {
	var sel Playlist
	if s.persistent.Get(ctx, selectionKey, &sel) && sel.ID != "" {
		return sel
	}
	return all[indexOf(all, DefaultPlaylistID)]
}

func (s *Store) refreshSelection(ctx context.Context, p Playlist) {
	var sel Playlist
	if s.persistent.Get(ctx, selectionKey, &sel) && sel.ID == p.ID {
		s.persistent.Set(ctx, selectionKey, p)
	}
}

func newDefaultPlaylist() Playlist {
	now := time.Now().UTC()
	return Playlist{
		ID:        DefaultPlaylistID,
		Name:      DefaultPlaylistName,
		OwnerID:   systemOwnerID,
		Tracks:    []catalog.Track{},
		IsDefault: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newPlaylistID(now time.Time) string {
	return fmt.Sprintf("playlist_%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}

func indexOf(all []Playlist, id string) int {
	for i := range all {
		if all[i].ID == id {
			return i
		}
	}
	return -1
}
