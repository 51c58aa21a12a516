package playlist

import (
	"errors"
	"time"

	"musicbox/internal/catalog"
)

// DefaultPlaylistID is the reserved id of the protected "top tracks"
// playlist. It always exists, is never deletable, and its membership is only
// replaced wholesale by catalog refreshes.
const (
	DefaultPlaylistID   = "default_top_10"
	DefaultPlaylistName = "Top 10 da Semana"
	systemOwnerID       = "system"
)

type Playlist struct {
	ID        string          `json:"id"`
	Name      string          `json:"nome"`
	OwnerID   string          `json:"usuarioId"`
	Tracks    []catalog.Track `json:"musicas"`
	IsDefault bool            `json:"isDefault"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Backup is the exportable snapshot of the playlist collection.
type Backup struct {
	Playlists       []Playlist `json:"playlists"`
	CurrentPlaylist *Playlist  `json:"currentPlaylist,omitempty"`
	BackupDate      time.Time  `json:"backupDate"`
}

var (
	ErrNameRequired  = errors.New("playlist name is required")
	ErrOwnerRequired = errors.New("playlist owner is required")
	ErrNotFound      = errors.New("playlist not found")
	ErrProtected     = errors.New("default playlist cannot be modified")
	ErrNotOwner      = errors.New("playlist is owned by another user")
)
