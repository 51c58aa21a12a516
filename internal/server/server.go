// Package server exposes the HTTP surface: auth, playlists, catalog
// browsing, playback control and the websocket event stream.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"musicbox/internal/auth"
	"musicbox/internal/music"
	"musicbox/internal/player"
	"musicbox/internal/playlist"
	"musicbox/internal/realtime"
)

type Server struct {
	auth      *auth.Store
	playlists *playlist.Store
	player    *player.Engine
	music     *music.Store
	hub       *realtime.Hub
	events    *realtime.Broadcaster
}

func NewServer(
	authStore *auth.Store,
	playlists *playlist.Store,
	engine *player.Engine,
	musicStore *music.Store,
	hub *realtime.Hub,
	events *realtime.Broadcaster,
) *Server {
	return &Server{
		auth:      authStore,
		playlists: playlists,
		player:    engine,
		music:     musicStore,
		hub:       hub,
		events:    events,
	}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.handleWS)

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/logout", s.handleLogout)
	r.Get("/auth/session", s.handleSession)

	r.Get("/playlists", s.handleListPlaylists)
	r.Post("/playlists", s.handleCreatePlaylist)
	r.Get("/playlists/selection", s.handleGetSelection)
	r.Get("/playlists/backup", s.handleBackup)
	r.Post("/playlists/restore", s.handleRestore)
	r.Get("/playlists/{id}", s.handleGetPlaylist)
	r.Put("/playlists/{id}", s.handleUpdatePlaylist)
	r.Delete("/playlists/{id}", s.handleDeletePlaylist)
	r.Post("/playlists/{id}/select", s.handleSelectPlaylist)
	r.Post("/playlists/{id}/tracks", s.handleAddTrack)
	r.Delete("/playlists/{id}/tracks/{trackId}", s.handleRemoveTrack)

	r.Get("/music/popular", s.handlePopular)
	r.Get("/music/search", s.handleSearch)
	r.Delete("/music/search", s.handleClearSearch)
	r.Delete("/music/error", s.handleClearError)

	r.Get("/player", s.handlePlayerState)
	r.Delete("/player", s.handleClearPlayer)
	r.Post("/player/track", s.handleSetTrack)
	r.Post("/player/play", s.handlePlay)
	r.Post("/player/pause", s.handlePause)
	r.Post("/player/toggle", s.handleTogglePlay)
	r.Post("/player/next", s.handleNextTrack)
	r.Post("/player/previous", s.handlePreviousTrack)
	r.Post("/player/shuffle", s.handleToggleShuffle)
	r.Post("/player/repeat", s.handleToggleRepeat)
	r.Post("/player/seek", s.handleSeek)
	r.Post("/player/playlist", s.handleLoadPlaylist)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "musicbox",
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	realtime.ServeWS(s.hub, w, r)
}
