package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"musicbox/internal/catalog"
	"musicbox/internal/playlist"
)

type createPlaylistRequest struct {
	Name   string          `json:"nome"`
	Tracks []catalog.Track `json:"musicas"`
}

type updatePlaylistRequest struct {
	Name   string          `json:"nome"`
	Tracks []catalog.Track `json:"musicas"`
}

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"playlists": s.playlists.List(r.Context()),
	})
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	p, err := s.playlists.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	su, ok := s.requireUser(w)
	if !ok {
		return
	}

	var req createPlaylistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	p, err := s.playlists.Create(r.Context(), req.Name, req.Tracks, su.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.publish(r.Context(), "playlist_created", p)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	su, ok := s.requireUser(w)
	if !ok {
		return
	}

	var req updatePlaylistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	p, err := s.playlists.Update(r.Context(), playlist.Playlist{
		ID:     chi.URLParam(r, "id"),
		Name:   req.Name,
		Tracks: req.Tracks,
	}, su.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.publish(r.Context(), "playlist_updated", p)
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	su, ok := s.requireUser(w)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.playlists.Delete(r.Context(), id, su.ID); err != nil {
		writeDomainError(w, err)
		return
	}

	s.publish(r.Context(), "playlist_deleted", map[string]string{"id": id})
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func (s *Server) handleSelectPlaylist(w http.ResponseWriter, r *http.Request) {
	p, err := s.playlists.Select(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.auth.SetLastPlaylist(r.Context(), p.ID)
	s.player.SetPlaylist(p.Tracks)

	s.publish(r.Context(), "playlist_selected", map[string]string{"id": p.ID})
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.playlists.Selection(r.Context()))
}

func (s *Server) handleAddTrack(w http.ResponseWriter, r *http.Request) {
	su, ok := s.requireUser(w)
	if !ok {
		return
	}

	var track catalog.Track
	if err := decodeJSON(r, &track); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if track.ID == "" {
		writeError(w, http.StatusBadRequest, "track id is required")
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.playlists.AddTrack(r.Context(), id, su.ID, track); err != nil {
		writeDomainError(w, err)
		return
	}

	s.publish(r.Context(), "track_added", map[string]string{"playlistId": id, "trackId": track.ID})
	p, err := s.playlists.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleRemoveTrack(w http.ResponseWriter, r *http.Request) {
	su, ok := s.requireUser(w)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	trackID := chi.URLParam(r, "trackId")
	if err := s.playlists.RemoveTrack(r.Context(), id, su.ID, trackID); err != nil {
		writeDomainError(w, err)
		return
	}

	s.publish(r.Context(), "track_removed", map[string]string{"playlistId": id, "trackId": trackID})
	p, err := s.playlists.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.playlists.BackupAll(r.Context()))
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w); !ok {
		return
	}

	var b playlist.Backup
	if err := decodeJSON(r, &b); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.playlists.Restore(r.Context(), b)
	s.publish(r.Context(), "playlists_restored", nil)
	writeJSON(w, http.StatusOK, map[string]any{
		"playlists": s.playlists.List(r.Context()),
	})
}
