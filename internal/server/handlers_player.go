package server

import (
	"net/http"

	"musicbox/internal/catalog"
)

type setTrackRequest struct {
	Track  catalog.Track   `json:"musica"`
	Tracks []catalog.Track `json:"musicas"`
}

type seekRequest struct {
	Time int `json:"tempo"`
}

type loadPlaylistRequest struct {
	ID string `json:"id"`
}

func (s *Server) handlePlayerState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.player.Snapshot())
}

// handleSetTrack loads a track for playback. The queue is the supplied track
// list when present, the current playlist selection otherwise.
func (s *Server) handleSetTrack(w http.ResponseWriter, r *http.Request) {
	var req setTrackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Track.ID == "" {
		writeError(w, http.StatusBadRequest, "track id is required")
		return
	}

	queue := req.Tracks
	if len(queue) == 0 {
		queue = s.playlists.Selection(r.Context()).Tracks
	}

	s.player.SetCurrentTrack(req.Track, queue)
	writeJSON(w, http.StatusOK, s.player.Snapshot())
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	s.player.Play()
	writeJSON(w, http.StatusOK, s.player.Snapshot())
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.player.Pause()
	writeJSON(w, http.StatusOK, s.player.Snapshot())
}

func (s *Server) handleTogglePlay(w http.ResponseWriter, r *http.Request) {
	s.player.TogglePlay()
	writeJSON(w, http.StatusOK, s.player.Snapshot())
}

func (s *Server) handleNextTrack(w http.ResponseWriter, r *http.Request) {
	s.player.NextTrack()
	writeJSON(w, http.StatusOK, s.player.Snapshot())
}

func (s *Server) handlePreviousTrack(w http.ResponseWriter, r *http.Request) {
	s.player.PreviousTrack()
	writeJSON(w, http.StatusOK, s.player.Snapshot())
}

func (s *Server) handleToggleShuffle(w http.ResponseWriter, r *http.Request) {
	s.player.ToggleShuffle()
	writeJSON(w, http.StatusOK, s.player.Snapshot())
}

func (s *Server) handleToggleRepeat(w http.ResponseWriter, r *http.Request) {
	s.player.ToggleRepeat()
	writeJSON(w, http.StatusOK, s.player.Snapshot())
}

func (s *Server) handleSeek(w http.ResponseWriter, r *http.Request) {
	var req seekRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.player.SetCurrentTime(req.Time)
	writeJSON(w, http.StatusOK, s.player.Snapshot())
}

// handleLoadPlaylist swaps the playback queue to the named playlist without
// touching the stored selection.
func (s *Server) handleLoadPlaylist(w http.ResponseWriter, r *http.Request) {
	var req loadPlaylistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	p, err := s.playlists.Get(r.Context(), req.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.player.SetPlaylist(p.Tracks)
	writeJSON(w, http.StatusOK, s.player.Snapshot())
}

func (s *Server) handleClearPlayer(w http.ResponseWriter, r *http.Request) {
	s.player.Clear()
	writeJSON(w, http.StatusOK, s.player.Snapshot())
}
