package server

import (
	"net/http"

	"musicbox/internal/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type registerRequest struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type sessionResponse struct {
	Status    auth.Status       `json:"status"`
	User      *auth.SessionUser `json:"usuario,omitempty"`
	LastError string            `json:"lastError,omitempty"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	su, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.publish(r.Context(), "user_logged_in", su)
	writeJSON(w, http.StatusOK, sessionResponse{Status: s.auth.Status(), User: &su})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	su, err := s.auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.publish(r.Context(), "user_registered", su)
	writeJSON(w, http.StatusCreated, sessionResponse{Status: s.auth.Status(), User: &su})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Logout(r.Context())

	// a logged-out browser starts over: idle player, default selection
	s.player.Clear()
	s.playlists.ResetSelection(r.Context())

	s.publish(r.Context(), "user_logged_out", nil)
	writeJSON(w, http.StatusOK, sessionResponse{Status: s.auth.Status()})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	resp := sessionResponse{Status: s.auth.Status(), LastError: s.auth.LastError()}
	if su, ok := s.auth.Current(); ok {
		resp.User = &su
	}
	writeJSON(w, http.StatusOK, resp)
}
