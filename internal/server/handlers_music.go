package server

import "net/http"

func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	st := s.music.LoadPopular(r.Context())
	s.publish(r.Context(), "popular_refreshed", map[string]int{"count": len(st.PopularTracks)})
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.music.Search(r.Context(), r.URL.Query().Get("q")))
}

func (s *Server) handleClearSearch(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.music.ClearSearch())
}

func (s *Server) handleClearError(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.music.ClearError())
}
