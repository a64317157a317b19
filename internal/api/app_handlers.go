package api

import (
	"log"
	"net/http"
)

type StatusResponse struct {
	Service bool `json:"service"`
	Store   bool `json:"store"`
}

type StatsResponse struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

// @Summary      Health check
// @Description  Reports reachability of the session cache and the metadata store.
// @Tags         app
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /status [get]
func (s *Server) StatusHandler(w http.ResponseWriter, r *http.Request) {
	status := StatusResponse{
		Service: s.sessions.Ping(r.Context()) == nil,
		Store:   s.store.Ping(r.Context()) == nil,
	}
	respondJSON(w, http.StatusOK, status)
}

// @Summary      Usage stats
// @Description  Returns the number of registered users and file entries.
// @Tags         app
// @Produce      json
// @Success      200  {object}  StatsResponse
// @Router       /stats [get]
func (s *Server) StatsHandler(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.CountUsers(r.Context())
	if err != nil {
		log.Printf("ERROR: Failed to count users: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	files, err := s.store.CountFiles(r.Context())
	if err != nil {
		log.Printf("ERROR: Failed to count files: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, StatsResponse{Users: users, Files: files})
}
