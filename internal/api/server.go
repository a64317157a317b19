package api

import (
	"encoding/json"
	"net/http"

	"magazyn-plikow/internal/config"
	"magazyn-plikow/internal/database"
	"magazyn-plikow/internal/queue"
	"magazyn-plikow/internal/session"
	"magazyn-plikow/internal/storage"
)

type Server struct {
	config     *config.Config
	store      *database.PostgresStore
	sessions   *session.RedisSessionStore
	dispatcher *queue.RedisDispatcher
	storage    *storage.LocalStorage
}

func NewServer(
	cfg *config.Config,
	store *database.PostgresStore,
	sessions *session.RedisSessionStore,
	dispatcher *queue.RedisDispatcher,
	storage *storage.LocalStorage,
) *Server {
	return &Server{
		config:     cfg,
		store:      store,
		sessions:   sessions,
		dispatcher: dispatcher,
		storage:    storage,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}
