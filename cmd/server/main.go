// @title           Magazyn Plików API
// @version         1.0
// @host            localhost
// @schemes         http https
// @securityDefinitions.apikey TokenAuth
// @in header
// @name X-Token
package main

import (
	"context"
	"log"
	"net/http"

	"magazyn-plikow/internal/api"
	"magazyn-plikow/internal/config"
	"magazyn-plikow/internal/database"
	"magazyn-plikow/internal/queue"
	"magazyn-plikow/internal/session"
	"magazyn-plikow/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Nie można wczytać konfiguracji: %v", err)
	}

	dbpool, err := pgxpool.New(context.Background(), cfg.DB.Source)
	if err != nil {
		log.Fatalf("Nie można połączyć się z bazą danych: %v", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(context.Background()); err != nil {
		log.Fatalf("Nie można pingować bazy danych: %v", err)
	}
	log.Println("Pomyślnie połączono z bazą danych")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		// Brak cache nie blokuje startu; /status pokaże degradację
		log.Printf("Redis niedostępny przy starcie: %v", err)
	}

	localStorage, err := storage.NewLocalStorage(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Nie można zainicjować local storage: %v", err)
	}
	log.Printf("Pliki będą przechowywane w: %s", cfg.Storage.Path)

	store := database.NewStore(dbpool)
	sessions := session.NewRedisSessionStore(redisClient, session.DefaultTTL)
	dispatcher := queue.NewRedisDispatcher(redisClient)
	server := api.NewServer(cfg, store, sessions, dispatcher, localStorage)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Token"},
	}))
	r.Use(api.MetricsMiddleware)

	r.Get("/status", server.StatusHandler)
	r.Get("/stats", server.StatsHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/users", server.RegisterHandler)
	r.Get("/connect", server.ConnectHandler)
	r.Get("/files/{fileId}/data", server.FileDataHandler)

	r.Group(func(r chi.Router) {
		r.Use(server.AuthMiddleware)
		r.Get("/disconnect", server.DisconnectHandler)
		r.Get("/users/me", server.GetCurrentUserHandler)
		r.Post("/files", server.UploadHandler)
		r.Get("/files", server.ListFilesHandler)
		r.Get("/files/{fileId}", server.GetFileHandler)
		r.Put("/files/{fileId}/publish", server.PublishHandler)
		r.Put("/files/{fileId}/unpublish", server.UnpublishHandler)
	})

	log.Println("Uruchamianie serwera na porcie :8080")
	if err := http.ListenAndServe(":8080", r); err != nil {
		log.Fatalf("Nie można uruchomić serwera: %v", err)
	}
}
