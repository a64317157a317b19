package api

import (
	"context"
	"log"
	"net/http"
	"os"
	"testing"

	"magazyn-plikow/internal/config"
	"magazyn-plikow/internal/database"
	"magazyn-plikow/internal/queue"
	"magazyn-plikow/internal/session"
	"magazyn-plikow/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	testServer  *Server
	testRouter  http.Handler
	testRedis   *miniredis.Miniredis
	redisClient *redis.Client
)

// newTestRouter mirrors the route layout of cmd/server, so the tests cover
// the middleware chain, not just bare handlers.
func newTestRouter(server *Server) http.Handler {
	r := chi.NewRouter()

	r.Get("/status", server.StatusHandler)
	r.Get("/stats", server.StatsHandler)
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

	return r
}

func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:14-alpine",
		postgres.WithDatabase("test_api_db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	if err != nil {
		log.Fatalf("Could not start postgres: %s", err)
	}
	defer pgContainer.Terminate(ctx)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("Could not get connection string: %s", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("Could not connect to database: %s", err)
	}

	schema, err := os.ReadFile("../../db/init.sql")
	if err != nil {
		log.Fatalf("Could not read schema file: %s", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		log.Fatalf("Could not apply schema: %s", err)
	}

	testRedis, err = miniredis.Run()
	if err != nil {
		log.Fatalf("Could not start miniredis: %s", err)
	}
	defer testRedis.Close()
	redisClient = redis.NewClient(&redis.Options{Addr: testRedis.Addr()})

	tempDir, err := os.MkdirTemp("", "api-storage-test")
	if err != nil {
		log.Fatalf("Could not create temp dir: %s", err)
	}
	defer os.RemoveAll(tempDir)

	localStorage, err := storage.NewLocalStorage(tempDir)
	if err != nil {
		log.Fatalf("Could not create local storage: %s", err)
	}

	store := database.NewStore(pool)
	sessions := session.NewRedisSessionStore(redisClient, session.DefaultTTL)
	dispatcher := queue.NewRedisDispatcher(redisClient)
	cfg := &config.Config{Storage: config.StorageConfig{Path: tempDir}}

	testServer = NewServer(cfg, store, sessions, dispatcher, localStorage)
	testRouter = newTestRouter(testServer)

	os.Exit(m.Run())
}
