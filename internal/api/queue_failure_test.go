package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"

	"magazyn-plikow/internal/models"
	"magazyn-plikow/internal/queue"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// Niedostępna kolejka nie może cofnąć ani zablokować już utrwalonego uploadu.
func TestAPI_UploadSucceedsWhenQueueDown(t *testing.T) {
	registerTestUser(t, "kolejka-pada@test.pl", "pw123")
	token := loginTestUser(t, "kolejka-pada@test.pl", "pw123")

	deadRedis := miniredis.RunT(t)
	deadClient := redis.NewClient(&redis.Options{Addr: deadRedis.Addr()})
	deadRedis.Close()

	brokenDispatcher := queue.NewRedisDispatcher(deadClient)
	server := NewServer(testServer.config, testServer.store, testServer.sessions, brokenDispatcher, testServer.storage)
	router := newTestRouter(server)

	data := base64.StdEncoding.EncodeToString([]byte("obrazek bez miniatur"))
	rr := doRequest(t, router, "POST", "/files", token, UploadRequest{
		Name: "osierocony.png", Kind: models.KindImage, Data: data,
	})

	require.Equal(t, http.StatusCreated, rr.Code, "Upload must succeed even when enqueue fails")

	var entry models.FileEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entry))
	require.NotZero(t, entry.ID)

	// Wpis naprawdę istnieje w magazynie metadanych
	stored, err := testServer.store.GetFileByID(context.Background(), entry.ID, entry.OwnerID)
	require.NoError(t, err)
	require.NotNil(t, stored)
}
