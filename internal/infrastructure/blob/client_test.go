package blob

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"techvibe/internal/config"
	"techvibe/internal/domain"
)

func TestUploadSendsUpsertRequest(t *testing.T) {
	t.Parallel()

	var (
		path        string
		upsert      string
		contentType string
		auth        string
		body        []byte
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		upsert = r.Header.Get("x-upsert")
		contentType = r.Header.Get("Content-Type")
		auth = r.Header.Get("Authorization")
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(config.StorageConfig{
		Endpoint:   server.URL,
		Bucket:     "podcasts",
		ServiceKey: "service-key",
	})

	err := client.Upload(context.Background(), "podcast_42.mp3", []byte{0x41}, "audio/mpeg")
	require.NoError(t, err)

	require.Equal(t, "/object/podcasts/podcast_42.mp3", path)
	require.Equal(t, "true", upsert)
	require.Equal(t, "audio/mpeg", contentType)
	require.Equal(t, "Bearer service-key", auth)
	require.Equal(t, []byte{0x41}, body)
}

func TestUploadFailureWrapsStorageError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket missing", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(config.StorageConfig{Endpoint: server.URL, Bucket: "podcasts"})

	err := client.Upload(context.Background(), "podcast_42.mp3", nil, "audio/mpeg")
	require.ErrorIs(t, err, domain.ErrStorage)
	require.Contains(t, err.Error(), "bucket missing")
}

func TestPublicURL(t *testing.T) {
	t.Parallel()

	client := NewClient(config.StorageConfig{
		Endpoint: "https://store.example.org/storage/v1",
		Bucket:   "podcasts",
	})

	require.Equal(t,
		"https://store.example.org/storage/v1/object/public/podcasts/podcast_42.mp3",
		client.PublicURL("podcast_42.mp3"))
}
