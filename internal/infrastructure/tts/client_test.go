package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"techvibe/internal/config"
	"techvibe/internal/domain"
)

func testConfig(endpoint string) config.TTSConfig {
	return config.TTSConfig{
		Endpoint:     endpoint,
		APIKey:       "tts-key",
		LanguageCode: "fr-FR",
		Voice:        "fr-FR-Neural2-B",
		Gender:       "MALE",
		Encoding:     "MP3",
		Pitch:        0,
		SpeakingRate: 1.05,
	}
}

func TestSynthesizeDecodesAudioPayload(t *testing.T) {
	t.Parallel()

	var captured synthesizeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/text:synthesize", r.URL.Path)
		require.Equal(t, "tts-key", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"audioContent": "QQ=="})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	audio, err := client.Synthesize(context.Background(), "Salut...")
	require.NoError(t, err)
	require.Equal(t, []byte{0x41}, audio)

	require.Equal(t, "Salut...", captured.Input.Text)
	require.Equal(t, "fr-FR", captured.Voice.LanguageCode)
	require.Equal(t, "fr-FR-Neural2-B", captured.Voice.Name)
	require.Equal(t, "MALE", captured.Voice.SSMLGender)
	require.Equal(t, "MP3", captured.AudioConfig.AudioEncoding)
	require.InDelta(t, 1.05, captured.AudioConfig.SpeakingRate, 1e-9)
}

func TestSynthesizeMissingAudioSignalsSynthesisError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	_, err := client.Synthesize(context.Background(), "script")
	require.ErrorIs(t, err, domain.ErrSpeechSynthesis)
}

func TestSynthesizeInvalidBase64(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"audioContent": "%%%"})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	_, err := client.Synthesize(context.Background(), "script")
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode audio payload")
}

func TestSynthesizeHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	_, err := client.Synthesize(context.Background(), "script")
	require.Error(t, err)
	require.Contains(t, err.Error(), "denied")
}
