package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"techvibe/internal/config"
	"techvibe/internal/domain"
	"techvibe/internal/ports"
)

// Client implements ports.SpeechSynthesizer against the Google Cloud
// text:synthesize REST API.
type Client struct {
	endpoint     string
	apiKey       string
	languageCode string
	voice        string
	gender       string
	encoding     string
	pitch        float64
	speakingRate float64
	httpClient   *http.Client
}

var _ ports.SpeechSynthesizer = (*Client)(nil)

// NewClient builds a client from configuration.
func NewClient(cfg config.TTSConfig) *Client {
	return &Client{
		endpoint:     strings.TrimSuffix(cfg.Endpoint, "/"),
		apiKey:       cfg.APIKey,
		languageCode: cfg.LanguageCode,
		voice:        cfg.Voice,
		gender:       cfg.Gender,
		encoding:     cfg.Encoding,
		pitch:        cfg.Pitch,
		speakingRate: cfg.SpeakingRate,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

type synthesizeRequest struct {
	Input       synthesisInput  `json:"input"`
	Voice       voiceSelection  `json:"voice"`
	AudioConfig audioParameters `json:"audioConfig"`
}

type synthesisInput struct {
	Text string `json:"text"`
}

type voiceSelection struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name"`
	SSMLGender   string `json:"ssmlGender"`
}

type audioParameters struct {
	AudioEncoding string  `json:"audioEncoding"`
	Pitch         float64 `json:"pitch"`
	SpeakingRate  float64 `json:"speakingRate"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesize converts the script to raw audio bytes. The service returns
// base64; a response without an audio payload signals
// domain.ErrSpeechSynthesis.
func (c *Client) Synthesize(ctx context.Context, script string) ([]byte, error) {
	if c.apiKey == "" || c.endpoint == "" {
		return nil, fmt.Errorf("tts client misconfigured")
	}

	body, err := json.Marshal(synthesizeRequest{
		Input: synthesisInput{Text: script},
		Voice: voiceSelection{
			LanguageCode: c.languageCode,
			Name:         c.voice,
			SSMLGender:   c.gender,
		},
		AudioConfig: audioParameters{
			AudioEncoding: c.encoding,
			Pitch:         c.pitch,
			SpeakingRate:  c.speakingRate,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal tts payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/text:synthesize?key=%s", c.endpoint, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("tts error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode tts response: %w", err)
	}

	if decoded.AudioContent == "" {
		return nil, domain.ErrSpeechSynthesis
	}

	audio, err := base64.StdEncoding.DecodeString(decoded.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio payload: %w", err)
	}

	return audio, nil
}
