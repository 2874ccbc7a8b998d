package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"techvibe/internal/config"
	"techvibe/internal/domain"
	"techvibe/internal/ports"
)

// Client implements ports.ScriptGenerator against the Gemini generateContent
// REST API.
type Client struct {
	endpoint        string
	model           string
	apiKey          string
	temperature     float64
	maxOutputTokens int
	promptTemplate  string
	excerptLength   int
	httpClient      *http.Client
}

var _ ports.ScriptGenerator = (*Client)(nil)

// NewClient builds a client from configuration.
func NewClient(cfg config.GeminiConfig) *Client {
	return &Client{
		endpoint:        strings.TrimSuffix(cfg.Endpoint, "/"),
		model:           cfg.Model,
		apiKey:          cfg.APIKey,
		temperature:     cfg.Temperature,
		maxOutputTokens: cfg.MaxOutputTokens,
		promptTemplate:  cfg.PromptTemplate,
		excerptLength:   cfg.ExcerptLength,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate renders the articles into the prompt template and requests a
// narration script. A response without a text payload signals
// domain.ErrScriptGeneration.
func (c *Client) Generate(ctx context.Context, articles []domain.Article) (string, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("gemini client misconfigured")
	}

	prompt := fmt.Sprintf(c.promptTemplate, c.digest(articles))

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     c.temperature,
			MaxOutputTokens: c.maxOutputTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal gemini payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.endpoint, c.model, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate script: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("gemini error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}

	text := decoded.text()
	if text == "" {
		return "", domain.ErrScriptGeneration
	}

	return text, nil
}

func (r generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return ""
	}
	return parts[0].Text
}

// digest renders one compact line per article: the title plus a truncated
// excerpt of the HTML-stripped description.
func (c *Client) digest(articles []domain.Article) string {
	lines := make([]string, 0, len(articles))
	for _, article := range articles {
		lines = append(lines, fmt.Sprintf("- %s: %s",
			article.Title, excerpt(article.Description, c.excerptLength)))
	}
	return strings.Join(lines, "\n")
}

func excerpt(description string, limit int) string {
	text := stripHTML(description)
	runes := []rune(text)
	if limit > 0 && len(runes) > limit {
		return string(runes[:limit])
	}
	return text
}

// stripHTML flattens markup commonly found in feed descriptions to plain
// text; on parse failure the input is returned untouched.
func stripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
