package domain

import (
	"strings"
	"time"
)

// Status enumerates podcast lifecycle states. A record starts as
// StatusGenerating and moves exactly once to StatusReady or StatusFailed.
type Status string

const (
	StatusGenerating Status = "generating"
	StatusReady      Status = "ready"
	StatusFailed     Status = "failed"
)

// Article is a single parsed feed entry. Transient: never persisted directly.
type Article struct {
	Title       string
	Link        string
	Description string
	PublishedAt string
}

// Source is the persisted citation derived from an Article.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Date  string `json:"date"`
}

// Podcast is one generation job and its persisted outcome.
type Podcast struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Status       Status    `json:"status"`
	Script       string    `json:"script,omitempty"`
	AudioURL     string    `json:"audio_url,omitempty"`
	Sources      []Source  `json:"sources"`
	Duration     int       `json:"duration,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Terminal reports whether no further status transition may occur.
func (p Podcast) Terminal() bool {
	return p.Status == StatusReady || p.Status == StatusFailed
}

// EstimatedDuration approximates playback seconds from the script word
// count at 2.5 words per second, rounded down. The rate is independent of
// the configured TTS speaking rate on purpose.
func EstimatedDuration(script string) int {
	words := len(strings.Fields(script))
	return int(float64(words) / 2.5)
}
