package ports

import (
	"context"
	"time"

	"techvibe/internal/domain"
)

// ArticleSource aggregates articles and their citations across all
// configured feeds. Per-feed failures are absorbed; an empty result is not
// an error at this boundary.
type ArticleSource interface {
	FetchAll(ctx context.Context) ([]domain.Article, []domain.Source, error)
}

// ScriptGenerator turns aggregated articles into a narration-ready script.
type ScriptGenerator interface {
	Generate(ctx context.Context, articles []domain.Article) (string, error)
}

// SpeechSynthesizer turns a finished script into raw audio bytes.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, script string) ([]byte, error)
}

// PodcastRepository persists podcast records. A record is written exactly
// twice: once at creation, once at the terminal transition.
type PodcastRepository interface {
	Create(ctx context.Context, podcast domain.Podcast) error
	Get(ctx context.Context, id string) (domain.Podcast, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Podcast, error)
	MarkReady(ctx context.Context, id, script, audioURL string, sources []domain.Source, duration int) error
	MarkFailed(ctx context.Context, id, message string) error
}

// BlobStore uploads audio artifacts and issues public retrieval URLs.
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) string
}

// Scheduler controls when recurring generations execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
