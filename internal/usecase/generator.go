package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"techvibe/internal/domain"
	"techvibe/internal/ports"
)

// GeneratorDeps wires all driven adapters into the generation pipeline.
type GeneratorDeps struct {
	Source     ports.ArticleSource
	Scripts    ports.ScriptGenerator
	Speech     ports.SpeechSynthesizer
	Repository ports.PodcastRepository
	Blobs      ports.BlobStore
	Logger     *slog.Logger
}

// Generator drives one podcast generation job through its state machine:
// a record is created as generating and transitions exactly once to ready
// or failed.
type Generator struct {
	source     ports.ArticleSource
	scripts    ports.ScriptGenerator
	speech     ports.SpeechSynthesizer
	repository ports.PodcastRepository
	blobs      ports.BlobStore
	logger     *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewGenerator constructs the orchestration component.
func NewGenerator(deps GeneratorDeps) *Generator {
	return &Generator{
		source:     deps.Source,
		scripts:    deps.Scripts,
		speech:     deps.Speech,
		repository: deps.Repository,
		blobs:      deps.Blobs,
		logger:     deps.Logger,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Generate runs the whole pipeline and returns the terminal podcast. If the
// initial record write fails no record exists and only a bare error is
// returned. Any later failure is recorded as a failed transition with the
// error's message, and the podcast is returned alongside the error.
func (g *Generator) Generate(ctx context.Context) (domain.Podcast, error) {
	now := g.now()
	podcast := domain.Podcast{
		ID:        g.newID(),
		Title:     fmt.Sprintf("TechVibe Briefing - %s", now.Format("02/01/2006")),
		Status:    domain.StatusGenerating,
		Sources:   []domain.Source{},
		CreatedAt: now.UTC(),
	}

	if err := g.repository.Create(ctx, podcast); err != nil {
		return domain.Podcast{}, fmt.Errorf("create podcast record: %w", err)
	}

	result, err := g.run(ctx, podcast)
	if err != nil {
		g.info("generation failed", "podcast", podcast.ID, "error", err)

		podcast.Status = domain.StatusFailed
		podcast.ErrorMessage = err.Error()
		if markErr := g.repository.MarkFailed(ctx, podcast.ID, err.Error()); markErr != nil {
			g.error("record failed transition", "podcast", podcast.ID, "error", markErr)
		}
		return podcast, err
	}

	g.info("generation complete", "podcast", result.ID, "articles", len(result.Sources), "duration", result.Duration)
	return result, nil
}

func (g *Generator) run(ctx context.Context, podcast domain.Podcast) (domain.Podcast, error) {
	articles, sources, err := g.source.FetchAll(ctx)
	if err != nil {
		return domain.Podcast{}, fmt.Errorf("aggregate feeds: %w", err)
	}
	if len(articles) == 0 {
		return domain.Podcast{}, domain.ErrNoArticles
	}
	g.info("feeds aggregated", "podcast", podcast.ID, "articles", len(articles))

	script, err := g.scripts.Generate(ctx, articles)
	if err != nil {
		return domain.Podcast{}, fmt.Errorf("generate script: %w", err)
	}

	audio, err := g.speech.Synthesize(ctx, script)
	if err != nil {
		return domain.Podcast{}, fmt.Errorf("synthesize audio: %w", err)
	}

	key := fmt.Sprintf("podcast_%s.mp3", podcast.ID)
	if err := g.blobs.Upload(ctx, key, audio, "audio/mpeg"); err != nil {
		return domain.Podcast{}, fmt.Errorf("store audio: %w", err)
	}

	audioURL := g.blobs.PublicURL(key)
	duration := domain.EstimatedDuration(script)

	if err := g.repository.MarkReady(ctx, podcast.ID, script, audioURL, sources, duration); err != nil {
		return domain.Podcast{}, fmt.Errorf("record ready transition: %w", err)
	}

	podcast.Status = domain.StatusReady
	podcast.Script = script
	podcast.AudioURL = audioURL
	podcast.Sources = sources
	podcast.Duration = duration
	return podcast, nil
}

func (g *Generator) info(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Info(msg, args...)
	}
}

func (g *Generator) error(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Error(msg, args...)
	}
}
