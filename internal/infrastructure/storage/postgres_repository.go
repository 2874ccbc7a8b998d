package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"techvibe/internal/domain"
	"techvibe/internal/ports"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository persists podcast records into Postgres.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.PodcastRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the initial generating record.
func (r *PostgresRepository) Create(ctx context.Context, podcast domain.Podcast) error {
	query, args, err := psql.
		Insert("podcasts").
		Columns("id", "title", "status", "sources", "created_at").
		Values(podcast.ID, podcast.Title, string(podcast.Status), "[]", podcast.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insert podcast: %v", domain.ErrRecordStore, err)
	}

	return nil
}

// Get loads a single podcast by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (domain.Podcast, error) {
	query, args, err := selectPodcasts().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return domain.Podcast{}, fmt.Errorf("build select: %w", err)
	}

	podcast, err := scanPodcast(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Podcast{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Podcast{}, fmt.Errorf("%w: select podcast: %v", domain.ErrRecordStore, err)
	}

	return podcast, nil
}

// ListRecent returns the newest podcasts first.
func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]domain.Podcast, error) {
	query, args, err := selectPodcasts().
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list podcasts: %v", domain.ErrRecordStore, err)
	}
	defer rows.Close()

	var podcasts []domain.Podcast
	for rows.Next() {
		podcast, err := scanPodcast(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan podcast: %v", domain.ErrRecordStore, err)
		}
		podcasts = append(podcasts, podcast)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows iteration: %v", domain.ErrRecordStore, err)
	}

	return podcasts, nil
}

// MarkReady writes script, audio URL, sources, and duration atomically with
// the terminal status change.
func (r *PostgresRepository) MarkReady(ctx context.Context, id, script, audioURL string, sources []domain.Source, duration int) error {
	// pq sends []byte as bytea; the jsonb column needs text.
	encoded, err := json.Marshal(sources)
	if err != nil {
		return fmt.Errorf("marshal sources: %w", err)
	}

	query, args, err := psql.
		Update("podcasts").
		Set("status", string(domain.StatusReady)).
		Set("script", script).
		Set("audio_url", audioURL).
		Set("sources", string(encoded)).
		Set("duration", duration).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: mark ready: %v", domain.ErrRecordStore, err)
	}

	return nil
}

// MarkFailed records the diagnostic message with the terminal status change.
func (r *PostgresRepository) MarkFailed(ctx context.Context, id, message string) error {
	query, args, err := psql.
		Update("podcasts").
		Set("status", string(domain.StatusFailed)).
		Set("error_message", message).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: mark failed: %v", domain.ErrRecordStore, err)
	}

	return nil
}

func selectPodcasts() sq.SelectBuilder {
	return psql.
		Select("id", "title", "status", "script", "audio_url", "sources", "duration", "error_message", "created_at").
		From("podcasts")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPodcast(row rowScanner) (domain.Podcast, error) {
	var (
		podcast  domain.Podcast
		status   string
		script   sql.NullString
		audioURL sql.NullString
		sources  []byte
		duration sql.NullInt64
		errMsg   sql.NullString
	)

	err := row.Scan(&podcast.ID, &podcast.Title, &status, &script, &audioURL, &sources, &duration, &errMsg, &podcast.CreatedAt)
	if err != nil {
		return domain.Podcast{}, err
	}

	podcast.Status = domain.Status(status)
	podcast.Script = script.String
	podcast.AudioURL = audioURL.String
	podcast.Duration = int(duration.Int64)
	podcast.ErrorMessage = errMsg.String
	podcast.Sources = []domain.Source{}

	if len(sources) > 0 {
		if err := json.Unmarshal(sources, &podcast.Sources); err != nil {
			return domain.Podcast{}, fmt.Errorf("decode sources: %w", err)
		}
	}

	return podcast, nil
}
