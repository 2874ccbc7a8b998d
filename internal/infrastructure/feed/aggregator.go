package feed

import (
	"context"
	"log/slog"
	"time"

	"techvibe/internal/config"
	"techvibe/internal/domain"
	"techvibe/internal/ports"
)

// Aggregator merges articles from the configured feed list and builds the
// parallel citation list. Feeds are processed sequentially in list order; a
// feed failing entirely contributes zero articles and does not affect others.
type Aggregator struct {
	fetcher *Fetcher
	parser  *Parser
	feeds   []config.FeedConfig
	logger  *slog.Logger
	now     func() time.Time
}

var _ ports.ArticleSource = (*Aggregator)(nil)

// NewAggregator wires fetcher and parser over the ordered feed list.
func NewAggregator(fetcher *Fetcher, parser *Parser, feeds []config.FeedConfig, log *slog.Logger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		parser:  parser,
		feeds:   feeds,
		logger:  log,
		now:     time.Now,
	}
}

// FetchAll fetches and parses every feed, concatenating results in feed-list
// order. One Source per accepted Article; a missing publish date falls back
// to the aggregation timestamp.
func (a *Aggregator) FetchAll(ctx context.Context) ([]domain.Article, []domain.Source, error) {
	var (
		articles []domain.Article
		sources  []domain.Source
	)

	for _, feed := range a.feeds {
		body, err := a.fetcher.Fetch(ctx, feed.URL)
		if err != nil {
			a.warn("feed fetch failed", "feed", feed.Name, "error", err)
			continue
		}

		items := a.parser.Parse(body)
		for _, item := range items {
			articles = append(articles, item)

			date := item.PublishedAt
			if date == "" {
				date = a.now().UTC().Format(time.RFC3339)
			}
			sources = append(sources, domain.Source{
				Title: item.Title,
				URL:   item.Link,
				Date:  date,
			})
		}

		a.debug("feed aggregated", "feed", feed.Name, "count", len(items))
	}

	a.debug("aggregation done", "total_articles", len(articles))
	return articles, sources, nil
}

func (a *Aggregator) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}

func (a *Aggregator) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}
