package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"techvibe/internal/config"
)

func feedDocument(prefix string, count int) string {
	body := "<rss><channel>"
	for i := 0; i < count; i++ {
		body += fmt.Sprintf("<item><title>%s %d</title><link>http://example.org/%s/%d</link><pubDate>Mon, 06 Jan 2025 10:00:00 GMT</pubDate></item>", prefix, i, prefix, i)
	}
	return body + "</channel></rss>"
}

func TestAggregatorMergesFeedsInOrder(t *testing.T) {
	t.Parallel()

	first := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(feedDocument("alpha", 2)))
	}))
	defer first.Close()

	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(feedDocument("beta", 3)))
	}))
	defer second.Close()

	agg := NewAggregator(NewFetcher(nil), NewParser(), []config.FeedConfig{
		{Name: "Alpha", URL: first.URL},
		{Name: "Beta", URL: second.URL},
	}, nil)

	articles, sources, err := agg.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll error: %v", err)
	}

	if len(articles) != 5 || len(sources) != 5 {
		t.Fatalf("expected 5 articles and 5 sources, got %d and %d", len(articles), len(sources))
	}

	if articles[0].Title != "alpha 0" || articles[2].Title != "beta 0" {
		t.Fatalf("feed-list order not preserved: %+v", articles)
	}

	for i := range articles {
		if sources[i].Title != articles[i].Title || sources[i].URL != articles[i].Link {
			t.Fatalf("source %d does not mirror article: %+v vs %+v", i, sources[i], articles[i])
		}
	}
}

func TestAggregatorIsolatesFailingFeeds(t *testing.T) {
	t.Parallel()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer broken.Close()

	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(feedDocument("ok", 1)))
	}))
	defer healthy.Close()

	agg := NewAggregator(NewFetcher(nil), NewParser(), []config.FeedConfig{
		{Name: "Broken", URL: broken.URL},
		{Name: "Healthy", URL: healthy.URL},
	}, nil)

	articles, sources, err := agg.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll error: %v", err)
	}

	if len(articles) != 1 || len(sources) != 1 {
		t.Fatalf("expected the healthy feed only, got %d articles", len(articles))
	}
	if articles[0].Title != "ok 0" {
		t.Fatalf("unexpected article: %+v", articles[0])
	}
}

func TestAggregatorAllFeedsFailing(t *testing.T) {
	t.Parallel()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer broken.Close()

	agg := NewAggregator(NewFetcher(nil), NewParser(), []config.FeedConfig{
		{Name: "A", URL: broken.URL},
		{Name: "B", URL: broken.URL + "/other"},
	}, nil)

	articles, sources, err := agg.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll error: %v", err)
	}
	if len(articles) != 0 || len(sources) != 0 {
		t.Fatalf("expected empty result, got %d articles", len(articles))
	}
}

func TestAggregatorDateFallback(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<rss><channel><item><title>Undated</title><link>http://example.org/u</link></item></channel></rss>`))
	}))
	defer server.Close()

	agg := NewAggregator(NewFetcher(nil), NewParser(), []config.FeedConfig{
		{Name: "Feed", URL: server.URL},
	}, nil)

	fixed := time.Date(2025, time.January, 6, 12, 0, 0, 0, time.UTC)
	agg.now = func() time.Time { return fixed }

	_, sources, err := agg.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll error: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(sources))
	}
	if sources[0].Date != fixed.Format(time.RFC3339) {
		t.Fatalf("expected aggregation timestamp fallback, got %q", sources[0].Date)
	}
}
