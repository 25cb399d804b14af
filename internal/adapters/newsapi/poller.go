package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stockpulse/newswire/internal/adapters/config"
	"github.com/stockpulse/newswire/internal/enrich"
	"github.com/stockpulse/newswire/pkg/logger"
	"github.com/stockpulse/newswire/pkg/metrics"
	"github.com/stockpulse/newswire/pkg/models"
)

// Poller queries the NewsAPI everything endpoint for financial-news
// keywords and emits one canonical event per article. It implements
// worker.Worker, so scheduling (immediate first run + fixed interval)
// lives in pkg/worker and a test can drive Run directly.
type Poller struct {
	cfg      *config.NewsAPIConfig
	client   *http.Client
	enricher *enrich.Enricher
	events   chan<- models.Event
}

type articlePage struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// NewPoller creates new polled-feed adapter
func NewPoller(cfg *config.NewsAPIConfig, enricher *enrich.Enricher, events chan<- models.Event) *Poller {
	return &Poller{
		cfg:      cfg,
		client:   &http.Client{Timeout: 10 * time.Second},
		enricher: enricher,
		events:   events,
	}
}

// Name returns worker name for logging
func (p *Poller) Name() string {
	return "newsapi-poller"
}

// Run executes one poll tick. Failures are returned for logging only;
// the next scheduled tick proceeds regardless.
func (p *Poller) Run(ctx context.Context) error {
	reqURL := fmt.Sprintf("%s/everything?q=%s&pageSize=%d&sortBy=publishedAt&language=en&apiKey=%s",
		p.cfg.BaseURL, url.QueryEscape(p.cfg.Query), p.cfg.PageSize, p.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		metrics.EventsDropped.WithLabelValues(string(models.SourceNewsAPI)).Inc()
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		metrics.EventsDropped.WithLabelValues(string(models.SourceNewsAPI)).Inc()
		return fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(body))
	}

	var page articlePage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		metrics.EventsDropped.WithLabelValues(string(models.SourceNewsAPI)).Inc()
		return fmt.Errorf("failed to decode response: %w", err)
	}

	for _, article := range page.Articles {
		ev := p.toEvent(article.Title, article.Description, article.URL, article.PublishedAt)

		select {
		case p.events <- ev:
			metrics.EventsIngested.WithLabelValues(string(models.SourceNewsAPI)).Inc()
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	logger.Debug("newsapi poll completed",
		zap.Int("articles", len(page.Articles)),
	)

	return nil
}

// toEvent normalizes one article into an enriched canonical event
func (p *Poller) toEvent(title, description, articleURL, publishedAt string) models.Event {
	text := strings.TrimSpace(title + " " + description)
	tickers, sent := p.enricher.Enrich(text)

	return models.Event{
		Source:      models.SourceNewsAPI,
		Title:       title,
		Description: description,
		URL:         articleURL,
		PublishedAt: publishedAt,
		Tickers:     tickers,
		Sentiment:   sent,
		ReceivedAt:  time.Now().UTC(),
	}
}
