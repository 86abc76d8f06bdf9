// Package extract renders discovered pages and keeps the ones with enough visible text.
package extract

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"supportrag/internal/article"
)

const DefaultMinContentChars = 100

type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

type Scraper struct {
	renderer Renderer
	minChars int
}

func NewScraper(r Renderer, minChars int) *Scraper {
	return &Scraper{renderer: r, minChars: minChars}
}

// Scrape never fails: render errors and too-short pages both mean "no content" for url.
func (s *Scraper) Scrape(ctx context.Context, url string) (article.Record, bool) {
	content, err := s.renderer.Render(ctx, url)
	if err != nil {
		slog.ErrorContext(ctx, "error scraping page", "url", url, "error", err)
		return article.Record{}, false
	}

	chars := utf8.RuneCountInString(strings.TrimSpace(content))
	if chars <= s.minChars {
		slog.WarnContext(ctx, "skipped page: empty or too short after rendering", "url", url, "chars", chars)
		return article.Record{}, false
	}

	slog.InfoContext(ctx, "scraped full page", "url", url, "chars", chars)
	return article.Record{URL: url, Content: content}, true
}

// ScrapeAll visits urls one at a time, in order.
func (s *Scraper) ScrapeAll(ctx context.Context, urls []string) []article.Record {
	records := make([]article.Record, 0, len(urls))
	for _, u := range urls {
		if rec, ok := s.Scrape(ctx, u); ok {
			records = append(records, rec)
		}
	}
	return records
}
