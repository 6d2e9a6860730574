// Package news scrapes recent headlines for a symbol from financial news
// sites.
package news

import (
	"context"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"angelone-trader/internal/logger"
)

// Headline is one scraped article reference.
type Headline struct {
	Title       string
	URL         string
	Source      string
	PublishedAt string
}

// Source defines a news site to scrape.
type Source struct {
	Name       string
	BaseURL    string
	SearchPath string // "{symbol}" is replaced with the symbol
	Selectors  Selectors
}

// Selectors are the CSS selectors for extracting article data.
type Selectors struct {
	Container   string
	Title       string
	URL         string
	PublishedAt string
}

// Scraper collects headlines from multiple sources.
type Scraper struct {
	sources []Source
	timeout time.Duration
}

// NewScraper creates a scraper with the default source list.
func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{
		sources: defaultSources(),
		timeout: timeout,
	}
}

func defaultSources() []Source {
	return []Source{
		{
			Name:       "MoneyControl",
			BaseURL:    "https://www.moneycontrol.com",
			SearchPath: "/news/tags/{symbol}.html",
			Selectors: Selectors{
				Container:   "li.clearfix",
				Title:       "h2 a, h3 a",
				URL:         "h2 a, h3 a",
				PublishedAt: "span.ago",
			},
		},
		{
			Name:       "EconomicTimes",
			BaseURL:    "https://economictimes.indiatimes.com",
			SearchPath: "/topic/{symbol}",
			Selectors: Selectors{
				Container:   "div.story-box",
				Title:       "a",
				URL:         "a",
				PublishedAt: "time",
			},
		},
	}
}

// Fetch scrapes up to max headlines for the symbol across all sources.
// Per-source failures are logged and skipped; an empty result is not an
// error.
func (s *Scraper) Fetch(ctx context.Context, symbol string, max int) []Headline {
	var headlines []Headline

	for _, src := range s.sources {
		if len(headlines) >= max {
			break
		}
		got := s.fetchFrom(ctx, src, symbol, max-len(headlines))
		headlines = append(headlines, got...)
	}

	logger.Debug(ctx, "Headlines collected", "symbol", symbol, "count", len(headlines))
	return headlines
}

func (s *Scraper) fetchFrom(ctx context.Context, src Source, symbol string, max int) []Headline {
	c := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
	)
	c.SetRequestTimeout(s.timeout)

	var headlines []Headline

	c.OnHTML(src.Selectors.Container, func(e *colly.HTMLElement) {
		if len(headlines) >= max {
			return
		}
		title := strings.TrimSpace(e.ChildText(src.Selectors.Title))
		if title == "" {
			return
		}
		url := e.ChildAttr(src.Selectors.URL, "href")
		if strings.HasPrefix(url, "/") {
			url = src.BaseURL + url
		}
		headlines = append(headlines, Headline{
			Title:       title,
			URL:         url,
			Source:      src.Name,
			PublishedAt: strings.TrimSpace(e.ChildText(src.Selectors.PublishedAt)),
		})
	})

	searchURL := src.BaseURL + strings.ReplaceAll(src.SearchPath, "{symbol}", strings.ToLower(symbol))
	if err := c.Visit(searchURL); err != nil {
		logger.Warn(ctx, "News source failed", "source", src.Name, "error", err)
		return nil
	}
	c.Wait()

	return headlines
}
