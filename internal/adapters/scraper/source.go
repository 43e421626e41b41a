// Package scraper fetches the crawler-rendered post page and extracts the
// canonical fields from its markup.
package scraper

import (
	"context"
	"fmt"
	"strings"

	"xembed/internal/domain"
)

// DefaultBaseURL is the origin post pages are served from.
const DefaultBaseURL = "https://twitter.com"

// PostScraper is the HTML field source.
type PostScraper struct {
	fetcher   PageFetcher
	selectors *SelectorConfig
	baseURL   string
}

// NewPostScraper creates a scraper. An empty baseURL uses DefaultBaseURL.
func NewPostScraper(fetcher PageFetcher, selectors *SelectorConfig, baseURL string) *PostScraper {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &PostScraper{
		fetcher:   fetcher,
		selectors: selectors,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// Kind identifies this source in logs.
func (s *PostScraper) Kind() domain.SourceKind {
	return domain.SourceHTML
}

// PageURL returns the page address for post.
func (s *PostScraper) PageURL(post domain.PostIdentifier) string {
	return s.baseURL + "/" + post.Username + "/status/" + post.ID
}

// Fetch retrieves the post page and extracts its fields.
func (s *PostScraper) Fetch(ctx context.Context, post domain.PostIdentifier) (*domain.ExtractedFields, error) {
	html, err := s.fetcher.FetchPage(ctx, s.PageURL(post))
	if err != nil {
		return nil, fmt.Errorf("%w: page: %v", domain.ErrSourceUnavailable, err)
	}

	doc, err := ParseDocument(strings.NewReader(html), s.selectors.Current())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	fields := doc.Fields()
	return &fields, nil
}
