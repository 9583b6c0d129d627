package listing

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"caselaw-scraper/pkg/domain"
	"caselaw-scraper/pkg/httpclient"
	"caselaw-scraper/pkg/sites"

	"github.com/mmcdole/gofeed"
)

// citationType is the tna:identifier type holding the neutral citation.
const citationType = "ukncn"

// AtomSource reads listing rows from the Atom feed that mirrors the search
// pages. It yields the same rows as HTMLSource without scraping markup.
type AtomSource struct {
	fetcher    httpclient.Fetcher
	feedParser *gofeed.Parser
	feedURL    string
	origin     string
}

// NewAtomSource creates a Source over feedURL. Relative entry links are
// resolved against origin.
func NewAtomSource(fetcher httpclient.Fetcher, feedURL, origin string) *AtomSource {
	return &AtomSource{
		fetcher:    fetcher,
		feedParser: gofeed.NewParser(),
		feedURL:    feedURL,
		origin:     origin,
	}
}

// FetchPage implements Source. The feed is paged with the same page
// parameter as the HTML search.
func (s *AtomSource) FetchPage(ctx context.Context, page int) ([]domain.ListingRow, error) {
	url := PageURL(s.feedURL, page)

	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed page %d: %w", page, err)
	}

	feed, err := s.feedParser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed page %d: %w", page, err)
	}

	rows := make([]domain.ListingRow, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}
		rows = append(rows, domain.ListingRow{
			Title:     orSentinel(item.Title),
			CourtName: orSentinel(itemAuthor(item)),
			Citation:  orSentinel(itemCitation(item)),
			Date:      orSentinel(item.Published),
			DetailURL: sites.ResolveURL(s.origin, item.Link),
		})
	}

	return rows, nil
}

func itemAuthor(item *gofeed.Item) string {
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	for _, a := range item.Authors {
		if a != nil && a.Name != "" {
			return a.Name
		}
	}
	return ""
}

// itemCitation returns the tna:identifier of type ukncn, or the first
// identifier when none is typed.
func itemCitation(item *gofeed.Item) string {
	ids := item.Extensions["tna"]["identifier"]

	for _, id := range ids {
		if id.Attrs["type"] == citationType {
			return strings.TrimSpace(id.Value)
		}
	}
	if len(ids) > 0 {
		return strings.TrimSpace(ids[0].Value)
	}
	return ""
}

func orSentinel(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return domain.Sentinel
	}
	return v
}
