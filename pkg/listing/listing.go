package listing

import (
	"context"
	"fmt"
	"strconv"

	"caselaw-scraper/pkg/domain"
	"caselaw-scraper/pkg/httpclient"
	"caselaw-scraper/pkg/markup"
	"caselaw-scraper/pkg/sites"
)

// Source yields the listing rows of one search-results page.
// An error means the whole page could not be read.
type Source interface {
	FetchPage(ctx context.Context, page int) ([]domain.ListingRow, error)
}

// PageURL returns the URL of a numbered search-results page.
// The page parameter is appended as-is, so searchURL must already carry a query string.
func PageURL(searchURL string, page int) string {
	return searchURL + "&page=" + strconv.Itoa(page)
}

// Extractor turns a search-results page into listing rows.
type Extractor struct {
	adapter sites.Adapter
}

// NewExtractor creates an extractor that reads rows through adapter.
func NewExtractor(adapter sites.Adapter) *Extractor {
	return &Extractor{adapter: adapter}
}

// ExtractRows returns one ListingRow per row that has a title link, in
// document order. Rows without one (headers, spacers) are skipped.
func (e *Extractor) ExtractRows(doc *markup.Document) []domain.ListingRow {
	var rows []domain.ListingRow

	for _, sel := range e.adapter.ListingRows(doc) {
		link, ok := e.adapter.LocateTitle(sel)
		if !ok {
			continue
		}
		href, _ := link.Attr("href")
		meta := e.adapter.LocateMetadataFields(sel)

		rows = append(rows, domain.ListingRow{
			Title:     markup.Text(link, ""),
			CourtName: meta.Court,
			Citation:  meta.Citation,
			Date:      meta.Date,
			DetailURL: sites.ResolveURL(e.adapter.Origin(), href),
		})
	}

	return rows
}

// HTMLSource reads listing rows from the HTML search-results pages.
type HTMLSource struct {
	fetcher   httpclient.Fetcher
	extractor *Extractor
	searchURL string
}

// NewHTMLSource creates a Source over searchURL. fetcher should be a
// BrowserClient; the search pages reject requests without a browser User-Agent.
func NewHTMLSource(fetcher httpclient.Fetcher, adapter sites.Adapter, searchURL string) *HTMLSource {
	return &HTMLSource{
		fetcher:   fetcher,
		extractor: NewExtractor(adapter),
		searchURL: searchURL,
	}
}

// FetchPage implements Source.
func (s *HTMLSource) FetchPage(ctx context.Context, page int) ([]domain.ListingRow, error) {
	url := PageURL(s.searchURL, page)

	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing page %d: %w", page, err)
	}

	doc, err := markup.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page %d: %w", page, err)
	}

	return s.extractor.ExtractRows(doc), nil
}
