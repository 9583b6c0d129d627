package content

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"caselaw-scraper/pkg/domain"
	"caselaw-scraper/pkg/httpclient"
	"caselaw-scraper/pkg/markup"
	"caselaw-scraper/pkg/sites"

	"github.com/go-shiori/go-readability"
	"github.com/rs/zerolog/log"
)

// DetailStatus describes how a detail page extraction ended.
type DetailStatus string

const (
	StatusOK          DetailStatus = "ok"
	StatusNoBody      DetailStatus = "no_body"
	StatusFetchFailed DetailStatus = "fetch_failed"
	StatusParseFailed DetailStatus = "parse_failed"
)

// DetailResult is the data read from one detail page.
//
// RawText, PDFLink and XMLLink are always set, either to real data or to a
// sentinel, so the result can be merged into a record without checking Status.
type DetailResult struct {
	RawText string
	PDFLink string
	XMLLink string
	Status  DetailStatus
	Err     error
}

func failedDetail(status DetailStatus, err error) DetailResult {
	return DetailResult{
		RawText: domain.FetchErrorSentinel,
		PDFLink: domain.Sentinel,
		XMLLink: domain.Sentinel,
		Status:  status,
		Err:     err,
	}
}

// DetailExtractor reads the judgment body and document links of a case page.
type DetailExtractor struct {
	fetcher httpclient.Fetcher
	adapter sites.Adapter

	// ReadabilityFallback uses readability's article text when the page has no
	// body element, instead of leaving raw_text absent.
	ReadabilityFallback bool
}

// NewDetailExtractor creates a detail extractor. fetcher should be a PlainClient.
func NewDetailExtractor(fetcher httpclient.Fetcher, adapter sites.Adapter) *DetailExtractor {
	return &DetailExtractor{
		fetcher: fetcher,
		adapter: adapter,
	}
}

// Extract fetches url and reads its body text and PDF/XML links.
//
// Extract never returns an error. A fetch or parse failure yields
// ("Error", "N/A", "N/A") with the cause in Err, and a page without a body
// element yields raw text "N/A" with the links still scanned.
func (e *DetailExtractor) Extract(ctx context.Context, url string) (result DetailResult) {
	defer func() {
		if r := recover(); r != nil {
			result = failedDetail(StatusParseFailed, fmt.Errorf("panic while parsing %s: %v", url, r))
		}
	}()

	body, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return failedDetail(StatusFetchFailed, err)
	}

	doc, err := markup.Parse(body)
	if err != nil {
		return failedDetail(StatusParseFailed, fmt.Errorf("failed to parse %s: %w", url, err))
	}

	links := e.adapter.LocateDocumentLinks(doc)
	result = DetailResult{
		RawText: domain.Sentinel,
		PDFLink: links.PDF,
		XMLLink: links.XML,
		Status:  StatusOK,
	}

	if sel, ok := e.adapter.LocateBody(doc); ok {
		result.RawText = markup.Text(sel, "\n")
		return result
	}

	result.Status = StatusNoBody
	if e.ReadabilityFallback {
		if text := readableText(body, url); text != "" {
			result.RawText = text
		}
	}
	return result
}

// readableText returns the main article text as found by readability, or an
// empty string when it finds none.
func readableText(body []byte, pageURL string) string {
	article, err := readability.FromReader(bytes.NewReader(body), nil)
	if err != nil {
		log.Debug().Err(err).Str("url", pageURL).Msg("Readability fallback failed")
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}
