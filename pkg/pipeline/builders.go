package pipeline

import (
	"time"

	"caselaw-scraper/pkg/content"
	"caselaw-scraper/pkg/httpclient"
	"caselaw-scraper/pkg/listing"
	"caselaw-scraper/pkg/sites"
)

// ClientOptions configures the HTTP clients created by the builders
type ClientOptions struct {
	Timeout             time.Duration
	StrictStatus        bool
	ReadabilityFallback bool
}

// HTMLPipelineBuilder builds a pipeline that scrapes the HTML search pages
// Pipeline: [Search Pages (browser client)] → [Detail Page + PDF (plain client)] → [Writers]
func HTMLPipelineBuilder(cfg Config, adapter sites.Adapter, opts ClientOptions, writers ...TableWriter) *Pipeline {
	listingClient := newClient(httpclient.BrowserClient, opts)
	source := listing.NewHTMLSource(listingClient, adapter, cfg.SearchURL)

	return NewPipeline(cfg, source, newCaseProcessor(adapter, opts), writers...)
}

// AtomPipelineBuilder builds a pipeline that reads listing rows from the Atom feed
// Pipeline: [Feed Pages (browser client)] → [Detail Page + PDF (plain client)] → [Writers]
// cfg.SearchURL must point at the feed, e.g. origin + sites.NationalArchivesFeedPath
func AtomPipelineBuilder(cfg Config, adapter sites.Adapter, opts ClientOptions, writers ...TableWriter) *Pipeline {
	listingClient := newClient(httpclient.BrowserClient, opts)
	source := listing.NewAtomSource(listingClient, cfg.SearchURL, adapter.Origin())

	return NewPipeline(cfg, source, newCaseProcessor(adapter, opts), writers...)
}

func newCaseProcessor(adapter sites.Adapter, opts ClientOptions) *CaseProcessor {
	plainClient := newClient(httpclient.PlainClient, opts)

	details := content.NewDetailExtractor(plainClient, adapter)
	details.ReadabilityFallback = opts.ReadabilityFallback

	return NewCaseProcessor(details, content.NewPDFConverter(plainClient))
}

func newClient(clientType httpclient.ClientType, opts ClientOptions) *httpclient.HTTPClient {
	c := httpclient.NewClient(clientType, opts.Timeout)
	c.StrictStatus = opts.StrictStatus
	return c
}
