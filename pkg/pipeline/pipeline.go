package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"caselaw-scraper/pkg/domain"
	"caselaw-scraper/pkg/listing"

	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog/log"
)

// Default run settings.
const (
	DefaultFirstPage = 1
	DefaultLastPage  = 3
	DefaultRowDelay  = 300 * time.Millisecond

	// titleLogWidth bounds the title shown in progress lines.
	titleLogWidth = 50
)

// ErrInvalidPageRange is returned by Run when the page range is empty or starts below 1.
var ErrInvalidPageRange = errors.New("invalid page range")

// TableWriter saves the finished result table to a storage backend
type TableWriter interface {
	// Name identifies the destination in log lines, e.g. a file path
	Name() string

	// WriteTable writes the whole table in one go
	WriteTable(ctx context.Context, table domain.ResultTable) error
}

// Config holds the crawl settings of a run
type Config struct {
	// SearchURL is the search endpoint the page parameter is appended to
	SearchURL string

	FirstPage int
	LastPage  int

	// RowDelay is the pause after each processed row. Page fetches are not delayed.
	RowDelay time.Duration
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig(searchURL string) Config {
	return Config{
		SearchURL: searchURL,
		FirstPage: DefaultFirstPage,
		LastPage:  DefaultLastPage,
		RowDelay:  DefaultRowDelay,
	}
}

// Pages returns the page numbers to crawl, in order.
func (c Config) Pages() []int {
	if c.FirstPage < 1 || c.LastPage < c.FirstPage {
		return nil
	}

	pages := make([]int, 0, c.LastPage-c.FirstPage+1)
	for p := c.FirstPage; p <= c.LastPage; p++ {
		pages = append(pages, p)
	}
	return pages
}

// Pipeline crawls listing pages, enriches every row and hands the table to
// the configured writers.
//
// Everything runs sequentially on the calling goroutine: one page, then one
// row at a time.
type Pipeline struct {
	cfg       Config
	source    listing.Source
	processor RowProcessor
	writers   []TableWriter

	// sleep waits for d or until ctx is done
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPipeline creates a new pipeline with the given source, row processor and writers
func NewPipeline(cfg Config, source listing.Source, processor RowProcessor, writers ...TableWriter) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		source:    source,
		processor: processor,
		writers:   writers,
		sleep:     sleepContext,
	}
}

// Run executes the pipeline:
// 1. Fetch every listing page in the configured range
// 2. Process each row into a CaseRecord, pausing RowDelay after each one
// 3. Pass the full table to every writer
//
// A listing page that cannot be fetched or parsed aborts the run before
// anything is written. Row-level failures never do; they end up as sentinel
// values in the record.
func (p *Pipeline) Run(ctx context.Context) (domain.ResultTable, error) {
	pages := p.cfg.Pages()
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: %d..%d", ErrInvalidPageRange, p.cfg.FirstPage, p.cfg.LastPage)
	}

	table := domain.ResultTable{}

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		log.Info().Msgf("Scraping Page %d...", page)
		rows, err := p.source.FetchPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("listing page %d: %w", page, err)
		}
		log.Debug().Int("page", page).Int("rows", len(rows)).Msg("Listing page parsed")

		for _, row := range rows {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			log.Info().Msgf("  Processing: %s...", runewidth.Truncate(row.Title, titleLogWidth, ""))
			table.Append(p.processor.ProcessRow(ctx, row))

			if err := p.sleep(ctx, p.cfg.RowDelay); err != nil {
				return nil, err
			}
		}
	}

	for _, w := range p.writers {
		if err := w.WriteTable(ctx, table); err != nil {
			return table, fmt.Errorf("failed to write %s: %w", w.Name(), err)
		}
		log.Info().Msgf("Success! Saved %d cases to %s", table.Len(), w.Name())
	}

	return table, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
