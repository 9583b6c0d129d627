package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"caselaw-scraper/pkg/config"
	"caselaw-scraper/pkg/export"
	"caselaw-scraper/pkg/httpclient"
	"caselaw-scraper/pkg/logger"
	"caselaw-scraper/pkg/pipeline"
	"caselaw-scraper/pkg/sites"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type options struct {
	configPath   string
	pages        int
	firstPage    int
	lastPage     int
	source       string
	output       string
	ndjson       string
	delay        time.Duration
	timeout      time.Duration
	strictStatus bool
	readability  bool
	summary      bool
	verbose      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, _ := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command and returns the options its flags are bound to.
func newRootCmd() (*cobra.Command, *options) {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "caselaw",
		Short:         "caselaw scrapes judgments from the Find Case Law search pages into a CSV file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Setup(opts.verbose)

			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd, cfg, opts.summary)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	f.IntVar(&opts.pages, "pages", 0, "scrape pages 1..N (shorthand for --first-page 1 --last-page N)")
	f.IntVar(&opts.firstPage, "first-page", pipeline.DefaultFirstPage, "first search page to scrape")
	f.IntVar(&opts.lastPage, "last-page", pipeline.DefaultLastPage, "last search page to scrape")
	f.StringVar(&opts.source, "source", config.SourceHTML, "listing source: html or atom")
	f.StringVarP(&opts.output, "output", "o", export.DefaultCSVPath, "CSV output file")
	f.StringVar(&opts.ndjson, "ndjson", "", "also write the results as NDJSON to this file")
	f.DurationVar(&opts.delay, "delay", pipeline.DefaultRowDelay, "pause after each case")
	f.DurationVar(&opts.timeout, "timeout", httpclient.DefaultTimeout, "per-request timeout")
	f.BoolVar(&opts.strictStatus, "strict-status", false, "treat non-2xx responses as fetch failures")
	f.BoolVar(&opts.readability, "readability", false, "use readability text when a page has no judgment body")
	f.BoolVar(&opts.summary, "summary", false, "print a summary table when done")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	cmd.MarkFlagsMutuallyExclusive("pages", "first-page")
	cmd.MarkFlagsMutuallyExclusive("pages", "last-page")

	return cmd, opts
}

// loadConfig reads the config file, if any, then applies the flags that were
// set explicitly on the command line.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	f := cmd.Flags()
	if f.Changed("pages") {
		cfg.Listing.FirstPage, cfg.Listing.LastPage = 1, opts.pages
	}
	if f.Changed("first-page") {
		cfg.Listing.FirstPage = opts.firstPage
	}
	if f.Changed("last-page") {
		cfg.Listing.LastPage = opts.lastPage
	}
	if f.Changed("source") {
		cfg.Listing.Source = opts.source
	}
	if f.Changed("output") {
		cfg.Output.CSV = opts.output
	}
	if f.Changed("ndjson") {
		cfg.Output.NDJSON = opts.ndjson
	}
	if f.Changed("delay") {
		cfg.Pipeline.RowDelay = opts.delay
	}
	if f.Changed("timeout") {
		cfg.HTTP.Timeout = opts.timeout
	}
	if f.Changed("strict-status") {
		cfg.HTTP.StrictStatus = opts.strictStatus
	}
	if f.Changed("readability") {
		cfg.Detail.ReadabilityFallback = opts.readability
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func run(ctx context.Context, cmd *cobra.Command, cfg *config.Config, summary bool) error {
	writers := []pipeline.TableWriter{export.NewCSVWriter(cfg.Output.CSV)}
	if cfg.Output.NDJSON != "" {
		writers = append(writers, export.NewNDJSONWriter(cfg.Output.NDJSON))
	}

	adapter := sites.NewNationalArchives(cfg.Site.BaseURL)

	var p *pipeline.Pipeline
	switch cfg.Listing.Source {
	case config.SourceAtom:
		p = pipeline.AtomPipelineBuilder(cfg.RunConfig(), adapter, cfg.ClientOptions(), writers...)
	default:
		p = pipeline.HTMLPipelineBuilder(cfg.RunConfig(), adapter, cfg.ClientOptions(), writers...)
	}

	start := time.Now()
	table, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}
	log.Debug().Dur("duration", time.Since(start)).Int("cases", table.Len()).Msg("Done")

	if summary {
		export.RenderSummary(cmd.OutOrStdout(), table)
	}
	return nil
}
