package pipeline

import (
	"context"

	"caselaw-scraper/pkg/content"
	"caselaw-scraper/pkg/domain"

	"github.com/rs/zerolog/log"
)

// DetailProcessor reads a case detail page
type DetailProcessor interface {
	Extract(ctx context.Context, url string) content.DetailResult
}

// DocumentConverter renders a linked source document as HTML
type DocumentConverter interface {
	Convert(ctx context.Context, url string) content.ConversionResult
}

// RowProcessor turns a listing row into a complete record
type RowProcessor interface {
	ProcessRow(ctx context.Context, row domain.ListingRow) domain.CaseRecord
}

// CaseProcessor implements RowProcessor by following the row to its detail
// page and converting the PDF found there
type CaseProcessor struct {
	details   DetailProcessor
	converter DocumentConverter
}

// NewCaseProcessor creates a new case processor
func NewCaseProcessor(details DetailProcessor, converter DocumentConverter) *CaseProcessor {
	return &CaseProcessor{
		details:   details,
		converter: converter,
	}
}

// ProcessRow fetches the detail page, converts the PDF it links to and
// merges both into the listing row. Failures are logged at debug level and
// recorded as sentinels; ProcessRow itself cannot fail.
func (p *CaseProcessor) ProcessRow(ctx context.Context, row domain.ListingRow) domain.CaseRecord {
	detail := p.details.Extract(ctx, row.DetailURL)
	if detail.Err != nil {
		log.Debug().Err(detail.Err).Str("url", row.DetailURL).Str("status", string(detail.Status)).Msg("Detail page failed")
	}

	conv := p.converter.Convert(ctx, detail.PDFLink)
	if conv.Err != nil {
		log.Debug().Err(conv.Err).Str("url", detail.PDFLink).Msg("PDF conversion failed")
	}

	return domain.NewCaseRecord(row, detail.RawText, detail.PDFLink, detail.XMLLink, conv.HTML)
}
