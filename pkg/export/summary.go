package export

import (
	"io"

	"caselaw-scraper/pkg/domain"

	"github.com/jedib0t/go-pretty/v6/table"
)

// summaryTitleWidth bounds the title column of the summary table.
const summaryTitleWidth = 50

// RenderSummary prints one line per record to out: title, court, citation
// and whether body text, links and PDF HTML were found.
func RenderSummary(out io.Writer, results domain.ResultTable) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"#", "Title", "Court", "Citation", "Text", "PDF", "XML", "PDF HTML"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Title", WidthMax: summaryTitleWidth},
	})

	for i, rec := range results {
		t.AppendRow(table.Row{
			i + 1,
			rec.Title,
			rec.CourtName,
			rec.Citation,
			status(rec.RawText, domain.FetchErrorSentinel),
			status(rec.PDFLink, ""),
			status(rec.XMLLink, ""),
			status(rec.PDFAsHTML, domain.ConversionErrorSentinel),
		})
	}
	t.AppendFooter(table.Row{"", "Total", results.Len()})

	t.SetStyle(table.StyleRounded)
	t.Render()
}

// status reduces a cell to a short marker.
func status(v, failure string) string {
	switch {
	case failure != "" && v == failure:
		return "error"
	case domain.IsAbsent(v):
		return "-"
	default:
		return "yes"
	}
}
