package domain

import "strings"

const (
	// Sentinel marks a field that could not be located in the page markup.
	Sentinel = "N/A"

	// FetchErrorSentinel is the raw_text value for a detail page that could not be fetched or parsed.
	FetchErrorSentinel = "Error"

	// ConversionErrorSentinel is the pdf_as_html value for a PDF that could not be converted.
	ConversionErrorSentinel = "Conversion Error"
)

// Columns lists the exported table columns, in output order.
var Columns = []string{
	"title",
	"court_name",
	"citations",
	"dates",
	"url",
	"raw_text",
	"pdf_link",
	"xml_link",
	"pdf_as_html",
}

// ListingRow is one case summary taken from a search-results page.
type ListingRow struct {
	Title     string `json:"title"`
	CourtName string `json:"court_name"`
	Citation  string `json:"citations"`
	Date      string `json:"dates"`
	DetailURL string `json:"url"`
}

// CaseRecord is a ListingRow enriched with the data found on its detail page.
//
// Every field holds either real data or Sentinel, so exported tables always
// have uniform columns.
type CaseRecord struct {
	ListingRow

	RawText   string `json:"raw_text"`
	PDFLink   string `json:"pdf_link"`
	XMLLink   string `json:"xml_link"`
	PDFAsHTML string `json:"pdf_as_html"`
}

// NewCaseRecord merges a listing row with the detail page fields.
// Empty values are replaced by Sentinel.
func NewCaseRecord(row ListingRow, rawText, pdfLink, xmlLink, pdfAsHTML string) CaseRecord {
	rec := CaseRecord{
		ListingRow: ListingRow{
			Title:     orSentinel(row.Title),
			CourtName: orSentinel(row.CourtName),
			Citation:  orSentinel(row.Citation),
			Date:      orSentinel(row.Date),
			DetailURL: orSentinel(row.DetailURL),
		},
		RawText:   orSentinel(rawText),
		PDFLink:   orSentinel(pdfLink),
		XMLLink:   orSentinel(xmlLink),
		PDFAsHTML: orSentinel(pdfAsHTML),
	}
	return rec
}

// Values returns the record cells in Columns order.
func (r CaseRecord) Values() []string {
	return []string{
		r.Title,
		r.CourtName,
		r.Citation,
		r.Date,
		r.DetailURL,
		r.RawText,
		r.PDFLink,
		r.XMLLink,
		r.PDFAsHTML,
	}
}

// ResultTable holds case records in crawl order. Records are never deduplicated:
// a case listed on two pages appears twice.
type ResultTable []CaseRecord

// Append adds a record at the end of the table.
func (t *ResultTable) Append(rec CaseRecord) {
	*t = append(*t, rec)
}

// Len returns the number of records.
func (t ResultTable) Len() int {
	return len(t)
}

// IsAbsent reports whether v is empty or the Sentinel value.
func IsAbsent(v string) bool {
	return v == "" || v == Sentinel
}

func orSentinel(v string) string {
	if strings.TrimSpace(v) == "" {
		return Sentinel
	}
	return v
}
