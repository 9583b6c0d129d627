package sites

import (
	"strings"

	"caselaw-scraper/pkg/markup"

	"github.com/PuerkitoBio/goquery"
)

// Adapter knows where a site keeps the pieces of a case in its markup.
// Swapping the adapter is enough to follow a markup change; the pipeline
// never looks at tag or class names itself.
type Adapter interface {
	// Origin is the scheme and host root-relative links are resolved against.
	Origin() string

	// ListingRows returns the row elements of a search-results page, in document order.
	ListingRows(doc *markup.Document) []*goquery.Selection

	// LocateTitle returns the link to the detail page inside a listing row.
	// ok is false when the row has no title container or no link in it.
	LocateTitle(row *goquery.Selection) (link *goquery.Selection, ok bool)

	// LocateMetadataFields reads court, citation and date from a listing row.
	LocateMetadataFields(row *goquery.Selection) Metadata

	// LocateBody returns the judgment body element of a detail page.
	LocateBody(doc *markup.Document) (*goquery.Selection, bool)

	// LocateDocumentLinks returns the PDF and XML links of a detail page.
	LocateDocumentLinks(doc *markup.Document) DocumentLinks
}

// Metadata holds the listing row fields found next to the title.
// Missing fields are set to domain.Sentinel.
type Metadata struct {
	Court    string
	Citation string
	Date     string
}

// ResolveURL makes a root-relative href absolute by prefixing origin.
// Any other href is returned unchanged, so resolving twice is a no-op.
func ResolveURL(origin, href string) string {
	if strings.HasPrefix(href, "/") {
		return origin + href
	}
	return href
}
