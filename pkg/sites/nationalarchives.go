package sites

import (
	"caselaw-scraper/pkg/domain"
	"caselaw-scraper/pkg/markup"

	"github.com/PuerkitoBio/goquery"
)

const (
	// NationalArchivesOrigin is the Find Case Law service root.
	NationalArchivesOrigin = "https://caselaw.nationalarchives.gov.uk"

	// NationalArchivesSearchPath is the search endpoint with an empty query.
	NationalArchivesSearchPath = "/judgments/search?query="

	// NationalArchivesFeedPath is the Atom feed mirroring the search endpoint.
	NationalArchivesFeedPath = "/atom.xml?query="
)

// Class names used by the Find Case Law markup.
const (
	classTitle           = "judgments-table__title"
	classCourt           = "judgments-table__court"
	classNeutralCitation = "judgments-table__neutral-citation"
	classJudgmentBody    = "judgment-body"
)

// NationalArchives is the Adapter for caselaw.nationalarchives.gov.uk.
type NationalArchives struct {
	origin string
}

// NewNationalArchives creates an adapter resolving links against origin.
// An empty origin means NationalArchivesOrigin.
func NewNationalArchives(origin string) *NationalArchives {
	if origin == "" {
		origin = NationalArchivesOrigin
	}
	return &NationalArchives{origin: origin}
}

// Origin implements Adapter.
func (a *NationalArchives) Origin() string {
	return a.origin
}

// ListingRows implements Adapter. Search results are laid out as table rows.
func (a *NationalArchives) ListingRows(doc *markup.Document) []*goquery.Selection {
	return doc.FindAll("tr")
}

// LocateTitle implements Adapter. The link is the first <a> inside the
// div.judgments-table__title container and must carry an href.
func (a *NationalArchives) LocateTitle(row *goquery.Selection) (*goquery.Selection, bool) {
	container, ok := markup.FindIn(row, "div", classTitle)
	if !ok {
		return nil, false
	}

	link, ok := markup.FindIn(container, "a", "")
	if !ok {
		return nil, false
	}
	if _, hasHref := link.Attr("href"); !hasHref {
		return nil, false
	}
	return link, true
}

// LocateMetadataFields implements Adapter.
func (a *NationalArchives) LocateMetadataFields(row *goquery.Selection) Metadata {
	return Metadata{
		Court:    textOrSentinel(row, "span", classCourt),
		Citation: textOrSentinel(row, "span", classNeutralCitation),
		Date:     textOrSentinel(row, "time", ""),
	}
}

// LocateBody implements Adapter. div.judgment-body is preferred; the first
// <article> is the fallback.
func (a *NationalArchives) LocateBody(doc *markup.Document) (*goquery.Selection, bool) {
	if body, ok := doc.FindFirst("div", classJudgmentBody); ok {
		return body, true
	}
	return doc.FindFirst("article", "")
}

// LocateDocumentLinks implements Adapter.
func (a *NationalArchives) LocateDocumentLinks(doc *markup.Document) DocumentLinks {
	return ScanDocumentLinks(doc.Anchors(), a.origin)
}

func textOrSentinel(scope *goquery.Selection, tag, class string) string {
	sel, ok := markup.FindIn(scope, tag, class)
	if !ok {
		return domain.Sentinel
	}
	return markup.Text(sel, "")
}
