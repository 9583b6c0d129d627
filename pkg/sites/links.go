package sites

import (
	"strings"

	"caselaw-scraper/pkg/domain"
	"caselaw-scraper/pkg/markup"
)

// DocumentLinks are the source document URLs found on a detail page.
// Either field is domain.Sentinel when no matching link exists.
type DocumentLinks struct {
	PDF string
	XML string
}

// ScanDocumentLinks looks at every anchor href for a ".pdf" or ".xml"
// substring, ignoring case.
//
// Every match overwrites the previous one, so the LAST matching anchor of each
// kind in document order wins. A single href containing both substrings sets
// both links. Root-relative hrefs are resolved against origin.
func ScanDocumentLinks(anchors []markup.Anchor, origin string) DocumentLinks {
	links := DocumentLinks{PDF: domain.Sentinel, XML: domain.Sentinel}

	for _, a := range anchors {
		lower := strings.ToLower(a.Href)
		if strings.Contains(lower, ".pdf") {
			links.PDF = ResolveURL(origin, a.Href)
		}
		if strings.Contains(lower, ".xml") {
			links.XML = ResolveURL(origin, a.Href)
		}
	}

	return links
}
