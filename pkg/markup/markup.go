// Package markup parses HTML pages into a queryable document tree.
//
// Parsing is best effort: malformed markup still yields a tree, the same way a
// browser would recover from it.
package markup

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Document is a parsed HTML page.
type Document struct {
	doc *goquery.Document
}

// Anchor is a link element that carries an href attribute.
type Anchor struct {
	Href string
	Text string
}

// Parse parses an HTML body, sniffing its encoding from the markup.
func Parse(body []byte) (*Document, error) {
	return ParseWithContentType(body, "")
}

// ParseWithContentType parses an HTML body using the Content-Type header as an
// encoding hint. Non UTF-8 input is decoded before parsing.
func ParseWithContentType(body []byte, contentType string) (*Document, error) {
	data := decode(body, contentType)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// NewDocument wraps an already parsed goquery document.
func NewDocument(doc *goquery.Document) *Document {
	return &Document{doc: doc}
}

// Root returns the document root selection.
func (d *Document) Root() *goquery.Selection {
	return d.doc.Selection
}

// FindFirst returns the first element with the given tag name and, when class
// is non-empty, the given class among its class tokens.
func (d *Document) FindFirst(tag, class string) (*goquery.Selection, bool) {
	return FindIn(d.doc.Selection, tag, class)
}

// FindAll returns every element with the given tag name, in document order.
func (d *Document) FindAll(tag string) []*goquery.Selection {
	return FindAllIn(d.doc.Selection, tag)
}

// Anchors returns every <a> element that has an href attribute, in document order.
func (d *Document) Anchors() []Anchor {
	var anchors []Anchor
	d.doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		anchors = append(anchors, Anchor{
			Href: href,
			Text: Text(sel, ""),
		})
	})
	return anchors
}

// FindIn is FindFirst scoped to the descendants of scope.
func FindIn(scope *goquery.Selection, tag, class string) (*goquery.Selection, bool) {
	if scope == nil {
		return nil, false
	}

	matches := scope.Find(tag)
	if class != "" {
		matches = matches.FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.HasClass(class)
		})
	}

	if matches.Length() == 0 {
		return nil, false
	}
	return matches.First(), true
}

// FindAllIn is FindAll scoped to the descendants of scope.
func FindAllIn(scope *goquery.Selection, tag string) []*goquery.Selection {
	if scope == nil {
		return nil
	}

	var out []*goquery.Selection
	scope.Find(tag).Each(func(_ int, s *goquery.Selection) {
		out = append(out, s)
	})
	return out
}

// Text returns the visible text of sel. Each text node is trimmed, empty ones
// are dropped, and the rest are joined with separator. Script, style and
// template contents are not visible text.
func Text(sel *goquery.Selection, separator string) string {
	if sel == nil {
		return ""
	}

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "template":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, separator)
}

// decode converts body to UTF-8. A guessed encoding never overrides a body that
// is already valid UTF-8; only a declared charset or invalid input is decoded.
func decode(body []byte, contentType string) []byte {
	enc, _, certain := charset.DetermineEncoding(body, contentType)
	if !certain && utf8.Valid(body) {
		return body
	}

	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return body
	}
	return out
}
