package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"caselaw-scraper/pkg/domain"
	"caselaw-scraper/pkg/httpclient"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrEmptyPDF is returned when a PDF URL answers with an empty body.
	ErrEmptyPDF = errors.New("pdf content is empty")

	// ErrNoPages is returned for a document that opens but has no pages.
	ErrNoPages = errors.New("pdf has no pages")

	errNilPDFDocument = errors.New("pdf document is nil")
)

// ConversionStatus describes how a PDF conversion ended.
type ConversionStatus string

const (
	StatusConverted        ConversionStatus = "converted"
	StatusSkipped          ConversionStatus = "skipped"
	StatusConversionFailed ConversionStatus = "conversion_failed"
)

// ConversionResult holds the HTML rendering of a PDF, or a sentinel.
type ConversionResult struct {
	HTML   string
	Status ConversionStatus
	Err    error
}

// PDFConverter downloads PDFs and renders their text as HTML.
type PDFConverter struct {
	fetcher httpclient.Fetcher
}

// NewPDFConverter creates a converter. fetcher should be a PlainClient.
func NewPDFConverter(fetcher httpclient.Fetcher) *PDFConverter {
	return &PDFConverter{fetcher: fetcher}
}

// Convert fetches pdfURL and renders every page to HTML.
//
// An absent URL is skipped without any request. Conversion is all or nothing:
// if the fetch, the open or any single page fails, HTML is "Conversion Error".
func (c *PDFConverter) Convert(ctx context.Context, pdfURL string) ConversionResult {
	if domain.IsAbsent(strings.TrimSpace(pdfURL)) {
		return ConversionResult{HTML: domain.Sentinel, Status: StatusSkipped}
	}

	data, err := c.fetcher.Fetch(ctx, pdfURL)
	if err != nil {
		return failedConversion(err)
	}

	out, err := RenderPDFAsHTML(data)
	if err != nil {
		return failedConversion(fmt.Errorf("failed to convert %s: %w", pdfURL, err))
	}

	return ConversionResult{HTML: out, Status: StatusConverted}
}

func failedConversion(err error) ConversionResult {
	return ConversionResult{
		HTML:   domain.ConversionErrorSentinel,
		Status: StatusConversionFailed,
		Err:    err,
	}
}

// RenderPDFAsHTML renders the text of every page in data as an HTML fragment
// and concatenates the fragments in page order.
//
// Each page becomes a div sized in points with one paragraph per text row.
// Malformed documents can make the PDF reader panic; the panic is returned as
// an error.
func RenderPDFAsHTML(data []byte) (out string, err error) {
	if len(data) == 0 {
		return "", ErrEmptyPDF
	}

	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	return renderDocument(doc)
}

func renderDocument(doc *pdf.Reader) (string, error) {
	if doc == nil {
		return "", errNilPDFDocument
	}

	numPages := doc.NumPage()
	if numPages == 0 {
		return "", ErrNoPages
	}

	var buf strings.Builder
	for i := 1; i <= numPages; i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			return "", fmt.Errorf("page %d is missing", i)
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("failed to read text of page %d: %w", i, err)
		}

		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			var line strings.Builder
			for _, text := range row.Content {
				line.WriteString(text.S)
			}
			lines = append(lines, line.String())
		}

		width, height := pageSize(page)
		// Page ids are zero-based.
		buf.WriteString(renderPage(i-1, width, height, lines))
	}

	return buf.String(), nil
}

// renderPage formats one page fragment. Blank lines are dropped and the rest
// are HTML-escaped.
func renderPage(index int, width, height float64, lines []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<div id=\"page%d\" style=\"width:%.1fpt;height:%.1fpt\">\n", index, width, height)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(line))
	}
	b.WriteString("</div>\n")

	return b.String()
}

// pageSize reads the MediaBox of a page, looking up the page tree when the
// page inherits it. A page without one is reported as 0x0.
func pageSize(page pdf.Page) (width, height float64) {
	box := page.V.Key("MediaBox")
	for parent := page.V.Key("Parent"); box.Kind() != pdf.Array && !parent.IsNull(); parent = parent.Key("Parent") {
		box = parent.Key("MediaBox")
	}

	if box.Kind() != pdf.Array || box.Len() < 4 {
		return 0, 0
	}

	width = box.Index(2).Float64() - box.Index(0).Float64()
	height = box.Index(3).Float64() - box.Index(1).Float64()
	return width, height
}
