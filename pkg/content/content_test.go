package content

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"caselaw-scraper/pkg/domain"
	"caselaw-scraper/pkg/markup"
	"caselaw-scraper/pkg/sites"

	"github.com/jung-kurt/gofpdf"
)

// mockFetcher returns canned bodies keyed by URL and counts requests.
type mockFetcher struct {
	bodies map[string][]byte
	errs   map[string]error
	calls  int
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	m.calls++
	if err, ok := m.errs[url]; ok {
		return nil, err
	}
	return m.bodies[url], nil
}

const origin = "https://origin.test"

const detailPage = `<html><body>
<nav><a href="/judgments/search">Search</a></nav>
<div class="judgment-body">
  <p>IN THE COURT OF APPEAL</p>
  <p>Judgment approved.</p>
</div>
<a href="/ewca/civ/2024/10/data.pdf">Download PDF</a>
<a href="/ewca/civ/2024/10/data.xml">Download XML</a>
</body></html>`

func TestDetailExtractor_Extract(t *testing.T) {
	url := origin + "/ewca/civ/2024/10"
	fetcher := &mockFetcher{bodies: map[string][]byte{url: []byte(detailPage)}}

	extractor := NewDetailExtractor(fetcher, sites.NewNationalArchives(origin))
	result := extractor.Extract(context.Background(), url)

	if result.Status != StatusOK {
		t.Fatalf("Expected status %q, got %q (err: %v)", StatusOK, result.Status, result.Err)
	}
	if result.RawText != "IN THE COURT OF APPEAL\nJudgment approved." {
		t.Errorf("Unexpected raw text: %q", result.RawText)
	}
	if result.PDFLink != origin+"/ewca/civ/2024/10/data.pdf" {
		t.Errorf("Unexpected PDF link: %q", result.PDFLink)
	}
	if result.XMLLink != origin+"/ewca/civ/2024/10/data.xml" {
		t.Errorf("Unexpected XML link: %q", result.XMLLink)
	}
}

func TestDetailExtractor_NoBody(t *testing.T) {
	url := origin + "/page"
	fetcher := &mockFetcher{bodies: map[string][]byte{
		url: []byte(`<html><body><div>Not a judgment</div><a href="/x.pdf">pdf</a></body></html>`),
	}}

	result := NewDetailExtractor(fetcher, sites.NewNationalArchives(origin)).Extract(context.Background(), url)

	if result.Status != StatusNoBody {
		t.Errorf("Expected status %q, got %q", StatusNoBody, result.Status)
	}
	if result.RawText != domain.Sentinel {
		t.Errorf("Expected raw text %q, got %q", domain.Sentinel, result.RawText)
	}
	// Links are still scanned when there is no body
	if result.PDFLink != origin+"/x.pdf" {
		t.Errorf("Unexpected PDF link: %q", result.PDFLink)
	}
	if result.XMLLink != domain.Sentinel {
		t.Errorf("Expected XML link %q, got %q", domain.Sentinel, result.XMLLink)
	}
}

func TestDetailExtractor_ReadabilityFallback(t *testing.T) {
	url := origin + "/page"
	page := `<html><head><title>Case</title></head><body><div id="main">` +
		strings.Repeat("<p>The court considered the appeal at length and dismissed it for the reasons given below.</p>", 10) +
		`</div></body></html>`
	fetcher := &mockFetcher{bodies: map[string][]byte{url: []byte(page)}}

	extractor := NewDetailExtractor(fetcher, sites.NewNationalArchives(origin))
	extractor.ReadabilityFallback = true
	result := extractor.Extract(context.Background(), url)

	if result.Status != StatusNoBody {
		t.Errorf("Expected status %q, got %q", StatusNoBody, result.Status)
	}
	if !strings.Contains(result.RawText, "dismissed it") {
		t.Errorf("Expected readability text, got %q", result.RawText)
	}
}

func TestDetailExtractor_FetchError(t *testing.T) {
	url := origin + "/down"
	fetchErr := errors.New("connection reset")
	fetcher := &mockFetcher{errs: map[string]error{url: fetchErr}}

	result := NewDetailExtractor(fetcher, sites.NewNationalArchives(origin)).Extract(context.Background(), url)

	if result.Status != StatusFetchFailed {
		t.Errorf("Expected status %q, got %q", StatusFetchFailed, result.Status)
	}
	if !errors.Is(result.Err, fetchErr) {
		t.Errorf("Expected fetch error to be kept, got %v", result.Err)
	}
	if result.RawText != domain.FetchErrorSentinel || result.PDFLink != domain.Sentinel || result.XMLLink != domain.Sentinel {
		t.Errorf("Expected (Error, N/A, N/A), got (%q, %q, %q)", result.RawText, result.PDFLink, result.XMLLink)
	}
}

// panicAdapter simulates a parser blowing up on unexpected markup.
type panicAdapter struct {
	*sites.NationalArchives
}

func (panicAdapter) LocateDocumentLinks(doc *markup.Document) sites.DocumentLinks {
	panic("unexpected markup")
}

func TestDetailExtractor_RecoversPanic(t *testing.T) {
	url := origin + "/odd"
	fetcher := &mockFetcher{bodies: map[string][]byte{url: []byte(detailPage)}}

	adapter := panicAdapter{sites.NewNationalArchives(origin)}
	result := NewDetailExtractor(fetcher, adapter).Extract(context.Background(), url)

	if result.Status != StatusParseFailed {
		t.Errorf("Expected status %q, got %q", StatusParseFailed, result.Status)
	}
	if result.RawText != domain.FetchErrorSentinel {
		t.Errorf("Expected raw text %q, got %q", domain.FetchErrorSentinel, result.RawText)
	}
}

func TestPDFConverter_SkipsAbsentURL(t *testing.T) {
	fetcher := &mockFetcher{}
	converter := NewPDFConverter(fetcher)

	for _, url := range []string{"", "  ", domain.Sentinel} {
		result := converter.Convert(context.Background(), url)
		if result.HTML != domain.Sentinel || result.Status != StatusSkipped {
			t.Errorf("Convert(%q) = %+v, want skipped %q", url, result, domain.Sentinel)
		}
	}

	if fetcher.calls != 0 {
		t.Errorf("Expected no fetches for absent URLs, got %d", fetcher.calls)
	}
}

func TestPDFConverter_FetchError(t *testing.T) {
	url := origin + "/doc.pdf"
	fetcher := &mockFetcher{errs: map[string]error{url: errors.New("timeout")}}

	result := NewPDFConverter(fetcher).Convert(context.Background(), url)
	if result.HTML != domain.ConversionErrorSentinel {
		t.Errorf("Expected %q, got %q", domain.ConversionErrorSentinel, result.HTML)
	}
	if result.Status != StatusConversionFailed {
		t.Errorf("Expected status %q, got %q", StatusConversionFailed, result.Status)
	}
}

func TestPDFConverter_NotAPDF(t *testing.T) {
	url := origin + "/doc.pdf"
	fetcher := &mockFetcher{bodies: map[string][]byte{url: []byte("<html>not found</html>")}}

	result := NewPDFConverter(fetcher).Convert(context.Background(), url)
	if result.HTML != domain.ConversionErrorSentinel {
		t.Errorf("Expected %q, got %q", domain.ConversionErrorSentinel, result.HTML)
	}
	if result.Err == nil {
		t.Error("Expected the cause to be kept")
	}
}

func TestPDFConverter_Convert(t *testing.T) {
	url := origin + "/doc.pdf"
	fetcher := &mockFetcher{bodies: map[string][]byte{url: samplePDF(t, "Judgment", "Order")}}

	result := NewPDFConverter(fetcher).Convert(context.Background(), url)
	if result.Status != StatusConverted {
		t.Fatalf("Expected status %q, got %q (err: %v)", StatusConverted, result.Status, result.Err)
	}

	for _, want := range []string{
		`<div id="page0" style="width:595.3pt;height:841.9pt">`,
		`<div id="page1" style="width:595.3pt;height:841.9pt">`,
		"Judgment",
		"Order",
	} {
		if !strings.Contains(result.HTML, want) {
			t.Errorf("Expected HTML to contain %q, got:\n%s", want, result.HTML)
		}
	}

	// Pages are concatenated in order with no separator
	if strings.Index(result.HTML, "page0") > strings.Index(result.HTML, "page1") {
		t.Error("Expected page0 before page1")
	}
	if !strings.Contains(result.HTML, "</div>\n<div id=\"page1\"") {
		t.Errorf("Expected page fragments to be adjacent, got:\n%s", result.HTML)
	}
}

func TestRenderPDFAsHTML_Empty(t *testing.T) {
	if _, err := RenderPDFAsHTML(nil); !errors.Is(err, ErrEmptyPDF) {
		t.Fatalf("Expected ErrEmptyPDF, got %v", err)
	}
}

func TestRenderPDFAsHTML_Truncated(t *testing.T) {
	data := samplePDF(t, "Judgment")

	if _, err := RenderPDFAsHTML(data[:len(data)/2]); err == nil {
		t.Fatal("Expected an error for a truncated PDF")
	}
}

func TestRenderPage_EscapesText(t *testing.T) {
	got := renderPage(3, 100, 841.89, []string{"Smith & Jones <Ltd>", "   ", " R v \"X\" "})
	want := "<div id=\"page3\" style=\"width:100.0pt;height:841.9pt\">\n" +
		"<p>Smith &amp; Jones &lt;Ltd&gt;</p>\n" +
		"<p>R v &#34;X&#34;</p>\n" +
		"</div>\n"
	if got != want {
		t.Errorf("renderPage() = %q, want %q", got, want)
	}
}

// samplePDF builds an A4 document with one page per text.
func samplePDF(t *testing.T, pages ...string) []byte {
	t.Helper()

	doc := gofpdf.New("P", "pt", "A4", "")
	doc.SetCompression(false)
	doc.SetFont("Helvetica", "", 12)
	for _, text := range pages {
		doc.AddPage()
		doc.Text(72, 72, text)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("failed to build PDF fixture: %v", err)
	}
	return buf.Bytes()
}
