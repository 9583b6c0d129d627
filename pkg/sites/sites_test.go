package sites

import (
	"testing"

	"caselaw-scraper/pkg/domain"
	"caselaw-scraper/pkg/markup"
)

func TestResolveURL(t *testing.T) {
	origin := "https://caselaw.nationalarchives.gov.uk"

	tests := []struct {
		name string
		href string
		want string
	}{
		{"root relative", "/ewhc/ch/2024/1", origin + "/ewhc/ch/2024/1"},
		{"absolute", "https://other.example/a.pdf", "https://other.example/a.pdf"},
		{"path relative is left alone", "a/b.pdf", "a/b.pdf"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveURL(origin, tt.href)
			if got != tt.want {
				t.Fatalf("ResolveURL(%q) = %q, want %q", tt.href, got, tt.want)
			}
			// Resolving an already resolved URL must not change it
			if again := ResolveURL(origin, got); again != got {
				t.Errorf("ResolveURL is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestScanDocumentLinks_LastMatchWins(t *testing.T) {
	anchors := []markup.Anchor{
		{Href: "/first.pdf"},
		{Href: "/doc/data.XML"},
		{Href: "/about"},
		{Href: "https://cdn.example/second.PDF"},
		{Href: "/doc/final.xml"},
	}

	links := ScanDocumentLinks(anchors, "https://origin.test")

	if links.PDF != "https://cdn.example/second.PDF" {
		t.Errorf("Expected last PDF link to win, got %q", links.PDF)
	}
	if links.XML != "https://origin.test/doc/final.xml" {
		t.Errorf("Expected last XML link to win, got %q", links.XML)
	}
}

func TestScanDocumentLinks_NoMatches(t *testing.T) {
	links := ScanDocumentLinks([]markup.Anchor{{Href: "/home"}, {Href: "#top"}}, "https://origin.test")

	if links.PDF != domain.Sentinel || links.XML != domain.Sentinel {
		t.Errorf("Expected both links to be %q, got %+v", domain.Sentinel, links)
	}
}

func TestScanDocumentLinks_SubstringMatch(t *testing.T) {
	// ".pdf" anywhere in the href counts, not just as the extension
	links := ScanDocumentLinks([]markup.Anchor{{Href: "/download.pdf?lang=en"}}, "https://origin.test")

	if links.PDF != "https://origin.test/download.pdf?lang=en" {
		t.Errorf("Unexpected PDF link %q", links.PDF)
	}
}

const listingRowsHTML = `<table>
<tr><th>Header row</th></tr>
<tr>
  <td><div class="judgments-table__title"><a href="/ewca/civ/2024/10">  Alpha v Beta  </a></div></td>
  <td><span class="judgments-table__court">Court of Appeal</span></td>
  <td><span class="judgments-table__neutral-citation">[2024] EWCA Civ 10</span></td>
  <td><time datetime="2024-01-02">2 Jan 2024</time></td>
</tr>
<tr><td><div class="judgments-table__title">No link here</div></td></tr>
<tr><td><div class="judgments-table__title"><a href="/uksc/2024/3">Gamma v Delta</a></div></td></tr>
</table>`

func TestNationalArchives_ListingRows(t *testing.T) {
	doc, err := markup.Parse([]byte(listingRowsHTML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	adapter := NewNationalArchives("")
	rows := adapter.ListingRows(doc)
	if len(rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(rows))
	}

	if _, ok := adapter.LocateTitle(rows[0]); ok {
		t.Error("Header row should have no title")
	}
	if _, ok := adapter.LocateTitle(rows[2]); ok {
		t.Error("Row without link should have no title")
	}

	link, ok := adapter.LocateTitle(rows[1])
	if !ok {
		t.Fatal("Expected title link in row 1")
	}
	if got := markup.Text(link, ""); got != "Alpha v Beta" {
		t.Errorf("Unexpected title %q", got)
	}

	meta := adapter.LocateMetadataFields(rows[1])
	want := Metadata{Court: "Court of Appeal", Citation: "[2024] EWCA Civ 10", Date: "2 Jan 2024"}
	if meta != want {
		t.Errorf("LocateMetadataFields() = %+v, want %+v", meta, want)
	}

	meta = adapter.LocateMetadataFields(rows[3])
	if meta.Court != domain.Sentinel || meta.Citation != domain.Sentinel || meta.Date != domain.Sentinel {
		t.Errorf("Expected sentinel metadata, got %+v", meta)
	}
}

func TestNationalArchives_LocateBody(t *testing.T) {
	adapter := NewNationalArchives("https://origin.test")

	tests := []struct {
		name   string
		html   string
		want   string
		wantOK bool
	}{
		{"primary", `<article>fallback</article><div class="judgment-body"><p>primary</p></div>`, "primary", true},
		{"article fallback", `<article><p>fallback</p></article>`, "fallback", true},
		{"none", `<div><p>nothing</p></div>`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := markup.Parse([]byte(tt.html))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			body, ok := adapter.LocateBody(doc)
			if ok != tt.wantOK {
				t.Fatalf("LocateBody ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && markup.Text(body, "\n") != tt.want {
				t.Errorf("Body text = %q, want %q", markup.Text(body, "\n"), tt.want)
			}
		})
	}
}
