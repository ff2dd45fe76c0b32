package reader

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/tsawler/preflight/internal/pdftest"
	"github.com/tsawler/preflight/model"
)

func TestMain(m *testing.M) {
	// Keep pdfcpu from creating a config dir in the user's home.
	pdfmodel.ConfigPath = "disable"
	os.Exit(m.Run())
}

// testDocument has two pages: the first draws an image and sets a TrimBox,
// the second has split content streams, a font, an RGB colour space, an
// ArtBox and a BleedBox, and is a transparency group.
func testDocument() pdftest.Document {
	return pdftest.Document{
		Objects: []string{
			// 1
			"<< /Type /Catalog /Pages 2 0 R /OutputIntents [<< /Type /OutputIntent /S /GTS_PDFX /OutputConditionIdentifier (FOGRA39) /Info <FEFF0043> /Count 1 >>] >>",
			// 2
			"<< /Type /Pages /Kids [3 0 R 6 0 R] /Count 2 /MediaBox [0 0 612 792] >>",
			// 3
			"<< /Type /Page /Parent 2 0 R /Resources << /XObject << /Im1 5 0 R >> >> /Contents 4 0 R /TrimBox [10 10 602 782] >>",
			// 4
			pdftest.Stream("", "q 300 0 0 150 0 0 cm /Im1 Do Q"),
			// 5
			pdftest.Stream("/Type /XObject /Subtype /Image /Width 600 /Height 300 /ColorSpace /DeviceGray /BitsPerComponent 8", ""),
			// 6
			"<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 10 0 R >> /ColorSpace << /CS0 [/CalRGB << /WhitePoint [1 1 1] >>] /CS1 /DeviceCMYK >> >> /Contents [7 0 R 8 0 R] /ArtBox [0 0 100 100] /BleedBox [0 0 200 200] /Group << /S /Transparency >> >>",
			// 7
			pdftest.Stream("", "q"),
			// 8
			pdftest.Stream("", "Q"),
			// 9
			"<< /Title (Test Document) /Author <FEFF00410062> /Trapped /False >>",
			// 10
			"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
			// 11
			"<< /Type /Filespec /F (artwork.eps) >>",
			// 12
			"[<< /Type /Filespec /F (nested.eps) >>]",
			// 13
			pdftest.Stream("/Filter [/ASCIIHexDecode]", "48656C6C6F>"),
			// 14
			pdftest.Stream("/Filter /LZWDecode /DecodeParms << /EarlyChange 0 >>", ""),
		},
		Info: 9,
		ID:   "[<0123ABCD> <0123ABCD>]",
	}
}

func openTestDocument(t *testing.T, doc pdftest.Document) *Reader {
	t.Helper()

	r, err := NewReader(bytes.NewReader(doc.Bytes()))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	return r
}

// TestOpen tests opening a PDF file from disk
func TestOpen(t *testing.T) {
	path := testDocument().WriteFile(t, "test.pdf")

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if r.PageCount() != 2 {
		t.Errorf("expected 2 pages, got %d", r.PageCount())
	}

	if err := r.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	// Closing twice is harmless
	if err := r.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

// TestOpenNonExistent tests opening a missing file
func TestOpenNonExistent(t *testing.T) {
	_, err := Open("/nonexistent/file.pdf")
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
	if !strings.Contains(err.Error(), "failed to open file") {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestNewReaderInvalid tests rejecting data that is not a PDF
func TestNewReaderInvalid(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte("not a pdf at all")))
	if err == nil {
		t.Fatal("expected error for invalid PDF")
	}
}

// TestVersion tests reading the header version
func TestVersion(t *testing.T) {
	doc := testDocument()
	doc.Version = "1.6"

	r := openTestDocument(t, doc)
	if got := r.Version(); got != "1.6" {
		t.Errorf("expected version 1.6, got %s", got)
	}
}

// TestPage tests loading the first page
func TestPage(t *testing.T) {
	r := openTestDocument(t, testDocument())

	page, err := r.Page(1)
	if err != nil {
		t.Fatalf("Page(1) failed: %v", err)
	}

	if page.Number != 1 {
		t.Errorf("expected page number 1, got %d", page.Number)
	}
	if !strings.Contains(string(page.Content), "/Im1 Do") {
		t.Errorf("unexpected content %q", page.Content)
	}

	img, ok := page.Image("Im1")
	if !ok {
		t.Fatal("expected Im1 in page images")
	}
	if img.Width != 600 || img.Height != 300 {
		t.Errorf("expected 600x300 image, got %dx%d", img.Width, img.Height)
	}
	if img.ColorSpace != "DeviceGray" || img.RGB || img.SoftMask {
		t.Errorf("unexpected image attributes %+v", img)
	}

	wantMedia := model.BBox{X: 0, Y: 0, Width: 612, Height: 792}
	if page.MediaBox != wantMedia {
		t.Errorf("expected inherited MediaBox %+v, got %+v", wantMedia, page.MediaBox)
	}
	if !page.HasTrimBox {
		t.Error("expected HasTrimBox")
	}
	wantTrim := model.BBox{X: 10, Y: 10, Width: 592, Height: 772}
	if page.TrimBox != wantTrim {
		t.Errorf("expected TrimBox %+v, got %+v", wantTrim, page.TrimBox)
	}
	if page.HasArtBox {
		t.Error("expected no ArtBox")
	}
	if page.HasBleedBox {
		t.Error("expected no BleedBox")
	}
	if page.ArtBox != page.MediaBox || page.BleedBox != page.MediaBox {
		t.Error("expected ArtBox and BleedBox to default to MediaBox")
	}
	if page.TransparencyGroup {
		t.Error("unexpected transparency group")
	}
	if len(page.Fonts) != 0 || len(page.RGBColorSpaces) != 0 {
		t.Errorf("unexpected resources: fonts %v colour spaces %v", page.Fonts, page.RGBColorSpaces)
	}

	ops, err := page.Operations()
	if err != nil {
		t.Fatalf("Operations failed: %v", err)
	}
	if len(ops) != 4 {
		t.Errorf("expected 4 operations, got %d", len(ops))
	}
}

// TestPageContentArray tests concatenation of split content streams
func TestPageContentArray(t *testing.T) {
	r := openTestDocument(t, testDocument())

	page, err := r.Page(2)
	if err != nil {
		t.Fatalf("Page(2) failed: %v", err)
	}

	if got := string(page.Content); got != "q\nQ" {
		t.Errorf("expected content %q, got %q", "q\nQ", got)
	}
	if len(page.Images) != 0 {
		t.Errorf("expected no images, got %v", page.Images)
	}
	if !page.HasArtBox || page.HasTrimBox {
		t.Errorf("expected ArtBox only, got trim=%v art=%v", page.HasTrimBox, page.HasArtBox)
	}
	if !page.HasBleedBox {
		t.Error("expected HasBleedBox")
	}
	wantBleed := model.BBox{X: 0, Y: 0, Width: 200, Height: 200}
	if page.BleedBox != wantBleed {
		t.Errorf("expected BleedBox %+v, got %+v", wantBleed, page.BleedBox)
	}
	if !page.TransparencyGroup {
		t.Error("expected page to be a transparency group")
	}

	font, ok := page.Fonts["F1"]
	if !ok {
		t.Fatal("expected F1 in page fonts")
	}
	if font.BaseFont != "Helvetica" || font.Embedded {
		t.Errorf("unexpected font %+v", font)
	}
	if diff := cmp.Diff(map[string]bool{"CS0": true}, page.RGBColorSpaces); diff != "" {
		t.Errorf("colour spaces mismatch (-want +got):\n%s", diff)
	}
}

// TestPageContentCycle tests a contents array that contains itself
func TestPageContentCycle(t *testing.T) {
	doc := pdftest.Document{
		Objects: []string{
			// 1
			"<< /Type /Catalog /Pages 2 0 R >>",
			// 2
			"<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 612 792] >>",
			// 3
			"<< /Type /Page /Parent 2 0 R /Contents 4 0 R >>",
			// 4
			"[4 0 R 5 0 R]",
			// 5
			pdftest.Stream("", "q Q"),
		},
	}
	r := openTestDocument(t, doc)

	page, err := r.Page(1)
	if err != nil {
		t.Fatalf("Page(1) failed: %v", err)
	}
	if got := string(page.Content); got != "q Q" {
		t.Errorf("expected content %q, got %q", "q Q", got)
	}
}

// TestPageOutOfRange tests page numbers outside the document
func TestPageOutOfRange(t *testing.T) {
	r := openTestDocument(t, testDocument())

	for _, n := range []int{0, -1, 3} {
		_, err := r.Page(n)
		if !errors.Is(err, ErrPageOutOfRange) {
			t.Errorf("Page(%d): expected ErrPageOutOfRange, got %v", n, err)
		}
	}
}

// TestInfo tests decoding the Info dictionary
func TestInfo(t *testing.T) {
	r := openTestDocument(t, testDocument())

	info, err := r.Info()
	if err != nil {
		t.Fatalf("Info failed: %v", err)
	}

	want := map[string]string{
		"Title":   "Test Document",
		"Author":  "Ab",
		"Trapped": "False",
	}
	if diff := cmp.Diff(want, info); diff != "" {
		t.Errorf("info mismatch (-want +got):\n%s", diff)
	}
}

// TestInfoMissing tests a document without an Info dictionary
func TestInfoMissing(t *testing.T) {
	doc := testDocument()
	doc.Info = 0
	doc.ID = ""

	r := openTestDocument(t, doc)

	info, err := r.Info()
	if err != nil {
		t.Fatalf("Info failed: %v", err)
	}
	if len(info) != 0 {
		t.Errorf("expected empty info, got %v", info)
	}
	if ids := r.ID(); ids != nil {
		t.Errorf("expected no ID, got %v", ids)
	}
}

// TestCatalogKeys tests listing the catalog entries
func TestCatalogKeys(t *testing.T) {
	r := openTestDocument(t, testDocument())

	keys, err := r.CatalogKeys()
	if err != nil {
		t.Fatalf("CatalogKeys failed: %v", err)
	}
	if diff := cmp.Diff([]string{"OutputIntents", "Pages", "Type"}, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

// TestOutputIntents tests decoding the catalog's output intents
func TestOutputIntents(t *testing.T) {
	r := openTestDocument(t, testDocument())

	intents, err := r.OutputIntents()
	if err != nil {
		t.Fatalf("OutputIntents failed: %v", err)
	}

	want := []map[string]string{{
		"Type":                      "OutputIntent",
		"S":                         "GTS_PDFX",
		"OutputConditionIdentifier": "FOGRA39",
		"Info":                      "C",
		"Count":                     "",
	}}
	if diff := cmp.Diff(want, intents); diff != "" {
		t.Errorf("output intents mismatch (-want +got):\n%s", diff)
	}
}

// TestOutputIntentsMissing tests a catalog without output intents
func TestOutputIntentsMissing(t *testing.T) {
	doc := testDocument()
	doc.Objects[0] = "<< /Type /Catalog /Pages 2 0 R >>"

	intents, err := openTestDocument(t, doc).OutputIntents()
	if err != nil {
		t.Fatalf("OutputIntents failed: %v", err)
	}
	if len(intents) != 0 {
		t.Errorf("expected no output intents, got %v", intents)
	}
}

// TestStreamFilters tests collecting the filters of every stream
func TestStreamFilters(t *testing.T) {
	r := openTestDocument(t, testDocument())

	filters, err := r.StreamFilters()
	if err != nil {
		t.Fatalf("StreamFilters failed: %v", err)
	}
	if diff := cmp.Diff([]string{"ASCIIHexDecode", "LZWDecode"}, filters); diff != "" {
		t.Errorf("filters mismatch (-want +got):\n%s", diff)
	}
}

// TestFilespecs tests counting file specifications, nested ones included
func TestFilespecs(t *testing.T) {
	r := openTestDocument(t, testDocument())

	n, err := r.Filespecs()
	if err != nil {
		t.Fatalf("Filespecs failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 filespecs, got %d", n)
	}
}

// TestID tests reading the trailer identifiers
func TestID(t *testing.T) {
	r := openTestDocument(t, testDocument())

	if diff := cmp.Diff([]string{"0123abcd", "0123abcd"}, r.ID()); diff != "" {
		t.Errorf("ID mismatch (-want +got):\n%s", diff)
	}
}

// TestDecodeTextString tests PDF text string decoding
func TestDecodeTextString(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{"ascii", []byte("Hello"), "Hello"},
		{"latin-1", []byte{'c', 'a', 'f', 0xE9}, "café"},
		{"utf-16be", []byte{0xFE, 0xFF, 0x00, 'H', 0x00, 'i'}, "Hi"},
		{"utf-16be non-latin", []byte{0xFE, 0xFF, 0x65, 0xE5}, "日"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeTextString(tt.input); got != tt.expected {
				t.Errorf("decodeTextString(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
