package rules

import (
	"errors"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tsawler/preflight/pages"
)

// fakeDocument is an in-memory Document
type fakeDocument struct {
	pageCount     int
	version       string
	info          map[string]string
	infoErr       error
	catalogKeys   []string
	catalogErr    error
	id            []string
	outputIntents []map[string]string
	filters       []string
	filespecs     int
	objectsErr    error
}

func (d *fakeDocument) PageCount() int                   { return d.pageCount }
func (d *fakeDocument) Version() string                  { return d.version }
func (d *fakeDocument) Info() (map[string]string, error) { return d.info, d.infoErr }
func (d *fakeDocument) CatalogKeys() ([]string, error)   { return d.catalogKeys, d.catalogErr }
func (d *fakeDocument) ID() []string                     { return d.id }
func (d *fakeDocument) OutputIntents() ([]map[string]string, error) {
	return d.outputIntents, d.catalogErr
}
func (d *fakeDocument) StreamFilters() ([]string, error) { return d.filters, d.objectsErr }
func (d *fakeDocument) Filespecs() (int, error)          { return d.filespecs, d.objectsErr }

func compliantDocument() *fakeDocument {
	return &fakeDocument{
		pageCount: 1,
		version:   "1.3",
		info: map[string]string{
			"Title":           "Brochure",
			"CreationDate":    "D:20240101000000Z",
			"ModDate":         "D:20240101000000Z",
			"Trapped":         "False",
			"GTS_PDFXVersion": "PDF/X-1:2001",
		},
		catalogKeys: []string{"OutputIntents", "Pages", "Type"},
		id:          []string{"01", "01"},
		outputIntents: []map[string]string{{
			"Type":                      "OutputIntent",
			"S":                         "GTS_PDFX",
			"OutputConditionIdentifier": "CGATS TR 001",
			"Info":                      "SWOP",
		}},
		filters: []string{"DCTDecode", "FlateDecode"},
	}
}

type documentRule interface {
	Rule
	DocumentRule
}

var (
	_ DocumentRule = (*InfoHasKeys)(nil)
	_ DocumentRule = (*MatchInfoEntries)(nil)
	_ DocumentRule = (*InfoSpecifiesTrapping)(nil)
	_ DocumentRule = (*RootHasKeys)(nil)
	_ DocumentRule = (*DocumentID)(nil)
	_ DocumentRule = (*MaxVersion)(nil)
	_ DocumentRule = (*CompressionAlgorithms)(nil)
	_ DocumentRule = (*NoFilespecs)(nil)
	_ DocumentRule = (*OutputIntentForPdfx)(nil)
	_ DocumentRule = (*PdfxOutputIntentHasKeys)(nil)
	_ PageRule     = (*PrintBoxes)(nil)
)

func TestDocumentRules(t *testing.T) {
	mustMaxVersion := func(v string) *MaxVersion {
		r, err := NewMaxVersion(v)
		if err != nil {
			t.Fatalf("NewMaxVersion(%q) failed: %v", v, err)
		}
		return r
	}

	tests := []struct {
		name     string
		rule     documentRule
		modify   func(d *fakeDocument)
		expected []string
	}{
		{
			name: "info keys present",
			rule: NewInfoHasKeys("Title", "CreationDate", "ModDate"),
		},
		{
			name:     "info keys missing",
			rule:     NewInfoHasKeys("Title", "CreationDate", "ModDate"),
			modify:   func(d *fakeDocument) { delete(d.info, "Title"); delete(d.info, "ModDate") },
			expected: []string{"Info dict missing required key Title", "Info dict missing required key ModDate"},
		},
		{
			name: "info entry matches",
			rule: NewMatchInfoEntries(map[string]*regexp.Regexp{"GTS_PDFXVersion": regexp.MustCompile(`^PDF/X`)}),
		},
		{
			name:     "info entry does not match",
			rule:     NewMatchInfoEntries(map[string]*regexp.Regexp{"GTS_PDFXVersion": regexp.MustCompile(`^PDF/X`)}),
			modify:   func(d *fakeDocument) { d.info["GTS_PDFXVersion"] = "none" },
			expected: []string{"Info.GTS_PDFXVersion value 'none' doesn't match ^PDF/X"},
		},
		{
			name:     "info entry missing",
			rule:     NewMatchInfoEntries(map[string]*regexp.Regexp{"GTS_PDFXVersion": regexp.MustCompile(`^PDF/X`)}),
			modify:   func(d *fakeDocument) { delete(d.info, "GTS_PDFXVersion") },
			expected: []string{"Info.GTS_PDFXVersion value '' doesn't match ^PDF/X"},
		},
		{
			name: "trapping specified",
			rule: NewInfoSpecifiesTrapping(),
		},
		{
			name:     "trapping missing",
			rule:     NewInfoSpecifiesTrapping(),
			modify:   func(d *fakeDocument) { delete(d.info, "Trapped") },
			expected: []string{"Info dict does not specify Trapped"},
		},
		{
			name:     "trapping unknown",
			rule:     NewInfoSpecifiesTrapping(),
			modify:   func(d *fakeDocument) { d.info["Trapped"] = "Unknown" },
			expected: []string{"Trapped value should be 'True' or 'False'"},
		},
		{
			name: "root keys present",
			rule: NewRootHasKeys("OutputIntents"),
		},
		{
			name:     "root keys missing",
			rule:     NewRootHasKeys("OutputIntents"),
			modify:   func(d *fakeDocument) { d.catalogKeys = []string{"Pages", "Type"} },
			expected: []string{"Root dict missing required key OutputIntents"},
		},
		{
			name: "document id present",
			rule: NewDocumentID(),
		},
		{
			name:     "document id missing",
			rule:     NewDocumentID(),
			modify:   func(d *fakeDocument) { d.id = nil },
			expected: []string{"Document ID missing"},
		},
		{
			name:   "version equal to max",
			rule:   mustMaxVersion("1.4"),
			modify: func(d *fakeDocument) { d.version = "1.4" },
		},
		{
			name:     "version above max",
			rule:     mustMaxVersion("1.4"),
			modify:   func(d *fakeDocument) { d.version = "1.7" },
			expected: []string{"PDF version should be 1.4 or lower (value: 1.7)"},
		},
		{
			name:     "version unreadable",
			rule:     mustMaxVersion("1.4"),
			modify:   func(d *fakeDocument) { d.version = "" },
			expected: []string{"PDF version should be 1.4 or lower (value: )"},
		},
		{
			name: "allowed filters",
			rule: NewCompressionAlgorithms("DCTDecode", "FlateDecode"),
		},
		{
			name:     "excluded filters",
			rule:     NewCompressionAlgorithms("DCTDecode", "FlateDecode"),
			modify:   func(d *fakeDocument) { d.filters = []string{"FlateDecode", "JBIG2Decode", "LZWDecode"} },
			expected: []string{"File uses excluded compression algorithm (JBIG2Decode, LZWDecode)"},
		},
		{
			name: "no filespecs",
			rule: NewNoFilespecs(),
		},
		{
			name:     "filespecs",
			rule:     NewNoFilespecs(),
			modify:   func(d *fakeDocument) { d.filespecs = 3 },
			expected: []string{"File uses at least 1 Filespec to refer to an external file"},
		},
		{
			name: "one pdfx output intent",
			rule: NewOutputIntentForPdfx(),
			modify: func(d *fakeDocument) {
				d.outputIntents = append(d.outputIntents, map[string]string{"S": "GTS_PDFA1"})
			},
		},
		{
			name:     "no output intents",
			rule:     NewOutputIntentForPdfx(),
			modify:   func(d *fakeDocument) { d.outputIntents = nil },
			expected: []string{"There must be exactly 1 OutputIntent with a subtype of GTS_PDFX"},
		},
		{
			name:     "two pdfx output intents",
			rule:     NewOutputIntentForPdfx(),
			modify:   func(d *fakeDocument) { d.outputIntents = append(d.outputIntents, d.outputIntents[0]) },
			expected: []string{"There must be exactly 1 OutputIntent with a subtype of GTS_PDFX"},
		},
		{
			name: "pdfx output intent keys present",
			rule: NewPdfxOutputIntentHasKeys("OutputConditionIdentifier", "Info"),
		},
		{
			name:     "pdfx output intent keys missing",
			rule:     NewPdfxOutputIntentHasKeys("OutputConditionIdentifier", "Info"),
			modify:   func(d *fakeDocument) { delete(d.outputIntents[0], "Info") },
			expected: []string{"The GTS_PDFX OutputIntent missing required key Info"},
		},
		{
			name:   "pdfx output intent absent",
			rule:   NewPdfxOutputIntentHasKeys("OutputConditionIdentifier", "Info"),
			modify: func(d *fakeDocument) { d.outputIntents = nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := compliantDocument()
			if tt.modify != nil {
				tt.modify(doc)
			}

			if err := tt.rule.CheckDocument(doc); err != nil {
				t.Fatalf("CheckDocument failed: %v", err)
			}
			if diff := cmp.Diff(tt.expected, tt.rule.Messages()); diff != "" {
				t.Errorf("messages mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDocumentRulesPropagateErrors(t *testing.T) {
	boom := errors.New("boom")
	doc := compliantDocument()
	doc.infoErr = boom
	doc.catalogErr = boom
	doc.objectsErr = boom

	checks := []DocumentRule{
		NewInfoHasKeys("Title"),
		NewMatchInfoEntries(map[string]*regexp.Regexp{"Title": regexp.MustCompile(`.`)}),
		NewInfoSpecifiesTrapping(),
		NewRootHasKeys("Pages"),
		NewCompressionAlgorithms("FlateDecode"),
		NewNoFilespecs(),
		NewOutputIntentForPdfx(),
		NewPdfxOutputIntentHasKeys("Info"),
	}
	for _, r := range checks {
		if err := r.CheckDocument(doc); !errors.Is(err, boom) {
			t.Errorf("%T: expected wrapped error, got %v", r, err)
		}
	}
}

func TestNewMaxVersionInvalid(t *testing.T) {
	if _, err := NewMaxVersion("latest"); err == nil {
		t.Error("expected error for invalid version")
	}
}

func TestResetClearsMessages(t *testing.T) {
	rule := NewDocumentID()
	doc := compliantDocument()
	doc.id = nil

	_ = rule.CheckDocument(doc)
	_ = rule.CheckDocument(doc)
	if got := len(rule.Messages()); got != 2 {
		t.Fatalf("expected 2 messages, got %d", got)
	}

	rule.Reset()
	if got := rule.Messages(); got != nil {
		t.Errorf("expected nil after Reset, got %v", got)
	}
}

func TestPrintBoxes(t *testing.T) {
	media := pages.Box(0, 0, 612, 792)

	tests := []struct {
		name     string
		page     *pages.Page
		expected []string
	}{
		{
			name: "trim box inside media box",
			page: &pages.Page{Number: 1, MediaBox: media, TrimBox: pages.Box(10, 10, 602, 782), HasTrimBox: true},
		},
		{
			name: "art box only",
			page: &pages.Page{Number: 1, MediaBox: media, ArtBox: pages.Box(0, 0, 100, 100), HasArtBox: true},
		},
		{
			name:     "neither box",
			page:     &pages.Page{Number: 2, MediaBox: media},
			expected: []string{"page 2 must have either a TrimBox or ArtBox"},
		},
		{
			name:     "both boxes",
			page:     &pages.Page{Number: 3, MediaBox: media, TrimBox: media, HasTrimBox: true, ArtBox: media, HasArtBox: true},
			expected: []string{"page 3 can't have both TrimBox and ArtBox"},
		},
		{
			name: "trim box outside media box is left to BoxNesting",
			page: &pages.Page{Number: 4, MediaBox: media, TrimBox: pages.Box(-10, 0, 612, 792), HasTrimBox: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := NewPrintBoxes()
			rule.SetPage(tt.page)
			if diff := cmp.Diff(tt.expected, rule.Messages()); diff != "" {
				t.Errorf("messages mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPrintBoxesAccumulates(t *testing.T) {
	rule := NewPrintBoxes()
	rule.SetPage(&pages.Page{Number: 1})
	rule.SetPage(nil)
	rule.SetPage(&pages.Page{Number: 2})

	want := []string{
		"page 1 must have either a TrimBox or ArtBox",
		"page 2 must have either a TrimBox or ArtBox",
	}
	if diff := cmp.Diff(want, rule.Messages()); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}
