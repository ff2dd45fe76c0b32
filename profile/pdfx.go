package profile

import (
	"regexp"

	"github.com/tsawler/preflight/rules"
)

// PDFX1a2003Name is the name of the PDF/X-1a:2003 profile
const PDFX1a2003Name = "pdfx-1a:2003"

// PDFX1a2003 returns a fresh PDF/X-1a:2003 profile. Images drawn below
// minPPI are reported after every other rule.
func PDFX1a2003(minPPI int) *Profile {
	maxVersion, err := rules.NewMaxVersion("1.4")
	if err != nil {
		panic(err)
	}

	return New(PDFX1a2003Name,
		rules.NewMatchInfoEntries(map[string]*regexp.Regexp{
			"GTS_PDFXVersion": regexp.MustCompile(`^PDF/X`),
		}),
		rules.NewRootHasKeys("OutputIntents"),
		rules.NewInfoHasKeys("Title", "CreationDate", "ModDate"),
		rules.NewInfoSpecifiesTrapping(),
		rules.NewCompressionAlgorithms("ASCII85Decode", "CCITTFaxDecode", "DCTDecode", "FlateDecode", "RunLengthDecode"),
		rules.NewDocumentID(),
		rules.NewNoFilespecs(),
		rules.NewNoTransparency(),
		rules.NewOnlyEmbeddedFonts(),
		rules.NewBoxNesting(),
		maxVersion,
		rules.NewPrintBoxes(),
		rules.NewOutputIntentForPdfx(),
		rules.NewPdfxOutputIntentHasKeys("OutputConditionIdentifier", "Info"),
		rules.NewNoRgb(),
		rules.NewMinPPI(minPPI),
	)
}
