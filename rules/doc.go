// Package rules defines the preflight rule capabilities and the rules
// themselves.
//
// Every rule implements [Rule]. Further behaviour is opted into by
// implementing capability interfaces, which the profile package discovers
// by type assertion:
//
//   - [Resetter] - clear messages before a document is checked
//   - [DocumentRule] - one-shot checks of document properties
//   - [PageRule] - called with every page in order
//   - the content stream observers of the contentstream package
//
// # Minimum Resolution
//
// [MinPPI] follows the graphics state of each page and computes the
// effective resolution of every image drawn with Do:
//
//	rule := rules.NewMinPPI(300)
//	rule.SetPage(page)
//	err := contentstream.NewDispatcher().ReplayBytes(page.Content, rule)
//	for _, msg := range rule.Messages() {
//	    fmt.Println(msg) // Image with low PPI/DPI on page 1 (h:150.000 v:150.000)
//	}
//
// # Document Rules
//
// [InfoHasKeys], [MatchInfoEntries], [InfoSpecifiesTrapping],
// [RootHasKeys], [DocumentID] and [MaxVersion] look up document level
// entries. [CompressionAlgorithms] and [NoFilespecs] look at every object,
// [OutputIntentForPdfx] and [PdfxOutputIntentHasKeys] at the catalog's
// output intents.
//
// # Page Rules
//
// [PrintBoxes] and [BoxNesting] check the page boxes and
// [OnlyEmbeddedFonts] the page fonts. [NoRgb] and [NoTransparency] also
// watch the content stream, like [MinPPI].
package rules
