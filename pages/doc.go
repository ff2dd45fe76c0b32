// Package pages provides the per-page view handed to preflight rules.
//
// A [Page] carries the decoded content stream, what the page resources name
// (images, fonts, RGB colour spaces and transparency group forms) and the
// page boxes:
//
//   - MediaBox - page dimensions
//   - TrimBox - intended finished size (defaults to MediaBox)
//   - BleedBox - clipping region for production output (defaults to MediaBox)
//   - ArtBox - meaningful content area (defaults to MediaBox)
//
// Pages are produced by the reader package. Rules that replay the content
// stream parse it once per page:
//
//	ops, err := page.Operations()
//	if err != nil {
//	    return err
//	}
//	err = dispatcher.Replay(ops, rule)
package pages
