// Package reader opens PDF documents for preflight checking.
//
// Parsing, cross-reference handling and stream decoding are done by pdfcpu;
// this package turns its object graph into the page views and document
// properties rules look at.
//
// # Opening PDF Files
//
// Use [Open] to open a PDF file for reading:
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
// Or use [NewReader] with any io.ReadSeeker.
//
// # Document Information
//
//   - Version() - effective PDF version (e.g., "1.4")
//   - PageCount() - number of pages
//   - Info() - document info dictionary, text strings decoded
//   - CatalogKeys() - keys of the document catalog
//   - ID() - trailer file identifiers
//   - OutputIntents() - entries of the catalog output intents
//   - StreamFilters() - filters used by any stream
//   - Filespecs() - number of file specifications
//
// # Page Access
//
// Pages are numbered from 1:
//
//	page, err := r.Page(1)
//
// The returned page carries the decoded content stream (several streams are
// joined with a newline), the images, fonts and colour spaces of its
// resources and its page boxes. Inheritable attributes are taken from the nearest page tree node
// that sets them.
package reader
