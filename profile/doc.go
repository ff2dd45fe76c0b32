// Package profile runs an ordered set of rules over a document.
//
// A [Profile] names a compliance standard and holds its rules. [Profile.Check]
// resets the rules, runs the document rules once and then walks the pages in
// order. Each page is given to the page rules and its content stream is
// replayed a single time, driving every rule that observes content stream
// operators:
//
//	p := profile.PDFX1a2003(300)
//	report, err := p.Check(ctx, doc)
//	if err != nil {
//	    return err
//	}
//	for _, msg := range report.Messages() {
//	    fmt.Println(msg)
//	}
//
// Messages are reported rule by rule in declaration order; within a rule
// they keep page order and, within a page, discovery order.
//
// Rules keep state between calls, so a Profile checks one document at a
// time. Build a fresh profile per document to check documents concurrently.
package profile
