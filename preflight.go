// Package preflight checks PDF files for print readiness against the
// PDF/X-1a:2003 profile.
//
// Basic usage:
//
//	report, err := preflight.New(nil).CheckFile(ctx, "brochure.pdf")
//	if err != nil {
//	    // handle error
//	}
//	for _, msg := range report.Messages() {
//	    fmt.Println(msg)
//	}
//
// With options:
//
//	report, err := preflight.New(nil).
//	    MinPPI(240).
//	    MaxPages(10).
//	    Strict().
//	    CheckFile(ctx, "brochure.pdf")
//
// For custom rule sets, the lower-level profile and rules packages are also
// available.
package preflight

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	report := preflight.Must(preflight.New(nil).CheckFile(ctx, "brochure.pdf"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
