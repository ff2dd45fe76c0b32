package rules

import (
	"fmt"

	"github.com/tsawler/preflight/contentstream"
	"github.com/tsawler/preflight/core"
	"github.com/tsawler/preflight/pages"
)

// NoRgb forbids RGB colour. It watches the rg and RG operators, colour
// spaces selected with cs and CS, and images drawn with Do. Each page is
// reported at most once.
//
// Like MinPPI, NoRgb ignores content stream notifications until the first
// SetPage.
type NoRgb struct {
	contentstream.NopObserver
	messageList

	page     *pages.Page
	reported bool
}

// NewNoRgb creates the rule
func NewNoRgb() *NoRgb {
	return &NoRgb{}
}

// Name returns "NoRgb"
func (r *NoRgb) Name() string { return "NoRgb" }

// SetPage starts a new page. A nil page returns the rule to its idle state.
func (r *NoRgb) SetPage(p *pages.Page) {
	r.page = p
	r.reported = false
}

// ObserveOperation handles the colour operators
func (r *NoRgb) ObserveOperation(op contentstream.Operation) {
	if r.page == nil {
		return
	}

	switch op.Operator {
	case "rg", "RG":
		r.report()
	case "cs", "CS":
		if len(op.Operands) == 0 {
			return
		}
		name, ok := op.Operands[0].(core.Name)
		if !ok {
			return
		}
		switch string(name) {
		case "DeviceRGB", "CalRGB":
			r.report()
		default:
			if r.page.RGBColorSpaces[string(name)] {
				r.report()
			}
		}
	}
}

// InvokeXObject handles Do. Only RGB images are reported.
func (r *NoRgb) InvokeXObject(name string) {
	if r.page == nil {
		return
	}
	if img, ok := r.page.Images[name]; ok && img.RGB {
		r.report()
	}
}

func (r *NoRgb) report() {
	if r.reported {
		return
	}
	r.reported = true
	r.add(fmt.Sprintf("RGB color detected on page %d", r.page.Number))
}
