package rules

import (
	"fmt"

	"github.com/tsawler/preflight/contentstream"
	"github.com/tsawler/preflight/pages"
)

// NoTransparency forbids transparency: pages that are transparency groups,
// and drawing a soft masked image or a transparency group form.
//
// Each XObject is reported once per page. Notifications before the first
// SetPage are ignored.
type NoTransparency struct {
	contentstream.NopObserver
	messageList

	page *pages.Page
	seen map[string]bool
}

// NewNoTransparency creates the rule
func NewNoTransparency() *NoTransparency {
	return &NoTransparency{}
}

// Name returns "NoTransparency"
func (r *NoTransparency) Name() string { return "NoTransparency" }

// SetPage checks the page group and starts a new page
func (r *NoTransparency) SetPage(p *pages.Page) {
	r.page = p
	r.seen = make(map[string]bool)
	if p == nil {
		return
	}

	if p.TransparencyGroup {
		r.add(fmt.Sprintf("page %d is a transparency group", p.Number))
	}
}

// InvokeXObject handles Do
func (r *NoTransparency) InvokeXObject(name string) {
	if r.page == nil || r.seen[name] {
		return
	}

	img, isImage := r.page.Images[name]
	if (isImage && img.SoftMask) || r.page.TransparentForms[name] {
		r.seen[name] = true
		r.add(fmt.Sprintf("Transparent xobject %s found on page %d", name, r.page.Number))
	}
}
