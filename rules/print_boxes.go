package rules

import (
	"fmt"

	"github.com/tsawler/preflight/model"
	"github.com/tsawler/preflight/pages"
)

// PrintBoxes requires every page to declare exactly one of TrimBox and
// ArtBox. Where the boxes lie is checked by BoxNesting.
type PrintBoxes struct {
	messageList
}

// NewPrintBoxes creates the rule
func NewPrintBoxes() *PrintBoxes {
	return &PrintBoxes{}
}

// Name returns "PrintBoxes"
func (r *PrintBoxes) Name() string { return "PrintBoxes" }

// SetPage checks the boxes of p
func (r *PrintBoxes) SetPage(p *pages.Page) {
	if p == nil {
		return
	}

	switch {
	case !p.HasTrimBox && !p.HasArtBox:
		r.add(fmt.Sprintf("page %d must have either a TrimBox or ArtBox", p.Number))
	case p.HasTrimBox && p.HasArtBox:
		r.add(fmt.Sprintf("page %d can't have both TrimBox and ArtBox", p.Number))
	}
}

// BoxNesting requires the explicitly set page boxes to nest: the BleedBox
// within the MediaBox, and the TrimBox and ArtBox within both.
type BoxNesting struct {
	messageList
}

// NewBoxNesting creates the rule
func NewBoxNesting() *BoxNesting {
	return &BoxNesting{}
}

// Name returns "BoxNesting"
func (r *BoxNesting) Name() string { return "BoxNesting" }

// SetPage checks the boxes of p
func (r *BoxNesting) SetPage(p *pages.Page) {
	if p == nil {
		return
	}

	if p.HasBleedBox && !p.MediaBox.ContainsBox(p.BleedBox) {
		r.add(fmt.Sprintf("page %d has BleedBox outside MediaBox", p.Number))
	}
	if p.HasTrimBox {
		r.inner(p, "TrimBox", p.TrimBox)
	}
	if p.HasArtBox {
		r.inner(p, "ArtBox", p.ArtBox)
	}
}

// inner checks a box that must lie within the BleedBox and the MediaBox
func (r *BoxNesting) inner(p *pages.Page, name string, box model.BBox) {
	if p.HasBleedBox && !p.BleedBox.ContainsBox(box) {
		r.add(fmt.Sprintf("page %d has %s outside BleedBox", p.Number, name))
	}
	if !p.MediaBox.ContainsBox(box) {
		r.add(fmt.Sprintf("page %d has %s outside MediaBox", p.Number, name))
	}
}
