package pages

import (
	"github.com/tsawler/preflight/contentstream"
	"github.com/tsawler/preflight/model"
	"github.com/tsawler/preflight/resolver"
)

// Page is everything a rule may inspect on a single page. It is fully
// materialised by the document reader, so rules never touch the object graph.
type Page struct {
	// Number is the 1-based page number
	Number int

	// Content is the decoded, concatenated content stream
	Content []byte

	// Images maps XObject resource names to the images they refer to
	Images map[string]resolver.Image

	// Fonts maps font resource names to the fonts they refer to
	Fonts map[string]resolver.Font

	// RGBColorSpaces holds the colour space resource names that produce RGB
	RGBColorSpaces map[string]bool

	// TransparentForms holds the form XObject names that are transparency
	// groups
	TransparentForms map[string]bool

	// TransparencyGroup is set when the page itself is a transparency group
	TransparencyGroup bool

	MediaBox model.BBox
	TrimBox  model.BBox
	BleedBox model.BBox
	ArtBox   model.BBox

	// HasTrimBox, HasBleedBox and HasArtBox report whether the page
	// dictionary sets the box explicitly. Unset boxes default to the MediaBox.
	HasTrimBox  bool
	HasBleedBox bool
	HasArtBox   bool
}

// Operations parses the page's content stream
func (p *Page) Operations(opts ...contentstream.ParserOption) ([]contentstream.Operation, error) {
	return contentstream.NewParser(p.Content, opts...).Parse()
}

// Image returns the image registered under name in the page resources
func (p *Page) Image(name string) (resolver.Image, bool) {
	img, ok := p.Images[name]
	return img, ok
}

// Box builds a page box from its [llx lly urx ury] coordinates. The corners
// may be given in any order.
func Box(llx, lly, urx, ury float64) model.BBox {
	return model.NewBBoxFromPoints(model.Point{X: llx, Y: lly}, model.Point{X: urx, Y: ury})
}
