package rules

import (
	"fmt"
	"sort"

	"github.com/tsawler/preflight/pages"
)

// OnlyEmbeddedFonts requires every font in the page resources to carry its
// font program. Each font is reported once per document.
type OnlyEmbeddedFonts struct {
	messageList
	seen map[string]bool
}

// NewOnlyEmbeddedFonts creates the rule
func NewOnlyEmbeddedFonts() *OnlyEmbeddedFonts {
	return &OnlyEmbeddedFonts{seen: make(map[string]bool)}
}

// Name returns "OnlyEmbeddedFonts"
func (r *OnlyEmbeddedFonts) Name() string { return "OnlyEmbeddedFonts" }

// Reset discards messages and the fonts already reported
func (r *OnlyEmbeddedFonts) Reset() {
	r.messageList.Reset()
	r.seen = make(map[string]bool)
}

// SetPage checks the fonts of p in resource name order
func (r *OnlyEmbeddedFonts) SetPage(p *pages.Page) {
	if p == nil {
		return
	}

	names := make([]string, 0, len(p.Fonts))
	for name := range p.Fonts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		font := p.Fonts[name]
		if font.Embedded {
			continue
		}

		label := font.BaseFont
		if label == "" {
			label = font.Name
		}
		if r.seen[label] {
			continue
		}
		r.seen[label] = true
		r.add(fmt.Sprintf("Font %s is not embedded", label))
	}
}
