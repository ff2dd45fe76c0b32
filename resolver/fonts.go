package resolver

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/tsawler/preflight/logger"
)

// Font describes a font resource.
type Font struct {
	Name     string
	BaseFont string
	Subtype  string

	// Embedded is true when the font program is part of the file. Type3
	// fonts are drawn with content streams and always count as embedded.
	Embedded bool
}

// fontFileKeys are the font descriptor entries that hold a font program
var fontFileKeys = []string{"FontFile", "FontFile2", "FontFile3"}

// Fonts returns the fonts named in resources, keyed by resource name.
// Entries that cannot be resolved are left out.
func (r *Resolver) Fonts(resources types.Dict) map[string]Font {
	fonts := make(map[string]Font)
	if resources == nil {
		return fonts
	}

	entry, found := resources.Find("Font")
	if !found {
		return fonts
	}
	dict, ok := r.ResolveDict(entry)
	if !ok {
		logger.Debug("Font resource is not a dictionary")
		return fonts
	}

	for name, obj := range dict {
		fontDict, ok := r.ResolveDict(obj)
		if !ok {
			logger.Debug("skipping unresolvable font", "name", name)
			continue
		}

		f := Font{
			Name:     name,
			BaseFont: r.name(fontDict, "BaseFont"),
			Subtype:  r.name(fontDict, "Subtype"),
		}
		f.Embedded = r.embedded(f.Subtype, fontDict)
		fonts[name] = f
	}

	return fonts
}

// embedded reports whether a font dictionary carries its font program.
// Composite fonts are checked through their descendant font.
func (r *Resolver) embedded(subtype string, font types.Dict) bool {
	switch subtype {
	case "Type3":
		return true
	case "Type0":
		obj, found := font.Find("DescendantFonts")
		if !found {
			return false
		}
		descendants, ok := r.array(obj)
		if !ok || len(descendants) == 0 {
			return false
		}
		descendant, ok := r.ResolveDict(descendants[0])
		if !ok {
			return false
		}
		return r.hasFontFile(descendant)
	}
	return r.hasFontFile(font)
}

func (r *Resolver) hasFontFile(font types.Dict) bool {
	obj, found := font.Find("FontDescriptor")
	if !found {
		return false
	}
	descriptor, ok := r.ResolveDict(obj)
	if !ok {
		return false
	}

	for _, key := range fontFileKeys {
		file, found := descriptor.Find(key)
		if !found {
			continue
		}
		if resolved, err := r.Resolve(file); err == nil && resolved != nil {
			return true
		}
	}
	return false
}
