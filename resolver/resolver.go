package resolver

import (
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/tsawler/preflight/logger"
)

// ErrCircularReference is returned when a chain of indirect references
// points back to an object already on the chain.
var ErrCircularReference = errors.New("circular reference")

// maxColorSpaceDepth bounds the nesting of Indexed colour space bases.
const maxColorSpaceDepth = 8

// Image describes an image XObject found in a page's resources.
// Dimensions that are missing or not numeric are 0.
type Image struct {
	Name   string
	Width  int
	Height int

	// ColorSpace is the colour space family, e.g. DeviceCMYK or Indexed
	ColorSpace string

	// RGB reports whether samples are RGB, directly or through an
	// Indexed, CalRGB or three component ICCBased colour space.
	RGB bool

	// SoftMask reports an /SMask or /SMaskInData entry
	SoftMask bool
}

// ObjectReader dereferences one level of indirection in a PDF object graph.
// *model.Context and *model.XRefTable from pdfcpu satisfy it.
type ObjectReader interface {
	Dereference(o types.Object) (types.Object, error)
}

// Option configures the resolver
type Option func(*Resolver)

// WithMaxDepth sets the maximum length of an indirect reference chain (default: 100)
func WithMaxDepth(depth int) Option {
	return func(r *Resolver) {
		r.maxDepth = depth
	}
}

// Resolver looks up page resources. It keeps no state between calls and may
// be shared by several pages of the same document.
type Resolver struct {
	reader   ObjectReader
	maxDepth int
}

// NewResolver creates a new resource resolver
func NewResolver(reader ObjectReader, opts ...Option) *Resolver {
	r := &Resolver{
		reader:   reader,
		maxDepth: 100,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve follows indirect references until it reaches a direct object.
// A reference to a missing object resolves to nil.
func (r *Resolver) Resolve(obj types.Object) (types.Object, error) {
	visited := make(map[int]bool)

	for depth := 0; ; depth++ {
		var ref types.IndirectRef
		switch v := obj.(type) {
		case types.IndirectRef:
			ref = v
		case *types.IndirectRef:
			if v == nil {
				return nil, nil
			}
			ref = *v
		default:
			return obj, nil
		}

		if depth >= r.maxDepth {
			return nil, fmt.Errorf("maximum recursion depth (%d) exceeded", r.maxDepth)
		}

		num := ref.ObjectNumber.Value()
		if visited[num] {
			return nil, fmt.Errorf("%w for object %d", ErrCircularReference, num)
		}
		visited[num] = true

		if r.reader == nil {
			return nil, fmt.Errorf("no object reader to resolve %d %d R", num, ref.GenerationNumber.Value())
		}

		next, err := r.reader.Dereference(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve reference %d %d R: %w", num, ref.GenerationNumber.Value(), err)
		}
		obj = next
	}
}

// ResolveDict resolves obj and returns it as a dictionary. Stream
// dictionaries yield their dictionary part.
func (r *Resolver) ResolveDict(obj types.Object) (types.Dict, bool) {
	resolved, err := r.Resolve(obj)
	if err != nil {
		logger.Debug("unresolvable dictionary", "error", err)
		return nil, false
	}

	switch v := resolved.(type) {
	case types.Dict:
		return v, true
	case types.StreamDict:
		return v.Dict, true
	case *types.StreamDict:
		if v != nil {
			return v.Dict, true
		}
	}
	return nil, false
}

// Images returns the image XObjects named in resources, keyed by resource
// name. Form XObjects and entries that cannot be resolved are left out; a nil
// or malformed resource dictionary yields an empty map.
func (r *Resolver) Images(resources types.Dict) map[string]Image {
	images := make(map[string]Image)
	if resources == nil {
		return images
	}

	entry, found := resources.Find("XObject")
	if !found {
		return images
	}

	xobjects, ok := r.ResolveDict(entry)
	if !ok {
		logger.Debug("XObject resource is not a dictionary")
		return images
	}

	for name, obj := range xobjects {
		img, ok := r.image(name, obj)
		if !ok {
			continue
		}
		images[name] = img
	}

	return images
}

// image reads one XObject entry, reporting false unless it is an image.
func (r *Resolver) image(name string, obj types.Object) (Image, bool) {
	dict, ok := r.ResolveDict(obj)
	if !ok {
		logger.Debug("skipping unresolvable XObject", "name", name)
		return Image{}, false
	}

	if r.name(dict, "Subtype") != "Image" {
		return Image{}, false
	}

	img := Image{
		Name:       name,
		Width:      r.integer(dict, "Width"),
		Height:     r.integer(dict, "Height"),
		ColorSpace: r.colorSpace(dict),
		SoftMask:   r.softMask(dict),
	}
	if cs, found := dict.Find("ColorSpace"); found {
		img.RGB = r.IsRGB(cs)
	}
	return img, true
}

// integer returns the numeric value of key, truncated, or 0.
func (r *Resolver) integer(dict types.Dict, key string) int {
	obj, found := dict.Find(key)
	if !found {
		return 0
	}
	obj, err := r.Resolve(obj)
	if err != nil {
		return 0
	}

	switch v := obj.(type) {
	case types.Integer:
		return v.Value()
	case types.Float:
		return int(v.Value())
	}
	return 0
}

// name returns the name stored under key, or "".
func (r *Resolver) name(dict types.Dict, key string) string {
	obj, found := dict.Find(key)
	if !found {
		return ""
	}
	obj, err := r.Resolve(obj)
	if err != nil {
		return ""
	}
	if n, ok := obj.(types.Name); ok {
		return string(n)
	}
	return ""
}

// colorSpace returns the colour space family, e.g. DeviceRGB or ICCBased.
func (r *Resolver) colorSpace(dict types.Dict) string {
	obj, found := dict.Find("ColorSpace")
	if !found {
		return ""
	}
	return r.family(obj)
}

// family returns the name of a colour space given as a name or an array.
func (r *Resolver) family(obj types.Object) string {
	obj, err := r.Resolve(obj)
	if err != nil {
		return ""
	}

	switch v := obj.(type) {
	case types.Name:
		return string(v)
	case types.Array:
		if len(v) == 0 {
			return ""
		}
		first, err := r.Resolve(v[0])
		if err != nil {
			return ""
		}
		if n, ok := first.(types.Name); ok {
			return string(n)
		}
	}
	return ""
}

// IsRGB reports whether the colour space obj produces RGB colour.
func (r *Resolver) IsRGB(obj types.Object) bool {
	return r.isRGB(obj, 0)
}

func (r *Resolver) isRGB(obj types.Object, depth int) bool {
	if depth >= maxColorSpaceDepth {
		return false
	}

	switch r.family(obj) {
	case "DeviceRGB", "CalRGB":
		return true
	case "ICCBased":
		arr, ok := r.array(obj)
		if !ok || len(arr) < 2 {
			return false
		}
		profile, ok := r.ResolveDict(arr[1])
		if !ok {
			return false
		}
		return r.integer(profile, "N") == 3
	case "Indexed":
		arr, ok := r.array(obj)
		if !ok || len(arr) < 2 {
			return false
		}
		return r.isRGB(arr[1], depth+1)
	}
	return false
}

// array resolves obj as an array
func (r *Resolver) array(obj types.Object) (types.Array, bool) {
	obj, err := r.Resolve(obj)
	if err != nil {
		return nil, false
	}
	arr, ok := obj.(types.Array)
	return arr, ok
}

// softMask reports whether an image dictionary carries a soft mask.
func (r *Resolver) softMask(dict types.Dict) bool {
	if obj, found := dict.Find("SMask"); found {
		if resolved, err := r.Resolve(obj); err == nil && resolved != nil {
			return true
		}
	}
	return r.integer(dict, "SMaskInData") > 0
}

// RGBColorSpaces returns the names of the colour space resources that
// produce RGB colour.
func (r *Resolver) RGBColorSpaces(resources types.Dict) map[string]bool {
	names := make(map[string]bool)
	if resources == nil {
		return names
	}
	entry, found := resources.Find("ColorSpace")
	if !found {
		return names
	}
	spaces, ok := r.ResolveDict(entry)
	if !ok {
		logger.Debug("ColorSpace resource is not a dictionary")
		return names
	}

	for name, cs := range spaces {
		if r.IsRGB(cs) {
			names[name] = true
		}
	}
	return names
}

// TransparencyGroup reports whether dict (a page or form XObject) has a
// /Group entry of subtype Transparency.
func (r *Resolver) TransparencyGroup(dict types.Dict) bool {
	obj, found := dict.Find("Group")
	if !found {
		return false
	}
	group, ok := r.ResolveDict(obj)
	if !ok {
		return false
	}
	return r.name(group, "S") == "Transparency"
}

// TransparentForms returns the names of the form XObjects in resources that
// are transparency groups.
func (r *Resolver) TransparentForms(resources types.Dict) map[string]bool {
	names := make(map[string]bool)
	if resources == nil {
		return names
	}
	entry, found := resources.Find("XObject")
	if !found {
		return names
	}
	xobjects, ok := r.ResolveDict(entry)
	if !ok {
		return names
	}

	for name, obj := range xobjects {
		dict, ok := r.ResolveDict(obj)
		if !ok || r.name(dict, "Subtype") != "Form" {
			continue
		}
		if r.TransparencyGroup(dict) {
			names[name] = true
		}
	}
	return names
}
