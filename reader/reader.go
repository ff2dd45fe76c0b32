package reader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/tsawler/preflight/logger"
	"github.com/tsawler/preflight/model"
	"github.com/tsawler/preflight/pages"
	"github.com/tsawler/preflight/resolver"
)

// maxTreeDepth bounds the walk up the page tree for inherited attributes
// and the descent into nested objects.
const maxTreeDepth = 32

// ErrPageOutOfRange is returned by Page for page numbers outside the document.
var ErrPageOutOfRange = errors.New("page number out of range")

// Reader represents an open PDF document
type Reader struct {
	file     *os.File
	ctx      *pdfmodel.Context
	resolver *resolver.Resolver
}

// Open opens a PDF file and returns a Reader
func Open(filename string) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	reader, err := NewReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	reader.file = file

	return reader, nil
}

// NewReader reads a PDF document from rs. The caller keeps ownership of rs.
func NewReader(rs io.ReadSeeker) (*Reader, error) {
	ctx, err := api.ReadContext(rs, pdfmodel.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}

	return &Reader{
		ctx:      ctx,
		resolver: resolver.NewResolver(ctx),
	}, nil
}

// Close closes the PDF file if the Reader opened it
func (r *Reader) Close() error {
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// PageCount returns the number of pages in the document
func (r *Reader) PageCount() int {
	return r.ctx.PageCount
}

// Version returns the effective PDF version (e.g., "1.4")
func (r *Reader) Version() string {
	return r.ctx.VersionString()
}

// Page loads page n (1-based) with its decoded content, images and boxes
func (r *Reader) Page(n int) (*pages.Page, error) {
	if n < 1 || n > r.ctx.PageCount {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrPageOutOfRange, n, r.ctx.PageCount)
	}

	pageDict, _, inherited, err := r.ctx.PageDict(n, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load page %d: %w", n, err)
	}
	if pageDict == nil {
		return nil, fmt.Errorf("page %d not found", n)
	}

	page := &pages.Page{Number: n}

	if contents, found := pageDict.Find("Contents"); found {
		streams, err := r.contentStreams(contents, make(map[int]bool))
		if err != nil {
			return nil, fmt.Errorf("page %d contents: %w", n, err)
		}
		page.Content = bytes.Join(streams, []byte{'\n'})
	}

	// Resources and MediaBox are inheritable; the nearest entry wins.
	resources, ok := r.resolver.ResolveDict(r.inheritable(pageDict, "Resources"))
	if !ok && inherited != nil {
		resources = inherited.Resources
	}
	page.Images = r.resolver.Images(resources)
	page.Fonts = r.resolver.Fonts(resources)
	page.RGBColorSpaces = r.resolver.RGBColorSpaces(resources)
	page.TransparentForms = r.resolver.TransparentForms(resources)
	page.TransparencyGroup = r.resolver.TransparencyGroup(pageDict)

	if box, ok := r.box(r.inheritable(pageDict, "MediaBox"), "MediaBox"); ok {
		page.MediaBox = box
	} else if inherited != nil && inherited.MediaBox != nil {
		mb := inherited.MediaBox
		page.MediaBox = pages.Box(mb.LL.X, mb.LL.Y, mb.UR.X, mb.UR.Y)
	}

	page.TrimBox, page.HasTrimBox = r.box(pageDict["TrimBox"], "TrimBox")
	if !page.HasTrimBox {
		page.TrimBox = page.MediaBox
	}
	page.ArtBox, page.HasArtBox = r.box(pageDict["ArtBox"], "ArtBox")
	if !page.HasArtBox {
		page.ArtBox = page.MediaBox
	}
	page.BleedBox, page.HasBleedBox = r.box(pageDict["BleedBox"], "BleedBox")
	if !page.HasBleedBox {
		page.BleedBox = page.MediaBox
	}

	return page, nil
}

// contentStreams returns the decoded data of a page's /Contents entry,
// which may be a single stream or an array of streams. visited holds the
// object numbers already expanded, so a contents array that refers back to
// itself is read once.
func (r *Reader) contentStreams(contents types.Object, visited map[int]bool) ([][]byte, error) {
	if ref, ok := contents.(types.IndirectRef); ok {
		num := ref.ObjectNumber.Value()
		if visited[num] {
			return nil, fmt.Errorf("%w: contents object %d", resolver.ErrCircularReference, num)
		}
		visited[num] = true

		deref, err := r.resolver.Resolve(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to dereference contents: %w", err)
		}
		if deref == nil {
			return nil, nil
		}
		contents = deref
	}

	var streams [][]byte

	switch obj := contents.(type) {
	case types.StreamDict:
		if len(obj.Content) == 0 && len(obj.Raw) > 0 {
			if err := obj.Decode(); err != nil {
				return nil, fmt.Errorf("failed to decode stream: %w", err)
			}
		}
		if len(obj.Content) > 0 {
			streams = append(streams, obj.Content)
		}

	case types.Array:
		for i, item := range obj {
			itemStreams, err := r.contentStreams(item, visited)
			if err != nil {
				logger.Debug("skipping unreadable content stream", "index", i, "error", err)
				continue
			}
			streams = append(streams, itemStreams...)
		}

	default:
		return nil, fmt.Errorf("invalid Contents type: %T", contents)
	}

	return streams, nil
}

// inheritable looks key up on the page and then on its ancestors in the
// page tree. It returns nil if no node sets it.
func (r *Reader) inheritable(pageDict types.Dict, key string) types.Object {
	node := pageDict
	for depth := 0; node != nil && depth < maxTreeDepth; depth++ {
		if obj, found := node.Find(key); found {
			return obj
		}
		parent, ok := r.resolver.ResolveDict(node["Parent"])
		if !ok {
			return nil
		}
		node = parent
	}
	return nil
}

// box reads a [llx lly urx ury] rectangle. key names the box in logs.
func (r *Reader) box(obj types.Object, key string) (model.BBox, bool) {
	if obj == nil {
		return model.BBox{}, false
	}

	resolved, err := r.resolver.Resolve(obj)
	if err != nil {
		logger.Debug("unresolvable page box", "box", key, "error", err)
		return model.BBox{}, false
	}

	arr, ok := resolved.(types.Array)
	if !ok || len(arr) != 4 {
		logger.Debug("invalid page box", "box", key, "type", fmt.Sprintf("%T", resolved))
		return model.BBox{}, false
	}

	var c [4]float64
	for i, elem := range arr {
		v, err := r.resolver.Resolve(elem)
		if err != nil {
			return model.BBox{}, false
		}
		switch n := v.(type) {
		case types.Integer:
			c[i] = float64(n.Value())
		case types.Float:
			c[i] = n.Value()
		default:
			logger.Debug("invalid page box element", "box", key, "index", i)
			return model.BBox{}, false
		}
	}

	return pages.Box(c[0], c[1], c[2], c[3]), true
}

// Info returns the text entries of the document information dictionary.
// Names (such as /Trapped) are returned without the leading slash. A
// document without an Info dictionary yields an empty map.
func (r *Reader) Info() (map[string]string, error) {
	if r.ctx.Info == nil {
		return make(map[string]string), nil
	}

	dict, ok := r.resolver.ResolveDict(*r.ctx.Info)
	if !ok {
		return nil, fmt.Errorf("invalid Info dictionary")
	}
	return r.textEntries(dict), nil
}

// OutputIntents returns the entries of every output intent dictionary in the
// catalog's /OutputIntents array, in order. Every key is present; entries
// that are not strings, names or booleans map to "".
func (r *Reader) OutputIntents() ([]map[string]string, error) {
	catalog, err := r.ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	entry, found := catalog.Find("OutputIntents")
	if !found {
		return nil, nil
	}
	obj, err := r.resolver.Resolve(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve OutputIntents: %w", err)
	}
	arr, ok := obj.(types.Array)
	if !ok {
		return nil, fmt.Errorf("invalid OutputIntents type: %T", obj)
	}

	intents := make([]map[string]string, 0, len(arr))
	for i, item := range arr {
		dict, ok := r.resolver.ResolveDict(item)
		if !ok {
			logger.Debug("skipping invalid output intent", "index", i)
			continue
		}

		intent := r.textEntries(dict)
		for key := range dict {
			if _, ok := intent[key]; !ok {
				intent[key] = ""
			}
		}
		intents = append(intents, intent)
	}
	return intents, nil
}

// textEntries decodes the string, name and boolean values of dict
func (r *Reader) textEntries(dict types.Dict) map[string]string {
	entries := make(map[string]string)

	for key, value := range dict {
		resolved, err := r.resolver.Resolve(value)
		if err != nil {
			logger.Debug("unresolvable dictionary entry", "key", key, "error", err)
			continue
		}

		switch v := resolved.(type) {
		case types.StringLiteral, types.HexLiteral:
			b, err := stringBytes(v)
			if err != nil {
				logger.Debug("undecodable dictionary entry", "key", key, "error", err)
				continue
			}
			entries[key] = decodeTextString(b)
		case types.Name:
			entries[key] = string(v)
		case types.Boolean:
			if v {
				entries[key] = "true"
			} else {
				entries[key] = "false"
			}
		}
	}

	return entries
}

// StreamFilters returns the distinct filter names used by the streams of the
// document, sorted.
func (r *Reader) StreamFilters() ([]string, error) {
	seen := make(map[string]bool)

	r.eachObject(func(obj types.Object) {
		sd, ok := obj.(types.StreamDict)
		if !ok {
			return
		}
		filter, found := sd.Dict.Find("Filter")
		if !found {
			return
		}
		resolved, err := r.resolver.Resolve(filter)
		if err != nil {
			return
		}

		switch v := resolved.(type) {
		case types.Name:
			seen[string(v)] = true
		case types.Array:
			for _, elem := range v {
				if n, ok := elem.(types.Name); ok {
					seen[string(n)] = true
				}
			}
		}
	})

	filters := make([]string, 0, len(seen))
	for name := range seen {
		filters = append(filters, name)
	}
	sort.Strings(filters)
	return filters, nil
}

// Filespecs counts the file specification dictionaries in the document,
// including ones nested as direct objects.
func (r *Reader) Filespecs() (int, error) {
	count := 0
	r.eachObject(func(obj types.Object) {
		count += countFilespecs(obj, 0)
	})
	return count, nil
}

// countFilespecs counts /Type /Filespec dictionaries in a direct object.
func countFilespecs(obj types.Object, depth int) int {
	if depth > maxTreeDepth {
		return 0
	}

	count := 0
	switch v := obj.(type) {
	case types.Dict:
		if t, ok := v["Type"].(types.Name); ok && t == "Filespec" {
			count++
		}
		for _, value := range v {
			count += countFilespecs(value, depth+1)
		}
	case types.StreamDict:
		count += countFilespecs(v.Dict, depth+1)
	case types.Array:
		for _, elem := range v {
			count += countFilespecs(elem, depth+1)
		}
	}
	return count
}

// eachObject calls fn for every object in the cross reference table.
// Free entries are skipped; entries that were not loaded are dereferenced.
func (r *Reader) eachObject(fn func(types.Object)) {
	nums := make([]int, 0, len(r.ctx.Table))
	for num := range r.ctx.Table {
		nums = append(nums, num)
	}
	sort.Ints(nums)

	for _, num := range nums {
		entry := r.ctx.Table[num]
		if entry == nil || entry.Free {
			continue
		}

		obj := entry.Object
		if obj == nil {
			gen := 0
			if entry.Generation != nil {
				gen = *entry.Generation
			}
			deref, err := r.ctx.Dereference(*types.NewIndirectRef(num, gen))
			if err != nil {
				logger.Debug("skipping unreadable object", "object", num, "error", err)
				continue
			}
			obj = deref
		}
		if obj != nil {
			fn(obj)
		}
	}
}

// CatalogKeys returns the keys of the document catalog, sorted
func (r *Reader) CatalogKeys() ([]string, error) {
	catalog, err := r.ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	keys := make([]string, 0, len(catalog))
	for key := range catalog {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// ID returns the trailer's file identifiers as hex strings, or nil if the
// document has none.
func (r *Reader) ID() []string {
	if len(r.ctx.ID) == 0 {
		return nil
	}

	ids := make([]string, 0, len(r.ctx.ID))
	for _, obj := range r.ctx.ID {
		b, err := stringBytes(obj)
		if err != nil {
			continue
		}
		ids = append(ids, fmt.Sprintf("%x", b))
	}
	return ids
}

// stringBytes returns the raw bytes of a literal or hex string
func stringBytes(obj types.Object) ([]byte, error) {
	switch s := obj.(type) {
	case types.StringLiteral:
		return types.Unescape(s.Value())
	case types.HexLiteral:
		return s.Bytes()
	}
	return nil, fmt.Errorf("not a string: %T", obj)
}

// decodeTextString decodes a PDF text string: UTF-16BE when it starts with a
// byte order mark, PDFDocEncoding otherwise.
func decodeTextString(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		if out, err := dec.Bytes(b); err == nil {
			return string(out)
		}
	}

	// PDFDocEncoding matches Latin-1 for the characters used in practice.
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}
