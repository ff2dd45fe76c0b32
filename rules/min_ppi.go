package rules

import (
	"fmt"
	"math"

	"github.com/tsawler/preflight/graphicsstate"
	"github.com/tsawler/preflight/logger"
	"github.com/tsawler/preflight/model"
	"github.com/tsawler/preflight/pages"
	"github.com/tsawler/preflight/resolver"
)

// PointsPerInch converts PDF user space units to inches
const PointsPerInch = 72.0

// MinPPI reports raster images drawn with fewer pixels per inch than a
// minimum. The effective resolution is computed from the image's sample size
// and the area it covers in device space under the current transformation.
//
// MinPPI starts idle; content stream notifications are ignored until the
// first SetPage. Messages accumulate across pages until Reset.
type MinPPI struct {
	messageList

	min    float64
	page   int
	loaded bool
	stack  *graphicsstate.Stack
	images map[string]resolver.Image
}

// NewMinPPI creates the rule with the lowest acceptable PPI
func NewMinPPI(minPPI int) *MinPPI {
	return &MinPPI{
		min:   float64(minPPI),
		stack: graphicsstate.NewStack(),
	}
}

// Name returns "MinPPI"
func (r *MinPPI) Name() string {
	return "MinPPI"
}

// SetPage starts a new page with a fresh graphics state stack and the
// page's images. A nil page returns the rule to its idle state.
func (r *MinPPI) SetPage(p *pages.Page) {
	if p == nil {
		r.loaded = false
		r.images = nil
		return
	}

	r.page = p.Number
	r.images = p.Images
	r.stack.Reset()
	r.loaded = true
}

// SaveGraphicsState handles q
func (r *MinPPI) SaveGraphicsState() {
	if !r.loaded {
		return
	}
	r.stack.Push()
}

// RestoreGraphicsState handles Q. A Q without a matching q is ignored.
func (r *MinPPI) RestoreGraphicsState() {
	if !r.loaded {
		return
	}
	if !r.stack.Pop() {
		logger.Debug("graphics state restore without save", "page", r.page)
	}
}

// ConcatenateMatrix handles cm
func (r *MinPPI) ConcatenateMatrix(a, b, c, d, e, f float64) {
	if !r.loaded {
		return
	}
	r.stack.Concat(model.Matrix{a, b, c, d, e, f})
}

// InvokeXObject handles Do. Names that are not images are ignored.
func (r *MinPPI) InvokeXObject(name string) {
	if !r.loaded {
		return
	}
	img, ok := r.images[name]
	if !ok {
		return
	}

	ctm := r.stack.Current().CTM
	origin := ctm.Transform(model.Point{X: 0, Y: 0})
	width := origin.Distance(ctm.Transform(model.Point{X: 1, Y: 0})) / PointsPerInch
	height := origin.Distance(ctm.Transform(model.Point{X: 0, Y: 1})) / PointsPerInch

	h, hok := density(img.Width, width)
	v, vok := density(img.Height, height)

	if !hok || !vok || h < r.min || v < r.min {
		r.add(fmt.Sprintf("Image with low PPI/DPI on page %d (h:%.3f v:%.3f)", r.page, h, v))
	}
}

// density returns samples per inch rounded to 3 decimals. It reports false,
// with a density of 0, when the value is undefined.
func density(samples int, inches float64) (float64, bool) {
	if samples <= 0 || inches == 0 || math.IsNaN(inches) || math.IsInf(inches, 0) {
		return 0, false
	}
	d := math.Round(float64(samples)/inches*1000) / 1000
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, false
	}
	return d, true
}
