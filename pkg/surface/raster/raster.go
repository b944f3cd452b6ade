// Package raster implements an anti-aliased avatar surface backed by an RGBA
// image.
//
// Paths are rasterised with fogleman/gg. Text uses the built-in Go fonts
// through golang/freetype, Go Mono unless [WithFont] says otherwise, so no
// system fonts are needed. Stroked text is
// approximated by stamping the glyphs around the anchor at the line width.
package raster

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/matzehuels/ringavatar/pkg/avatar"
	"github.com/matzehuels/ringavatar/pkg/errors"
	"github.com/matzehuels/ringavatar/pkg/fonts"
)

// Option configures a [Surface].
type Option func(*Surface)

// WithFont replaces the title typeface with a parsed TrueType font.
func WithFont(f *truetype.Font) Option { return func(s *Surface) { s.font = f } }

// WithBackground paints the image before every frame. Without it, pixels
// outside the disc stay transparent.
func WithBackground(c color.Color) Option { return func(s *Surface) { s.background = c } }

// Surface is an [avatar.Surface] drawing into an in-memory image.
type Surface struct {
	dc         *gg.Context
	font       *truetype.Font
	faces      map[float64]font.Face
	background color.Color

	fill, stroke color.Color
	alpha        float64
	lineWidth    float64
	fontSize     float64
	align        avatar.TextAlign
	baseline     avatar.TextBaseline
}

var _ avatar.Surface = (*Surface)(nil)

// New returns a transparent surface of the given pixel size.
func New(width, height int, opts ...Option) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "raster size must be positive, got %dx%d", width, height)
	}
	s := &Surface{
		dc:        gg.NewContext(width, height),
		faces:     make(map[float64]font.Face),
		fill:      color.Black,
		stroke:    color.Black,
		alpha:     1,
		lineWidth: 1,
		fontSize:  10,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.font == nil {
		f, err := fonts.Parse(fonts.Default)
		if err != nil {
			return nil, err
		}
		s.font = f
	}
	s.Clear()
	return s, nil
}

// Resize replaces the image with a blank one of the new size.
func (s *Surface) Resize(width, height int) {
	if width <= 0 || height <= 0 || (width == s.dc.Width() && height == s.dc.Height()) {
		return
	}
	s.dc = gg.NewContext(width, height)
	s.Clear()
}

// Image returns the backing image. It is overwritten by later frames.
func (s *Surface) Image() *image.RGBA {
	return s.dc.Image().(*image.RGBA)
}

// Snapshot returns a copy of the current image.
func (s *Surface) Snapshot() *image.RGBA {
	src := s.Image()
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// EncodePNG writes the current image as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}

func (s *Surface) Size() (int, int) { return s.dc.Width(), s.dc.Height() }

func (s *Surface) Clear() {
	s.dc.ClearPath()
	if s.background != nil {
		s.dc.SetColor(s.background)
	} else {
		s.dc.SetColor(color.Transparent)
	}
	s.dc.Clear()
}

func (s *Surface) SetFillColor(c color.Color)   { s.fill = c }
func (s *Surface) SetStrokeColor(c color.Color) { s.stroke = c }
func (s *Surface) SetAlpha(a float64)           { s.alpha = a }

func (s *Surface) SetLineWidth(w float64) {
	s.lineWidth = w
	s.dc.SetLineWidth(w)
}

func (s *Surface) SetLineCap(c avatar.LineCap) {
	switch c {
	case avatar.CapRound:
		s.dc.SetLineCap(gg.LineCapRound)
	case avatar.CapSquare:
		s.dc.SetLineCap(gg.LineCapSquare)
	default:
		s.dc.SetLineCap(gg.LineCapButt)
	}
}

func (s *Surface) SetFont(size float64) { s.fontSize = size }

func (s *Surface) SetTextAlign(h avatar.TextAlign, v avatar.TextBaseline) {
	s.align, s.baseline = h, v
}

// =============================================================================
// Paths
// =============================================================================

func (s *Surface) BeginPath()          { s.dc.ClearPath() }
func (s *Surface) ClosePath()          { s.dc.ClosePath() }
func (s *Surface) MoveTo(x, y float64) { s.dc.MoveTo(x, y) }

// Arc appends a clockwise arc. gg joins it to the current point, if any.
func (s *Surface) Arc(cx, cy, r, start, end float64) {
	sweep := avatar.ArcSweep(start, end)
	s.dc.DrawArc(cx, cy, r, start, start+sweep)
}

func (s *Surface) QuadraticTo(cpx, cpy, x, y float64) { s.dc.QuadraticTo(cpx, cpy, x, y) }

func (s *Surface) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	s.dc.CubicTo(c1x, c1y, c2x, c2y, x, y)
}

// Fill paints the current path, closing open subpaths. The path is kept.
func (s *Surface) Fill() {
	s.dc.SetColor(s.withAlpha(s.fill))
	s.dc.FillPreserve()
}

func (s *Surface) Stroke() {
	s.dc.SetColor(s.withAlpha(s.stroke))
	s.dc.StrokePreserve()
}

// FillRect paints whole pixels directly, leaving the current path alone.
// Every non-empty rectangle covers at least one pixel.
func (s *Surface) FillRect(x, y, w, h float64) {
	if w <= 0 || h <= 0 || math.IsNaN(x) || math.IsNaN(y) {
		return
	}
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	x1, y1 := max(x0+1, int(math.Floor(x+w))), max(y0+1, int(math.Floor(y+h)))
	r := image.Rect(x0, y0, x1, y1)
	draw.Draw(s.Image(), r, image.NewUniform(s.withAlpha(s.fill)), image.Point{}, draw.Over)
}

// =============================================================================
// Text
// =============================================================================

func (s *Surface) FillText(text string, x, y float64) {
	if !s.useFace() {
		return
	}
	ax, ay := s.anchor()
	s.dc.SetColor(s.withAlpha(s.fill))
	s.dc.DrawStringAnchored(text, x, y, ax, ay)
}

// StrokeText stamps the text at eight offsets on a circle of half the line
// width, which reads as an outline at title sizes.
func (s *Surface) StrokeText(text string, x, y float64) {
	if !s.useFace() {
		return
	}
	ax, ay := s.anchor()
	s.dc.SetColor(s.withAlpha(s.stroke))
	d := math.Max(s.lineWidth/2, 0.5)
	for i := 0; i < 8; i++ {
		a := float64(i) * math.Pi / 4
		s.dc.DrawStringAnchored(text, x+d*math.Cos(a), y+d*math.Sin(a), ax, ay)
	}
}

// useFace selects a face for the current font size, caching one per size.
func (s *Surface) useFace() bool {
	if s.fontSize < 1 {
		return false
	}
	f, ok := s.faces[s.fontSize]
	if !ok {
		f = truetype.NewFace(s.font, &truetype.Options{Size: s.fontSize, DPI: 72, Hinting: font.HintingFull})
		s.faces[s.fontSize] = f
	}
	s.dc.SetFontFace(f)
	return true
}

func (s *Surface) anchor() (ax, ay float64) {
	switch s.align {
	case avatar.AlignCenter:
		ax = 0.5
	case avatar.AlignEnd:
		ax = 1
	}
	switch s.baseline {
	case avatar.BaselineMiddle:
		ay = 0.5
	case avatar.BaselineTop:
		ay = 1
	}
	return ax, ay
}

// withAlpha scales the color's alpha by the global alpha.
func (s *Surface) withAlpha(c color.Color) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(float64(n.A) * clamp01(s.alpha)))
	return n
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
