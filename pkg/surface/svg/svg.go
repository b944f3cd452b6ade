// Package svg implements an avatar surface that records drawing calls as an
// SVG document.
//
// Paths are emitted as <path> elements with absolute commands. Arcs are split
// into pieces of at most half a turn so every piece can use the small-arc
// flag, and full circles come out as two half arcs. Alpha is written as
// fill-opacity and stroke-opacity.
//
//	s := svg.New(256, 256)
//	a, _ := avatar.New("31415926", avatar.DefaultConfig(), s)
//	_ = a.Render()
//	os.WriteFile("pi.svg", s.Bytes(), 0o644)
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/ringavatar/pkg/avatar"
)

// DefaultFontFamily matches the monospace title of the raster surface.
const DefaultFontFamily = "monospace"

// Option configures a [Surface].
type Option func(*Surface)

// WithFontFamily sets the CSS font-family of text elements.
func WithFontFamily(f string) Option { return func(s *Surface) { s.fontFamily = f } }

// WithFontWeight sets the CSS font-weight of text elements.
func WithFontWeight(w string) Option { return func(s *Surface) { s.fontWeight = w } }

// WithPrecision sets the number of decimals written for coordinates.
func WithPrecision(p int) Option { return func(s *Surface) { s.prec = max(0, p) } }

// WithBackground paints the whole canvas before the avatar. Without it the
// corners outside the disc stay transparent.
func WithBackground(c color.Color) Option { return func(s *Surface) { s.background = c } }

// Surface is an [avatar.Surface] that builds an SVG document in memory.
type Surface struct {
	width, height int
	fontFamily    string
	fontWeight    string
	prec          int
	background    color.Color

	body bytes.Buffer
	path strings.Builder

	hasPoint     bool
	curX, curY   float64
	startX       float64
	startY       float64
	fill, stroke color.Color
	alpha        float64
	lineWidth    float64
	lineCap      avatar.LineCap
	fontSize     float64
	align        avatar.TextAlign
	baseline     avatar.TextBaseline
}

var _ avatar.Surface = (*Surface)(nil)

// New returns an empty document of the given pixel size.
func New(width, height int, opts ...Option) *Surface {
	s := &Surface{
		width:      width,
		height:     height,
		fontFamily: DefaultFontFamily,
		prec:       2,
		fill:       color.Black,
		stroke:     color.Black,
		alpha:      1,
		lineWidth:  1,
		fontSize:   10,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resize changes the document size. Drawn content is kept.
func (s *Surface) Resize(width, height int) {
	s.width, s.height = width, height
}

// Bytes returns the complete SVG document.
func (s *Surface) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = s.WriteTo(&buf)
	return buf.Bytes()
}

// WriteTo writes the complete SVG document to w.
func (s *Surface) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		s.width, s.height, s.width, s.height)
	if s.background != nil {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%"%s/>`+"\n", paint("fill", s.background, 1))
	}
	buf.Write(s.body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.WriteTo(w)
}

func (s *Surface) Size() (int, int) { return s.width, s.height }

// Clear drops everything drawn so far.
func (s *Surface) Clear() {
	s.body.Reset()
	s.BeginPath()
}

func (s *Surface) SetFillColor(c color.Color) { s.fill = c }
func (s *Surface) SetStrokeColor(c color.Color) { s.stroke = c }
func (s *Surface) SetAlpha(a float64) { s.alpha = a }
func (s *Surface) SetLineWidth(w float64) { s.lineWidth = w }
func (s *Surface) SetLineCap(c avatar.LineCap) { s.lineCap = c }
func (s *Surface) SetFont(size float64) { s.fontSize = size }
func (s *Surface) SetTextAlign(h avatar.TextAlign, v avatar.TextBaseline) {
	s.align, s.baseline = h, v
}

// =============================================================================
// Paths
// =============================================================================

func (s *Surface) BeginPath() {
	s.path.Reset()
	s.hasPoint = false
}

func (s *Surface) ClosePath() {
	if !s.hasPoint {
		return
	}
	s.path.WriteString("Z")
	s.curX, s.curY = s.startX, s.startY
}

func (s *Surface) MoveTo(x, y float64) {
	s.cmd("M", x, y)
	s.hasPoint = true
	s.curX, s.curY = x, y
	s.startX, s.startY = x, y
}

func (s *Surface) lineTo(x, y float64) {
	s.cmd("L", x, y)
	s.curX, s.curY = x, y
}

// ensurePoint starts a subpath at (x, y) when the path has no current point.
func (s *Surface) ensurePoint(x, y float64) {
	if !s.hasPoint {
		s.MoveTo(x, y)
	}
}

// Arc appends a clockwise arc. A sweep of a full turn or more draws the
// whole circle.
func (s *Surface) Arc(cx, cy, r, start, end float64) {
	x0, y0 := cx+r*math.Cos(start), cy+r*math.Sin(start)
	if s.hasPoint {
		s.lineTo(x0, y0)
	} else {
		s.MoveTo(x0, y0)
	}

	sweep := avatar.ArcSweep(start, end)
	if sweep == 0 || r <= 0 {
		return
	}

	pieces := int(math.Ceil(sweep / math.Pi))
	step := sweep / float64(pieces)
	for i := 1; i <= pieces; i++ {
		a := start + step*float64(i)
		x, y := cx+r*math.Cos(a), cy+r*math.Sin(a)
		fmt.Fprintf(&s.path, "A%s %s 0 0 1 %s %s", s.num(r), s.num(r), s.num(x), s.num(y))
		s.curX, s.curY = x, y
	}
}

func (s *Surface) QuadraticTo(cpx, cpy, x, y float64) {
	s.ensurePoint(cpx, cpy)
	s.cmd("Q", cpx, cpy, x, y)
	s.curX, s.curY = x, y
}

func (s *Surface) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	s.ensurePoint(c1x, c1y)
	s.cmd("C", c1x, c1y, c2x, c2y, x, y)
	s.curX, s.curY = x, y
}

// Fill paints the current path. The path is kept until the next BeginPath.
func (s *Surface) Fill() {
	if s.path.Len() == 0 {
		return
	}
	fmt.Fprintf(&s.body, `  <path d="%s"%s/>`+"\n", s.path.String(), paint("fill", s.fill, s.alpha))
}

func (s *Surface) Stroke() {
	if s.path.Len() == 0 {
		return
	}
	fmt.Fprintf(&s.body, `  <path d="%s" fill="none"%s%s/>`+"\n", s.path.String(), paint("stroke", s.stroke, s.alpha), s.strokeAttrs())
}

// =============================================================================
// Rectangles and text
// =============================================================================

func (s *Surface) FillRect(x, y, w, h float64) {
	fmt.Fprintf(&s.body, `  <rect x="%s" y="%s" width="%s" height="%s"%s/>`+"\n",
		s.num(x), s.num(y), s.num(w), s.num(h), paint("fill", s.fill, s.alpha))
}

func (s *Surface) FillText(text string, x, y float64) {
	s.text(text, x, y, paint("fill", s.fill, s.alpha))
}

func (s *Surface) StrokeText(text string, x, y float64) {
	s.text(text, x, y, ` fill="none"`+paint("stroke", s.stroke, s.alpha)+s.strokeAttrs())
}

func (s *Surface) text(text string, x, y float64, attrs string) {
	var esc bytes.Buffer
	_ = xml.EscapeText(&esc, []byte(text))
	if s.fontWeight != "" {
		attrs = ` font-weight="` + s.fontWeight + `"` + attrs
	}
	fmt.Fprintf(&s.body, `  <text x="%s" y="%s" font-family="%s" font-size="%s" text-anchor="%s" dominant-baseline="%s"%s>%s</text>`+"\n",
		s.num(x), s.num(y), s.fontFamily, s.num(s.fontSize), anchor(s.align), baseline(s.baseline), attrs, esc.String())
}

func (s *Surface) strokeAttrs() string {
	attrs := ` stroke-width="` + s.num(s.lineWidth) + `"`
	switch s.lineCap {
	case avatar.CapRound:
		attrs += ` stroke-linecap="round"`
	case avatar.CapSquare:
		attrs += ` stroke-linecap="square"`
	}
	return attrs
}

// =============================================================================
// Formatting helpers
// =============================================================================

func (s *Surface) cmd(op string, xs ...float64) {
	s.path.WriteString(op)
	for i, v := range xs {
		if i > 0 {
			s.path.WriteByte(' ')
		}
		s.path.WriteString(s.num(v))
	}
}

// num formats v with the configured precision and no trailing zeros.
func (s *Surface) num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	out := strconv.FormatFloat(v, 'f', s.prec, 64)
	if strings.Contains(out, ".") {
		out = strings.TrimRight(strings.TrimRight(out, "0"), ".")
	}
	if out == "-0" {
		out = "0"
	}
	return out
}

// paint renders a color attribute with its opacity, which combines the
// color's own alpha with the global alpha.
func paint(attr string, c color.Color, alpha float64) string {
	_, _, _, a := c.RGBA()
	op := alpha * float64(a) / 0xffff
	out := fmt.Sprintf(` %s="%s"`, attr, avatar.HexColor(c))
	if op < 1 {
		out += fmt.Sprintf(` %s-opacity="%s"`, attr, strconv.FormatFloat(op, 'g', 3, 64))
	}
	return out
}

func anchor(a avatar.TextAlign) string {
	switch a {
	case avatar.AlignCenter:
		return "middle"
	case avatar.AlignEnd:
		return "end"
	default:
		return "start"
	}
}

func baseline(b avatar.TextBaseline) string {
	switch b {
	case avatar.BaselineMiddle:
		return "middle"
	case avatar.BaselineTop:
		return "hanging"
	default:
		return "alphabetic"
	}
}
