// Package term prints raster avatars to a terminal.
//
// Every character cell shows two vertically stacked pixels using the upper
// half block: the foreground color paints the top pixel and the background
// color the bottom one. Transparent pixels are left to the terminal's own
// background, so the disc sits on whatever theme the user runs.
package term

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"

	"github.com/matzehuels/ringavatar/pkg/avatar"
)

const (
	upperHalf = "▀"
	lowerHalf = "▄"
	fullBlock = "█"
)

// DefaultThreshold is the alpha below which a pixel counts as transparent.
const DefaultThreshold = 0x80

// Option configures an [Encoder].
type Option func(*Encoder)

// WithRenderer sets the lipgloss renderer, and with it the color profile.
func WithRenderer(r *lipgloss.Renderer) Option { return func(e *Encoder) { e.renderer = r } }

// WithThreshold overrides [DefaultThreshold].
func WithThreshold(a uint8) Option { return func(e *Encoder) { e.threshold = a } }

// Encoder converts images to styled half-block text.
type Encoder struct {
	renderer  *lipgloss.Renderer
	threshold uint8
}

// New returns an encoder using the default lipgloss renderer.
func New(opts ...Option) *Encoder {
	e := &Encoder{renderer: lipgloss.DefaultRenderer(), threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Fit returns the largest cell grid that shows a w×h image within
// maxCols×maxRows without distorting it.
func Fit(w, h, maxCols, maxRows int) (cols, rows int) {
	if w <= 0 || h <= 0 || maxCols <= 0 || maxRows <= 0 {
		return 0, 0
	}
	scale := min(float64(maxCols)/float64(w), float64(2*maxRows)/float64(h))
	cols = max(1, int(float64(w)*scale))
	rows = max(1, int(float64(h)*scale)/2)
	return cols, rows
}

// Encode scales img to cols×(2·rows) pixels and renders it as rows lines of
// cols cells. Empty grids give an empty string.
func (e *Encoder) Encode(img image.Image, cols, rows int) string {
	if cols <= 0 || rows <= 0 || img.Bounds().Empty() {
		return ""
	}
	px := image.NewNRGBA(image.Rect(0, 0, cols, 2*rows))
	if img.Bounds().Size() == px.Bounds().Size() {
		draw.Draw(px, px.Bounds(), img, img.Bounds().Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(px, px.Bounds(), img, img.Bounds(), draw.Src, nil)
	}

	var b strings.Builder
	for row := 0; row < rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < cols; col++ {
			b.WriteString(e.cell(px.NRGBAAt(col, 2*row), px.NRGBAAt(col, 2*row+1)))
		}
	}
	return b.String()
}

func (e *Encoder) cell(top, bottom color.NRGBA) string {
	topOn, bottomOn := top.A >= e.threshold, bottom.A >= e.threshold
	style := e.renderer.NewStyle()
	switch {
	case !topOn && !bottomOn:
		return " "
	case topOn && !bottomOn:
		return style.Foreground(hex(top)).Render(upperHalf)
	case !topOn && bottomOn:
		return style.Foreground(hex(bottom)).Render(lowerHalf)
	case top == bottom:
		return style.Foreground(hex(top)).Render(fullBlock)
	default:
		return style.Foreground(hex(top)).Background(hex(bottom)).Render(upperHalf)
	}
}

func hex(c color.NRGBA) lipgloss.Color {
	return lipgloss.Color(avatar.HexColor(c))
}
