// Package window hosts an avatar in a desktop window.
//
// A [Window] is both the avatar's drawing surface and its frame scheduler:
// frames requested by the avatar run inside ebiten's update loop and draw
// into an offscreen canvas, which is copied to the screen on every draw.
// Resizing the window resizes the canvas, so the avatar refits on the next
// frame.
//
//	w := window.New("pi", 480, 480)
//	a, _ := avatar.New("31415926", cfg, w)
//	_ = a.Animate(ctx, w)
//	_ = w.Run(ctx)
package window

import (
	"context"
	"errors"
	"image"
	"image/color"

	"github.com/golang/freetype/truetype"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"github.com/matzehuels/ringavatar/pkg/avatar"
	rerrors "github.com/matzehuels/ringavatar/pkg/errors"
	"github.com/matzehuels/ringavatar/pkg/fonts"
)

// DefaultTPS is the update rate. Animation speed is driven by the avatar's
// clock, so this only bounds how often frames are drawn.
const DefaultTPS = 60

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// Option configures a [Window].
type Option func(*Window)

// WithBackdrop sets the color behind the canvas. Default is white.
func WithBackdrop(c color.Color) Option { return func(w *Window) { w.backdrop = c } }

// WithTPS overrides [DefaultTPS].
func WithTPS(tps int) Option { return func(w *Window) { w.tps = tps } }

// WithFont replaces the Go Mono title typeface.
func WithFont(f *truetype.Font) Option { return func(w *Window) { w.font = f } }

// OnResize registers fn to run inside the update loop whenever the canvas
// changes size, including the first layout. Static avatars use it to redraw.
func OnResize(fn func()) Option { return func(w *Window) { w.onResize = fn } }

// Window is an [avatar.Surface] and [avatar.Scheduler] backed by ebiten.
type Window struct {
	avatar.FrameQueue

	title         string
	width, height int
	tps           int
	backdrop      color.Color
	font          *truetype.Font
	faces         map[float64]*text.GoXFace
	onResize      func()

	canvas   *ebiten.Image
	ctx      context.Context
	path     vector.Path
	hasPoint bool
	vertices []ebiten.Vertex
	indices  []uint16

	fill, stroke color.Color
	alpha        float64
	lineWidth    float64
	lineCap      vector.LineCap
	fontSize     float64
	align        avatar.TextAlign
	baseline     avatar.TextBaseline
}

var (
	_ avatar.Surface   = (*Window)(nil)
	_ avatar.Scheduler = (*Window)(nil)
	_ ebiten.Game      = (*Window)(nil)
)

// New creates a window of the given initial size. Nothing is shown until
// [Window.Run].
func New(title string, width, height int, opts ...Option) *Window {
	w := &Window{
		title:     title,
		width:     max(1, width),
		height:    max(1, height),
		tps:       DefaultTPS,
		backdrop:  color.White,
		faces:     make(map[float64]*text.GoXFace),
		ctx:       context.Background(),
		fill:      color.Black,
		stroke:    color.Black,
		alpha:     1,
		lineWidth: 1,
		fontSize:  10,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run opens the window and blocks until it is closed, Escape or q is
// pressed, or ctx is done. Closing the window is not an error.
func (w *Window) Run(ctx context.Context) error {
	if w.font == nil {
		f, err := fonts.Parse(fonts.Default)
		if err != nil {
			return err
		}
		w.font = f
	}
	w.ctx = ctx

	ebiten.SetWindowSize(w.width, w.height)
	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(w.tps)

	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		return rerrors.Wrap(rerrors.ErrCodeRenderFailed, err, "run window")
	}
	return nil
}

// =============================================================================
// ebiten.Game
// =============================================================================

func (w *Window) Update() error {
	if w.ctx.Err() != nil {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	w.ensureCanvas()
	w.Step()
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	screen.Fill(w.backdrop)
	if w.canvas != nil {
		screen.DrawImage(w.canvas, nil)
	}
}

// Layout matches the canvas to the window so the avatar scales with it.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	outsideWidth, outsideHeight = max(1, outsideWidth), max(1, outsideHeight)
	if outsideWidth != w.width || outsideHeight != w.height {
		w.width, w.height = outsideWidth, outsideHeight
		w.canvas = nil
	}
	return outsideWidth, outsideHeight
}

func (w *Window) ensureCanvas() {
	if w.canvas != nil {
		return
	}
	w.canvas = ebiten.NewImage(w.width, w.height)
	if w.onResize != nil {
		w.onResize()
	}
}

// =============================================================================
// avatar.Surface
// =============================================================================

func (w *Window) Size() (int, int) { return w.width, w.height }

func (w *Window) Clear() {
	w.ensureCanvas()
	w.canvas.Clear()
	w.BeginPath()
}

func (w *Window) SetFillColor(c color.Color)   { w.fill = c }
func (w *Window) SetStrokeColor(c color.Color) { w.stroke = c }
func (w *Window) SetAlpha(a float64)           { w.alpha = a }
func (w *Window) SetLineWidth(lw float64)      { w.lineWidth = lw }
func (w *Window) SetFont(size float64)         { w.fontSize = size }

func (w *Window) SetLineCap(c avatar.LineCap) {
	switch c {
	case avatar.CapRound:
		w.lineCap = vector.LineCapRound
	case avatar.CapSquare:
		w.lineCap = vector.LineCapSquare
	default:
		w.lineCap = vector.LineCapButt
	}
}

func (w *Window) SetTextAlign(h avatar.TextAlign, v avatar.TextBaseline) {
	w.align, w.baseline = h, v
}

func (w *Window) BeginPath() {
	w.path = vector.Path{}
	w.hasPoint = false
}

func (w *Window) ClosePath() { w.path.Close() }

func (w *Window) MoveTo(x, y float64) {
	w.path.MoveTo(float32(x), float32(y))
	w.hasPoint = true
}

func (w *Window) ensurePoint(x, y float64) {
	if !w.hasPoint {
		w.MoveTo(x, y)
	}
}

// Arc appends a clockwise arc, joined to the current point by a line.
func (w *Window) Arc(cx, cy, r, start, end float64) {
	sweep := avatar.ArcSweep(start, end)
	w.path.Arc(float32(cx), float32(cy), float32(r), float32(start), float32(start+sweep), vector.Clockwise)
	w.hasPoint = true
}

func (w *Window) QuadraticTo(cpx, cpy, x, y float64) {
	w.ensurePoint(cpx, cpy)
	w.path.QuadTo(float32(cpx), float32(cpy), float32(x), float32(y))
}

func (w *Window) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	w.ensurePoint(c1x, c1y)
	w.path.CubicTo(float32(c1x), float32(c1y), float32(c2x), float32(c2y), float32(x), float32(y))
}

func (w *Window) Fill() {
	w.vertices, w.indices = w.path.AppendVerticesAndIndicesForFilling(w.vertices[:0], w.indices[:0])
	w.drawTriangles(w.fill, ebiten.NonZero)
}

func (w *Window) Stroke() {
	op := &vector.StrokeOptions{
		Width:    float32(w.lineWidth),
		LineCap:  w.lineCap,
		LineJoin: vector.LineJoinRound,
	}
	w.vertices, w.indices = w.path.AppendVerticesAndIndicesForStroke(w.vertices[:0], w.indices[:0], op)
	w.drawTriangles(w.stroke, ebiten.FillAll)
}

func (w *Window) drawTriangles(c color.Color, rule ebiten.FillRule) {
	if len(w.indices) == 0 {
		return
	}
	w.ensureCanvas()
	r, g, b, a := colorScale(c, w.alpha)
	for i := range w.vertices {
		v := &w.vertices[i]
		v.SrcX, v.SrcY = 1, 1
		v.ColorR, v.ColorG, v.ColorB, v.ColorA = r, g, b, a
	}
	op := &ebiten.DrawTrianglesOptions{FillRule: rule, AntiAlias: true}
	w.canvas.DrawTriangles(w.vertices, w.indices, whiteSubImage, op)
}

func (w *Window) FillRect(x, y, width, height float64) {
	w.ensureCanvas()
	vector.DrawFilledRect(w.canvas, float32(x), float32(y), float32(width), float32(height), withAlpha(w.fill, w.alpha), false)
}

func (w *Window) FillText(s string, x, y float64) {
	w.drawText(s, x, y, w.fill)
}

// StrokeText approximates an outline by stamping the text around the anchor.
func (w *Window) StrokeText(s string, x, y float64) {
	d := max(w.lineWidth/2, 0.5)
	for _, o := range [][2]float64{{-d, 0}, {d, 0}, {0, -d}, {0, d}, {-d, -d}, {d, d}, {-d, d}, {d, -d}} {
		w.drawText(s, x+o[0], y+o[1], w.stroke)
	}
}

func (w *Window) drawText(s string, x, y float64, c color.Color) {
	face := w.face()
	if face == nil {
		return
	}
	w.ensureCanvas()

	op := &text.DrawOptions{}
	switch w.align {
	case avatar.AlignCenter:
		op.PrimaryAlign = text.AlignCenter
	case avatar.AlignEnd:
		op.PrimaryAlign = text.AlignEnd
	}
	switch w.baseline {
	case avatar.BaselineMiddle:
		op.SecondaryAlign = text.AlignCenter
	case avatar.BaselineAlphabetic:
		y -= face.Metrics().HAscent
	}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(withAlpha(c, w.alpha))
	text.Draw(w.canvas, s, face, op)
}

func (w *Window) face() *text.GoXFace {
	if w.fontSize < 1 || w.font == nil {
		return nil
	}
	f, ok := w.faces[w.fontSize]
	if !ok {
		f = text.NewGoXFace(truetype.NewFace(w.font, &truetype.Options{
			Size:    w.fontSize,
			DPI:     72,
			Hinting: font.HintingFull,
		}))
		w.faces[w.fontSize] = f
	}
	return f
}

// withAlpha returns c with its alpha scaled by the global alpha.
func withAlpha(c color.Color, alpha float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(float64(n.A)*min(1, max(0, alpha)) + 0.5)
	return n
}

// colorScale converts c to straight-alpha vertex color components.
func colorScale(c color.Color, alpha float64) (r, g, b, a float32) {
	n := withAlpha(c, alpha)
	return float32(n.R) / 0xff, float32(n.G) / 0xff, float32(n.B) / 0xff, float32(n.A) / 0xff
}
