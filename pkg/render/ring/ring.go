package ring

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"

	"github.com/matzehuels/ringavatar/pkg/avatar"
	"github.com/matzehuels/ringavatar/pkg/errors"
	"github.com/matzehuels/ringavatar/pkg/fonts"
	"github.com/matzehuels/ringavatar/pkg/layout"
	"github.com/matzehuels/ringavatar/pkg/render"
	"github.com/matzehuels/ringavatar/pkg/surface/raster"
	"github.com/matzehuels/ringavatar/pkg/surface/svg"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultSize       = 256
	DefaultScale      = 1.0
	DefaultFrameDelay = 100 * time.Millisecond

	// MaxFrames bounds animated output.
	MaxFrames = 600

	// breathFrames is one full breathing cycle at the default delay.
	breathFrames = 50

	// shades is the number of blend steps between each palette color and
	// the backdrop in GIF palettes.
	shades = 8
)

// Options configures artifact rendering. Zero values select defaults.
type Options struct {
	Width, Height int
	Config        avatar.Config

	// Scale multiplies the pixel size of PNG and GIF output.
	Scale float64

	// Frames is the length of GIF output. Zero renders the growth phase
	// plus one breathing cycle.
	Frames int

	// FrameDelay is the animation time between GIF frames.
	FrameDelay time.Duration

	// Font names the title typeface, one of [fonts.Names]. Empty selects
	// the default.
	Font string

	// Backdrop fills the corners of GIF frames, which cannot be partially
	// transparent. Nil uses the configured background.
	Backdrop color.Color

	Logger *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultSize
	}
	if o.Height <= 0 {
		o.Height = DefaultSize
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.FrameDelay <= 0 {
		o.FrameDelay = DefaultFrameDelay
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Config.Palette == nil {
		o.Config = avatar.DefaultConfig()
	}
	return o
}

func (o Options) scaled() (int, int) {
	return max(1, int(float64(o.Width)*o.Scale)), max(1, int(float64(o.Height)*o.Scale))
}

// =============================================================================
// Static Artifacts
// =============================================================================

// RenderSVG draws seed once as an SVG document.
func RenderSVG(ctx context.Context, seed string, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	s := svg.New(opts.Width, opts.Height, svgFont(opts.Font)...)
	a, err := avatar.New(seed, opts.Config, s, avatar.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}
	if err := a.Render(); err != nil {
		return nil, err
	}
	return s.Bytes(), ctx.Err()
}

// RenderPNG draws seed once into an image of the scaled size.
func RenderPNG(ctx context.Context, seed string, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	w, h := opts.scaled()
	s, err := newRaster(w, h, opts.Font)
	if err != nil {
		return nil, err
	}
	a, err := avatar.New(seed, opts.Config, s, avatar.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}
	if err := a.Render(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode png")
	}
	return buf.Bytes(), nil
}

func svgFont(name string) []svg.Option {
	if name == "" {
		return nil
	}
	return []svg.Option{svg.WithFontFamily(fonts.Family(name)), svg.WithFontWeight(fonts.Weight(name))}
}

func newRaster(w, h int, font string, opts ...raster.Option) (*raster.Surface, error) {
	if font != "" {
		f, err := fonts.Parse(font)
		if err != nil {
			return nil, err
		}
		opts = append(opts, raster.WithFont(f))
	}
	return raster.New(w, h, opts...)
}

// RenderPDF converts the SVG rendering with rsvg-convert.
func RenderPDF(ctx context.Context, seed string, opts Options) ([]byte, error) {
	doc, err := RenderSVG(ctx, seed, opts)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, doc)
}

// RenderJSON exports the static layout of seed.
func RenderJSON(ctx context.Context, seed string, opts Options) ([]byte, error) {
	l, err := Export(seed, opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return layout.Marshal(l)
}

// Export computes the serializable layout of a static render of seed.
func Export(seed string, opts Options) (layout.Layout, error) {
	opts = opts.withDefaults()
	snap, err := avatar.Compute(seed)
	if err != nil {
		return layout.Layout{}, err
	}
	style, err := opts.Config.Validate()
	if err != nil {
		return layout.Layout{}, err
	}
	g := avatar.Fit(opts.Width, opts.Height)

	l := layout.Layout{
		VizType:     layout.VizTypeRing,
		Seed:        seed,
		Width:       opts.Width,
		Height:      opts.Height,
		Coefficient: snap.Coefficient(),
		Title:       style.Title,
		Center:      &layout.Point{X: g.CenterX, Y: g.CenterY},
		Radius:      g.Radius,
		Edges:       Edges(&snap),
	}
	for d, e := range snap.Entries {
		if e.Count == 0 {
			continue
		}
		l.Arcs = append(l.Arcs, layout.Arc{
			Digit:      d,
			Count:      e.Count,
			StartAngle: e.StartAngle,
			EndAngle:   e.EndAngle,
			Color:      avatar.HexColor(style.Palette[d]),
		})
	}

	slots := snap.Slots(seed)
	size := float64(snap.Total)
	radius := style.LineRing * g.Radius
	for i := len(seed) - 2; i >= 0; i-- {
		d := int(seed[i] - '0')
		from := g.Point(float64(slots[i+1]), size, radius)
		to := g.Point(float64(slots[i]), size, radius)
		l.Segments = append(l.Segments, layout.Segment{
			Position: i,
			Digit:    d,
			FromSlot: slots[i+1],
			ToSlot:   slots[i],
			From:     layout.Point{X: from.X, Y: from.Y},
			To:       layout.Point{X: to.X, Y: to.Y},
			Width:    float64(max(1, 5-i)),
			Color:    avatar.HexColor(style.Palette[d]),
		})
	}
	return l, nil
}

// Edges lists the non-zero adjacency counts of a snapshot, ordered by
// source then target digit.
func Edges(s *avatar.Snapshot) []layout.Edge {
	var edges []layout.Edge
	for from := 0; from < avatar.Digits; from++ {
		for to := 0; to < avatar.Digits; to++ {
			if n := s.Transitions(from, to); n > 0 {
				edges = append(edges, layout.Edge{From: from, To: to, Count: n})
			}
		}
	}
	return edges
}

// =============================================================================
// Animated Artifacts
// =============================================================================

// RenderGIF records the animation of seed. Time is simulated, so the output
// is identical on every run.
func RenderGIF(ctx context.Context, seed string, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	w, h := opts.scaled()
	style, err := opts.Config.Validate()
	if err != nil {
		return nil, err
	}
	backdrop := opts.Backdrop
	if backdrop == nil {
		backdrop = style.Background
	}

	s, err := newRaster(w, h, opts.Font, raster.WithBackground(backdrop))
	if err != nil {
		return nil, err
	}
	clock := avatar.NewManualClock(time.UnixMilli(0))
	a, err := avatar.New(seed, opts.Config, s, avatar.WithClock(clock), avatar.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}

	frames := opts.Frames
	if frames <= 0 {
		frames = min(len(seed), int(avatar.Fit(w, h).Radius)) + breathFrames
	}
	frames = min(max(frames, 1), MaxFrames)

	var q avatar.FrameQueue
	animCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := a.Animate(animCtx, &q); err != nil {
		return nil, err
	}

	pal := Palette(style, backdrop)
	delay := max(1, int(opts.FrameDelay/(10*time.Millisecond)))
	out := &gif.GIF{LoopCount: 0}
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !q.Step() {
			break
		}
		img := s.Image()
		p := image.NewPaletted(img.Bounds(), pal)
		draw.Draw(p, p.Bounds(), img, img.Bounds().Min, draw.Src)
		out.Image = append(out.Image, p)
		out.Delay = append(out.Delay, delay)
		clock.Advance(opts.FrameDelay)
	}
	opts.Logger.Debug("gif recorded", "frames", len(out.Image), "size", w)

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode gif")
	}
	return buf.Bytes(), nil
}

// Palette builds a GIF palette from the style: the backdrop, every digit and
// title color, and blends of each towards the backdrop for anti-aliased edges.
func Palette(style avatar.Style, backdrop color.Color) color.Palette {
	base := []color.Color{style.TitleFill, style.TitleStroke, style.Background, color.Black}
	for _, c := range style.Palette {
		base = append(base, c)
	}

	bg, _ := colorful.MakeColor(opaque(backdrop))
	pal := color.Palette{opaque(backdrop)}
	seen := map[color.RGBA]bool{rgba(pal[0]): true}
	add := func(c color.Color) {
		if k := rgba(c); !seen[k] && len(pal) < 256 {
			seen[k] = true
			pal = append(pal, k)
		}
	}
	for _, c := range base {
		fg, _ := colorful.MakeColor(opaque(c))
		for i := 0; i < shades; i++ {
			r, g, b := fg.BlendRgb(bg, float64(i)/shades).Clamped().RGB255()
			add(color.RGBA{r, g, b, 0xff})
		}
	}
	return pal
}

// opaque drops the alpha channel of c.
func opaque(c color.Color) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 0xff
	return n
}

func rgba(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}
