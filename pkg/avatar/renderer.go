package avatar

import "math"

const (
	titleAlpha = 0.1
	dotInset   = 5   // pixels between the dot ring and its base radius
	bendReach  = 1.1 // bezier control radius factor at the first segment
)

// Scene is the per-frame input of a [Renderer]: the displayed digits, their
// layout and the animation parameters.
type Scene struct {
	Digits   string
	Snapshot Snapshot
	Geometry Geometry

	// Bend scales how far curve control points sit from the center.
	Bend float64

	// Highlight is the string position drawn as a large dot, or -1.
	Highlight int
}

// Renderer draws scenes in a fixed order: background disc, title, color
// ring, dots, connector lines with title watermarks, title.
//
// A Renderer holds no per-frame state and may be reused across frames.
type Renderer struct {
	Style Style
}

// NewRenderer returns a renderer for a validated style.
func NewRenderer(s Style) *Renderer {
	return &Renderer{Style: s}
}

// Draw runs all passes against s. Passes that need occurrences are skipped
// for an empty string; a zero radius produces nothing visible.
func (r *Renderer) Draw(s Surface, sc *Scene) {
	c := &pen{Surface: s}
	c.SetAlpha(1)
	c.SetLineWidth(1)
	c.SetLineCap(CapButt)

	r.drawBackground(c, sc.Geometry)
	r.drawTitle(c, sc.Geometry)
	if !sc.Snapshot.Empty() {
		r.drawRing(c, sc)
		r.drawDots(c, sc)
		r.drawLines(c, sc)
	}
	r.drawTitle(c, sc.Geometry)
}

// pen remembers the alpha and line width last set, so the title pass can
// restore them.
type pen struct {
	Surface
	alpha     float64
	lineWidth float64
}

func (p *pen) SetAlpha(a float64) {
	p.alpha = a
	p.Surface.SetAlpha(a)
}

func (p *pen) SetLineWidth(w float64) {
	p.lineWidth = w
	p.Surface.SetLineWidth(w)
}

func (r *Renderer) drawBackground(c *pen, g Geometry) {
	c.SetFillColor(r.Style.Background)
	c.BeginPath()
	c.Arc(g.CenterX, g.CenterY, r.Style.ColorRing*g.Radius, 0, 2*math.Pi)
	c.Fill()
}

func (r *Renderer) drawTitle(c *pen, g Geometry) {
	size := math.Round(g.Radius / 4)
	if r.Style.Title == "" || size < 1 {
		return
	}
	alpha, width := c.alpha, c.lineWidth

	c.SetFont(size)
	c.SetLineWidth(1)
	c.SetStrokeColor(r.Style.TitleStroke)
	c.SetFillColor(r.Style.TitleFill)
	c.SetAlpha(titleAlpha)
	c.SetTextAlign(AlignCenter, BaselineMiddle)
	c.StrokeText(r.Style.Title, g.CenterX, g.CenterY)
	c.FillText(r.Style.Title, g.CenterX, g.CenterY)

	c.SetAlpha(alpha)
	c.SetLineWidth(width)
}

// drawRing fills one arc segment per digit. Digits that do not occur span
// an empty range and are skipped.
func (r *Renderer) drawRing(c *pen, sc *Scene) {
	g := sc.Geometry
	radius := r.Style.ColorRing * g.Radius
	for d := range sc.Snapshot.Entries {
		e := &sc.Snapshot.Entries[d]
		if e.Count == 0 {
			continue
		}
		c.SetFillColor(r.Style.Palette[d])
		c.BeginPath()
		c.Arc(g.CenterX, g.CenterY, radius, e.StartAngle, e.EndAngle)
		c.Fill()
	}
}

// drawDots marks one slot per position from the second to last down to the
// second character. The last character only supplies the radius offset of
// its predecessor.
func (r *Renderer) drawDots(c *pen, sc *Scene) {
	digits, snap, g := sc.Digits, &sc.Snapshot, sc.Geometry
	n := len(digits)
	if n < 3 {
		return
	}
	base := r.Style.DotRing*g.Radius - dotInset
	size := float64(snap.Total)
	big := math.Trunc(g.Radius / 25)

	var cur cursors
	next := digitAt(digits, n-1)
	for i := n - 2; i >= 1; i-- {
		d := digitAt(digits, i)
		prev := digitAt(digits, i-1)
		p := g.Point(float64(cur.slot(snap, d)), size, base+float64(next))

		c.SetFillColor(r.Style.Palette[prev])
		if i == sc.Highlight {
			c.BeginPath()
			c.Arc(p.X, p.Y, big, 0, 2*math.Pi)
			c.Fill()
		} else {
			c.FillRect(p.X, p.Y, 1, 1)
		}
		next = d
	}
}

// drawLines connects consecutive occurrence slots from the end of the string
// back to its start. Segments thin out towards the start, and the title is
// redrawn every hundredth of the string.
func (r *Renderer) drawLines(c *pen, sc *Scene) {
	digits, snap, g := sc.Digits, &sc.Snapshot, sc.Geometry
	n := len(digits)
	radius := r.Style.LineRing * g.Radius
	size := float64(snap.Total)
	deci := float64(n) / 100
	mark := float64(n) - deci

	var cur cursors
	pos := float64(cur.slot(snap, digitAt(digits, n-1)))
	end := g.Point(pos, size, radius)
	ctrl := g.Point(pos, size, 0)

	c.SetLineCap(CapRound)
	for i := n - 2; i >= 0; i-- {
		percent := (size - float64(i)) / size
		d := digitAt(digits, i)
		p := float64(cur.slot(snap, d))
		to := g.Point(p, size, radius)
		vec := g.Point(p, size, radius*(bendReach-percent)*sc.Bend)

		c.SetStrokeColor(r.Style.Palette[d])
		c.SetLineWidth(float64(max(1, 5-i)))
		c.BeginPath()
		c.MoveTo(end.X, end.Y)
		if r.Style.Bezier {
			c.CubicTo(ctrl.X, ctrl.Y, vec.X, vec.Y, to.X, to.Y)
		} else {
			m := g.Midpoint(p, pos, size, radius*0.5*sc.Bend)
			c.QuadraticTo(m.X, m.Y, to.X, to.Y)
		}
		c.Stroke()

		end, ctrl, pos = to, vec, p

		if float64(i) < mark {
			r.drawTitle(c, g)
			mark -= deci
		}
	}
}

// digitAt returns the value of the validated digit at position i.
func digitAt(s string, i int) int {
	return int(s[i] - '0')
}
