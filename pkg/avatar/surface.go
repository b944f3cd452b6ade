package avatar

import (
	"image/color"
	"math"
	"sync"
	"time"
)

// LineCap is the shape drawn at the ends of stroked open paths.
type LineCap int

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

// TextAlign is the horizontal anchor of drawn text relative to its x coordinate.
type TextAlign int

const (
	AlignStart TextAlign = iota
	AlignCenter
	AlignEnd
)

// TextBaseline is the vertical anchor of drawn text relative to its y coordinate.
type TextBaseline int

const (
	BaselineAlphabetic TextBaseline = iota
	BaselineMiddle
	BaselineTop
)

// Surface is an immediate-mode 2D drawing target.
//
// Coordinates are surface pixels with y growing downwards. Angles are radians
// measured from the positive x axis towards positive y. Arc appends to the
// current path, joining it with a straight segment when a current point
// exists; Fill implicitly closes open subpaths. Colors combine with the alpha
// set by SetAlpha.
type Surface interface {
	// Size reports the current pixel size. It may change between frames.
	Size() (width, height int)

	// Clear erases the whole surface to transparent.
	Clear()

	SetFillColor(c color.Color)
	SetStrokeColor(c color.Color)
	SetAlpha(a float64)
	SetLineWidth(w float64)
	SetLineCap(c LineCap)
	SetFont(size float64)
	SetTextAlign(h TextAlign, v TextBaseline)

	BeginPath()
	ClosePath()
	MoveTo(x, y float64)
	Arc(cx, cy, r, start, end float64)
	QuadraticTo(cpx, cpy, x, y float64)
	CubicTo(c1x, c1y, c2x, c2y, x, y float64)
	Fill()
	Stroke()

	FillRect(x, y, w, h float64)
	FillText(s string, x, y float64)
	StrokeText(s string, x, y float64)
}

// ArcSweep returns the clockwise angle an Arc from start to end covers,
// in [0, 2π]. Sweeps of a full turn or more draw the whole circle; otherwise
// the end angle is reduced modulo a turn.
func ArcSweep(start, end float64) float64 {
	d := end - start
	if d >= 2*math.Pi {
		return 2 * math.Pi
	}
	d = math.Mod(d, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	return d
}

// Clock is a monotonic time source.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock is a Clock that only moves when told to. It is used to drive
// animations off-screen (GIF export) and in tests.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock returns a clock stopped at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Scheduler invokes a callback once before the next repaint.
// Implementations hold at most one pending callback; a new request replaces
// the previous one.
type Scheduler interface {
	RequestFrame(fn func())
}

// FrameQueue is a Scheduler that runs the pending callback when Step is
// called. Hosts with their own refresh loop (a game loop, a terminal ticker,
// an encoder writing frames) call Step once per refresh.
type FrameQueue struct {
	mu      sync.Mutex
	pending func()
}

// RequestFrame stores fn as the pending callback.
func (q *FrameQueue) RequestFrame(fn func()) {
	q.mu.Lock()
	q.pending = fn
	q.mu.Unlock()
}

// Pending reports whether a callback is waiting.
func (q *FrameQueue) Pending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending != nil
}

// Step runs the pending callback, if any, and reports whether one ran.
// The callback runs without the lock held so it may request the next frame.
func (q *FrameQueue) Step() bool {
	q.mu.Lock()
	fn := q.pending
	q.pending = nil
	q.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}
