package avatar

import (
	"image/color"
	"math"
	"testing"
	"time"
)

// recorder is a Surface that logs every call.
type recorder struct {
	w, h  int
	calls []call

	alpha     float64
	lineWidth float64
}

type call struct {
	op   string
	args []float64
	text string
	col  color.Color
}

func newRecorder(w, h int) *recorder { return &recorder{w: w, h: h} }

func (r *recorder) add(op string, args ...float64) {
	r.calls = append(r.calls, call{op: op, args: args})
}

func (r *recorder) Size() (int, int) { return r.w, r.h }
func (r *recorder) Clear() { r.add("Clear") }

func (r *recorder) SetFillColor(c color.Color) {
	r.calls = append(r.calls, call{op: "SetFillColor", col: c})
}

func (r *recorder) SetStrokeColor(c color.Color) {
	r.calls = append(r.calls, call{op: "SetStrokeColor", col: c})
}

func (r *recorder) SetAlpha(a float64) { r.alpha = a; r.add("SetAlpha", a) }
func (r *recorder) SetLineWidth(w float64) { r.lineWidth = w; r.add("SetLineWidth", w) }
func (r *recorder) SetLineCap(c LineCap) { r.add("SetLineCap", float64(c)) }
func (r *recorder) SetFont(size float64) { r.add("SetFont", size) }

func (r *recorder) SetTextAlign(h TextAlign, v TextBaseline) {
	r.add("SetTextAlign", float64(h), float64(v))
}

func (r *recorder) BeginPath() { r.add("BeginPath") }
func (r *recorder) ClosePath() { r.add("ClosePath") }
func (r *recorder) MoveTo(x, y float64) { r.add("MoveTo", x, y) }
func (r *recorder) Arc(cx, cy, rad, s, e float64) { r.add("Arc", cx, cy, rad, s, e) }
func (r *recorder) QuadraticTo(cx, cy, x, y float64) { r.add("QuadraticTo", cx, cy, x, y) }
func (r *recorder) CubicTo(a, b, c, d, x, y float64) { r.add("CubicTo", a, b, c, d, x, y) }
func (r *recorder) Fill() { r.add("Fill", r.alpha) }
func (r *recorder) Stroke() { r.add("Stroke", r.lineWidth, r.alpha) }
func (r *recorder) FillRect(x, y, w, h float64) { r.add("FillRect", x, y, w, h) }
func (r *recorder) FillText(s string, x, y float64) { r.addText("FillText", s, x, y) }
func (r *recorder) StrokeText(s string, x, y float64) { r.addText("StrokeText", s, x, y) }

func (r *recorder) addText(op, s string, x, y float64) {
	r.calls = append(r.calls, call{op: op, args: []float64{x, y, r.alpha}, text: s})
}

func (r *recorder) count(op string) int {
	n := 0
	for _, c := range r.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

func (r *recorder) first(op string) int {
	for i, c := range r.calls {
		if c.op == op {
			return i
		}
	}
	return -1
}

func (r *recorder) all(op string) []call {
	var out []call
	for _, c := range r.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

func (r *recorder) reset() { r.calls = nil }

func TestFrameQueueHoldsOneCallback(t *testing.T) {
	var q FrameQueue
	if q.Step() {
		t.Fatal("Step on empty queue should report false")
	}

	var got []string
	q.RequestFrame(func() { got = append(got, "a") })
	q.RequestFrame(func() { got = append(got, "b") })
	if !q.Pending() {
		t.Fatal("expected a pending callback")
	}
	if !q.Step() {
		t.Fatal("Step should run the pending callback")
	}
	if len(got) != 1 || got[0] != "b" {
		t.Errorf("got %v, want [b]", got)
	}
	if q.Pending() {
		t.Error("queue should be empty after Step")
	}
}

func TestFrameQueueCallbackMayReschedule(t *testing.T) {
	var q FrameQueue
	n := 0
	var step func()
	step = func() {
		n++
		if n < 3 {
			q.RequestFrame(step)
		}
	}
	q.RequestFrame(step)
	for q.Step() {
	}
	if n != 3 {
		t.Errorf("ran %d frames, want 3", n)
	}
}

func TestManualClock(t *testing.T) {
	start := time.UnixMilli(1000)
	c := NewManualClock(start)
	if !c.Now().Equal(start) {
		t.Fatalf("Now() = %v, want %v", c.Now(), start)
	}
	c.Advance(250 * time.Millisecond)
	if got := c.Now().UnixMilli(); got != 1250 {
		t.Errorf("after Advance: %d ms, want 1250", got)
	}
}

func TestArcSweep(t *testing.T) {
	tests := []struct {
		start, end float64
		want       float64
	}{
		{0, math.Pi, math.Pi},
		{1, 1, 0},
		{0, 2 * math.Pi, 2 * math.Pi},
		{0, 5 * math.Pi, 2 * math.Pi},
		{math.Pi, 0, math.Pi},
		{0, -math.Pi / 2, 3 * math.Pi / 2},
	}
	for _, tt := range tests {
		if got := ArcSweep(tt.start, tt.end); math.Abs(got-tt.want) > eps {
			t.Errorf("ArcSweep(%v, %v) = %v, want %v", tt.start, tt.end, got, tt.want)
		}
	}
}
