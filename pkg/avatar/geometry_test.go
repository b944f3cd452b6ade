package avatar

import (
	"math"
	"testing"
)

func TestFit(t *testing.T) {
	tests := []struct {
		w, h      int
		cx, cy, r float64
	}{
		{200, 200, 100, 100, 100},
		{301, 120, 150, 60, 60},
		{1, 1, 0, 0, 0},
		{0, 0, 0, 0, 0},
		{-5, 40, 0, 20, 0},
	}
	for _, tt := range tests {
		g := Fit(tt.w, tt.h)
		if g.CenterX != tt.cx || g.CenterY != tt.cy || g.Radius != tt.r {
			t.Errorf("Fit(%d, %d) = center (%v, %v) radius %v, want (%v, %v) %v",
				tt.w, tt.h, g.CenterX, g.CenterY, g.Radius, tt.cx, tt.cy, tt.r)
		}
	}
}

func TestPointWrapsAround(t *testing.T) {
	g := Fit(200, 200)
	for _, size := range []float64{1, 7, 10, 1000} {
		a := g.Point(0, size, 50)
		b := g.Point(size, size, 50)
		if math.Abs(a.X-b.X) > eps || math.Abs(a.Y-b.Y) > eps {
			t.Errorf("size %v: Point(0) = %v, Point(size) = %v", size, a, b)
		}
	}
}

func TestPointIsOnCircle(t *testing.T) {
	g := Fit(200, 100)
	seen := make(map[[2]float64]bool)
	for i := 0; i < 12; i++ {
		p := g.Point(float64(i), 12, 30)
		if d := math.Hypot(p.X-g.CenterX, p.Y-g.CenterY); math.Abs(d-30) > eps {
			t.Errorf("slot %d at distance %v, want 30", i, d)
		}
		key := [2]float64{math.Round(p.X * 1e6), math.Round(p.Y * 1e6)}
		if seen[key] {
			t.Errorf("slot %d collides with an earlier slot", i)
		}
		seen[key] = true
	}
}

func TestPointDegenerateSize(t *testing.T) {
	g := Fit(80, 80)
	p := g.Point(3, 0, 20)
	if p.X != 40 || p.Y != 40 {
		t.Errorf("Point with size 0 = %v, want center", p)
	}
}

func TestCircularMean(t *testing.T) {
	tests := []struct {
		i1, i2, size, want float64
	}{
		{1, 9, 10, 0},
		{9, 1, 10, 0},
		{2, 4, 10, 3},
		{0, 5, 10, 7.5},
		{8, 9, 10, 8.5},
		{7, 1, 8, 0},
		{3, 3, 8, 3},
	}
	for _, tt := range tests {
		if got := CircularMean(tt.i1, tt.i2, tt.size); math.Abs(got-tt.want) > eps {
			t.Errorf("CircularMean(%v, %v, %v) = %v, want %v", tt.i1, tt.i2, tt.size, got, tt.want)
		}
	}
}

func TestMidpointUsesCircularMean(t *testing.T) {
	g := Fit(200, 200)
	m := g.Midpoint(1, 9, 10, 50)
	want := g.Point(0, 10, 50)
	if math.Abs(m.X-want.X) > eps || math.Abs(m.Y-want.Y) > eps {
		t.Errorf("Midpoint(1, 9) = %v, want %v", m, want)
	}
}
