package avatar

import "math"

// Point is a position on the drawing surface, in pixels.
type Point struct {
	X, Y float64
}

// Geometry is the fitted drawing area: the surface size, its integer center
// and the largest radius that fits.
type Geometry struct {
	Width, Height    int
	CenterX, CenterY float64
	Radius           float64
}

// Fit computes the geometry for a surface of the given pixel size.
// The center is truncated to whole pixels. Zero or negative sizes produce a
// zero radius, for which every pass degenerates to a no-op.
func Fit(width, height int) Geometry {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	cx, cy := width>>1, height>>1
	return Geometry{
		Width:   width,
		Height:  height,
		CenterX: float64(cx),
		CenterY: float64(cy),
		Radius:  float64(min(cx, cy)),
	}
}

// Point returns the position of slot index in a partition of size slots, on a
// circle of the given radius around the center. Slot 0 lies on the positive
// x axis; index and index+size coincide. Index need not be integral.
func (g Geometry) Point(index, size, radius float64) Point {
	if size <= 0 {
		return Point{g.CenterX, g.CenterY}
	}
	theta := index * 2 * math.Pi / size
	return Point{
		X: math.Cos(theta)*radius + g.CenterX,
		Y: math.Sin(theta)*radius + g.CenterY,
	}
}

// Midpoint returns the point halfway between slots i1 and i2 along the
// shorter arc, so slots on either side of zero average near zero instead of
// near size/2.
func (g Geometry) Midpoint(i1, i2, size, radius float64) Point {
	return g.Point(CircularMean(i1, i2, size), size, radius)
}

// CircularMean returns the slot index halfway between i1 and i2 on a circle of
// size slots, measured along the shorter arc, reduced into [0, size).
func CircularMean(i1, i2, size float64) float64 {
	half := size / 2
	avg := (i1 + i2) / 2
	if math.Abs(i1-i2) >= half {
		avg += half
	}
	if avg >= size {
		avg -= size
	}
	return avg
}
