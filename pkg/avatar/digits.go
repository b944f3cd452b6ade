package avatar

import (
	"math"

	"github.com/matzehuels/ringavatar/pkg/errors"
)

// Digits is the number of distinct digit values, and therefore the number of
// arcs in the ring.
const Digits = 10

// Entry holds the statistics and angular range of one digit value.
type Entry struct {
	Count int // occurrences in the string

	// Previous[d] counts how often digit d immediately precedes an
	// occurrence of this digit; Next[d] how often d immediately follows.
	Previous [Digits]int
	Next     [Digits]int

	// CumulativeStart and CumulativeEnd are running occurrence totals over
	// the digits below and up to this one. The digit's occurrence slots are
	// (CumulativeStart, CumulativeEnd], handed out from the top.
	CumulativeStart int
	CumulativeEnd   int

	StartAngle float64 // radians
	EndAngle   float64 // radians
	Angle      float64 // EndAngle - StartAngle
}

// Snapshot is the layout of one digit string: per-digit statistics plus the
// partition of the circle they induce. A Snapshot is recomputed from scratch
// for every draw and never mutated afterwards.
type Snapshot struct {
	Entries [Digits]Entry
	Total   int // length of the digit string
}

// Compute builds the statistics and angular layout for digits.
// It returns an INVALID_DIGITS error when digits contains anything other than
// ASCII '0'..'9'. The empty string is valid and yields an all-zero snapshot.
func Compute(digits string) (Snapshot, error) {
	if err := errors.ValidateDigits(digits); err != nil {
		return Snapshot{}, err
	}
	s := countDigits(digits)
	s.layout()
	return s, nil
}

// countDigits scans digits once, filling counts and adjacency histograms.
// The input must already be validated.
func countDigits(digits string) Snapshot {
	var s Snapshot
	n := len(digits)
	s.Total = n
	for i := 0; i < n; i++ {
		e := &s.Entries[digits[i]-'0']
		e.Count++
		if i > 0 {
			e.Previous[digits[i-1]-'0']++
		}
		if i < n-1 {
			e.Next[digits[i+1]-'0']++
		}
	}
	return s
}

// layout partitions the circle in ascending digit order.
func (s *Snapshot) layout() {
	coeff := s.Coefficient()
	sum := 0
	for d := range s.Entries {
		e := &s.Entries[d]
		e.CumulativeStart = sum
		e.StartAngle = float64(sum) * coeff
		sum += e.Count
		e.Angle = float64(e.Count) * coeff
		e.CumulativeEnd = sum
		e.EndAngle = float64(sum) * coeff
	}
}

// Coefficient returns the angle of one occurrence slot, 2π/Total, or 0 for an
// empty snapshot.
func (s *Snapshot) Coefficient() float64 {
	if s.Total == 0 {
		return 0
	}
	return 2 * math.Pi / float64(s.Total)
}

// Empty reports whether the snapshot has no occurrences, in which case the
// ring, dot and line passes draw nothing.
func (s *Snapshot) Empty() bool {
	return s.Total == 0
}

// Transitions returns the number of adjacent pairs (a, b) in the string,
// read from the Next histograms.
func (s *Snapshot) Transitions(a, b int) int {
	return s.Entries[a].Next[b]
}

// Slots returns the occurrence slot of every position of digits as the
// connector pass assigns them, walking from the last character to the first.
// digits must be the string the snapshot was computed from.
func (s *Snapshot) Slots(digits string) []int {
	slots := make([]int, len(digits))
	var cur cursors
	for i := len(digits) - 1; i >= 0; i-- {
		slots[i] = cur.slot(s, digitAt(digits, i))
	}
	return slots
}

// cursors hands out occurrence slots during one drawing pass. Each pass owns
// a fresh value, so passes cannot observe each other's progress.
type cursors [Digits]int

// slot returns the next free slot of digit d, counting down from the end of
// the digit's range, and advances the digit's cursor.
func (c *cursors) slot(s *Snapshot, d int) int {
	pos := s.Entries[d].CumulativeEnd - c[d]
	c[d]++
	return pos
}
