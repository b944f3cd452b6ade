package avatar

import (
	"math"
	"time"

	"github.com/matzehuels/ringavatar/pkg/errors"
)

// State is the phase of an animation.
type State int

const (
	// Steady means the displayed string is complete and only the bend moves.
	Steady State = iota
	// Growing means the displayed string gains one character per tick.
	Growing
	// Shrinking means the displayed string loses one character per tick.
	Shrinking
)

func (s State) String() string {
	switch s {
	case Steady:
		return "steady"
	case Growing:
		return "growing"
	case Shrinking:
		return "shrinking"
	default:
		return "unknown"
	}
}

const (
	tickUnit      = 100 // milliseconds per time unit
	breathPeriod  = 50  // time units per bend oscillation
	breathDepth   = 12  // bend swings by 1/breathDepth around 1
	bendTolerance = 0.01
	bendEasing    = 10 // fraction of the gap closed per tick
)

// Animator advances the displayed string towards its target one character
// per tick, then eases the curve bend along a slow sine.
//
// The displayed string is always a prefix of the target.
type Animator struct {
	target    string
	current   string
	limit     int // cap on the displayed length; negative means none
	bend      float64
	bendMax   float64
	highlight int
}

// NewAnimator starts an animation with an empty displayed string.
// The target must already be validated.
func NewAnimator(target string, bend, bendMax float64) *Animator {
	return &Animator{
		target:    target,
		limit:     -1,
		bend:      math.Min(bend, bendMax),
		bendMax:   bendMax,
		highlight: -1,
	}
}

// SetLimit caps the number of displayed characters, typically at the fitted
// radius so small surfaces show a prefix. A negative limit removes the cap.
func (a *Animator) SetLimit(n int) {
	a.limit = n
}

// Want is the displayed length the animation is heading for.
func (a *Animator) Want() int {
	if a.limit >= 0 && a.limit < len(a.target) {
		return a.limit
	}
	return len(a.target)
}

// State reports the phase the next tick will run.
func (a *Animator) State() State {
	n, want := len(a.current), a.Want()
	switch {
	case n < want:
		return Growing
	case n > want:
		return Shrinking
	default:
		return Steady
	}
}

// Tick advances the animation to now and returns the phase it ran.
// The highlight is taken from the string as it was before the tick.
func (a *Animator) Tick(now time.Time) State {
	unit := floorDiv(now.UnixMilli(), tickUnit)

	n := len(a.current)
	if n > 0 {
		a.highlight = int(floorMod(unit, int64(n)))
	} else {
		a.highlight = -1
	}

	st := a.State()
	switch st {
	case Steady:
		phase := float64(floorMod(unit, breathPeriod)) / breathPeriod
		goal := 1 + math.Sin(2*math.Pi*phase)/breathDepth
		if math.Abs(a.bend-goal) > bendTolerance {
			a.bend -= (a.bend - goal) / bendEasing
		}
		a.bend = math.Min(a.bend, a.bendMax)
	case Growing:
		a.current = a.target[:n+1]
	case Shrinking:
		a.current = a.target[:n-1]
	}
	return st
}

// Retarget swaps the target string. The displayed string keeps the prefix it
// shares with the new target and grows from there.
func (a *Animator) Retarget(target string) error {
	if err := errors.ValidateDigits(target); err != nil {
		return err
	}
	k := 0
	for k < len(a.current) && k < len(target) && a.current[k] == target[k] {
		k++
	}
	a.target = target
	a.current = target[:k]
	if a.highlight >= k {
		a.highlight = -1
	}
	return nil
}

// Target returns the full target string.
func (a *Animator) Target() string { return a.target }

// Current returns the displayed string.
func (a *Animator) Current() string { return a.current }

// Bend returns the live curve bend.
func (a *Animator) Bend() float64 { return a.bend }

// Highlight returns the highlighted position, or -1.
func (a *Animator) Highlight() int { return a.highlight }

// floorDiv divides rounding towards negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// floorMod is the remainder matching floorDiv, always in [0, b) for b > 0.
func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}
