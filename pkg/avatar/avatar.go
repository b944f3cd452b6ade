package avatar

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ringavatar/pkg/errors"
	"github.com/matzehuels/ringavatar/pkg/observability"
)

// stateStatic is the frame hook state name of one-shot renders.
const stateStatic = "static"

// Avatar binds a seed, a validated style and a surface. It is not safe for
// concurrent use except for [Avatar.Stop]; hosts that draw many avatars give
// each its own surface.
type Avatar struct {
	seed     string
	style    Style
	renderer *Renderer
	surface  Surface
	anim     *Animator
	geom     Geometry

	clock  Clock
	logger *log.Logger
	hooks  observability.FrameHooks

	ctx     context.Context
	stopped atomic.Bool
}

// Option configures an [Avatar].
type Option func(*Avatar)

// WithClock sets the animation time source. The default is the wall clock.
func WithClock(c Clock) Option {
	return func(a *Avatar) {
		if c != nil {
			a.clock = c
		}
	}
}

// WithLogger sets the logger for frame diagnostics. The default discards.
func WithLogger(l *log.Logger) Option {
	return func(a *Avatar) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithHooks overrides the globally registered frame hooks.
func WithHooks(h observability.FrameHooks) Option {
	return func(a *Avatar) {
		if h != nil {
			a.hooks = h
		}
	}
}

// New validates seed and cfg and returns an avatar drawing on s.
// The configuration is not consulted again after New returns.
func New(seed string, cfg Config, s Surface, opts ...Option) (*Avatar, error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "avatar needs a surface")
	}
	if err := errors.ValidateDigits(seed); err != nil {
		return nil, err
	}
	style, err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	a := &Avatar{
		seed:     seed,
		style:    style,
		renderer: NewRenderer(style),
		surface:  s,
		anim:     NewAnimator(seed, style.Bend, style.BendMax),
		clock:    SystemClock{},
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		hooks:    observability.Frame(),
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Seed returns the target digit string.
func (a *Avatar) Seed() string { return a.seed }

// Style returns the validated style.
func (a *Avatar) Style() Style { return a.style }

// Geometry returns the geometry of the last fit.
func (a *Avatar) Geometry() Geometry { return a.geom }

// Animator exposes the animation state for inspection.
func (a *Avatar) Animator() *Animator { return a.anim }

// Fit refits the geometry to the surface's current size. The animation
// target is capped at the fitted radius.
func (a *Avatar) Fit() Geometry {
	w, h := a.surface.Size()
	a.geom = Fit(w, h)
	a.anim.SetLimit(int(a.geom.Radius))
	return a.geom
}

// Render draws the complete seed once with a neutral bend and no highlight.
func (a *Avatar) Render() error {
	start := time.Now()
	a.Fit()
	err := a.draw(a.seed, 1, -1)
	a.report(stateStatic, len(a.seed), start, err)
	return err
}

// Run renders once, or starts the animation when the configuration asks
// for it.
func (a *Avatar) Run(ctx context.Context, sched Scheduler) error {
	if !a.style.Animated {
		return a.Render()
	}
	return a.Animate(ctx, sched)
}

// Animate requests the first frame from sched. Each frame requests the next
// until ctx is done or Stop is called.
func (a *Avatar) Animate(ctx context.Context, sched Scheduler) error {
	if sched == nil {
		return errors.New(errors.ErrCodeInvalidInput, "animation needs a scheduler")
	}
	a.ctx = ctx
	a.stopped.Store(false)
	a.logger.Debug("animation started", "seed_len", len(a.seed))

	var step func()
	step = func() {
		if err := ctx.Err(); err != nil {
			a.logger.Debug("animation cancelled", "err", err)
			return
		}
		if a.stopped.Load() {
			a.logger.Debug("animation stopped")
			return
		}
		// A failed frame is skipped; the loop keeps going.
		_ = a.Frame()
		sched.RequestFrame(step)
	}
	sched.RequestFrame(step)
	return nil
}

// Stop ends an animation. The pending frame, if any, returns without drawing.
func (a *Avatar) Stop() {
	a.stopped.Store(true)
}

// Frame runs one animation frame: refit, tick, redraw.
func (a *Avatar) Frame() error {
	start := time.Now()
	a.Fit()
	st := a.anim.Tick(a.clock.Now())
	cur := a.anim.Current()
	err := a.draw(cur, a.anim.Bend(), a.anim.Highlight())
	a.report(st.String(), len(cur), start, err)
	return err
}

// Retarget morphs an animation towards a new seed.
func (a *Avatar) Retarget(seed string) error {
	if err := a.anim.Retarget(seed); err != nil {
		return err
	}
	a.seed = seed
	return nil
}

func (a *Avatar) draw(digits string, bend float64, highlight int) error {
	snap, err := Compute(digits)
	if err != nil {
		return err
	}
	a.surface.Clear()
	a.renderer.Draw(a.surface, &Scene{
		Digits:    digits,
		Snapshot:  snap,
		Geometry:  a.geom,
		Bend:      bend,
		Highlight: highlight,
	})
	return nil
}

func (a *Avatar) report(state string, n int, start time.Time, err error) {
	if err != nil {
		a.logger.Warn("frame skipped", "state", state, "err", err)
		a.hooks.OnFrameSkipped(a.ctx, err)
		return
	}
	d := time.Since(start)
	a.logger.Debug("frame", "state", state, "len", n, "radius", a.geom.Radius, "took", d)
	a.hooks.OnFrame(a.ctx, state, n, d)
}
