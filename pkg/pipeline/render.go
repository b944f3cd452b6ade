package pipeline

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/ringavatar/pkg/avatar"
	"github.com/matzehuels/ringavatar/pkg/errors"
	"github.com/matzehuels/ringavatar/pkg/layout"
	"github.com/matzehuels/ringavatar/pkg/render/ring"
	"github.com/matzehuels/ringavatar/pkg/render/transitions"
)

// Render generates the requested formats concurrently, without caching.
func Render(ctx context.Context, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return renderFormats(ctx, opts, opts.Formats)
}

func renderFormats(ctx context.Context, opts Options, formats []string) (map[string][]byte, error) {
	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(formats))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, format := range formats {
		g.Go(func() error {
			data, err := RenderFormat(ctx, opts, format)
			if err != nil {
				code := errors.GetCode(err)
				if code == "" {
					code = errors.ErrCodeRenderFailed
				}
				return errors.Wrap(code, err, "render %s", format)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// RenderFormat produces one artifact. opts must already be validated.
func RenderFormat(ctx context.Context, opts Options, format string) ([]byte, error) {
	if opts.IsTransitions() {
		return renderTransitions(ctx, opts, format)
	}
	return renderRing(ctx, opts, format)
}

func renderRing(ctx context.Context, opts Options, format string) ([]byte, error) {
	ro := opts.ringOptions()
	switch format {
	case FormatSVG:
		return ring.RenderSVG(ctx, opts.Seed, ro)
	case FormatPNG:
		return ring.RenderPNG(ctx, opts.Seed, ro)
	case FormatPDF:
		return ring.RenderPDF(ctx, opts.Seed, ro)
	case FormatJSON:
		return ring.RenderJSON(ctx, opts.Seed, ro)
	case FormatGIF:
		return ring.RenderGIF(ctx, opts.Seed, ro)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported ring format: %s", format)
	}
}

func renderTransitions(ctx context.Context, opts Options, format string) ([]byte, error) {
	l, err := transitions.Export(opts.Seed, transitions.Options{
		Detailed: opts.Detailed,
		Palette:  opts.Config.Palette,
	}, opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatSVG:
		return transitions.RenderSVG(ctx, l.DOT)
	case FormatPNG:
		return transitions.RenderPNG(ctx, l.DOT, opts.Scale)
	case FormatPDF:
		return transitions.RenderPDF(ctx, l.DOT)
	case FormatJSON:
		return layout.Marshal(l)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported transitions format: %s", format)
	}
}

// distinct counts the digit values occurring in seed.
func distinct(seed string) int {
	s, err := avatar.Compute(seed)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range s.Entries {
		if e.Count > 0 {
			n++
		}
	}
	return n
}
