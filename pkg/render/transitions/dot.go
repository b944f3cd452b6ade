package transitions

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/ringavatar/pkg/avatar"
	"github.com/matzehuels/ringavatar/pkg/errors"
	"github.com/matzehuels/ringavatar/pkg/layout"
	"github.com/matzehuels/ringavatar/pkg/render"
	"github.com/matzehuels/ringavatar/pkg/render/ring"
)

// Engine is the Graphviz layout engine recorded in exported layouts.
const Engine = "circo"

// maxPenWidth caps the edge width of the most frequent transition.
const maxPenWidth = 6.0

// Options configures transition diagram generation.
type Options struct {
	// Detailed adds occurrence counts to node labels and transition counts
	// to edge labels.
	Detailed bool

	// Palette colors the digit nodes, one color per digit. Anything but ten
	// colors selects the default palette.
	Palette []string
}

// ToDOT converts the adjacency counts of a snapshot to Graphviz DOT.
//
// Every digit that occurs becomes a node filled with its palette color, laid
// out on a circle like the avatar's ring. Each observed pair a→b becomes an
// edge whose width grows with its count. Self-transitions are loops.
func ToDOT(s *avatar.Snapshot, opts Options) string {
	palette := dotColors(opts.Palette)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  layout=%s;\n", Engine)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontcolor=white, fontsize=20, fontname=\"monospace\"];\n")
	buf.WriteString("  edge [arrowsize=0.7];\n")
	buf.WriteString("\n")

	for d, e := range s.Entries {
		if e.Count == 0 {
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", strconv.Itoa(d), strings.Join(fmtNodeAttrs(d, e, palette[d], opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	edges := ring.Edges(s)
	top := 0
	for _, e := range edges {
		top = max(top, e.Count)
	}
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", strconv.Itoa(e.From), strconv.Itoa(e.To),
			strings.Join(fmtEdgeAttrs(e, top, palette[e.From], opts.Detailed), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// dotColors normalizes palette entries to #rrggbb, which Graphviz accepts
// where the config's short and hash-less forms are not.
func dotColors(palette []string) [avatar.Digits]string {
	if len(palette) != avatar.Digits {
		palette = avatar.DefaultPalette
	}
	var out [avatar.Digits]string
	for d, s := range palette {
		c, err := avatar.ParseColor(s)
		if err != nil {
			out[d] = avatar.DefaultPalette[d]
			continue
		}
		out[d] = avatar.HexColor(c)
	}
	return out
}

func fmtNodeAttrs(d int, e avatar.Entry, fill string, detailed bool) []string {
	label := strconv.Itoa(d)
	if detailed {
		label += fmt.Sprintf("\n×%d", e.Count)
	}
	return []string{fmt.Sprintf("label=%q", label), fmt.Sprintf("fillcolor=%q", fill)}
}

func fmtEdgeAttrs(e layout.Edge, top int, c string, detailed bool) []string {
	width := 1.0
	if top > 1 {
		width += (maxPenWidth - 1) * float64(e.Count-1) / float64(top-1)
	}
	attrs := []string{
		fmt.Sprintf("penwidth=%s", strconv.FormatFloat(width, 'f', 2, 64)),
		fmt.Sprintf("color=%q", c),
	}
	if detailed {
		attrs = append(attrs, fmt.Sprintf("label=%q", strconv.Itoa(e.Count)))
	}
	return attrs
}

// Export packages the DOT source of seed into a transitions layout. Graphviz
// computes positions at render time, so no geometry is stored.
func Export(seed string, opts Options, width, height int) (layout.Layout, error) {
	s, err := avatar.Compute(seed)
	if err != nil {
		return layout.Layout{}, err
	}
	return layout.Layout{
		VizType:     layout.VizTypeTransitions,
		Seed:        seed,
		Width:       width,
		Height:      height,
		Coefficient: s.Coefficient(),
		Edges:       ring.Edges(&s),
		DOT:         ToDOT(&s, opts),
		Engine:      Engine,
	}, nil
}

// Parse extracts the DOT source from a serialized transitions layout.
func Parse(l layout.Layout) (string, error) {
	if l.VizType != "" && l.VizType != layout.VizTypeTransitions {
		return "", errors.New(errors.ErrCodeInvalidVizType, "invalid viz_type for transitions layout: %q", l.VizType)
	}
	if l.DOT == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "transitions layout must contain DOT string")
	}
	return l.DOT, nil
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing starts at the
// origin and carries explicit pixel dimensions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion. A scale of 2.0
// doubles the resolution.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
