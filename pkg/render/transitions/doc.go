// Package transitions renders the digit adjacency of a seed as a node-link
// diagram.
//
// # Overview
//
// The avatar's connector curves trace which digit follows which. This
// package shows the same information as a directed graph: one node per
// occurring digit, one edge per observed pair, with edge width proportional
// to how often the pair occurs.
//
// # Usage
//
//	s, _ := avatar.Compute("31415926535")
//	dot := transitions.ToDOT(&s, transitions.Options{Detailed: true})
//	svg, err := transitions.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := transitions.RenderPDF(ctx, dot)
//	png, err := transitions.RenderPNG(ctx, dot, 2.0)
//
// # Dependencies
//
// SVG is rendered in-process with [github.com/goccy/go-graphviz]. PDF and
// PNG conversion requires librsvg (rsvg-convert).
package transitions
