// Package render turns avatars into files.
//
// # Overview
//
// The subpackages produce finished artifacts from a digit string:
//
//   - [ring]: the avatar itself as SVG, PNG, PDF, GIF, or a JSON layout
//   - [transitions]: the digit adjacency counts as a Graphviz digraph
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg). The ring renderer only needs it for PDF, since PNG and GIF
// are rasterised in-process. The transitions renderer uses both.
//
//	svg, _ := ring.RenderSVG(ctx, "31415926", opts)
//	pdf, err := render.ToPDF(ctx, svg)
//
// A missing converter is reported with code CONVERTER_NOT_FOUND; use
// [Available] to check up front.
//
// [ring]: https://pkg.go.dev/github.com/matzehuels/ringavatar/pkg/render/ring
// [transitions]: https://pkg.go.dev/github.com/matzehuels/ringavatar/pkg/render/transitions
package render
