// Package pkg provides the core libraries for ringavatar.
//
// # Overview
//
// Ringavatar turns a string of decimal digits into a deterministic radial
// picture: a ring of ten colored arcs sized by digit frequency, a dot for
// every digit just inside the ring, and a curve linking each digit to the
// next. The same digits always give the same picture. Animated avatars grow
// the sequence one digit at a time, shrink it back, and let the curves
// breathe in between.
//
// The typical data flow:
//
//	digit string
//	     ↓
//	[avatar] package (counts, arc layout, scene, animation)
//	     ↓
//	[surface] packages (SVG, raster, terminal, window)
//	     ↓
//	[render] packages (SVG/PNG/PDF/GIF/JSON artifacts)
//	     ↓
//	[pipeline] package (validation, caching, concurrent formats)
//
// # Quick Start
//
// Render a still avatar to SVG:
//
//	import (
//	    "github.com/matzehuels/ringavatar/pkg/avatar"
//	    "github.com/matzehuels/ringavatar/pkg/surface/svg"
//	)
//
//	s := svg.New(256, 256)
//	a, _ := avatar.New("31415926", avatar.DefaultConfig(), s)
//	_ = a.Render()
//	os.WriteFile("pi.svg", s.Bytes(), 0o644)
//
// # Main Packages
//
// ## Avatar
//
// [avatar] - Digit counting, arc layout, geometry, the scene renderer and the
// grow/shrink animator. Everything draws through the [avatar.Surface]
// interface, so the package knows nothing about output formats.
//
// ## Surfaces
//
//   - [surface/svg]: records drawing calls as an SVG document
//   - [surface/raster]: anti-aliased RGBA image via fogleman/gg
//   - [surface/term]: half-block terminal output via lipgloss
//   - [surface/window]: desktop window via ebiten, also a frame scheduler
//
// ## Rendering
//
// [render/ring] - The avatar as SVG, PNG, PDF, animated GIF, or a JSON layout.
//
// [render/transitions] - Digit adjacency counts as a Graphviz digraph.
//
// [render] - rsvg-convert based conversion from SVG to PDF and PNG.
//
// ## Infrastructure
//
// [pipeline] - Validation, defaults, cache lookup and concurrent rendering of
// several formats. Used by every CLI command that writes files.
//
// [cache] - Content-addressed artifact cache with file and null backends.
//
// [layout] - Serializable geometry shared by the JSON output and the
// transitions digraph.
//
// [fonts] - Built-in Go fonts for titles, so no system fonts are needed.
//
// [observability] - Hooks for render, frame and cache events.
//
// [errors] - Coded errors shared across packages.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/avatar/...   # Specific package
//	go test -run Example       # Examples only
//
// The window surface needs a display and has no tests.
//
// [avatar]: https://pkg.go.dev/github.com/matzehuels/ringavatar/pkg/avatar
// [surface/svg]: https://pkg.go.dev/github.com/matzehuels/ringavatar/pkg/surface/svg
// [surface/raster]: https://pkg.go.dev/github.com/matzehuels/ringavatar/pkg/surface/raster
// [surface/term]: https://pkg.go.dev/github.com/matzehuels/ringavatar/pkg/surface/term
// [surface/window]: https://pkg.go.dev/github.com/matzehuels/ringavatar/pkg/surface/window
// [surface]: https://pkg.go.dev/github.com/matzehuels/ringavatar/pkg/surface
// [render]: https://pkg.go.dev/github.com/matzehuels/ringavatar/pkg/render
// [render/ring]: https://pkg.go.dev/github.com/matzehuels/ringavatar/pkg/render/ring
// [render/transitions]: https://pkg.go.dev/github.com/matzehuels/ringavatar/pkg/render/transitions
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/ringavatar/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/ringavatar/pkg/cache
// [layout]: https://pkg.go.dev/github.com/matzehuels/ringavatar/pkg/layout
// [fonts]: https://pkg.go.dev/github.com/matzehuels/ringavatar/pkg/fonts
// [observability]: https://pkg.go.dev/github.com/matzehuels/ringavatar/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/ringavatar/pkg/errors
package pkg
