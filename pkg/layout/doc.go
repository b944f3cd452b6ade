// Package layout provides the serialization format of rendered avatars.
//
// A [Layout] captures everything a renderer computed for one seed: the
// fitted geometry, the ring arcs with their colors, every connector segment
// in drawing order and the digit adjacency counts. Transitions layouts carry
// the Graphviz DOT source instead of geometry.
//
// Layouts are written by `ringavatar render -f json` and can be read back
// for inspection or re-rendering:
//
//	l, _ := layout.ReadFile("pi.json")
//	if l.IsTransitions() {
//	    svg, _ := transitions.RenderSVG(ctx, l.DOT)
//	}
package layout
