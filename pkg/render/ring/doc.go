// Package ring renders digit avatars to files.
//
// Each Render function builds a fresh [avatar.Avatar] on the surface that
// suits the format, so calls are independent and safe to run concurrently:
//
//   - [RenderSVG]: vector document from the svg surface
//   - [RenderPNG]: anti-aliased raster from the raster surface
//   - [RenderPDF]: the SVG converted with rsvg-convert
//   - [RenderJSON]: the [layout.Layout] of the static render
//   - [RenderGIF]: the animation recorded on a simulated clock
//
// Static formats always show the whole seed with a neutral bend. GIFs start
// from an empty ring, grow one character per frame up to the fitted radius,
// then breathe.
//
//	png, err := ring.RenderPNG(ctx, "31415926", ring.Options{Width: 512, Height: 512})
package ring
