// Package avatar draws a deterministic radial picture of a digit string.
//
// # Overview
//
// The picture is a ring of ten colored arcs, one per digit value, whose sizes
// follow the digit frequencies. Every occurrence of a digit owns one slot on
// the circle. Dots mark the slots, and curves connect the slots of
// consecutive characters, so the string is traced as a path around the ring.
//
// The same string always yields the same picture: nothing is random and the
// only inputs are the digits, the [Config] and the surface size.
//
// # Pipeline
//
// A draw runs three steps:
//
//  1. [Compute] counts digits and adjacent pairs and partitions the circle
//     into a [Snapshot], in ascending digit order.
//  2. [Fit] turns the surface size into a [Geometry] (center and radius).
//  3. A [Renderer] runs its passes against a [Surface].
//
// Snapshots are rebuilt for every draw. Occurrence slots are handed out by a
// cursor owned by each pass, so passes never see each other's progress.
//
// # Animation
//
// An [Animator] grows the displayed string one character per tick until it
// reaches the target, then lets the curve bend breathe along a slow sine.
// [Avatar.Animate] drives it from a [Scheduler]; hosts without a refresh
// callback of their own can use a [FrameQueue] and call [FrameQueue.Step].
// Stopping is not requesting another frame: cancel the context or call
// [Avatar.Stop].
//
// # Surfaces
//
// [Surface] is a small immediate-mode 2D API modelled on a canvas context.
// Implementations live in the surface packages: SVG documents, anti-aliased
// raster images, a desktop window and a terminal preview.
package avatar
