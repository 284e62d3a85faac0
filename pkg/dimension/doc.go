// Package dimension turns unstable surface measurements into a stable size.
//
// A drawing surface is sized by something outside our control: a terminal
// window, a flex container, a browser viewport. Early measurements are often
// zero, and live resizing produces bursts of notifications. A [Resolver]
// watches a [Surface] and publishes a [geometry.Size] only once both axes
// are positive, and only when it changed.
//
// # Fallback
//
// When the surface reports a zero height, the resolver substitutes 80% of
// the parent's height, or 300 units when there is no parent to ask.
//
// # Modes
//
//   - Continuous: every element or viewport notification re-measures.
//   - Settle: re-measure one frame after start, keep polling every 10ms
//     while the surface still reports zero, then react only to viewport
//     notifications, debounced by 100ms.
//
// # Concurrency
//
// A Resolver owns one run-loop goroutine started by [Resolver.Run]. All
// timers come from a [clockwork.Clock], are owned by that goroutine, and are
// stopped when the context passed to Run is cancelled.
package dimension
