// Package anim holds the animation state machine that every frame reads.
//
// A [State] carries the discrete [Mode] (FORMED or CHAOS), the smoothed scalar
// progress in [0, 1], the target progress implied by the mode, and the latest
// raw camera offset from hand tracking. The gesture loop writes the mode and
// offset; the render loop calls [State.Advance] once per frame.
//
// # Thread Safety
//
// State is safe for concurrent use. Readers that need several fields at once
// should take a [Snapshot] so the two offset components are never torn.
package anim
