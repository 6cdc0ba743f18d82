// Package pose resolves per-frame transforms from the static layout tables.
//
// Every resolver is a pure function of progress, elapsed time and the element
// table; none keep state between frames. Destination slices are reused when
// their capacity allows, so a render loop can resolve thousands of elements
// per frame without allocating.
//
// Ornament blending multiplies progress by the element weight. Gifts weigh
// 1.5, so their factor passes 1 once progress exceeds 2/3; [OvershootPolicy]
// decides whether they fly past the chaos endpoint or stop on it.
package pose
