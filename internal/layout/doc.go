// Package layout generates the static endpoint tables for every element of the
// sculpture.
//
// Each element gets two positions: where it sits on the assembled tree
// (formed) and where it floats in the dispersed cloud (chaos). Tables are
// generated once at startup and are read-only afterwards:
//
//   - [Particle]: loose foliage points on a golden-angle cone spiral
//   - [Ornament]: balls, gifts and lights on a tighter spiral
//   - [Photo]: framed cards evenly spaced around the trunk
//   - [Star]: the singleton on top
//
// Angular placement is a pure function of the element index; radius jitter,
// sizes and chaos positions draw from the generator's random source.
//
// # Usage
//
//	gen := layout.NewGenerator(layout.DefaultShape(), seed)
//	tables := gen.Generate(15000, 120, 12)
package layout
