// Package mesh tessellates the regular grid the displacement texture is
// sampled onto.
//
// The output is a standard parametric plane subdivision: an indexed
// triangle grid of a given physical width/height and segment counts, with
// flat per-vertex position/normal/uv/color attribute arrays laid out the
// way GPU renderers consume them (tightly packed float32, uint32 indices).
// The renderer displaces each vertex along its normal by the depth value it
// samples from the texture; UVs map the grid onto the sensor frame.
//
// Per-face random vertex coloring gives the surface its faceted look:
// each face draws a color and stamps it onto its corner vertices (shared
// corners keep the last face's color). Pass a seeded rand.Rand for
// reproducible output.
package mesh
