package mesh

import (
	"fmt"
	"math/rand"
)

// GridConfig describes the plane to tessellate.
type GridConfig struct {
	// Width and Height are the physical plane dimensions in scene units.
	Width  float64
	Height float64

	// SegmentsX and SegmentsY are the subdivision counts along each axis.
	// A displacement grid typically uses sensorWidth-1 × sensorHeight-1 so
	// every texel lands on a vertex.
	SegmentsX int
	SegmentsY int

	// Rand seeds the per-face coloring. Nil means unseeded (rand.Float32
	// global source), fine for visuals, wrong for golden tests.
	Rand *rand.Rand
}

// Grid is an indexed triangle grid with flat GPU-ready attribute arrays.
//
// Layout:
//   - Positions: 3 float32 per vertex (x, y, z), z = 0 before displacement
//   - Normals:   3 float32 per vertex, all +Z
//   - UVs:       2 float32 per vertex, v flipped so uv (0,0) is top-left
//     of the sensor frame
//   - Colors:    3 float32 per vertex (r, g, b)
//   - Indices:   3 uint32 per triangle, counter-clockwise winding
type Grid struct {
	Positions []float32
	Normals   []float32
	UVs       []float32
	Colors    []float32
	Indices   []uint32

	SegmentsX int
	SegmentsY int
}

// VertexCount returns the number of vertices in the grid.
func (g *Grid) VertexCount() int {
	return (g.SegmentsX + 1) * (g.SegmentsY + 1)
}

// FaceCount returns the number of triangles.
func (g *Grid) FaceCount() int {
	return 2 * g.SegmentsX * g.SegmentsY
}

// NewGrid tessellates the configured plane, centered on the origin in the
// XY plane, rows ordered top to bottom.
func NewGrid(cfg GridConfig) (*Grid, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("mesh: invalid plane size %gx%g", cfg.Width, cfg.Height)
	}
	if cfg.SegmentsX < 1 || cfg.SegmentsY < 1 {
		return nil, fmt.Errorf("mesh: invalid segment counts %dx%d", cfg.SegmentsX, cfg.SegmentsY)
	}

	gridX1 := cfg.SegmentsX + 1
	gridY1 := cfg.SegmentsY + 1
	vertexCount := gridX1 * gridY1

	g := &Grid{
		Positions: make([]float32, 3*vertexCount),
		Normals:   make([]float32, 3*vertexCount),
		UVs:       make([]float32, 2*vertexCount),
		Colors:    make([]float32, 3*vertexCount),
		Indices:   make([]uint32, 6*cfg.SegmentsX*cfg.SegmentsY),
		SegmentsX: cfg.SegmentsX,
		SegmentsY: cfg.SegmentsY,
	}

	segW := cfg.Width / float64(cfg.SegmentsX)
	segH := cfg.Height / float64(cfg.SegmentsY)
	halfW := cfg.Width / 2
	halfH := cfg.Height / 2

	for iy := 0; iy < gridY1; iy++ {
		y := halfH - float64(iy)*segH
		for ix := 0; ix < gridX1; ix++ {
			i := iy*gridX1 + ix

			g.Positions[3*i] = float32(float64(ix)*segW - halfW)
			g.Positions[3*i+1] = float32(y)
			// z stays 0: displacement happens in the vertex shader

			g.Normals[3*i+2] = 1

			g.UVs[2*i] = float32(ix) / float32(cfg.SegmentsX)
			g.UVs[2*i+1] = 1 - float32(iy)/float32(cfg.SegmentsY)
		}
	}

	idx := 0
	for iy := 0; iy < cfg.SegmentsY; iy++ {
		for ix := 0; ix < cfg.SegmentsX; ix++ {
			a := uint32(ix + gridX1*iy)
			b := uint32(ix + gridX1*(iy+1))
			c := uint32(ix + 1 + gridX1*(iy+1))
			d := uint32(ix + 1 + gridX1*iy)

			g.Indices[idx] = a
			g.Indices[idx+1] = b
			g.Indices[idx+2] = d
			g.Indices[idx+3] = b
			g.Indices[idx+4] = c
			g.Indices[idx+5] = d
			idx += 6
		}
	}

	g.colorFaces(cfg.Rand)
	return g, nil
}

// colorFaces stamps a random color onto each face's corner vertices.
// Shared corners take the color of the last face that touches them.
func (g *Grid) colorFaces(rng *rand.Rand) {
	randf := rand.Float32
	if rng != nil {
		randf = rng.Float32
	}

	for f := 0; f < len(g.Indices); f += 3 {
		r, gr, b := randf(), randf(), randf()
		for k := 0; k < 3; k++ {
			v := g.Indices[f+k]
			g.Colors[3*v] = r
			g.Colors[3*v+1] = gr
			g.Colors[3*v+2] = b
		}
	}
}
