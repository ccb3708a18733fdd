package geom

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vertex is a point on a solid's boundary: a position, the surface normal
// at that position, and a 2D surface (UV) coordinate.
type Vertex struct {
	Pos    v3.Vec
	Normal v3.Vec
	UV     v2.Vec
}

// Interpolate linearly blends two vertices by t in [0,1], component-wise
// across position, normal, and UV. This is the only way new vertices are
// created during polygon splitting.
func (v Vertex) Interpolate(other Vertex, t float64) Vertex {
	return Vertex{
		Pos:    v.Pos.Add(other.Pos.Sub(v.Pos).MulScalar(t)),
		Normal: v.Normal.Add(other.Normal.Sub(v.Normal).MulScalar(t)),
		UV:     v.UV.Add(other.UV.Sub(v.UV).MulScalar(t)),
	}
}

// Flipped returns the vertex with its normal negated.
func (v Vertex) Flipped() Vertex {
	v.Normal = v.Normal.Neg()
	return v
}
