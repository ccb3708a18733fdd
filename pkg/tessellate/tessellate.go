// Package tessellate converts polygon soups produced by the CSG engine
// into triangle meshes. Triangles pass straight through, convex rings are
// fan-triangulated, and non-convex rings are projected onto their plane
// and handed to a 2D triangulator.
package tessellate

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/osuushi/triangulate"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/kernel"
)

// convexEps tolerates slightly reflex corners produced by plane splitting
// before falling back to the full triangulator.
const convexEps = 1e-9

// Mesh triangulates a polygon soup into a flat triangle mesh. Vertices
// are emitted per polygon (no welding across polygons), so each triangle
// keeps the normals and UVs of the ring it came from.
func Mesh(polygons []geom.Polygon) (*kernel.Mesh, error) {
	m := &kernel.Mesh{}
	for i, p := range polygons {
		tris, err := ring(p)
		if err != nil {
			return nil, fmt.Errorf("tessellate: polygon %d: %w", i, err)
		}

		base := uint32(m.VertexCount())
		for _, v := range p.Vertices {
			m.Vertices = append(m.Vertices, float32(v.Pos.X), float32(v.Pos.Y), float32(v.Pos.Z))
			m.Normals = append(m.Normals, float32(v.Normal.X), float32(v.Normal.Y), float32(v.Normal.Z))
			m.UVs = append(m.UVs, float32(v.UV.X), float32(v.UV.Y))
		}
		for _, t := range tris {
			m.Indices = append(m.Indices, base+uint32(t[0]), base+uint32(t[1]), base+uint32(t[2]))
		}
	}
	return m, nil
}

// ring triangulates a single polygon into index triples over its own
// vertex ring.
func ring(p geom.Polygon) ([][3]int, error) {
	n := len(p.Vertices)
	if n < 3 {
		return nil, geom.ErrDegenerateGeometry
	}
	if n == 3 || isConvex(p) {
		tris := make([][3]int, 0, n-2)
		for i := 1; i < n-1; i++ {
			tris = append(tris, [3]int{0, i, i + 1})
		}
		return tris, nil
	}
	return triangulateConcave(p)
}

// isConvex reports whether every corner of the ring turns the same way
// as the polygon's winding about its plane normal.
func isConvex(p geom.Polygon) bool {
	n := len(p.Vertices)
	for i := 0; i < n; i++ {
		a := p.Vertices[i].Pos
		b := p.Vertices[(i+1)%n].Pos
		c := p.Vertices[(i+2)%n].Pos
		turn := b.Sub(a).Cross(c.Sub(b)).Dot(p.Plane.Normal)
		if turn < -convexEps {
			return false
		}
	}
	return true
}

// planeBasis returns two orthonormal vectors spanning the plane, chosen
// right-handed so that u × w equals the plane normal. Projecting onto
// (u, w) then preserves the ring's counter-clockwise winding.
func planeBasis(normal v3.Vec) (u, w v3.Vec) {
	axis := v3.Vec{X: 1}
	if math.Abs(normal.X) > math.Abs(normal.Y) {
		axis = v3.Vec{Y: 1}
	}
	u = axis.Cross(normal).Normalize()
	w = normal.Cross(u)
	return u, w
}

// triangulateConcave projects the ring onto its plane and runs the 2D
// triangulator. Triangulation reuses the projected points, so mapping the
// resulting corners back to ring indices is a pointer lookup.
func triangulateConcave(p geom.Polygon) ([][3]int, error) {
	u, w := planeBasis(p.Plane.Normal)

	points := make([]*triangulate.Point, len(p.Vertices))
	index := make(map[*triangulate.Point]int, len(p.Vertices))
	for i, v := range p.Vertices {
		pt := &triangulate.Point{X: u.Dot(v.Pos), Y: w.Dot(v.Pos)}
		points[i] = pt
		index[pt] = i
	}

	result, err := triangulate.Triangulate(points)
	if err != nil {
		return nil, fmt.Errorf("triangulate: %w", err)
	}

	tris := make([][3]int, 0, len(result))
	for _, t := range result {
		ia, okA := index[t.A]
		ib, okB := index[t.B]
		ic, okC := index[t.C]
		if !okA || !okB || !okC {
			return nil, fmt.Errorf("triangulate returned a point not in the input ring")
		}
		tris = append(tris, [3]int{ia, ib, ic})
	}
	return tris, nil
}
