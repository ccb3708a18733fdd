package geom

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Per-vertex classification relative to a plane. A polygon's aggregate
// classification is the bitwise OR of its vertices' classifications, so
// Front|Back yields Spanning.
const (
	Coplanar = 0
	Front    = 1
	Back     = 2
	Spanning = 3
)

// minNormalLength rejects planes derived from collinear or coincident
// points, whose cross product is too short to normalize meaningfully.
const minNormalLength = 1e-12

// Plane is an oriented plane in normal form: a point p lies on the plane
// when Normal·p == W, in front when Normal·p > W.
type Plane struct {
	Normal v3.Vec
	W      float64
}

// PlaneFromPoints derives the plane through three points, oriented so the
// normal follows the counter-clockwise winding a→b→c.
func PlaneFromPoints(a, b, c v3.Vec) (Plane, error) {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Length() < minNormalLength {
		return Plane{}, fmt.Errorf("plane from collinear points: %w", ErrDegenerateGeometry)
	}
	n = n.Normalize()
	return Plane{Normal: n, W: n.Dot(a)}, nil
}

// Flipped returns the plane with the opposite orientation.
func (p Plane) Flipped() Plane {
	return Plane{Normal: p.Normal.Neg(), W: -p.W}
}

// Classify reports which side of the plane a point lies on, within eps.
func (p Plane) Classify(pos v3.Vec, eps float64) int {
	t := p.Normal.Dot(pos) - p.W
	switch {
	case t < -eps:
		return Back
	case t > eps:
		return Front
	default:
		return Coplanar
	}
}

// SplitPolygon classifies poly against the plane and appends it (or its
// pieces) to the appropriate list:
//
//   - entirely on the plane → coplanarFront or coplanarBack, depending on
//     whether the polygon's own normal agrees with the plane's
//   - entirely on one side → front or back, unsplit
//   - spanning → split along the plane; each half is emitted only if it
//     retains at least three vertices (degenerate slivers are dropped)
//
// The input polygon is never mutated. Split halves keep the parent's
// supporting plane; they are coplanar with it by construction, and
// re-deriving a plane from sliver geometry would be less stable.
func (p Plane) SplitPolygon(poly Polygon, eps float64, coplanarFront, coplanarBack, front, back *[]Polygon) {
	polygonType := Coplanar
	types := make([]int, len(poly.Vertices))
	for i, v := range poly.Vertices {
		t := p.Classify(v.Pos, eps)
		types[i] = t
		polygonType |= t
	}

	switch polygonType {
	case Coplanar:
		if p.Normal.Dot(poly.Plane.Normal) > 0 {
			*coplanarFront = append(*coplanarFront, poly)
		} else {
			*coplanarBack = append(*coplanarBack, poly)
		}

	case Front:
		*front = append(*front, poly)

	case Back:
		*back = append(*back, poly)

	case Spanning:
		var f, b []Vertex
		n := len(poly.Vertices)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			ti, tj := types[i], types[j]
			vi, vj := poly.Vertices[i], poly.Vertices[j]
			if ti != Back {
				f = append(f, vi)
			}
			if ti != Front {
				b = append(b, vi)
			}
			if (ti | tj) == Spanning {
				// Edge crosses the plane: synthesize the boundary vertex.
				t := (p.W - p.Normal.Dot(vi.Pos)) / p.Normal.Dot(vj.Pos.Sub(vi.Pos))
				v := vi.Interpolate(vj, t)
				f = append(f, v)
				b = append(b, v)
			}
		}
		if len(f) >= 3 {
			*front = append(*front, Polygon{Vertices: f, Plane: poly.Plane})
		}
		if len(b) >= 3 {
			*back = append(*back, Polygon{Vertices: b, Plane: poly.Plane})
		}
	}
}
