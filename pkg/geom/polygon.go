package geom

import "fmt"

// Polygon is a planar, simple, counter-clockwise-wound ring of at least
// three vertices, together with its supporting plane. The plane is derived
// once, from the first three vertices, when the polygon is constructed.
//
// The engine assumes all vertices are coplanar with the derived plane; a
// non-planar ring produces a plane inconsistent with some of its own
// vertices. Validate checks the assumption when the input is untrusted.
type Polygon struct {
	Vertices []Vertex
	Plane    Plane
}

// NewPolygon builds a polygon from a vertex ring, deriving the supporting
// plane from the first three vertices. It returns ErrDegenerateGeometry
// for rings with fewer than three vertices or a degenerate plane.
func NewPolygon(vertices []Vertex) (Polygon, error) {
	if len(vertices) < 3 {
		return Polygon{}, fmt.Errorf("polygon with %d vertices: %w", len(vertices), ErrDegenerateGeometry)
	}
	plane, err := PlaneFromPoints(vertices[0].Pos, vertices[1].Pos, vertices[2].Pos)
	if err != nil {
		return Polygon{}, err
	}
	return Polygon{Vertices: vertices, Plane: plane}, nil
}

// Clone returns a deep copy sharing no storage with the original.
func (p Polygon) Clone() Polygon {
	vs := make([]Vertex, len(p.Vertices))
	copy(vs, p.Vertices)
	return Polygon{Vertices: vs, Plane: p.Plane}
}

// Flipped returns the polygon facing the other way: vertex order reversed,
// every vertex normal negated, and the plane negated.
func (p Polygon) Flipped() Polygon {
	vs := make([]Vertex, len(p.Vertices))
	for i, v := range p.Vertices {
		vs[len(vs)-1-i] = v.Flipped()
	}
	return Polygon{Vertices: vs, Plane: p.Plane.Flipped()}
}

// Validate checks the coplanarity invariant: every vertex must lie on the
// polygon's supporting plane within eps.
func (p Polygon) Validate(eps float64) error {
	if len(p.Vertices) < 3 {
		return fmt.Errorf("polygon with %d vertices: %w", len(p.Vertices), ErrDegenerateGeometry)
	}
	for i, v := range p.Vertices {
		if p.Plane.Classify(v.Pos, eps) != Coplanar {
			return fmt.Errorf("vertex %d off supporting plane by %g: %w",
				i, p.Plane.Normal.Dot(v.Pos)-p.Plane.W, ErrDegenerateGeometry)
		}
	}
	return nil
}

// ClonePolygons deep-copies a polygon list.
func ClonePolygons(polygons []Polygon) []Polygon {
	out := make([]Polygon, len(polygons))
	for i, p := range polygons {
		out[i] = p.Clone()
	}
	return out
}
