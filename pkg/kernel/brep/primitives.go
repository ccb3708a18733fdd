package brep

import (
	"fmt"
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/kerf/pkg/csg"
	"github.com/chazu/kerf/pkg/geom"
)

// mustPolygon builds a polygon and assigns every vertex the face normal.
// Primitive generators only call it with non-degenerate rings; a failure
// means the primitive parameters themselves are unusable.
func mustPolygon(positions []v3.Vec, uvs []v2.Vec) geom.Polygon {
	vertices := make([]geom.Vertex, len(positions))
	for i, p := range positions {
		vertices[i].Pos = p
		if uvs != nil {
			vertices[i].UV = uvs[i]
		}
	}
	poly, err := geom.NewPolygon(vertices)
	if err != nil {
		panic(fmt.Sprintf("brep: degenerate primitive face: %v", err))
	}
	for i := range poly.Vertices {
		poly.Vertices[i].Normal = poly.Plane.Normal
	}
	return poly
}

// quadUVs is the unit square, matching the winding of a quad face.
var quadUVs = []v2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

// Box returns a closed box solid with the given dimensions and its
// minimum corner at the origin.
func Box(x, y, z float64) csg.Solid {
	if x <= 0 || y <= 0 || z <= 0 {
		panic(fmt.Sprintf("brep: box dimensions must be positive, got %g x %g x %g", x, y, z))
	}

	p := func(px, py, pz float64) v3.Vec { return v3.Vec{X: px, Y: py, Z: pz} }
	polygons := []geom.Polygon{
		// -X / +X
		mustPolygon([]v3.Vec{p(0, 0, 0), p(0, 0, z), p(0, y, z), p(0, y, 0)}, quadUVs),
		mustPolygon([]v3.Vec{p(x, 0, 0), p(x, y, 0), p(x, y, z), p(x, 0, z)}, quadUVs),
		// -Y / +Y
		mustPolygon([]v3.Vec{p(0, 0, 0), p(x, 0, 0), p(x, 0, z), p(0, 0, z)}, quadUVs),
		mustPolygon([]v3.Vec{p(0, y, 0), p(0, y, z), p(x, y, z), p(x, y, 0)}, quadUVs),
		// -Z / +Z
		mustPolygon([]v3.Vec{p(0, 0, 0), p(0, y, 0), p(x, y, 0), p(x, 0, 0)}, quadUVs),
		mustPolygon([]v3.Vec{p(0, 0, z), p(x, 0, z), p(x, y, z), p(0, y, z)}, quadUVs),
	}
	return csg.FromPolygons(polygons)
}

// Sphere returns a closed sphere solid of the given radius centered at
// the origin, tessellated with `segments` slices of longitude and
// segments/2 stacks of latitude. Vertex normals point radially outward.
func Sphere(radius float64, segments int) csg.Solid {
	if radius <= 0 {
		panic(fmt.Sprintf("brep: sphere radius must be positive, got %g", radius))
	}
	slices := segments
	if slices < 3 {
		slices = 3
	}
	stacks := slices / 2
	if stacks < 2 {
		stacks = 2
	}

	at := func(i, j int) v3.Vec {
		theta := 2 * math.Pi * float64(i) / float64(slices)
		phi := math.Pi * float64(j) / float64(stacks)
		return v3.Vec{
			X: radius * math.Cos(theta) * math.Sin(phi),
			Y: radius * math.Sin(theta) * math.Sin(phi),
			Z: radius * math.Cos(phi),
		}
	}
	uv := func(i, j int) v2.Vec {
		return v2.Vec{X: float64(i) / float64(slices), Y: float64(j) / float64(stacks)}
	}

	var polygons []geom.Polygon
	for i := 0; i < slices; i++ {
		for j := 0; j < stacks; j++ {
			// Quad corners, reversed so the winding faces outward;
			// the poles collapse a quad to a triangle.
			var ring []v3.Vec
			var uvs []v2.Vec
			switch {
			case j == 0:
				ring = []v3.Vec{at(i, 1), at(i+1, 1), at(i, 0)}
				uvs = []v2.Vec{uv(i, 1), uv(i+1, 1), uv(i, 0)}
			case j == stacks-1:
				ring = []v3.Vec{at(i, j+1), at(i+1, j), at(i, j)}
				uvs = []v2.Vec{uv(i, j+1), uv(i+1, j), uv(i, j)}
			default:
				ring = []v3.Vec{at(i, j+1), at(i+1, j+1), at(i+1, j), at(i, j)}
				uvs = []v2.Vec{uv(i, j+1), uv(i+1, j+1), uv(i+1, j), uv(i, j)}
			}
			poly := mustPolygon(ring, uvs)
			// Radial normals give smooth shading across slice seams.
			for k := range poly.Vertices {
				poly.Vertices[k].Normal = poly.Vertices[k].Pos.Normalize()
			}
			polygons = append(polygons, poly)
		}
	}
	return csg.FromPolygons(polygons)
}

// Cylinder returns a closed cylinder solid centered at the origin with
// its axis along Z: caps at z = ±height/2, radial side normals.
func Cylinder(height, radius float64, segments int) csg.Solid {
	if height <= 0 || radius <= 0 {
		panic(fmt.Sprintf("brep: cylinder dimensions must be positive, got h=%g r=%g", height, radius))
	}
	if segments < 3 {
		segments = 3
	}

	h := height / 2
	rim := func(i int, z float64) v3.Vec {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		return v3.Vec{X: radius * math.Cos(theta), Y: radius * math.Sin(theta), Z: z}
	}

	var polygons []geom.Polygon

	// Side quads with radial normals.
	for i := 0; i < segments; i++ {
		poly := mustPolygon([]v3.Vec{rim(i, -h), rim(i+1, -h), rim(i+1, h), rim(i, h)}, quadUVs)
		for k := range poly.Vertices {
			n := poly.Vertices[k].Pos
			poly.Vertices[k].Normal = v3.Vec{X: n.X, Y: n.Y}.Normalize()
		}
		polygons = append(polygons, poly)
	}

	// Caps: top rim counter-clockwise seen from +Z, bottom reversed.
	capUV := func(p v3.Vec) v2.Vec {
		return v2.Vec{X: 0.5 + p.X/(2*radius), Y: 0.5 + p.Y/(2*radius)}
	}
	top := make([]v3.Vec, segments)
	bottom := make([]v3.Vec, segments)
	topUVs := make([]v2.Vec, segments)
	bottomUVs := make([]v2.Vec, segments)
	for i := 0; i < segments; i++ {
		top[i] = rim(i, h)
		bottom[i] = rim(segments-1-i, -h)
		topUVs[i] = capUV(top[i])
		bottomUVs[i] = capUV(bottom[i])
	}
	polygons = append(polygons, mustPolygon(top, topUVs), mustPolygon(bottom, bottomUVs))

	return csg.FromPolygons(polygons)
}
