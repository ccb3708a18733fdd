// Package brep implements the kernel.Kernel interface on the BSP-based
// boolean engine in pkg/csg. Solids are boundary representations: closed
// polygon soups combined with partition-tree clipping.
package brep

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/kerf/pkg/csg"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/tessellate"
)

// Compile-time interface check.
var _ kernel.Kernel = (*BrepKernel)(nil)

// defaultSegments controls the tessellation of round primitives.
const defaultSegments = 16

// brepSolid wraps a csg.Solid to implement kernel.Solid.
type brepSolid struct {
	s csg.Solid
}

// BoundingBox returns the axis-aligned bounding box.
func (s *brepSolid) BoundingBox() (min, max [3]float64) {
	mn, mx := s.s.BoundingBox()
	return [3]float64{mn.X, mn.Y, mn.Z}, [3]float64{mx.X, mx.Y, mx.Z}
}

// BrepKernel implements kernel.Kernel using the CSG boolean engine.
type BrepKernel struct {
	opt csg.Options
}

// New returns a BrepKernel with default tolerances.
func New() *BrepKernel {
	return &BrepKernel{opt: csg.DefaultOptions()}
}

// NewWithOptions returns a BrepKernel with explicit CSG tolerances, for
// meshes far from unit scale.
func NewWithOptions(opt csg.Options) *BrepKernel {
	return &BrepKernel{opt: opt}
}

// unwrap extracts the underlying csg.Solid from a kernel.Solid.
func unwrap(s kernel.Solid) csg.Solid {
	return s.(*brepSolid).s
}

// wrap creates a kernel.Solid from a csg.Solid.
func wrap(s csg.Solid) kernel.Solid {
	return &brepSolid{s: s}
}

// Box creates a box with the given dimensions, minimum corner at the
// origin so that placement translations work intuitively.
func (k *BrepKernel) Box(x, y, z float64) kernel.Solid {
	return wrap(Box(x, y, z))
}

// Sphere creates a sphere of the given radius centered at the origin.
func (k *BrepKernel) Sphere(radius float64, segments int) kernel.Solid {
	if segments <= 0 {
		segments = defaultSegments
	}
	return wrap(Sphere(radius, segments))
}

// Cylinder creates a cylinder with the given height and radius, centered
// at the origin with its axis along Z.
func (k *BrepKernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	if segments <= 0 {
		segments = defaultSegments
	}
	return wrap(Cylinder(height, radius, segments))
}

// Boolean operations. A partition-limit hit inside the engine degrades to
// a best-effort solid rather than failing; the kernel interface has no
// error channel for it, matching the other backends.

// Union returns the union of two solids.
func (k *BrepKernel) Union(a, b kernel.Solid) kernel.Solid {
	out, _ := csg.UnionWith(unwrap(a), unwrap(b), k.opt)
	return wrap(out)
}

// Difference returns the difference a - b.
func (k *BrepKernel) Difference(a, b kernel.Solid) kernel.Solid {
	out, _ := csg.SubtractWith(unwrap(a), unwrap(b), k.opt)
	return wrap(out)
}

// Intersection returns the intersection of two solids.
func (k *BrepKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	out, _ := csg.IntersectWith(unwrap(a), unwrap(b), k.opt)
	return wrap(out)
}

// Translate moves a solid by (x, y, z).
func (k *BrepKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return wrap(Translate(unwrap(s), v3.Vec{X: x, Y: y, Z: z}))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *BrepKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return wrap(Rotate(unwrap(s), x, y, z))
}

// ToMesh converts a solid to a triangle mesh.
func (k *BrepKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	return tessellate.Mesh(unwrap(s).Polygons())
}

// Translate returns the solid moved by t. Plane offsets shift by the
// normal's projection onto t; normals are unchanged.
func Translate(s csg.Solid, t v3.Vec) csg.Solid {
	polygons := s.Polygons()
	for i := range polygons {
		p := &polygons[i]
		for j := range p.Vertices {
			p.Vertices[j].Pos = p.Vertices[j].Pos.Add(t)
		}
		p.Plane.W += p.Plane.Normal.Dot(t)
	}
	return csg.FromPolygons(polygons)
}

// Rotate returns the solid rotated about the origin by Euler angles in
// degrees, applied X then Y then Z. Rotation preserves plane offsets.
func Rotate(s csg.Solid, xDeg, yDeg, zDeg float64) csg.Solid {
	m := sdf.RotateZ(sdf.DtoR(zDeg)).Mul(sdf.RotateY(sdf.DtoR(yDeg))).Mul(sdf.RotateX(sdf.DtoR(xDeg)))

	polygons := s.Polygons()
	for i := range polygons {
		p := &polygons[i]
		for j := range p.Vertices {
			p.Vertices[j].Pos = m.MulPosition(p.Vertices[j].Pos)
			p.Vertices[j].Normal = m.MulPosition(p.Vertices[j].Normal)
		}
		p.Plane.Normal = m.MulPosition(p.Plane.Normal)
	}
	return csg.FromPolygons(polygons)
}

// FromMesh converts a triangle mesh (for example marching-cubes output
// from the sdfx backend) into a CSG solid, one polygon per triangle.
// Degenerate triangles are skipped rather than failing the whole mesh.
func FromMesh(m *kernel.Mesh) csg.Solid {
	polygons := make([]geom.Polygon, 0, m.TriangleCount())
	hasNormals := len(m.Normals) == len(m.Vertices)
	hasUVs := len(m.UVs) == 2*m.VertexCount()

	for t := 0; t+2 < len(m.Indices); t += 3 {
		vertices := make([]geom.Vertex, 3)
		for c := 0; c < 3; c++ {
			i := int(m.Indices[t+c])
			vertices[c].Pos = v3.Vec{
				X: float64(m.Vertices[3*i]),
				Y: float64(m.Vertices[3*i+1]),
				Z: float64(m.Vertices[3*i+2]),
			}
			if hasNormals {
				vertices[c].Normal = v3.Vec{
					X: float64(m.Normals[3*i]),
					Y: float64(m.Normals[3*i+1]),
					Z: float64(m.Normals[3*i+2]),
				}
			}
			if hasUVs {
				vertices[c].UV.X = float64(m.UVs[2*i])
				vertices[c].UV.Y = float64(m.UVs[2*i+1])
			}
		}
		poly, err := geom.NewPolygon(vertices)
		if err != nil {
			continue
		}
		if !hasNormals {
			for j := range poly.Vertices {
				poly.Vertices[j].Normal = poly.Plane.Normal
			}
		}
		polygons = append(polygons, poly)
	}
	return csg.FromPolygons(polygons)
}
