// Package csg implements boolean operations over closed polyhedral solids
// represented as polygon soups. Union, Subtract, and Intersect compose the
// partition-tree primitives in pkg/bsp; no boolean-specific geometric
// logic lives here. Every operation clones its operands before touching a
// tree, so solids may be reused freely across operations and goroutines.
package csg

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/kerf/pkg/geom"
)

// Solid is the boundary of a closed solid: a flat, ordered polygon
// collection. It owns its polygons and retains no partition-tree state
// between operations.
type Solid struct {
	polygons []geom.Polygon
}

// FromPolygons builds a solid from a polygon list. The polygons are
// cloned; the caller keeps ownership of its slice.
func FromPolygons(polygons []geom.Polygon) Solid {
	return Solid{polygons: geom.ClonePolygons(polygons)}
}

// Polygons returns a deep copy of the solid's boundary polygons.
func (s Solid) Polygons() []geom.Polygon {
	return geom.ClonePolygons(s.polygons)
}

// PolygonCount returns the number of boundary polygons.
func (s Solid) PolygonCount() int { return len(s.polygons) }

// IsEmpty reports whether the solid has no boundary at all.
func (s Solid) IsEmpty() bool { return len(s.polygons) == 0 }

// BoundingBox returns the axis-aligned bounds of the solid's vertices.
// An empty solid yields zero bounds.
func (s Solid) BoundingBox() (min, max v3.Vec) {
	first := true
	for _, p := range s.polygons {
		for _, v := range p.Vertices {
			if first {
				min, max = v.Pos, v.Pos
				first = false
				continue
			}
			min = min.Min(v.Pos)
			max = max.Max(v.Pos)
		}
	}
	return min, max
}

// Face is one face of an indexed geometry: an ordered ring of position
// indices, with optional parallel normal and UV index rings.
type Face struct {
	Positions []int
	Normals   []int
	UVs       []int
}

// Geometry is an indexed mesh: shared position/normal/UV tables plus the
// faces that reference them.
type Geometry struct {
	Positions []v3.Vec
	Normals   []v3.Vec
	UVs       []v2.Vec
	Faces     []Face
}

// FromGeometry converts an indexed mesh into a solid, one polygon per
// face. Faces without normal indices take their normals from the face's
// supporting plane; faces without UV indices get zero UVs.
//
// Unlike lookups on trusted internal data, input here is validated: a
// face with fewer than three indices, a mismatched index ring, or an
// out-of-range index is reported as degenerate geometry rather than
// silently producing a broken solid.
func FromGeometry(g Geometry) (Solid, error) {
	polygons := make([]geom.Polygon, 0, len(g.Faces))
	for fi, face := range g.Faces {
		if len(face.Positions) < 3 {
			return Solid{}, fmt.Errorf("face %d has %d vertices: %w",
				fi, len(face.Positions), geom.ErrDegenerateGeometry)
		}
		if len(face.Normals) > 0 && len(face.Normals) != len(face.Positions) {
			return Solid{}, fmt.Errorf("face %d: %d normal indices for %d vertices: %w",
				fi, len(face.Normals), len(face.Positions), geom.ErrDegenerateGeometry)
		}
		if len(face.UVs) > 0 && len(face.UVs) != len(face.Positions) {
			return Solid{}, fmt.Errorf("face %d: %d uv indices for %d vertices: %w",
				fi, len(face.UVs), len(face.Positions), geom.ErrDegenerateGeometry)
		}

		vertices := make([]geom.Vertex, len(face.Positions))
		for i, pi := range face.Positions {
			if pi < 0 || pi >= len(g.Positions) {
				return Solid{}, fmt.Errorf("face %d: position index %d out of range: %w",
					fi, pi, geom.ErrDegenerateGeometry)
			}
			vertices[i].Pos = g.Positions[pi]
			if len(face.Normals) > 0 {
				ni := face.Normals[i]
				if ni < 0 || ni >= len(g.Normals) {
					return Solid{}, fmt.Errorf("face %d: normal index %d out of range: %w",
						fi, ni, geom.ErrDegenerateGeometry)
				}
				vertices[i].Normal = g.Normals[ni]
			}
			if len(face.UVs) > 0 {
				ui := face.UVs[i]
				if ui < 0 || ui >= len(g.UVs) {
					return Solid{}, fmt.Errorf("face %d: uv index %d out of range: %w",
						fi, ui, geom.ErrDegenerateGeometry)
				}
				vertices[i].UV = g.UVs[ui]
			}
		}

		poly, err := geom.NewPolygon(vertices)
		if err != nil {
			return Solid{}, fmt.Errorf("face %d: %w", fi, err)
		}
		if len(face.Normals) == 0 {
			for i := range poly.Vertices {
				poly.Vertices[i].Normal = poly.Plane.Normal
			}
		}
		polygons = append(polygons, poly)
	}
	return Solid{polygons: polygons}, nil
}
