// Package geom provides the geometric primitives for boundary-representation
// solids: vertices, supporting planes, and planar polygons. All types are
// value types; operations return new values rather than mutating in place,
// so a polygon referenced from two working sets can never alias.
package geom

import "errors"

// DefaultEpsilon is the default classification tolerance. It suits meshes
// with coordinates around unit scale; callers working at other scales
// should pass their own epsilon.
const DefaultEpsilon = 1e-5

// ErrDegenerateGeometry reports input geometry the engine cannot give a
// meaning to: a polygon with fewer than three vertices, or a supporting
// plane with a near-zero-length normal.
var ErrDegenerateGeometry = errors.New("geom: degenerate geometry")
