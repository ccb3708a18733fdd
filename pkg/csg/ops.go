package csg

import (
	"github.com/chazu/kerf/pkg/bsp"
	"github.com/chazu/kerf/pkg/geom"
)

// Options tunes the boolean operations. Zero fields fall back to the
// unit-scale defaults.
type Options struct {
	// Epsilon is the plane-classification tolerance. Meshes far from
	// unit scale need a matching epsilon.
	Epsilon float64

	// MaxNodes caps partition-tree growth per operand.
	MaxNodes int
}

// DefaultOptions returns the tolerances suited to unit-scale meshes.
func DefaultOptions() Options {
	return Options{Epsilon: geom.DefaultEpsilon, MaxNodes: bsp.DefaultMaxNodes}
}

func (o Options) treeConfig() bsp.Config {
	return bsp.Config{Epsilon: o.Epsilon, MaxNodes: o.MaxNodes}
}

// firstErr keeps the first partition-limit report from a sequence of tree
// builds; the operations degrade rather than abort on it.
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// operandTrees builds one partition tree per operand from cloned
// polygons, so the operands themselves are never touched.
func operandTrees(a, b Solid, opt Options) (ta, tb *bsp.Tree, err error) {
	cfg := opt.treeConfig()
	ta, tb = bsp.New(cfg), bsp.New(cfg)
	err = firstErr(
		ta.Insert(geom.ClonePolygons(a.polygons)),
		tb.Insert(geom.ClonePolygons(b.polygons)),
	)
	return ta, tb, err
}

// Union returns the solid enclosing every point inside a or b.
func Union(a, b Solid) (Solid, error) {
	return UnionWith(a, b, DefaultOptions())
}

// UnionWith is Union with explicit Options.
//
// The recipe: clip a to b and b to a to drop the parts of each boundary
// inside the other solid, then clip b to a once more in inverted space to
// remove coplanar-back fragments that would duplicate coincident faces,
// and merge. A non-nil error is always bsp.ErrPartitionLimit (wrapped);
// the returned solid is still the best-effort result.
func UnionWith(a, b Solid, opt Options) (Solid, error) {
	ta, tb, err := operandTrees(a, b, opt)

	ta.ClipTo(tb)
	tb.ClipTo(ta)
	tb.Invert()
	tb.ClipTo(ta)
	tb.Invert()
	err = firstErr(err, ta.Insert(tb.AllPolygons()))

	return Solid{polygons: ta.AllPolygons()}, err
}

// Subtract returns the solid enclosing every point inside a but outside
// b: the union recipe performed in the complement space of a.
func Subtract(a, b Solid) (Solid, error) {
	return SubtractWith(a, b, DefaultOptions())
}

// SubtractWith is Subtract with explicit Options.
func SubtractWith(a, b Solid, opt Options) (Solid, error) {
	ta, tb, err := operandTrees(a, b, opt)

	ta.Invert()
	ta.ClipTo(tb)
	tb.ClipTo(ta)
	tb.Invert()
	tb.ClipTo(ta)
	tb.Invert()
	err = firstErr(err, ta.Insert(tb.AllPolygons()))
	ta.Invert()

	return Solid{polygons: ta.AllPolygons()}, err
}

// Intersect returns the solid enclosing every point inside both a and b:
// the union recipe performed with both operands complemented.
func Intersect(a, b Solid) (Solid, error) {
	return IntersectWith(a, b, DefaultOptions())
}

// IntersectWith is Intersect with explicit Options.
func IntersectWith(a, b Solid, opt Options) (Solid, error) {
	ta, tb, err := operandTrees(a, b, opt)

	ta.Invert()
	tb.ClipTo(ta)
	tb.Invert()
	ta.ClipTo(tb)
	tb.ClipTo(ta)
	err = firstErr(err, ta.Insert(tb.AllPolygons()))
	ta.Invert()

	return Solid{polygons: ta.AllPolygons()}, err
}

// Inverse returns the complement of the solid: every boundary polygon
// flipped so inside becomes outside. Inverse is its own inverse.
func Inverse(s Solid) Solid {
	polygons := make([]geom.Polygon, len(s.polygons))
	for i, p := range s.polygons {
		polygons[i] = p.Flipped()
	}
	return Solid{polygons: polygons}
}
