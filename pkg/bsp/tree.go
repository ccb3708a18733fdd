// Package bsp implements the binary space partitioning tree behind the
// CSG engine. A tree owns every node it contains; trees are never shared
// between operations, and every traversal runs on an explicit work stack
// so stack usage stays bounded no matter how many polygons come in.
package bsp

import (
	"errors"
	"fmt"

	"github.com/chazu/kerf/pkg/geom"
)

// DefaultMaxNodes caps tree growth on pathological inputs. Hitting the
// cap is not fatal: insertion parks the remaining polygons on the current
// node (keeping them in AllPolygons) and reports ErrPartitionLimit.
const DefaultMaxNodes = 1000

// ErrPartitionLimit reports that tree construction hit the node-count
// ceiling and stopped subdividing. The tree is still usable; the caller
// decides whether to accept the best-effort partition or retry with
// simplified input.
var ErrPartitionLimit = errors.New("bsp: partition node limit exceeded")

// Config tunes tree construction and classification.
type Config struct {
	// Epsilon is the coplanarity tolerance for plane classification.
	// It should track the mesh's coordinate scale.
	Epsilon float64

	// MaxNodes caps the number of tree nodes.
	MaxNodes int
}

// DefaultConfig returns the tolerances suited to unit-scale meshes.
func DefaultConfig() Config {
	return Config{Epsilon: geom.DefaultEpsilon, MaxNodes: DefaultMaxNodes}
}

// node is a single partition cell: an optional splitting plane, the
// polygons lying on that plane, and optional front/back children. A node
// without a plane is a leaf.
type node struct {
	plane    *geom.Plane
	front    *node
	back     *node
	polygons []geom.Polygon
}

// Tree is a partition tree over a polygon set. The zero value is not
// usable; construct with New.
type Tree struct {
	cfg   Config
	root  *node
	nodes int
}

// New returns an empty tree. Zero or negative Config fields fall back to
// the defaults.
func New(cfg Config) *Tree {
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = geom.DefaultEpsilon
	}
	if cfg.MaxNodes <= 0 {
		cfg.MaxNodes = DefaultMaxNodes
	}
	return &Tree{cfg: cfg, root: &node{}, nodes: 1}
}

// insertFrame is one unit of pending insertion work.
type insertFrame struct {
	n        *node
	polygons []geom.Polygon
}

// Insert partitions polygons into the tree. A planeless node adopts the
// first polygon's plane; coplanar polygons join the node's own list;
// front and back sets descend into lazily created children.
//
// Polygons are never discarded: when the node ceiling is reached, or a
// partition fails to separate anything from its input, the remaining
// polygons are parked on the current node instead of subdividing further.
// The ceiling case additionally reports ErrPartitionLimit.
func (t *Tree) Insert(polygons []geom.Polygon) error {
	limited := false
	stack := []insertFrame{{t.root, polygons}}

	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(fr.polygons) == 0 {
			continue
		}

		n := fr.n
		if n.plane == nil {
			pl := fr.polygons[0].Plane
			n.plane = &pl
		}

		var front, back []geom.Polygon
		for _, p := range fr.polygons {
			n.plane.SplitPolygon(p, t.cfg.Epsilon, &n.polygons, &n.polygons, &front, &back)
		}

		// A plane that produces no separation at all cannot make
		// progress by subdividing; park the survivors here.
		if n.front == nil && n.back == nil &&
			(len(front) == len(fr.polygons) || len(back) == len(fr.polygons)) {
			n.polygons = append(n.polygons, front...)
			n.polygons = append(n.polygons, back...)
			continue
		}

		if len(front) > 0 {
			if n.front == nil {
				if t.nodes >= t.cfg.MaxNodes {
					n.polygons = append(n.polygons, front...)
					limited = true
					front = nil
				} else {
					n.front = &node{}
					t.nodes++
				}
			}
			if len(front) > 0 {
				stack = append(stack, insertFrame{n.front, front})
			}
		}
		if len(back) > 0 {
			if n.back == nil {
				if t.nodes >= t.cfg.MaxNodes {
					n.polygons = append(n.polygons, back...)
					limited = true
					back = nil
				} else {
					n.back = &node{}
					t.nodes++
				}
			}
			if len(back) > 0 {
				stack = append(stack, insertFrame{n.back, back})
			}
		}
	}

	if limited {
		return fmt.Errorf("inserting %d polygons at %d nodes: %w",
			len(polygons), t.nodes, ErrPartitionLimit)
	}
	return nil
}

// NodeCount returns the number of nodes currently in the tree.
func (t *Tree) NodeCount() int { return t.nodes }

// clipFrame is one unit of pending clipping work.
type clipFrame struct {
	n        *node
	polygons []geom.Polygon
}

// ClipPolygons returns the parts of polygons that lie outside the solid
// this tree represents. Fragments on the back side of a leaf's plane
// (inside the solid) are dropped; everything else survives. The result
// preserves the front-then-back visit order of the tree.
func (t *Tree) ClipPolygons(polygons []geom.Polygon) []geom.Polygon {
	var result []geom.Polygon
	stack := []clipFrame{{t.root, polygons}}

	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := fr.n
		if n.plane == nil {
			// Leaf without a plane: nothing to clip against.
			result = append(result, fr.polygons...)
			continue
		}

		var front, back []geom.Polygon
		for _, p := range fr.polygons {
			// Coplanar fragments route to front or back by normal
			// agreement, exactly as during insertion.
			n.plane.SplitPolygon(p, t.cfg.Epsilon, &front, &back, &front, &back)
		}

		// Back frame first so the front subtree is fully processed
		// before any back-side output is appended.
		if n.back != nil && len(back) > 0 {
			stack = append(stack, clipFrame{n.back, back})
		}
		if n.front != nil {
			if len(front) > 0 {
				stack = append(stack, clipFrame{n.front, front})
			}
		} else {
			result = append(result, front...)
		}
	}
	return result
}

// ClipTo removes from this tree every polygon fragment that lies inside
// the solid represented by other, by re-clipping every node's polygon
// list through other.
func (t *Tree) ClipTo(other *Tree) {
	stack := []*node{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n.polygons = other.ClipPolygons(n.polygons)
		if n.front != nil {
			stack = append(stack, n.front)
		}
		if n.back != nil {
			stack = append(stack, n.back)
		}
	}
}

// Invert turns the solid inside out: every polygon flips, every plane
// negates, and front/back swap at every node. Invert is its own inverse.
func (t *Tree) Invert() {
	stack := []*node{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for i, p := range n.polygons {
			n.polygons[i] = p.Flipped()
		}
		if n.plane != nil {
			*n.plane = n.plane.Flipped()
		}
		n.front, n.back = n.back, n.front

		if n.front != nil {
			stack = append(stack, n.front)
		}
		if n.back != nil {
			stack = append(stack, n.back)
		}
	}
}

// AllPolygons returns every polygon in the tree: each node's own list
// first, then its front subtree, then its back subtree.
func (t *Tree) AllPolygons() []geom.Polygon {
	var result []geom.Polygon
	stack := []*node{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		result = append(result, n.polygons...)
		if n.back != nil {
			stack = append(stack, n.back)
		}
		if n.front != nil {
			stack = append(stack, n.front)
		}
	}
	return result
}
