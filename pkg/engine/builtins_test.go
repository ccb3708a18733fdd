package engine

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(sphere :radius 5)`,
			expect: `(sphere "__kw_radius" 5)`,
		},
		{
			name:   "multiple keywords",
			input:  `(cylinder :height 10 :radius 2)`,
			expect: `(cylinder "__kw_height" 10 "__kw_radius" 2)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(drill-hole :bit-dia ref)`,
			expect: `(drill_hole "__kw_bit-dia" ref)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:wall-thickness`,
			expect: `"__kw_wall-thickness"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Primitive builtins
// ---------------------------------------------------------------------------

// eval is a shorthand that fails the test on any fatal or eval error.
func eval(t *testing.T, source string) *Scene {
	t.Helper()
	eng := NewEngine()
	scene, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if scene == nil {
		t.Fatal("expected non-nil scene")
	}
	return scene
}

// evalExpectError runs source and requires at least one eval error.
func evalExpectError(t *testing.T, source string) []EvalError {
	t.Helper()
	eng := NewEngine()
	scene, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if scene != nil {
		t.Fatal("expected nil scene on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors")
	}
	return evalErrs
}

func TestBoxBuiltin(t *testing.T) {
	scene := eval(t, `(defsolid "b" (box 10 20 5))`)

	b, ok := scene.Get("b")
	if !ok {
		t.Fatal("solid 'b' not registered")
	}
	if b.PolygonCount() != 6 {
		t.Errorf("box has %d polygons, want 6", b.PolygonCount())
	}
	min, max := b.BoundingBox()
	if min.X != 0 || min.Y != 0 || min.Z != 0 {
		t.Errorf("box min = %v, want the origin", min)
	}
	if max.X != 10 || max.Y != 20 || max.Z != 5 {
		t.Errorf("box max = %v, want (10, 20, 5)", max)
	}
}

func TestSphereBuiltin(t *testing.T) {
	scene := eval(t, `(defsolid "s" (sphere :radius 5 :segments 8))`)

	s, ok := scene.Get("s")
	if !ok {
		t.Fatal("solid 's' not registered")
	}
	if s.PolygonCount() == 0 {
		t.Fatal("sphere has no polygons")
	}
	min, max := s.BoundingBox()
	if min.X < -5.000001 || max.X > 5.000001 {
		t.Errorf("sphere x bounds = %g..%g, want within ±5", min.X, max.X)
	}
}

func TestSphereDefaultsSegments(t *testing.T) {
	a := eval(t, `(defsolid "s" (sphere :radius 1))`)
	b := eval(t, `(defsolid "s" (sphere :radius 1 :segments 16))`)

	sa, _ := a.Get("s")
	sb, _ := b.Get("s")
	if sa.PolygonCount() != sb.PolygonCount() {
		t.Errorf("default segments produced %d polygons, explicit 16 produced %d",
			sa.PolygonCount(), sb.PolygonCount())
	}
}

func TestCylinderBuiltin(t *testing.T) {
	scene := eval(t, `(defsolid "c" (cylinder :height 10 :radius 2 :segments 12))`)

	c, ok := scene.Get("c")
	if !ok {
		t.Fatal("solid 'c' not registered")
	}
	if c.PolygonCount() != 14 { // 12 side quads + 2 caps
		t.Errorf("cylinder has %d polygons, want 14", c.PolygonCount())
	}
	min, max := c.BoundingBox()
	if min.Z != -5 || max.Z != 5 {
		t.Errorf("cylinder z bounds = %g..%g, want ±5", min.Z, max.Z)
	}
}

func TestPrimitiveValidation(t *testing.T) {
	tests := map[string]string{
		"box wrong arity":        `(box 1 1)`,
		"box negative dimension": `(box 1 -1 1)`,
		"sphere missing radius":  `(sphere :segments 8)`,
		"sphere bad radius type": `(sphere :radius "five")`,
		"cylinder zero height":   `(cylinder :height 0 :radius 1)`,
		"vec3 wrong arity":       `(vec3 1 2)`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			evalExpectError(t, src)
		})
	}
}

// ---------------------------------------------------------------------------
// Boolean and transform builtins
// ---------------------------------------------------------------------------

func TestUnionBuiltin(t *testing.T) {
	scene := eval(t, `
(defsolid "u"
  (union (box 1 1 1)
         (translate (box 1 1 1) (vec3 10 0 0))))
`)
	u, ok := scene.Get("u")
	if !ok {
		t.Fatal("solid 'u' not registered")
	}
	// Disjoint operands keep both boundaries.
	if u.PolygonCount() != 12 {
		t.Errorf("disjoint union has %d polygons, want 12", u.PolygonCount())
	}
	min, max := u.BoundingBox()
	if min.X != 0 || max.X != 11 {
		t.Errorf("union x bounds = %g..%g, want 0..11", min.X, max.X)
	}
}

func TestUnionFoldsManySolids(t *testing.T) {
	scene := eval(t, `
(defsolid "u"
  (union (box 1 1 1)
         (translate (box 1 1 1) (vec3 5 0 0))
         (translate (box 1 1 1) (vec3 10 0 0))))
`)
	u, _ := scene.Get("u")
	if u.PolygonCount() != 18 {
		t.Errorf("three-way union has %d polygons, want 18", u.PolygonCount())
	}
}

func TestDifferenceBuiltin(t *testing.T) {
	scene := eval(t, `
(defsolid "plate"
  (difference (box 10 10 2)
              (translate (cylinder :height 4 :radius 1 :segments 12)
                         (vec3 5 5 1))))
`)
	plate, ok := scene.Get("plate")
	if !ok {
		t.Fatal("solid 'plate' not registered")
	}
	// The drilled plate keeps its outer bounds but gains the hole wall.
	min, max := plate.BoundingBox()
	if min.X != 0 || max.X != 10 {
		t.Errorf("plate x bounds = %g..%g, want 0..10", min.X, max.X)
	}
	if plate.PolygonCount() <= 6 {
		t.Errorf("drilled plate has %d polygons, want more than a plain box", plate.PolygonCount())
	}
}

func TestIntersectionBuiltin(t *testing.T) {
	scene := eval(t, `
(defsolid "x"
  (intersection (box 2 2 2)
                (translate (box 2 2 2) (vec3 1 0 0))))
`)
	x, _ := scene.Get("x")
	min, max := x.BoundingBox()
	if min.X < 1-1e-6 || max.X > 2+1e-6 {
		t.Errorf("intersection x bounds = %g..%g, want 1..2", min.X, max.X)
	}
}

func TestInvertBuiltin(t *testing.T) {
	scene := eval(t, `(defsolid "inv" (invert (box 1 1 1)))`)
	inv, _ := scene.Get("inv")
	if inv.PolygonCount() != 6 {
		t.Errorf("inverted box has %d polygons, want 6", inv.PolygonCount())
	}
}

func TestRotateBuiltin(t *testing.T) {
	scene := eval(t, `(defsolid "r" (rotate (box 1 2 3) (vec3 0 0 90)))`)
	r, _ := scene.Get("r")
	min, max := r.BoundingBox()
	if min.X < -2-1e-6 || max.X > 1e-6 {
		t.Errorf("rotated x bounds = %g..%g, want -2..0", min.X, max.X)
	}
	if min.Y < -1e-6 || max.Y > 1+1e-6 {
		t.Errorf("rotated y bounds = %g..%g, want 0..1", min.Y, max.Y)
	}
}

// ---------------------------------------------------------------------------
// Scene registration
// ---------------------------------------------------------------------------

func TestSolidLookup(t *testing.T) {
	scene := eval(t, `
(defsolid "base" (box 4 4 1))
(defsolid "tower"
  (union (solid "base")
         (translate (box 1 1 3) (vec3 10 0 0))))
`)
	if scene.Len() != 2 {
		t.Fatalf("scene has %d solids, want 2", scene.Len())
	}
	names := scene.Names()
	if names[0] != "base" || names[1] != "tower" {
		t.Errorf("Names() = %v, want [base tower]", names)
	}
	tower, _ := scene.Get("tower")
	if tower.PolygonCount() != 12 {
		t.Errorf("tower has %d polygons, want 12", tower.PolygonCount())
	}
}

func TestSolidLookupUnknownName(t *testing.T) {
	errs := evalExpectError(t, `(defsolid "x" (solid "no-such"))`)
	if !strings.Contains(errs[0].Message, "no solid named") {
		t.Errorf("error %q should mention the missing name", errs[0].Message)
	}
}

func TestDefsolidEmptyName(t *testing.T) {
	evalExpectError(t, `(defsolid "" (box 1 1 1))`)
}

func TestDefsolidRedefinitionKeepsOrder(t *testing.T) {
	scene := eval(t, `
(defsolid "a" (box 1 1 1))
(defsolid "b" (box 2 2 2))
(defsolid "a" (box 3 3 3))
`)
	names := scene.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("Names() = %v, want [a b]", names)
	}
	a, _ := scene.Get("a")
	_, max := a.BoundingBox()
	if max.X != 3 {
		t.Errorf("redefined 'a' max x = %g, want 3", max.X)
	}
}

func TestVariablesAndComments(t *testing.T) {
	scene := eval(t, `
; plate thickness shared by both parts
(def thick 2)
(defsolid "plate" (box 10 10 thick))
(defsolid "rib" (box 1 10 thick))
`)
	if scene.Len() != 2 {
		t.Fatalf("scene has %d solids, want 2", scene.Len())
	}
	plate, _ := scene.Get("plate")
	_, max := plate.BoundingBox()
	if max.Z != 2 {
		t.Errorf("plate max z = %g, want the shared thickness 2", max.Z)
	}
}
