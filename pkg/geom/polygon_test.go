package geom

import (
	"errors"
	"math"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestNewPolygon(t *testing.T) {
	t.Run("too few vertices", func(t *testing.T) {
		_, err := NewPolygon([]Vertex{vert(0, 0, 0), vert(1, 0, 0)})
		if !errors.Is(err, ErrDegenerateGeometry) {
			t.Fatalf("error = %v, want ErrDegenerateGeometry", err)
		}
	})

	t.Run("collinear vertices", func(t *testing.T) {
		_, err := NewPolygon([]Vertex{vert(0, 0, 0), vert(1, 0, 0), vert(2, 0, 0)})
		if !errors.Is(err, ErrDegenerateGeometry) {
			t.Fatalf("error = %v, want ErrDegenerateGeometry", err)
		}
	})

	t.Run("valid triangle", func(t *testing.T) {
		p, err := NewPolygon([]Vertex{vert(0, 0, 0), vert(1, 0, 0), vert(0, 1, 0)})
		if err != nil {
			t.Fatalf("NewPolygon() error = %v", err)
		}
		if math.Abs(p.Plane.Normal.Z-1) > 1e-12 {
			t.Errorf("plane normal = %v, want +Z", p.Plane.Normal)
		}
	})
}

func TestPolygonClone(t *testing.T) {
	p := quad(t, vert(0, 0, 0), vert(1, 0, 0), vert(1, 1, 0), vert(0, 1, 0))
	c := p.Clone()

	c.Vertices[0].Pos.X = 99
	if p.Vertices[0].Pos.X == 99 {
		t.Error("mutating the clone changed the original")
	}
	if c.Plane != p.Plane {
		t.Errorf("clone plane = %+v, want %+v", c.Plane, p.Plane)
	}
}

func TestPolygonFlipped(t *testing.T) {
	p := quad(t, vert(0, 0, 0), vert(1, 0, 0), vert(1, 1, 0), vert(0, 1, 0))
	for i := range p.Vertices {
		p.Vertices[i].Normal = p.Plane.Normal
	}

	fl := p.Flipped()
	if math.Abs(fl.Plane.Normal.Z+1) > 1e-12 {
		t.Errorf("flipped plane normal = %v, want -Z", fl.Plane.Normal)
	}
	for i, v := range fl.Vertices {
		if math.Abs(v.Normal.Z+1) > 1e-12 {
			t.Errorf("flipped vertex %d normal = %v, want -Z", i, v.Normal)
		}
	}
	// Winding reverses: first flipped vertex is the last original one.
	if fl.Vertices[0].Pos != p.Vertices[len(p.Vertices)-1].Pos {
		t.Errorf("flipped winding does not reverse the ring")
	}

	// Double flip restores the original.
	back := fl.Flipped()
	for i := range p.Vertices {
		if back.Vertices[i] != p.Vertices[i] {
			t.Errorf("double flip vertex %d = %+v, want %+v", i, back.Vertices[i], p.Vertices[i])
		}
	}
	if back.Plane != p.Plane {
		t.Errorf("double flip plane = %+v, want %+v", back.Plane, p.Plane)
	}
}

func TestPolygonValidate(t *testing.T) {
	p := quad(t, vert(0, 0, 0), vert(1, 0, 0), vert(1, 1, 0), vert(0, 1, 0))
	if err := p.Validate(DefaultEpsilon); err != nil {
		t.Fatalf("Validate() on planar quad = %v, want nil", err)
	}

	warped := p.Clone()
	warped.Vertices[2].Pos.Z = 0.5
	if err := warped.Validate(DefaultEpsilon); !errors.Is(err, ErrDegenerateGeometry) {
		t.Fatalf("Validate() on warped quad = %v, want ErrDegenerateGeometry", err)
	}
}

func TestClonePolygons(t *testing.T) {
	polys := []Polygon{
		quad(t, vert(0, 0, 0), vert(1, 0, 0), vert(1, 1, 0), vert(0, 1, 0)),
	}
	cloned := ClonePolygons(polys)
	cloned[0].Vertices[0].Pos.Y = 7
	if polys[0].Vertices[0].Pos.Y == 7 {
		t.Error("mutating the cloned slice changed the original")
	}
}

func TestVertexInterpolate(t *testing.T) {
	a := Vertex{
		Pos:    v3.Vec{X: 0, Y: 0, Z: 0},
		Normal: v3.Vec{X: 1, Y: 0, Z: 0},
		UV:     v2.Vec{X: 0, Y: 0},
	}
	b := Vertex{
		Pos:    v3.Vec{X: 2, Y: 4, Z: 6},
		Normal: v3.Vec{X: 0, Y: 1, Z: 0},
		UV:     v2.Vec{X: 1, Y: 1},
	}

	tests := []struct {
		name string
		t    float64
		pos  v3.Vec
		uv   v2.Vec
	}{
		{"start", 0, v3.Vec{}, v2.Vec{}},
		{"end", 1, v3.Vec{X: 2, Y: 4, Z: 6}, v2.Vec{X: 1, Y: 1}},
		{"midpoint", 0.5, v3.Vec{X: 1, Y: 2, Z: 3}, v2.Vec{X: 0.5, Y: 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Interpolate(b, tt.t)
			if got.Pos != tt.pos {
				t.Errorf("Pos = %v, want %v", got.Pos, tt.pos)
			}
			if got.UV != tt.uv {
				t.Errorf("UV = %v, want %v", got.UV, tt.uv)
			}
		})
	}

	mid := a.Interpolate(b, 0.5)
	want := v3.Vec{X: 0.5, Y: 0.5, Z: 0}
	if mid.Normal != want {
		t.Errorf("midpoint Normal = %v, want %v", mid.Normal, want)
	}
}

func TestVertexFlipped(t *testing.T) {
	v := Vertex{Pos: v3.Vec{X: 1}, Normal: v3.Vec{X: 0, Y: 0, Z: 1}}
	fl := v.Flipped()
	if fl.Normal.Z != -1 {
		t.Errorf("Flipped() normal = %v, want -Z", fl.Normal)
	}
	if fl.Pos != v.Pos {
		t.Errorf("Flipped() moved the position: %v", fl.Pos)
	}
}
