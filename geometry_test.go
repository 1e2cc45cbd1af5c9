package planta

import (
	"math"
	"testing"
)

func TestGeometryVertexCounts(t *testing.T) {
	testCases := []struct {
		name          string
		kind          GeometryKind
		triangleVerts int
		outlineVerts  int
	}{
		{name: "rect", kind: GeometryRect, triangleVerts: 6, outlineVerts: 5},
		{name: "door swing", kind: GeometryDoorSwing, triangleVerts: doorSwingSubdivisions * 3, outlineVerts: 3 + doorSwingSubdivisions + 1},
		{name: "unknown", kind: GeometryKind(99), triangleVerts: 0, outlineVerts: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := len(Triangles(tc.kind)) / 2; got != tc.triangleVerts {
				t.Errorf("triangle vertices = %d, want %d", got, tc.triangleVerts)
			}
			if got := len(Outline(tc.kind)) / 2; got != tc.outlineVerts {
				t.Errorf("outline vertices = %d, want %d", got, tc.outlineVerts)
			}
		})
	}
}

func TestRectOutlineIsClosed(t *testing.T) {
	o := Outline(GeometryRect)
	n := len(o)
	if o[0] != o[n-2] || o[1] != o[n-1] {
		t.Fatalf("outline not closed: first (%v,%v) last (%v,%v)", o[0], o[1], o[n-2], o[n-1])
	}
}

func TestDoorSwingArc(t *testing.T) {
	arc := quarterCircle(doorSwingSubdivisions)

	first := Vector2{X: float64(arc[0]), Y: float64(arc[1])}
	last := Vector2{X: float64(arc[len(arc)-2]), Y: float64(arc[len(arc)-1])}
	if !vecAlmostEqual(first, Vector2{X: 1, Y: 1}) {
		t.Errorf("arc starts at %v, want (1, 1)", first)
	}
	if !vecAlmostEqual(last, Vector2{X: -1, Y: -1}) {
		t.Errorf("arc ends at %v, want (-1, -1)", last)
	}

	hinge := Vector2{X: 1, Y: -1}
	for i := 0; i+1 < len(arc); i += 2 {
		p := Vector2{X: float64(arc[i]), Y: float64(arc[i+1])}
		if r := p.Sub(hinge).Length(); math.Abs(r-2) > 1e-5 {
			t.Fatalf("arc point %v is %v from the hinge, want 2", p, r)
		}
	}
}

func TestTrianglesReturnsCopy(t *testing.T) {
	a := Triangles(GeometryRect)
	a[0] = 42
	if b := Triangles(GeometryRect); b[0] == 42 {
		t.Fatal("Triangles exposed the shared unit square")
	}
}
