package planta

import (
	"encoding/xml"
	"strings"
	"testing"
)

func TestSceneBounds(t *testing.T) {
	s := NewScene(NewMeshStore())
	if _, _, ok := s.Bounds(); ok {
		t.Fatal("empty scene has bounds")
	}

	s.AddAt(KindWall, 0, 0)
	s.AddAt(KindWall, 3, 0).Rotate(1)
	lo, hi, ok := s.Bounds()
	if !ok {
		t.Fatal("no bounds")
	}
	if !vecAlmostEqual(lo, Vector2{X: -.15, Y: -1}) || !vecAlmostEqual(hi, Vector2{X: 4, Y: 1}) {
		t.Fatalf("bounds %v .. %v", lo, hi)
	}
}

func TestWriteSVG(t *testing.T) {
	s := NewScene(NewMeshStore())
	s.AddAt(KindWall, 0, 0)
	s.AddAt(KindOpening, 2, 0)
	s.AddAt(KindDoor, -2, 1)

	doc, err := s.SVG()
	if err != nil {
		t.Fatal(err)
	}

	dec := xml.NewDecoder(strings.NewReader(doc))
	counts := map[string]int{}
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		if se, ok := tok.(xml.StartElement); ok {
			counts[se.Name.Local]++
		}
	}

	expected := map[string]int{
		"svg":  1,
		"rect": 1,
		// wall, opening and door leaf; the swing is not filled
		"path": 3,
		// opening plus both door shapes
		"polyline": 3,
	}
	for el, n := range expected {
		if counts[el] != n {
			t.Errorf("%d <%s> elements, want %d", counts[el], el, n)
		}
	}
	if !strings.Contains(doc, `stroke-dasharray`) {
		t.Error("opening outline is not dashed")
	}
	if strings.Count(doc, `stroke-dasharray`) != 1 {
		t.Error("door outlines are dashed")
	}
	if !strings.Contains(doc, `fill="#000000" fill-opacity="0.5"`) {
		t.Error("wall fill missing")
	}
}

func TestWriteSVGSize(t *testing.T) {
	s := NewScene(NewMeshStore())
	s.AddAt(KindWall, 0, 0).SetThickness(.25)

	// 0.5 m + margins by 2 m + margins, at 40 px per meter
	doc, err := s.SVG()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(doc, `width="60" height="120"`) {
		t.Fatalf("unexpected size in %s", doc[:120])
	}
}

func TestFormatFloat(t *testing.T) {
	testCases := []struct {
		input    float64
		expected string
	}{
		{input: 1, expected: "1"},
		{input: 1.005, expected: "1"},
		{input: 12.3456, expected: "12.35"},
		{input: -0.5, expected: "-0.5"},
	}
	for _, tc := range testCases {
		if got := formatFloat(tc.input); got != tc.expected {
			t.Errorf("formatFloat(%v) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}
