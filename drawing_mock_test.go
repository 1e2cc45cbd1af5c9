package planta

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats/scalar"
)

// recordingRenderer is a mock Renderer that keeps every call.
type recordingRenderer struct {
	view      View
	transform mgl64.Mat4
	material  Material
	calls     []drawCall
}

type drawCall struct {
	outline   bool
	buffer    Buffer
	count     int
	transform mgl64.Mat4
	material  Material
}

func (r *recordingRenderer) SetView(v View)               { r.view = v }
func (r *recordingRenderer) SubmitTransform(m mgl64.Mat4) { r.transform = m }
func (r *recordingRenderer) SubmitMaterial(m Material)    { r.material = m }

func (r *recordingRenderer) DrawTriangles(b Buffer, n int) {
	r.calls = append(r.calls, drawCall{buffer: b, count: n, transform: r.transform, material: r.material})
}

func (r *recordingRenderer) DrawOutline(b Buffer, n int) {
	r.calls = append(r.calls, drawCall{outline: true, buffer: b, count: n, transform: r.transform, material: r.material})
}

func (r *recordingRenderer) fills() []drawCall {
	var out []drawCall
	for _, c := range r.calls {
		if !c.outline {
			out = append(out, c)
		}
	}
	return out
}

func (r *recordingRenderer) outlines() []drawCall {
	var out []drawCall
	for _, c := range r.calls {
		if c.outline {
			out = append(out, c)
		}
	}
	return out
}

const float64EqualityThreshold = 1e-6

func almostEqual(a, b float64) bool {
	return scalar.EqualWithinAbs(a, b, float64EqualityThreshold)
}

// angleAlmostEqual compares angles modulo 2π.
func angleAlmostEqual(a, b float64) bool {
	d := math.Mod(math.Abs(a-b), 2*math.Pi)
	return d <= float64EqualityThreshold || 2*math.Pi-d <= float64EqualityThreshold
}

func vecAlmostEqual(a, b Vector2) bool {
	return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y)
}
