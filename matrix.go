package planta

import (
	"github.com/go-gl/mathgl/mgl64"
)

// NewTransformMatrix composes scale, then rotation about Z, then translation,
// the order used for both objects and their shapes.
func NewTransformMatrix(x, y float64, scale Vector2, rotation float64) mgl64.Mat4 {
	s := mgl64.Scale3D(scale.X, scale.Y, 1)
	r := mgl64.HomogRotate3DZ(rotation)
	t := mgl64.Translate3D(x, y, 0)
	return t.Mul4(r).Mul4(s)
}

// TransformPoint applies m to a 2D point.
func TransformPoint(m mgl64.Mat4, x, y float64) Vector2 {
	p := m.Mul4x1(mgl64.Vec4{x, y, 0, 1})
	return Vector2{X: p[0], Y: p[1]}
}

// transformVertices maps a flat x,y vertex list through m.
func transformVertices(m mgl64.Mat4, vertices []float32) []Vector2 {
	out := make([]Vector2, 0, len(vertices)/2)
	for i := 0; i+1 < len(vertices); i += 2 {
		out = append(out, TransformPoint(m, float64(vertices[i]), float64(vertices[i+1])))
	}
	return out
}
