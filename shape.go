package planta

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Shape is a single drawable primitive owned by one Object. Size holds the
// half extents of the unit geometry: Size[0] is the thickness and Size[1]
// the length, both in meters.
type Shape struct {
	X         float64
	Y         float64
	Size      [2]float64
	Rotation  float64
	Color     RGBA
	LineColor *RGBA

	geometry      GeometryKind
	meshes        *MeshStore
	triangles     Buffer
	triangleCount int
	outline       Buffer
	outlineCount  int
}

// newShape generates the shape's geometry and uploads it. Geometry is never
// regenerated afterwards; resizing only changes Size.
func newShape(meshes *MeshStore, geometry GeometryKind, x, y, thickness, length float64, color RGBA) *Shape {
	s := &Shape{
		X:        x,
		Y:        y,
		Size:     [2]float64{thickness, length},
		Color:    color,
		geometry: geometry,
		meshes:   meshes,
	}

	tris := Triangles(geometry)
	s.triangleCount = len(tris) / 2
	s.triangles = meshes.Upload(tris)

	outline := Outline(geometry)
	s.outlineCount = len(outline) / 2
	s.outline = meshes.Upload(outline)

	return s
}

func (s *Shape) withLineColor(c RGBA) *Shape {
	s.LineColor = &c
	return s
}

func (s *Shape) Thickness() float64 {
	return s.Size[0]
}

func (s *Shape) SetThickness(meters float64) {
	s.Size[0] = meters
}

func (s *Shape) Length() float64 {
	return s.Size[1]
}

func (s *Shape) SetLength(meters float64) {
	s.Size[1] = meters
}

func (s *Shape) Geometry() GeometryKind {
	return s.geometry
}

// Transform maps the shape's unit geometry into its owner's local space.
func (s *Shape) Transform() mgl64.Mat4 {
	return NewTransformMatrix(s.X, s.Y, Vector2{X: s.Size[0], Y: s.Size[1]}, s.Rotation)
}

// Released reports whether Dispose has run.
func (s *Shape) Released() bool {
	return s.triangles == NoBuffer && s.outline == NoBuffer
}

// Dispose releases the shape's geometry buffers. Safe to call twice.
func (s *Shape) Dispose() {
	s.meshes.Release(s.triangles)
	s.meshes.Release(s.outline)
	s.triangles = NoBuffer
	s.outline = NoBuffer
}
