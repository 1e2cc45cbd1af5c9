package planta

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Axis selects which scale component Flip negates.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Object is a placed architectural element. It owns its Shapes and their
// geometry buffers.
type Object struct {
	ID       uint32
	Kind     Kind
	X        float64
	Y        float64
	Scale    Vector2
	Rotation float64
	Layer    int
	Shapes   []*Shape
}

// newObject builds an object of the given kind at the origin with the kind's
// default dimensions.
func newObject(meshes *MeshStore, kind Kind, id uint32) *Object {
	info := kind.info()
	return &Object{
		ID:     id,
		Kind:   kind,
		Scale:  NewVector2(1, 1),
		Layer:  info.layer,
		Shapes: info.build(meshes, info.thickness, info.length),
	}
}

func (o *Object) Name() string {
	return o.Kind.String()
}

func (o *Object) Position() Vector2 {
	return NewVector2(o.X, o.Y)
}

func (o *Object) SetPosition(x, y float64) {
	o.X = x
	o.Y = y
}

func (o *Object) Thickness() float64 {
	return o.Kind.info().getThickness(o)
}

func (o *Object) SetThickness(meters float64) {
	o.Kind.info().setThickness(o, meters)
}

func (o *Object) Length() float64 {
	return o.Kind.info().getLength(o)
}

func (o *Object) SetLength(meters float64) {
	o.Kind.info().setLength(o, meters)
}

// Rotate turns the object a quarter turn in the direction of dir's sign.
// A zero dir does nothing.
func (o *Object) Rotate(dir float64) {
	switch {
	case dir > 0:
		o.Rotation = normalizeAngle(o.Rotation + math.Pi/2)
	case dir < 0:
		o.Rotation = normalizeAngle(o.Rotation - math.Pi/2)
	}
}

// Flip mirrors the object along one axis by negating that scale component.
func (o *Object) Flip(axis Axis) {
	switch axis {
	case AxisX:
		o.Scale.X = -o.Scale.X
	case AxisY:
		o.Scale.Y = -o.Scale.Y
	}
}

// Transform maps object-local space into world space.
func (o *Object) Transform() mgl64.Mat4 {
	return NewTransformMatrix(o.X, o.Y, o.Scale, o.Rotation)
}

// drawOrder returns shape indices in paint order.
func (o *Object) drawOrder() []int {
	idx := make([]int, len(o.Shapes))
	reverse := o.Kind.info().reverseDraw
	for i := range o.Shapes {
		if reverse {
			idx[i] = len(o.Shapes) - 1 - i
		} else {
			idx[i] = i
		}
	}
	return idx
}

// Draw submits the object's shapes to r. In pick mode every shape is flat
// filled with the object's id colour and no outlines are drawn.
func (o *Object) Draw(r Renderer, mode DrawMode) {
	if r == nil {
		return
	}
	world := o.Transform()
	style := o.Kind.info().style

	for _, i := range o.drawOrder() {
		s := o.Shapes[i]
		if s.Released() {
			continue
		}
		r.SubmitTransform(world.Mul4(s.Transform()))

		if mode == DrawPick {
			r.SubmitMaterial(Material{Color: IDColor(o.ID)})
			r.DrawTriangles(s.triangles, s.triangleCount)
			continue
		}

		// the door swing is outline only
		if style != styleDoor || i == 0 {
			r.SubmitMaterial(Material{Color: s.Color})
			r.DrawTriangles(s.triangles, s.triangleCount)
		}
		if s.LineColor != nil {
			r.SubmitMaterial(Material{Color: *s.LineColor, Dashed: style == styleFillDashed})
			r.DrawOutline(s.outline, s.outlineCount)
		}
	}
}

// Dispose releases every shape's buffers.
func (o *Object) Dispose() {
	for _, s := range o.Shapes {
		s.Dispose()
	}
}

// Released reports whether all shape buffers have been released.
func (o *Object) Released() bool {
	for _, s := range o.Shapes {
		if !s.Released() {
			return false
		}
	}
	return true
}
