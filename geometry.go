package planta

import "math"

// GeometryKind selects the procedural mesh a shape is built from.
type GeometryKind int

const (
	GeometryRect GeometryKind = iota
	GeometryDoorSwing
)

const doorSwingSubdivisions = 20

// unitSquare spans [-1, 1] on both axes; a shape's size gives its half
// extents.
var unitSquare = []float32{
	1, -1,
	1, 1,
	-1, 1,

	-1, 1,
	-1, -1,
	1, -1,
}

var unitSquareOutline = []float32{
	1, -1,
	1, 1,
	-1, 1,
	-1, -1,
	1, -1,
}

// Triangles returns the local-space triangle list for a geometry kind.
// Unknown kinds produce an empty list.
func Triangles(kind GeometryKind) []float32 {
	switch kind {
	case GeometryRect:
		return append([]float32(nil), unitSquare...)
	case GeometryDoorSwing:
		return doorSwingFan(doorSwingSubdivisions)
	}
	return nil
}

// Outline returns the local-space polyline drawn as the shape's stroke.
func Outline(kind GeometryKind) []float32 {
	switch kind {
	case GeometryRect:
		return append([]float32(nil), unitSquareOutline...)
	case GeometryDoorSwing:
		verts := []float32{
			-1, -1,
			1, -1,
			1, 1,
		}
		return append(verts, quarterCircle(doorSwingSubdivisions)...)
	}
	return nil
}

// quarterCircle sweeps radius 2 around the hinge corner (1, -1) from the
// leaf's open position (1, 1) to the closed one (-1, -1).
func quarterCircle(subdivs int) []float32 {
	const (
		r          = 2.0
		x0         = 1.0
		y0         = -1.0
		startAngle = math.Pi / 2
		endAngle   = math.Pi
	)
	step := (endAngle - startAngle) / float64(subdivs)

	verts := make([]float32, 0, (subdivs+1)*2)
	for i := 0; i <= subdivs; i++ {
		a := startAngle + float64(i)*step
		verts = append(verts, float32(x0+r*math.Cos(a)), float32(y0+r*math.Sin(a)))
	}
	return verts
}

// doorSwingFan fills the sector swept by the door, used by picking.
func doorSwingFan(subdivs int) []float32 {
	arc := quarterCircle(subdivs)
	verts := make([]float32, 0, subdivs*6)
	for i := 0; i+3 < len(arc); i += 2 {
		verts = append(verts,
			1, -1,
			arc[i], arc[i+1],
			arc[i+2], arc[i+3],
		)
	}
	return verts
}
