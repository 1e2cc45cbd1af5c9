package planta

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	outlineWidth = 1.5

	dashLength = 6.0
	dashGap    = 4.0
)

var (
	whiteImage = ebiten.NewImage(3, 3)
	whiteSub   *ebiten.Image

	backgroundColor = color.RGBA{R: 0xF4, G: 0xF4, B: 0xF0, A: 0xFF}
)

func init() {
	whiteImage.Fill(color.White)
	whiteSub = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// buildTriangleVertices maps a triangle list from the mesh store into screen
// space vertices coloured with c.
func buildTriangleVertices(vertices []ebiten.Vertex, indices []uint16, data []float32, vertexCount int, m mgl64.Mat4, view View, c RGBA) ([]ebiten.Vertex, []uint16) {
	if len(data) < vertexCount*2 {
		vertexCount = len(data) / 2
	}
	if vertexCount < 3 || vertexCount > math.MaxUint16 {
		return vertices, indices
	}

	cr, cg, cb, ca := float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])
	for i, p := range transformVertices(m, data[:vertexCount*2]) {
		x, y := view.WorldToScreen(p)
		vertices = append(vertices, ebiten.Vertex{
			DstX:   float32(x),
			DstY:   float32(y),
			SrcX:   1,
			SrcY:   1,
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		})
		indices = append(indices, uint16(i))
	}
	// drop a trailing partial triangle
	indices = indices[:len(indices)-len(indices)%3]
	return vertices, indices
}

// ScreenRenderer draws the visual pass onto an ebiten image.
type ScreenRenderer struct {
	meshes    *MeshStore
	screen    *ebiten.Image
	view      View
	transform mgl64.Mat4
	material  Material

	vertices []ebiten.Vertex
	indices  []uint16
}

func NewScreenRenderer(meshes *MeshStore) *ScreenRenderer {
	return &ScreenRenderer{
		meshes:    meshes,
		transform: mgl64.Ident4(),
	}
}

// Begin points the renderer at this frame's screen and clears it.
func (r *ScreenRenderer) Begin(screen *ebiten.Image) {
	r.screen = screen
	if screen != nil {
		screen.Fill(backgroundColor)
	}
}

func (r *ScreenRenderer) SetView(v View) {
	r.view = v
}

func (r *ScreenRenderer) SubmitTransform(m mgl64.Mat4) {
	r.transform = m
}

func (r *ScreenRenderer) SubmitMaterial(m Material) {
	r.material = m
}

func (r *ScreenRenderer) DrawTriangles(b Buffer, vertexCount int) {
	if r.screen == nil {
		return
	}
	r.vertices, r.indices = buildTriangleVertices(r.vertices[:0], r.indices[:0], r.meshes.Vertices(b), vertexCount, r.transform, r.view, r.material.Color)
	if len(r.indices) == 0 {
		return
	}

	op := &ebiten.DrawTrianglesOptions{}
	op.AntiAlias = true
	r.screen.DrawTriangles(r.vertices, r.indices, whiteSub, op)
}

func (r *ScreenRenderer) DrawOutline(b Buffer, vertexCount int) {
	if r.screen == nil {
		return
	}
	data := r.meshes.Vertices(b)
	if len(data) < vertexCount*2 {
		vertexCount = len(data) / 2
	}
	if vertexCount < 2 {
		return
	}

	pts := transformVertices(r.transform, data[:vertexCount*2])
	xp := make([]float32, len(pts))
	yp := make([]float32, len(pts))
	for i, p := range pts {
		x, y := r.view.WorldToScreen(p)
		xp[i], yp[i] = float32(x), float32(y)
	}

	if r.material.Dashed {
		drawDashedPolyline(r.screen, xp, yp, outlineWidth, r.material.Color.NRGBA())
		return
	}
	drawPolyline(r.screen, xp, yp, outlineWidth, r.material.Color.NRGBA())
}

// drawPolyline strokes the open polyline through the given points. Closed
// outlines repeat their first point at the end.
func drawPolyline(screen *ebiten.Image, xp, yp []float32, strokeWidth float32, clr color.NRGBA) {
	if len(xp) < 2 {
		return
	}

	var path vector.Path
	path.MoveTo(xp[0], yp[0])
	for i := 1; i < len(xp); i++ {
		path.LineTo(xp[i], yp[i])
	}
	strokePath(screen, &path, strokeWidth, clr)
}

// drawDashedPolyline strokes the polyline as dashes, carrying the dash phase
// across vertices so corners don't restart the pattern.
func drawDashedPolyline(screen *ebiten.Image, xp, yp []float32, strokeWidth float32, clr color.NRGBA) {
	if len(xp) < 2 {
		return
	}

	var path vector.Path
	phase := 0.0
	for i := 1; i < len(xp); i++ {
		x0, y0 := float64(xp[i-1]), float64(yp[i-1])
		dx, dy := float64(xp[i])-x0, float64(yp[i])-y0
		segLen := math.Hypot(dx, dy)
		if segLen == 0 {
			continue
		}
		ux, uy := dx/segLen, dy/segLen

		pos := 0.0
		for pos < segLen {
			period := dashLength + dashGap
			inDash := phase < dashLength
			var run float64
			if inDash {
				run = math.Min(dashLength-phase, segLen-pos)
				path.MoveTo(float32(x0+ux*pos), float32(y0+uy*pos))
				path.LineTo(float32(x0+ux*(pos+run)), float32(y0+uy*(pos+run)))
			} else {
				run = math.Min(period-phase, segLen-pos)
			}
			pos += run
			phase = math.Mod(phase+run, period)
		}
	}
	strokePath(screen, &path, strokeWidth, clr)
}

func strokePath(screen *ebiten.Image, path *vector.Path, strokeWidth float32, clr color.NRGBA) {
	strokeOp := &vector.StrokeOptions{
		Width:    strokeWidth,
		LineJoin: vector.LineJoinMiter,
	}
	vertices, indices := path.AppendVerticesAndIndicesForStroke(nil, nil, strokeOp)
	if len(indices) == 0 {
		return
	}

	cr := float32(clr.R) / 255.0
	cg := float32(clr.G) / 255.0
	cb := float32(clr.B) / 255.0
	ca := float32(clr.A) / 255.0

	for i := range vertices {
		vertices[i].ColorR = cr
		vertices[i].ColorG = cg
		vertices[i].ColorB = cb
		vertices[i].ColorA = ca
		vertices[i].SrcX = 1
		vertices[i].SrcY = 1
	}

	drawOp := &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
	}
	screen.DrawTriangles(vertices, indices, whiteSub, drawOp)
}
