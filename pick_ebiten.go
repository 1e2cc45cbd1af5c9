package planta

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenPickTarget renders the pick pass into an offscreen ebiten image.
// Vertex colours are submitted premultiplied and copied without blending so
// the id bytes land in the image unchanged.
type EbitenPickTarget struct {
	meshes    *MeshStore
	img       *ebiten.Image
	view      View
	transform mgl64.Mat4
	material  Material

	vertices []ebiten.Vertex
	indices  []uint16
}

func NewEbitenPickTarget(meshes *MeshStore) *EbitenPickTarget {
	return &EbitenPickTarget{
		meshes:    meshes,
		transform: mgl64.Ident4(),
	}
}

func (t *EbitenPickTarget) Resize(width, height int) {
	if t.img != nil {
		t.img.Deallocate()
		t.img = nil
	}
	if width <= 0 || height <= 0 {
		return
	}
	t.img = ebiten.NewImage(width, height)
	t.Clear()
}

func (t *EbitenPickTarget) Size() (int, int) {
	if t.img == nil {
		return 0, 0
	}
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

func (t *EbitenPickTarget) Clear() {
	if t.img == nil {
		return
	}
	t.img.Fill(color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
}

func (t *EbitenPickTarget) ReadPixel(x, y int) [4]byte {
	if t.img == nil {
		return EncodeID(NoObject)
	}
	// At reports premultiplied RGBA, which is exactly what was written.
	c := t.img.At(x, y).(color.RGBA)
	return [4]byte{c.R, c.G, c.B, c.A}
}

func (t *EbitenPickTarget) SetView(v View) {
	t.view = v
}

func (t *EbitenPickTarget) SubmitTransform(m mgl64.Mat4) {
	t.transform = m
}

func (t *EbitenPickTarget) SubmitMaterial(m Material) {
	t.material = m
}

func (t *EbitenPickTarget) DrawTriangles(b Buffer, vertexCount int) {
	if t.img == nil {
		return
	}
	t.vertices, t.indices = buildTriangleVertices(t.vertices[:0], t.indices[:0], t.meshes.Vertices(b), vertexCount, t.transform, t.view, t.material.Color)
	if len(t.indices) == 0 {
		return
	}

	op := &ebiten.DrawTrianglesOptions{
		ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha,
		Blend:          ebiten.BlendCopy,
		AntiAlias:      false,
	}
	t.img.DrawTriangles(t.vertices, t.indices, whiteSub, op)
}

func (t *EbitenPickTarget) DrawOutline(b Buffer, vertexCount int) {}
