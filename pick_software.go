package planta

import (
	"image"
	"image/draw"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/vector"
)

// coverageThreshold is the minimum mask coverage for a pixel to take an id.
// Edges are never blended: a pixel belongs to one object or none.
const coverageThreshold = 0x80

// SoftwarePickTarget rasterizes the pick pass on the CPU. It backs picking in
// headless use and tests.
type SoftwarePickTarget struct {
	meshes    *MeshStore
	ids       *image.RGBA
	view      View
	transform mgl64.Mat4
	material  Material
	raster    *vector.Rasterizer
	mask      *image.Alpha
}

func NewSoftwarePickTarget(meshes *MeshStore) *SoftwarePickTarget {
	return &SoftwarePickTarget{
		meshes:    meshes,
		ids:       image.NewRGBA(image.Rect(0, 0, 0, 0)),
		transform: mgl64.Ident4(),
		raster:    vector.NewRasterizer(0, 0),
	}
}

func (t *SoftwarePickTarget) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	t.ids = image.NewRGBA(image.Rect(0, 0, width, height))
	t.Clear()
}

func (t *SoftwarePickTarget) Size() (int, int) {
	b := t.ids.Bounds()
	return b.Dx(), b.Dy()
}

func (t *SoftwarePickTarget) Clear() {
	for i := range t.ids.Pix {
		t.ids.Pix[i] = 0xFF
	}
}

func (t *SoftwarePickTarget) ReadPixel(x, y int) [4]byte {
	if !(image.Point{X: x, Y: y}).In(t.ids.Bounds()) {
		return EncodeID(NoObject)
	}
	i := t.ids.PixOffset(x, y)
	return [4]byte{t.ids.Pix[i], t.ids.Pix[i+1], t.ids.Pix[i+2], t.ids.Pix[i+3]}
}

func (t *SoftwarePickTarget) SetView(v View) {
	t.view = v
}

func (t *SoftwarePickTarget) SubmitTransform(m mgl64.Mat4) {
	t.transform = m
}

func (t *SoftwarePickTarget) SubmitMaterial(m Material) {
	t.material = m
}

func (t *SoftwarePickTarget) DrawTriangles(b Buffer, vertexCount int) {
	verts := t.meshes.Vertices(b)
	if len(verts) < vertexCount*2 {
		vertexCount = len(verts) / 2
	}
	pts := transformVertices(t.transform, verts[:vertexCount*2])

	c := t.material.Color.NRGBA()
	id := [4]byte{c.R, c.G, c.B, c.A}
	for i := 0; i+2 < len(pts); i += 3 {
		t.fillTriangle(pts[i], pts[i+1], pts[i+2], id)
	}
}

// DrawOutline is a no-op: strokes never take part in picking.
func (t *SoftwarePickTarget) DrawOutline(b Buffer, vertexCount int) {}

func (t *SoftwarePickTarget) fillTriangle(a, b, c Vector2, id [4]byte) {
	var xs, ys [3]float64
	for i, p := range []Vector2{a, b, c} {
		xs[i], ys[i] = t.view.WorldToScreen(p)
	}

	minX := math.Floor(math.Min(xs[0], math.Min(xs[1], xs[2])))
	minY := math.Floor(math.Min(ys[0], math.Min(ys[1], ys[2])))
	maxX := math.Ceil(math.Max(xs[0], math.Max(xs[1], xs[2])))
	maxY := math.Ceil(math.Max(ys[0], math.Max(ys[1], ys[2])))

	box := image.Rect(int(minX), int(minY), int(maxX), int(maxY)).Intersect(t.ids.Bounds())
	if box.Empty() {
		return
	}

	w, h := box.Dx(), box.Dy()
	t.raster.Reset(w, h)
	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	t.raster.MoveTo(float32(xs[0]-ox), float32(ys[0]-oy))
	t.raster.LineTo(float32(xs[1]-ox), float32(ys[1]-oy))
	t.raster.LineTo(float32(xs[2]-ox), float32(ys[2]-oy))
	t.raster.ClosePath()

	if t.mask == nil || t.mask.Bounds().Dx() < w || t.mask.Bounds().Dy() < h {
		t.mask = image.NewAlpha(image.Rect(0, 0, w, h))
	}
	region := image.Rect(0, 0, w, h)
	draw.Draw(t.mask, region, image.Transparent, image.Point{}, draw.Src)
	t.raster.Draw(t.mask, region, image.Opaque, image.Point{})

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if t.mask.AlphaAt(x, y).A < coverageThreshold {
				continue
			}
			i := t.ids.PixOffset(box.Min.X+x, box.Min.Y+y)
			copy(t.ids.Pix[i:i+4], id[:])
		}
	}
}
