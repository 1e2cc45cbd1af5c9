package planta

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// RGBA is a colour with float channels in [0, 1], the form stored in
// project files.
type RGBA [4]float64

func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: channelByte(c[0]),
		G: channelByte(c[1]),
		B: channelByte(c[2]),
		A: channelByte(c[3]),
	}
}

func RGBAFromColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{float64(n.R) / 255, float64(n.G) / 255, float64(n.B) / 255, float64(n.A) / 255}
}

func channelByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Material is what a shape is painted with. In the pick pass Color carries
// the encoded object id instead of a visual colour.
type Material struct {
	Color  RGBA
	Dashed bool
}

// DrawMode selects between the visual pass and the id pass.
type DrawMode int

const (
	DrawVisual DrawMode = iota
	DrawPick
)

// Renderer is the narrow contract objects draw through. Implementations own
// the projection from world to pixels; transforms submitted here are
// shape-local to world.
type Renderer interface {
	SetView(v View)
	SubmitTransform(m mgl64.Mat4)
	SubmitMaterial(m Material)
	DrawTriangles(b Buffer, vertexCount int)
	DrawOutline(b Buffer, vertexCount int)
}
