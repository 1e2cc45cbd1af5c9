package planta

import (
	"encoding/binary"
)

// NoObject is the id decoded from the pick target's clear colour.
const NoObject uint32 = 0xFFFFFFFF

// EncodeID packs an id big-endian into R, G, B, A bytes.
func EncodeID(id uint32) [4]byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], id)
	return b
}

func DecodeID(b [4]byte) uint32 {
	return binary.BigEndian.Uint32(b[:])
}

// IDColor is the flat material an object is filled with in the pick pass.
func IDColor(id uint32) RGBA {
	b := EncodeID(id)
	return RGBA{
		float64(b[0]) / 255,
		float64(b[1]) / 255,
		float64(b[2]) / 255,
		float64(b[3]) / 255,
	}
}

// PickTarget is an offscreen surface the scene can be drawn into in pick
// mode and read back one pixel at a time.
type PickTarget interface {
	Renderer
	Resize(width, height int)
	Size() (int, int)
	// Clear fills the target with the NoObject colour.
	Clear()
	ReadPixel(x, y int) [4]byte
}

// Picker resolves screen points to objects through a PickTarget. The target
// is only redrawn when the scene or the view changed since the last pass.
type Picker struct {
	scene  *Scene
	target PickTarget

	rendered        bool
	renderedVersion uint64
	renderedView    View
}

func NewPicker(scene *Scene, target PickTarget) *Picker {
	return &Picker{
		scene:  scene,
		target: target,
	}
}

// SetScene points the picker at another scene and forces a redraw.
func (p *Picker) SetScene(scene *Scene) {
	p.scene = scene
	p.rendered = false
}

func (p *Picker) sync(view View) {
	w, h := p.target.Size()
	if w != view.Width || h != view.Height {
		p.target.Resize(view.Width, view.Height)
		p.rendered = false
	}
	if p.rendered && p.renderedVersion == p.scene.Version() && p.renderedView == view {
		return
	}
	p.target.Clear()
	p.scene.Draw(p.target, view, DrawPick)
	p.rendered = true
	p.renderedVersion = p.scene.Version()
	p.renderedView = view
}

// PickID returns the id under the screen point, or NoObject.
func (p *Picker) PickID(x, y float64, view View) uint32 {
	if p == nil || p.target == nil || p.scene == nil {
		return NoObject
	}
	if !view.Contains(x, y) || view.Width <= 0 || view.Height <= 0 {
		return NoObject
	}
	p.sync(view)

	px, py := int(x), int(y)
	if px >= view.Width {
		px = view.Width - 1
	}
	if py >= view.Height {
		py = view.Height - 1
	}
	return DecodeID(p.target.ReadPixel(px, py))
}

// Pick returns the live object under the screen point, or nil.
func (p *Picker) Pick(x, y float64, view View) *Object {
	id := p.PickID(x, y, view)
	if id == NoObject {
		return nil
	}
	return p.scene.Find(id)
}
