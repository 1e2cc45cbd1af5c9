package planta

import (
	"golang.org/x/image/colornames"
)

// Kind is one of the registered architectural element types.
type Kind int

const (
	KindWall Kind = iota
	KindWindow
	KindOpening
	KindDoor
	KindStairA
	KindStairB
)

// stairDivs is the number of treads a full flight is split into.
const stairDivs = 8

type drawStyle int

const (
	styleFill drawStyle = iota
	styleFillDashed
	styleDoor
	styleStair
)

var (
	black     = RGBAFromColor(colornames.Black)
	white     = RGBAFromColor(colornames.White)
	halfBlack = RGBA{0, 0, 0, .5}
	doorBrown = RGBA{.5, .22, .03, 1}
	lineBlue  = RGBA{0, 0, .7, 1}
)

// kindInfo is the dispatch table entry for a kind.
type kindInfo struct {
	tag       string
	legacyTag string
	name      string
	thickness float64
	length    float64
	layer     int
	style     drawStyle
	// reverseDraw paints the last shape first, used by stairs so that the
	// frame sits under the treads.
	reverseDraw bool

	build        func(m *MeshStore, thickness, length float64) []*Shape
	getThickness func(o *Object) float64
	setThickness func(o *Object, v float64)
	getLength    func(o *Object) float64
	setLength    func(o *Object, v float64)
}

var kindTable = map[Kind]*kindInfo{
	KindWall: {
		tag: "Parede", legacyTag: "GParede", name: "Wall",
		thickness: .15, length: 1, layer: 0, style: styleFill,
		build:        singleRect(halfBlack, nil),
		getThickness: firstThickness, setThickness: firstSetThickness,
		getLength: firstLength, setLength: firstSetLength,
	},
	KindWindow: {
		tag: "Janela", legacyTag: "GJanela", name: "Window",
		thickness: .07, length: .5, layer: 1, style: styleFill,
		build:        singleRect(black, nil),
		getThickness: firstThickness, setThickness: firstSetThickness,
		getLength: firstLength, setLength: firstSetLength,
	},
	KindOpening: {
		tag: "Abertura", legacyTag: "GAbertura", name: "Opening",
		thickness: .25, length: .6, layer: 1, style: styleFillDashed,
		build:        singleRect(white, &lineBlue),
		getThickness: firstThickness, setThickness: firstSetThickness,
		getLength: firstLength, setLength: firstSetLength,
	},
	KindDoor: {
		tag: "Porta", legacyTag: "GPorta", name: "Door",
		thickness: .05, length: .75, layer: 1, style: styleDoor,
		build:        buildDoor,
		getThickness: firstThickness, setThickness: doorSetThickness,
		getLength: firstLength, setLength: doorSetLength,
	},
	KindStairA: stairKind("EscadaA", "GEscadaA", "Stair A", 0),
	KindStairB: stairKind("EscadaB", "GEscadaB", "Stair B", stairDivs/2),
}

// Kinds lists every registered kind in menu order.
func Kinds() []Kind {
	return []Kind{KindWall, KindWindow, KindOpening, KindDoor, KindStairA, KindStairB}
}

// KindFromTag resolves a persisted type tag, accepting the legacy "G"-prefixed
// tags too.
func KindFromTag(tag string) (Kind, bool) {
	for k, info := range kindTable {
		if info.tag == tag || info.legacyTag == tag {
			return k, true
		}
	}
	return 0, false
}

func (k Kind) info() *kindInfo {
	return kindTable[k]
}

func (k Kind) Valid() bool {
	_, ok := kindTable[k]
	return ok
}

// Tag is the name written to project files.
func (k Kind) Tag() string {
	if info := k.info(); info != nil {
		return info.tag
	}
	return ""
}

func (k Kind) String() string {
	if info := k.info(); info != nil {
		return info.name
	}
	return "Unknown"
}

// DefaultDimensions returns the thickness and length new objects get.
func (k Kind) DefaultDimensions() (float64, float64) {
	if info := k.info(); info != nil {
		return info.thickness, info.length
	}
	return 0, 0
}

func singleRect(fill RGBA, line *RGBA) func(*MeshStore, float64, float64) []*Shape {
	return func(m *MeshStore, thickness, length float64) []*Shape {
		s := newShape(m, GeometryRect, 0, 0, thickness, length, fill)
		if line != nil {
			s.withLineColor(*line)
		}
		return []*Shape{s}
	}
}

func firstThickness(o *Object) float64     { return o.Shapes[0].Thickness() }
func firstSetThickness(o *Object, v float64) { o.Shapes[0].SetThickness(v) }
func firstLength(o *Object) float64        { return o.Shapes[0].Length() }
func firstSetLength(o *Object, v float64)  { o.Shapes[0].SetLength(v) }

// Door: leaf 1 is the door panel, leaf 2 the swing indicator. Leaf 2 is a
// square of side length sitting beside leaf 1.
func buildDoor(m *MeshStore, thickness, length float64) []*Shape {
	leaf := newShape(m, GeometryRect, 0, 0, thickness, length, doorBrown).withLineColor(lineBlue)
	swing := newShape(m, GeometryDoorSwing, -thickness-length, 0, length, length, white).withLineColor(lineBlue)
	return []*Shape{leaf, swing}
}

// Door setters read the leaf, never the Object accessors, which go through
// kindTable.
func doorSetThickness(o *Object, v float64) {
	o.Shapes[0].SetThickness(v)
	o.Shapes[1].X = -v - o.Shapes[0].Length()
}

func doorSetLength(o *Object, v float64) {
	for _, s := range o.Shapes {
		s.SetLength(v)
	}
	o.Shapes[1].SetThickness(v)
	o.Shapes[1].X = -o.Shapes[0].Thickness() - v
}

// Stairs: treads first, the frame spanning the whole run last. skip drops
// the upper treads so that variant B only covers the lower half.
func stairKind(tag, legacy, name string, skip int) *kindInfo {
	return &kindInfo{
		tag: tag, legacyTag: legacy, name: name,
		thickness: .85, length: 1.85, layer: 0, style: styleStair,
		reverseDraw: true,
		build: func(m *MeshStore, thickness, length float64) []*Shape {
			step := length / stairDivs
			shapes := make([]*Shape, 0, stairDivs-skip+1)
			for i := skip; i < stairDivs; i++ {
				y := (length - step) - step*2*float64(i)
				shapes = append(shapes, newShape(m, GeometryRect, 0, y, thickness, step, halfBlack).withLineColor(lineBlue))
			}
			frame := newShape(m, GeometryRect, 0, 0, thickness, length, white).withLineColor(lineBlue)
			return append(shapes, frame)
		},
		getThickness: func(o *Object) float64 { return o.Shapes[len(o.Shapes)-1].Thickness() },
		setThickness: func(o *Object, v float64) {
			for _, s := range o.Shapes {
				s.SetThickness(v)
			}
		},
		getLength: func(o *Object) float64 { return o.Shapes[len(o.Shapes)-1].Length() },
		setLength: func(o *Object, v float64) {
			o.Shapes[len(o.Shapes)-1].SetLength(v)

			step := v / stairDivs
			for i := 0; i < stairDivs-skip; i++ {
				o.Shapes[i].Y = (v - step) - step*2*float64(skip+i)
				o.Shapes[i].SetLength(step)
			}
		},
	}
}
