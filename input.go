package planta

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// PointerEvent is a pointer press, move or release in viewport pixels.
type PointerEvent struct {
	X      float64
	Y      float64
	Button Button
	Ctrl   bool
}

type Key int

const (
	KeyUnknown Key = iota
	KeyR
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyDelete
	KeyN
	KeyO
	KeyS
	KeyP
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
)

var keyMap = map[ebiten.Key]Key{
	ebiten.KeyR:          KeyR,
	ebiten.KeyArrowLeft:  KeyLeft,
	ebiten.KeyArrowRight: KeyRight,
	ebiten.KeyArrowUp:    KeyUp,
	ebiten.KeyArrowDown:  KeyDown,
	ebiten.KeyDelete:     KeyDelete,
	ebiten.KeyBackspace:  KeyDelete,
	ebiten.KeyN:          KeyN,
	ebiten.KeyO:          KeyO,
	ebiten.KeyS:          KeyS,
	ebiten.KeyP:          KeyP,
	ebiten.KeyDigit1:     Key1,
	ebiten.KeyDigit2:     Key2,
	ebiten.KeyDigit3:     Key3,
	ebiten.KeyDigit4:     Key4,
	ebiten.KeyDigit5:     Key5,
	ebiten.KeyDigit6:     Key6,
}

var buttonMap = map[ebiten.MouseButton]Button{
	ebiten.MouseButtonLeft:   ButtonLeft,
	ebiten.MouseButtonMiddle: ButtonMiddle,
	ebiten.MouseButtonRight:  ButtonRight,
}

// InputHandler receives normalized input.
type InputHandler interface {
	Press(e PointerEvent)
	Move(e PointerEvent)
	Release(e PointerEvent)
	Wheel(delta float64)
	Key(k Key, ctrl bool)
}

// inputPoller turns ebiten's polled state into events, once per tick.
type inputPoller struct {
	lastX, lastY int
	started      bool
}

func ctrlPressed() bool {
	return ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
}

func (p *inputPoller) poll(h InputHandler) {
	x, y := ebiten.CursorPosition()
	ctrl := ctrlPressed()

	if !p.started || x != p.lastX || y != p.lastY {
		p.started = true
		p.lastX, p.lastY = x, y
		h.Move(PointerEvent{X: float64(x), Y: float64(y), Ctrl: ctrl})
	}

	for eb, b := range buttonMap {
		if inpututil.IsMouseButtonJustPressed(eb) {
			h.Press(PointerEvent{X: float64(x), Y: float64(y), Button: b, Ctrl: ctrl})
		}
	}
	p.pollReleases(h)

	if _, dy := ebiten.Wheel(); dy != 0 {
		// ebiten reports scrolling up as positive
		h.Wheel(-dy)
	}

	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		if mapped, ok := keyMap[k]; ok {
			h.Key(mapped, ctrl)
		}
	}
}

// pollReleases forwards button releases only. It keeps running while a modal
// holds the rest of the input.
func (p *inputPoller) pollReleases(h InputHandler) {
	x, y := ebiten.CursorPosition()
	ctrl := ctrlPressed()
	for eb, b := range buttonMap {
		if inpututil.IsMouseButtonJustReleased(eb) {
			h.Release(PointerEvent{X: float64(x), Y: float64(y), Button: b, Ctrl: ctrl})
		}
	}
}
