package planta

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// debug font metrics used by ebitenutil.DebugPrintAt
const (
	glyphWidth  = 6
	lineHeight  = 16
	menuPadding = 6
)

var (
	panelColor    = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xF0}
	panelBorder   = color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xFF}
	highlightFill = color.RGBA{R: 0xC8, G: 0xDC, B: 0xF8, A: 0xFF}
	shadeColor    = color.RGBA{A: 0x60}
)

type modalKind int

const (
	modalConfirm modalKind = iota
	modalNumber
	modalAlert
	modalMenu
)

type modal struct {
	kind  modalKind
	title string
	body  string

	input  string
	errMsg string

	confirmDone func(bool)
	numberDone  func(float64, bool)

	x, y     float64
	items    []MenuItem
	selected int
}

// Overlay is the in-window Prompter. Modals queue up and are shown one at a
// time; answers are delivered from Update.
type Overlay struct {
	queue []*modal
}

func NewOverlay() *Overlay {
	return &Overlay{}
}

func (o *Overlay) Pending() bool {
	return len(o.queue) > 0
}

func (o *Overlay) push(m *modal) {
	o.queue = append(o.queue, m)
}

func (o *Overlay) Confirm(title, body string, done func(ok bool)) {
	o.push(&modal{kind: modalConfirm, title: title, body: body, confirmDone: done})
}

func (o *Overlay) PromptNumber(title string, current float64, done func(value float64, ok bool)) {
	o.push(&modal{kind: modalNumber, title: title, input: formatMeasurement(current), numberDone: done})
}

func (o *Overlay) Alert(title, body string) {
	o.push(&modal{kind: modalAlert, title: title, body: body})
}

func (o *Overlay) ContextMenu(x, y float64, title string, items []MenuItem) {
	if len(items) == 0 {
		return
	}
	o.push(&modal{kind: modalMenu, title: title, x: x, y: y, items: items})
}

// pop closes the current modal before its callback runs, so the callback
// can open another one.
func (o *Overlay) pop() *modal {
	m := o.queue[0]
	o.queue = o.queue[1:]
	return m
}

// Update handles input for the front modal.
func (o *Overlay) Update() {
	if len(o.queue) == 0 {
		return
	}
	m := o.queue[0]
	enter := inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter)
	escape := inpututil.IsKeyJustPressed(ebiten.KeyEscape)

	switch m.kind {
	case modalAlert:
		if enter || escape || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			o.pop()
		}

	case modalConfirm:
		switch {
		case enter || inpututil.IsKeyJustPressed(ebiten.KeyY):
			o.pop().confirmDone(true)
		case escape || inpututil.IsKeyJustPressed(ebiten.KeyN):
			o.pop().confirmDone(false)
		}

	case modalNumber:
		m.input += string(ebiten.AppendInputChars(nil))
		if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(m.input) > 0 {
			r := []rune(m.input)
			m.input = string(r[:len(r)-1])
		}
		switch {
		case escape:
			o.pop().numberDone(0, false)
		case enter:
			v, err := ParseMeasurement(m.input)
			if err != nil {
				m.errMsg = err.Error()
				return
			}
			o.pop().numberDone(v, true)
		}

	case modalMenu:
		o.updateMenu(m, enter, escape)
	}
}

func (o *Overlay) updateMenu(m *modal, enter, escape bool) {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		m.selected = (m.selected + 1) % len(m.items)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		m.selected = (m.selected + len(m.items) - 1) % len(m.items)
	}

	cx, cy := ebiten.CursorPosition()
	hover := m.itemAt(float64(cx), float64(cy))
	if hover >= 0 {
		m.selected = hover
	}

	switch {
	case escape:
		o.pop()
	case enter:
		o.pop().items[m.selected].Action()
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		o.pop()
		if hover >= 0 {
			m.items[hover].Action()
		}
	}
}

func (m *modal) menuWidth() float64 {
	w := len(m.title)
	for _, it := range m.items {
		if len([]rune(it.Label)) > w {
			w = len([]rune(it.Label))
		}
	}
	return float64(w*glyphWidth + 2*menuPadding)
}

// itemAt returns the index of the menu item under a point, or -1.
func (m *modal) itemAt(x, y float64) int {
	top := m.y + lineHeight + menuPadding
	if x < m.x || x > m.x+m.menuWidth() || y < top {
		return -1
	}
	i := int((y - top) / lineHeight)
	if i >= len(m.items) {
		return -1
	}
	return i
}

// Draw paints the front modal over the plan.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if len(o.queue) == 0 {
		return
	}
	m := o.queue[0]
	if m.kind == modalMenu {
		drawMenu(screen, m)
		return
	}

	b := screen.Bounds()
	vector.DrawFilledRect(screen, 0, 0, float32(b.Dx()), float32(b.Dy()), shadeColor, false)

	lines := []string{m.title, ""}
	if m.body != "" {
		lines = append(lines, strings.Split(m.body, "\n")...)
	}
	switch m.kind {
	case modalConfirm:
		lines = append(lines, "", "[Enter] yes   [Esc] no")
	case modalNumber:
		lines = append(lines, "> "+m.input+"_")
		if m.errMsg != "" {
			lines = append(lines, m.errMsg)
		}
		lines = append(lines, "", "[Enter] ok   [Esc] cancel")
	case modalAlert:
		lines = append(lines, "", "[Enter] close")
	}

	width := 0
	for _, l := range lines {
		if len([]rune(l)) > width {
			width = len([]rune(l))
		}
	}
	w := float32(width*glyphWidth + 4*menuPadding)
	h := float32(len(lines)*lineHeight + 2*menuPadding)
	x := (float32(b.Dx()) - w) / 2
	y := (float32(b.Dy()) - h) / 2
	drawPanel(screen, x, y, w, h)
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, int(x)+2*menuPadding, int(y)+menuPadding+i*lineHeight)
	}
}

func drawPanel(screen *ebiten.Image, x, y, w, h float32) {
	vector.DrawFilledRect(screen, x, y, w, h, panelColor, false)
	vector.StrokeRect(screen, x, y, w, h, 1, panelBorder, false)
}

func drawMenu(screen *ebiten.Image, m *modal) {
	x, y := float32(m.x), float32(m.y)
	w := float32(m.menuWidth())
	h := float32((len(m.items)+1)*lineHeight + 2*menuPadding)
	drawPanel(screen, x, y, w, h)

	ebitenutil.DebugPrintAt(screen, m.title, int(x)+menuPadding, int(y)+menuPadding/2)
	top := y + lineHeight + menuPadding
	for i, it := range m.items {
		iy := top + float32(i*lineHeight)
		if i == m.selected {
			vector.DrawFilledRect(screen, x+1, iy, w-2, lineHeight, highlightFill, false)
		}
		ebitenutil.DebugPrintAt(screen, it.Label, int(x)+menuPadding, int(iy))
	}
}
