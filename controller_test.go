package planta

import (
	"errors"
	"math"
	"strings"
	"testing"
)

// fakePrompter records prompts and lets tests answer them.
type fakePrompter struct {
	confirmTitle  string
	confirm       func(bool)
	numberTitle   string
	numberCurrent float64
	number        func(float64, bool)
	alerts        []string
	menuTitle     string
	menu          []MenuItem
}

func (p *fakePrompter) Confirm(title, body string, done func(bool)) {
	p.confirmTitle = title
	p.confirm = done
}

func (p *fakePrompter) PromptNumber(title string, current float64, done func(float64, bool)) {
	p.numberTitle = title
	p.numberCurrent = current
	p.number = done
}

func (p *fakePrompter) Alert(title, body string) {
	p.alerts = append(p.alerts, title)
}

func (p *fakePrompter) ContextMenu(x, y float64, title string, items []MenuItem) {
	p.menuTitle = title
	p.menu = items
}

func (p *fakePrompter) Pending() bool {
	return p.confirm != nil || p.number != nil || p.menu != nil
}

func (p *fakePrompter) answerConfirm(t *testing.T, ok bool) {
	t.Helper()
	if p.confirm == nil {
		t.Fatal("no confirmation pending")
	}
	done := p.confirm
	p.confirm = nil
	done(ok)
}

func (p *fakePrompter) answerNumber(t *testing.T, v float64, ok bool) {
	t.Helper()
	if p.number == nil {
		t.Fatal("no number prompt pending")
	}
	done := p.number
	p.number = nil
	done(v, ok)
}

func (p *fakePrompter) choose(t *testing.T, label string) {
	t.Helper()
	items := p.menu
	p.menu = nil
	for _, it := range items {
		if it.Label == label {
			it.Action()
			return
		}
	}
	t.Fatalf("menu has no %q item", label)
}

// fakeFiles answers synchronously unless hold is set.
type fakeFiles struct {
	data    []byte
	readErr error

	written  [][]byte
	writeErr error
	hold     bool
	pending  func(error)
}

func (f *fakeFiles) Read(done func([]byte, error)) {
	done(f.data, f.readErr)
}

func (f *fakeFiles) Write(data []byte, done func(error)) {
	f.written = append(f.written, data)
	if f.hold {
		f.pending = done
		return
	}
	done(f.writeErr)
}

func newTestController() (*Controller, *fakePrompter, *fakeFiles) {
	s := NewScene(NewMeshStore())
	p := &fakePrompter{}
	f := &fakeFiles{}
	c := NewController(s, NewPicker(s, NewSoftwarePickTarget(s.Meshes())), p, f)
	c.Resize(200, 200)
	return c, p, f
}

func TestControllerDragObject(t *testing.T) {
	c, _, _ := newTestController()
	wall := c.Scene().Add(KindWall)
	c.Scene().MarkSaved()

	c.Press(PointerEvent{X: 100, Y: 100, Button: ButtonLeft})
	if c.State() != StateDraggingObject || c.Dragged() != wall {
		t.Fatalf("state %v, dragged %v", c.State(), c.Dragged())
	}
	if c.Scene().Modified() {
		t.Error("press without movement modified the scene")
	}

	c.Move(PointerEvent{X: 140, Y: 60})
	if !vecAlmostEqual(wall.Position(), Vector2{X: 1, Y: 1}) {
		t.Errorf("wall at %v, want (1, 1)", wall.Position())
	}
	if !c.Scene().Modified() {
		t.Error("drag did not mark the scene modified")
	}
	if !strings.Contains(c.StatusLine(), "(Wall)") {
		t.Errorf("status line %q", c.StatusLine())
	}

	c.Release(PointerEvent{X: 140, Y: 60, Button: ButtonLeft})
	if c.State() != StateIdle || c.Dragged() != nil {
		t.Fatalf("after release: state %v, dragged %v", c.State(), c.Dragged())
	}

	c.Move(PointerEvent{X: 20, Y: 20})
	if !vecAlmostEqual(wall.Position(), Vector2{X: 1, Y: 1}) {
		t.Error("wall moved after release")
	}
}

func TestControllerDragCamera(t *testing.T) {
	testCases := []struct {
		name    string
		press   PointerEvent
		release Button
		drags   bool
	}{
		{name: "ctrl left", press: PointerEvent{X: 20, Y: 20, Button: ButtonLeft, Ctrl: true}, release: ButtonLeft, drags: true},
		{name: "middle", press: PointerEvent{X: 20, Y: 20, Button: ButtonMiddle}, release: ButtonMiddle, drags: true},
		{name: "plain left on the floor", press: PointerEvent{X: 20, Y: 20, Button: ButtonLeft}, release: ButtonLeft, drags: false},
		{name: "right", press: PointerEvent{X: 20, Y: 20, Button: ButtonRight}, release: ButtonRight, drags: false},
		{name: "outside viewport", press: PointerEvent{X: 250, Y: 20, Button: ButtonMiddle}, release: ButtonMiddle, drags: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, _, _ := newTestController()
			c.Scene().Camera.SetCameraPosition(1, 1)

			c.Press(tc.press)
			c.Move(PointerEvent{X: tc.press.X + 40, Y: tc.press.Y + 20})

			want := Vector2{X: 1, Y: 1}
			if tc.drags {
				if c.State() != StateDraggingCamera {
					t.Fatalf("state %v", c.State())
				}
				want = Vector2{X: .5, Y: 1.25}
			}
			if got := c.Scene().Camera.GetPosition(); !vecAlmostEqual(got, want) {
				t.Errorf("camera at %v, want %v", got, want)
			}

			c.Release(PointerEvent{X: tc.press.X + 40, Y: tc.press.Y + 20, Button: tc.release})
			if c.State() != StateIdle {
				t.Errorf("state %v after release", c.State())
			}
		})
	}
}

func TestControllerCameraDragIsAnchored(t *testing.T) {
	c, _, _ := newTestController()
	c.Press(PointerEvent{X: 50, Y: 50, Button: ButtonMiddle})
	for _, x := range []float64{60, 90, 130} {
		c.Move(PointerEvent{X: x, Y: 50})
	}
	c.Move(PointerEvent{X: 50, Y: 50})
	if got := c.Scene().Camera.GetPosition(); !vecAlmostEqual(got, Vector2{}) {
		t.Fatalf("camera drifted to %v", got)
	}
}

func TestControllerRotateWhileDragging(t *testing.T) {
	c, _, _ := newTestController()
	wall := c.Scene().Add(KindWall)

	c.Wheel(1)
	c.Key(KeyR, false)
	if wall.Rotation != 0 {
		t.Fatal("idle wheel or R rotated an object")
	}

	c.Press(PointerEvent{X: 100, Y: 100, Button: ButtonLeft})
	c.Wheel(-3)
	if !angleAlmostEqual(wall.Rotation, 3*math.Pi/2) {
		t.Errorf("after wheel rotation = %v", wall.Rotation)
	}
	c.Key(KeyR, false)
	c.Key(KeyR, false)
	if !angleAlmostEqual(wall.Rotation, math.Pi/2) {
		t.Errorf("after R rotation = %v", wall.Rotation)
	}
}

func TestControllerDeleteWhileDragging(t *testing.T) {
	c, _, _ := newTestController()
	wall := c.Scene().Add(KindWall)

	c.Press(PointerEvent{X: 100, Y: 100, Button: ButtonLeft})
	c.Key(KeyDelete, false)
	if c.Scene().Len() != 0 || !wall.Released() {
		t.Fatal("wall not deleted")
	}
	if c.State() != StateIdle {
		t.Fatalf("state %v after delete", c.State())
	}
	c.Move(PointerEvent{X: 150, Y: 150})
}

func TestControllerKeys(t *testing.T) {
	c, _, _ := newTestController()

	for k := Key1; k <= Key6; k++ {
		c.Key(k, false)
	}
	objs := c.Scene().Objects()
	if len(objs) != len(Kinds()) {
		t.Fatalf("%d objects added", len(objs))
	}
	for i, kind := range Kinds() {
		if objs[i].Kind != kind {
			t.Errorf("key %d added %s, want %s", i+1, objs[i].Name(), kind)
		}
	}

	c.Key(KeyLeft, false)
	c.Key(KeyUp, false)
	c.Key(KeyUp, false)
	if got := c.Scene().Camera.GetPosition(); !vecAlmostEqual(got, Vector2{X: -cameraStep, Y: 2 * cameraStep}) {
		t.Errorf("camera at %v after panning", got)
	}

	c.Key(KeyUnknown, false)
}

func TestControllerContextMenu(t *testing.T) {
	testCases := []struct {
		name  string
		label string
		check func(t *testing.T, c *Controller, door *Object)
	}{
		{name: "rotate", label: "Rotate +90", check: func(t *testing.T, c *Controller, door *Object) {
			if !angleAlmostEqual(door.Rotation, math.Pi/2) {
				t.Errorf("rotation %v", door.Rotation)
			}
		}},
		{name: "rotate back", label: "Rotate -90", check: func(t *testing.T, c *Controller, door *Object) {
			if !angleAlmostEqual(door.Rotation, 3*math.Pi/2) {
				t.Errorf("rotation %v", door.Rotation)
			}
		}},
		{name: "mirror", label: "Mirror horizontally", check: func(t *testing.T, c *Controller, door *Object) {
			if door.Scale != (Vector2{X: -1, Y: 1}) {
				t.Errorf("scale %v", door.Scale)
			}
		}},
		{name: "mirror vertically", label: "Mirror vertically", check: func(t *testing.T, c *Controller, door *Object) {
			if door.Scale != (Vector2{X: 1, Y: -1}) {
				t.Errorf("scale %v", door.Scale)
			}
		}},
		{name: "clone", label: "Clone", check: func(t *testing.T, c *Controller, door *Object) {
			objs := c.Scene().Objects()
			if len(objs) != 2 || objs[1].Kind != KindDoor || objs[1].ID == door.ID {
				t.Errorf("objects after clone: %v", objs)
			}
		}},
		{name: "delete", label: "Delete", check: func(t *testing.T, c *Controller, door *Object) {
			if c.Scene().Len() != 0 || !door.Released() {
				t.Error("door not deleted")
			}
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, p, _ := newTestController()
			door := c.Scene().Add(KindDoor)
			c.Scene().MarkSaved()

			c.Release(PointerEvent{X: 100, Y: 100, Button: ButtonRight})
			if p.menuTitle != "Door" || len(p.menu) != 8 {
				t.Fatalf("menu %q with %d items", p.menuTitle, len(p.menu))
			}
			p.choose(t, tc.label)
			tc.check(t, c, door)
			if !c.Scene().Modified() {
				t.Error("menu action did not mark the scene modified")
			}
		})
	}
}

func TestControllerContextMenuMiss(t *testing.T) {
	c, p, _ := newTestController()
	c.Scene().Add(KindDoor)

	c.Release(PointerEvent{X: 10, Y: 10, Button: ButtonRight})
	if p.menu != nil {
		t.Fatal("menu opened over the empty floor")
	}

	c.Press(PointerEvent{X: 100, Y: 100, Button: ButtonLeft})
	c.Release(PointerEvent{X: 100, Y: 100, Button: ButtonRight})
	if p.menu != nil {
		t.Fatal("menu opened while dragging")
	}
}

func TestControllerDimensionPrompt(t *testing.T) {
	testCases := []struct {
		name     string
		label    string
		value    float64
		ok       bool
		expected float64
		alerts   int
	}{
		{name: "length", label: "Change length", value: 2.5, ok: true, expected: 2.5},
		{name: "thickness", label: "Change thickness", value: .3, ok: true, expected: .3},
		{name: "cancelled", label: "Change length", value: 9, ok: false, expected: 1},
		{name: "zero", label: "Change length", value: 0, ok: true, expected: 1, alerts: 1},
		{name: "negative", label: "Change thickness", value: -1, ok: true, expected: .15, alerts: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, p, _ := newTestController()
			wall := c.Scene().Add(KindWall)

			c.Release(PointerEvent{X: 100, Y: 100, Button: ButtonRight})
			p.choose(t, tc.label)
			current := wall.Length()
			get := wall.Length
			if tc.label == "Change thickness" {
				current = wall.Thickness()
				get = wall.Thickness
			}
			if p.numberCurrent != current {
				t.Errorf("prompt shows %v, want %v", p.numberCurrent, current)
			}

			p.answerNumber(t, tc.value, tc.ok)
			if got := get(); got != tc.expected {
				t.Errorf("dimension = %v, want %v", got, tc.expected)
			}
			if len(p.alerts) != tc.alerts {
				t.Errorf("%d alerts, want %d", len(p.alerts), tc.alerts)
			}
		})
	}
}

func TestControllerPromptAfterDelete(t *testing.T) {
	c, p, _ := newTestController()
	wall := c.Scene().Add(KindWall)

	c.Release(PointerEvent{X: 100, Y: 100, Button: ButtonRight})
	p.choose(t, "Change length")
	c.Scene().Remove(wall)
	p.answerNumber(t, 3, true)
	if wall.Length() != 1 {
		t.Fatalf("deleted object was edited: length %v", wall.Length())
	}
}

func TestControllerBlockedByPrompt(t *testing.T) {
	c, p, _ := newTestController()
	wall := c.Scene().Add(KindWall)

	c.EditScale()
	if p.numberTitle != "Pixels per meter" {
		t.Fatalf("prompt %q", p.numberTitle)
	}

	c.Press(PointerEvent{X: 100, Y: 100, Button: ButtonLeft})
	c.Key(Key1, false)
	c.Key(KeyLeft, false)
	if c.State() != StateIdle || c.Scene().Len() != 1 {
		t.Fatal("input reached the scene while a prompt was open")
	}
	if c.Scene().Camera.GetPosition() != (Vector2{}) {
		t.Fatal("camera panned while a prompt was open")
	}

	p.answerNumber(t, 160, true)
	if c.Scene().Camera.PixelsPerMeter != 160 {
		t.Errorf("pixels per meter %v", c.Scene().Camera.PixelsPerMeter)
	}
	c.Press(PointerEvent{X: 100, Y: 100, Button: ButtonLeft})
	if c.Dragged() != wall {
		t.Fatal("input still blocked after the prompt closed")
	}
}

func TestControllerReleaseEndsDragDuringPrompt(t *testing.T) {
	c, p, _ := newTestController()
	wall := c.Scene().Add(KindWall)

	c.Press(PointerEvent{X: 100, Y: 100, Button: ButtonLeft})
	if c.Dragged() != wall {
		t.Fatal("wall not picked")
	}
	c.Key(KeyN, true)
	if !p.Pending() {
		t.Fatal("new file did not ask for confirmation")
	}

	c.Release(PointerEvent{X: 100, Y: 100, Button: ButtonLeft})
	if c.State() != StateIdle || c.Dragged() != nil {
		t.Fatalf("after release: state %v, dragged %v", c.State(), c.Dragged())
	}

	p.answerConfirm(t, false)
	c.Move(PointerEvent{X: 140, Y: 60})
	if !vecAlmostEqual(wall.Position(), Vector2{}) {
		t.Errorf("wall followed the cursor to %v with the button up", wall.Position())
	}
}

func TestControllerRightReleaseBlockedByPrompt(t *testing.T) {
	c, p, _ := newTestController()
	c.Scene().Add(KindWall)

	c.EditScale()
	c.Release(PointerEvent{X: 100, Y: 100, Button: ButtonRight})
	if p.menu != nil {
		t.Fatal("context menu opened over a prompt")
	}
}

func TestControllerSetPixelsPerMeter(t *testing.T) {
	c, p, _ := newTestController()
	if err := c.SetPixelsPerMeter(0); !errors.Is(err, ErrNotPositive) {
		t.Fatalf("SetPixelsPerMeter(0) = %v", err)
	}
	if c.Scene().Camera.PixelsPerMeter != DefaultPixelsPerMeter {
		t.Fatal("invalid scale applied")
	}

	c.Key(KeyP, true)
	p.answerNumber(t, -2, true)
	if len(p.alerts) != 1 {
		t.Fatalf("%d alerts", len(p.alerts))
	}
}

func TestControllerNewFile(t *testing.T) {
	t.Run("clean scene", func(t *testing.T) {
		c, p, _ := newTestController()
		c.Key(KeyN, true)
		if p.confirm != nil {
			t.Fatal("asked to confirm with nothing to lose")
		}
	})

	t.Run("declined", func(t *testing.T) {
		c, p, _ := newTestController()
		c.Scene().Add(KindWall)
		c.Key(KeyN, true)
		p.answerConfirm(t, false)
		if c.Scene().Len() != 1 {
			t.Fatal("declined new file cleared the scene")
		}
	})

	t.Run("accepted", func(t *testing.T) {
		c, p, _ := newTestController()
		c.Scene().Add(KindWall)
		c.Scene().Camera.PixelsPerMeter = 30
		c.Key(KeyN, true)
		p.answerConfirm(t, true)
		if c.Scene().Len() != 0 || c.Scene().Camera.PixelsPerMeter != DefaultPixelsPerMeter {
			t.Fatal("new file kept the old scene")
		}
		if c.Scene().Meshes().Live() != 0 {
			t.Fatalf("%d buffers leaked", c.Scene().Meshes().Live())
		}
	})
}

func TestControllerOpenFile(t *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		readErr  error
		existing bool
		answer   bool
		loaded   bool
		alerts   int
	}{
		{name: "clean scene", data: []byte(wallProject), loaded: true},
		{name: "unsaved accepted", data: []byte(wallProject), existing: true, answer: true, loaded: true},
		{name: "unsaved declined", data: []byte(wallProject), existing: true, answer: false},
		{name: "cancelled", data: nil},
		{name: "read error", readErr: errors.New("disk on fire"), alerts: 1},
		{name: "broken file", data: []byte(`{"config": 1}`), alerts: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, p, f := newTestController()
			f.data = tc.data
			f.readErr = tc.readErr
			var door *Object
			if tc.existing {
				door = c.Scene().Add(KindDoor)
			}

			c.Key(KeyO, true)
			if tc.existing {
				p.answerConfirm(t, tc.answer)
			}
			if p.confirm != nil {
				t.Fatal("unexpected confirmation")
			}

			objs := c.Scene().Objects()
			if tc.loaded {
				if len(objs) != 1 || objs[0].Kind != KindWall {
					t.Fatalf("objects after open: %v", objs)
				}
				if c.Scene().Modified() {
					t.Error("opened scene is modified")
				}
			} else if tc.existing {
				if len(objs) != 1 || objs[0] != door {
					t.Fatal("scene replaced")
				}
			} else if len(objs) != 0 {
				t.Fatalf("objects after open: %v", objs)
			}
			if len(p.alerts) != tc.alerts {
				t.Errorf("%d alerts, want %d", len(p.alerts), tc.alerts)
			}
		})
	}
}

func TestControllerSaveFile(t *testing.T) {
	c, _, f := newTestController()
	c.Scene().Add(KindWall)

	c.Key(KeyS, true)
	if len(f.written) != 1 {
		t.Fatalf("%d writes", len(f.written))
	}
	if c.Scene().Modified() {
		t.Error("scene still modified after a save")
	}

	check := NewScene(NewMeshStore())
	if err := check.LoadJSON(strings.NewReader(string(f.written[0]))); err != nil {
		t.Fatalf("saved file does not load: %v", err)
	}
	if check.Len() != 1 {
		t.Errorf("saved file has %d objects", check.Len())
	}
}

func TestControllerSaveFailure(t *testing.T) {
	c, p, f := newTestController()
	c.Scene().Add(KindWall)
	f.writeErr = errors.New("read-only")

	c.SaveFile()
	if !c.Scene().Modified() {
		t.Error("failed save cleared the modified flag")
	}
	if len(p.alerts) != 1 {
		t.Errorf("%d alerts", len(p.alerts))
	}
}

func TestControllerEditDuringSave(t *testing.T) {
	c, _, f := newTestController()
	c.Scene().Add(KindWall)
	f.hold = true

	c.SaveFile()
	c.Key(Key2, false)
	f.pending(nil)
	if !c.Scene().Modified() {
		t.Fatal("edit made during the save was marked saved")
	}
}

func TestControllerResizeDuringSave(t *testing.T) {
	c, _, f := newTestController()
	c.Scene().Add(KindWall)
	f.hold = true

	c.SaveFile()
	c.Resize(400, 300)
	f.pending(nil)
	if c.Scene().Modified() {
		t.Fatal("resizing the window kept the saved scene modified")
	}
}
