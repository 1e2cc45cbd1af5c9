package planta

import (
	"bytes"
	"fmt"
	"log"
)

type ControllerState int

const (
	StateIdle ControllerState = iota
	StateDraggingObject
	StateDraggingCamera
)

func (s ControllerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDraggingObject:
		return "dragging object"
	case StateDraggingCamera:
		return "dragging camera"
	}
	return "unknown"
}

// ObjectPicker resolves a screen point to the object drawn there.
type ObjectPicker interface {
	Pick(x, y float64, view View) *Object
}

// Controller turns normalized input into scene edits. It is the only writer
// of the scene while the editor runs.
type Controller struct {
	scene   *Scene
	picker  ObjectPicker
	prompts Prompter
	files   ProjectFiles

	width  int
	height int

	state        ControllerState
	dragged      *Object
	anchorScreen Vector2
	anchorWorld  Vector2
	cursor       Vector2
}

func NewController(scene *Scene, picker ObjectPicker, prompts Prompter, files ProjectFiles) *Controller {
	return &Controller{
		scene:   scene,
		picker:  picker,
		prompts: prompts,
		files:   files,
	}
}

func (c *Controller) Scene() *Scene {
	return c.scene
}

func (c *Controller) Resize(width, height int) {
	if width == c.width && height == c.height {
		return
	}
	c.width = width
	c.height = height
	c.scene.Invalidate()
}

func (c *Controller) View() View {
	return NewView(c.scene.Camera, c.width, c.height)
}

func (c *Controller) State() ControllerState {
	return c.state
}

// Dragged is the object being dragged, or nil.
func (c *Controller) Dragged() *Object {
	return c.dragged
}

func (c *Controller) blocked() bool {
	return c.prompts != nil && c.prompts.Pending()
}

func (c *Controller) pick(x, y float64) *Object {
	if c.picker == nil {
		return nil
	}
	return c.picker.Pick(x, y, c.View())
}

func (c *Controller) endDrag() {
	c.state = StateIdle
	c.dragged = nil
}

func (c *Controller) Press(e PointerEvent) {
	if c.blocked() || c.state != StateIdle {
		return
	}
	if !c.View().Contains(e.X, e.Y) {
		return
	}

	switch e.Button {
	case ButtonLeft:
		if obj := c.pick(e.X, e.Y); obj != nil {
			c.state = StateDraggingObject
			c.dragged = obj
		} else if e.Ctrl {
			c.startCameraDrag(e)
		}
	case ButtonMiddle:
		c.startCameraDrag(e)
	default:
		return
	}
	c.Move(e)
}

func (c *Controller) startCameraDrag(e PointerEvent) {
	c.state = StateDraggingCamera
	c.anchorScreen = NewVector2(e.X, e.Y)
	c.anchorWorld = c.scene.Camera.GetPosition()
}

func (c *Controller) Move(e PointerEvent) {
	c.cursor = NewVector2(e.X, e.Y)
	if c.blocked() {
		return
	}

	switch c.state {
	case StateDraggingObject:
		p := c.View().ScreenToWorld(e.X, e.Y)
		if p != c.dragged.Position() {
			c.dragged.SetPosition(p.X, p.Y)
			c.scene.Touch()
		}
	case StateDraggingCamera:
		ppm := c.scene.Camera.PixelsPerMeter
		dx := e.X - c.anchorScreen.X
		dy := e.Y - c.anchorScreen.Y
		next := c.anchorWorld.Add(NewVector2(-dx/ppm, dy/ppm))
		if next != c.scene.Camera.GetPosition() {
			c.scene.Camera.SetCameraPosition(next.X, next.Y)
			c.scene.Touch()
		}
	}
}

// Release ends drags even while a modal is open, so a drag never outlives
// its button.
func (c *Controller) Release(e PointerEvent) {
	switch e.Button {
	case ButtonLeft:
		if c.state != StateIdle {
			c.endDrag()
		}
	case ButtonMiddle:
		if c.state == StateDraggingCamera {
			c.endDrag()
		}
	case ButtonRight:
		if c.blocked() || c.state != StateIdle || !c.View().Contains(e.X, e.Y) {
			return
		}
		if obj := c.pick(e.X, e.Y); obj != nil {
			c.openContextMenu(obj, e.X, e.Y)
		}
	}
}

// Wheel rotates the dragged object a quarter turn in the direction of delta.
func (c *Controller) Wheel(delta float64) {
	if c.blocked() || c.state != StateDraggingObject || delta == 0 {
		return
	}
	c.dragged.Rotate(delta)
	c.scene.Touch()
}

func (c *Controller) Key(k Key, ctrl bool) {
	if c.blocked() {
		return
	}

	if ctrl {
		switch k {
		case KeyN:
			c.NewFile()
		case KeyO:
			c.OpenFile()
		case KeyS:
			c.SaveFile()
		case KeyP:
			c.EditScale()
		}
		return
	}

	switch k {
	case KeyR:
		if c.state == StateDraggingObject {
			c.dragged.Rotate(1)
			c.scene.Touch()
		}
	case KeyDelete:
		if c.state == StateDraggingObject {
			obj := c.dragged
			c.endDrag()
			c.scene.Remove(obj)
		}
	case KeyLeft, KeyRight, KeyUp, KeyDown:
		if c.state == StateIdle {
			c.pan(k)
		}
	case Key1, Key2, Key3, Key4, Key5, Key6:
		kinds := Kinds()
		c.AddObject(kinds[int(k-Key1)])
	}
}

func (c *Controller) pan(k Key) {
	cam := c.scene.Camera
	switch k {
	case KeyLeft:
		cam.AddXPosition(-cameraStep)
	case KeyRight:
		cam.AddXPosition(cameraStep)
	case KeyUp:
		cam.AddYPosition(cameraStep)
	case KeyDown:
		cam.AddYPosition(-cameraStep)
	}
	c.scene.Touch()
}

// AddObject places a new object of kind at the camera focus.
func (c *Controller) AddObject(kind Kind) *Object {
	if c.blocked() {
		return nil
	}
	return c.scene.Add(kind)
}

// live reports whether obj is still part of the scene; prompts answer
// asynchronously and the object may have gone in between.
func (c *Controller) live(obj *Object) bool {
	return c.scene.Find(obj.ID) == obj
}

func (c *Controller) openContextMenu(obj *Object, x, y float64) {
	if c.prompts == nil {
		return
	}
	items := []MenuItem{
		{Label: "Change thickness", Action: func() { c.promptDimension(obj, "Thickness (m)", obj.Thickness, obj.SetThickness) }},
		{Label: "Change length", Action: func() { c.promptDimension(obj, "Length (m)", obj.Length, obj.SetLength) }},
		{Label: "Rotate +90", Action: func() { c.edit(obj, func() { obj.Rotate(1) }) }},
		{Label: "Rotate -90", Action: func() { c.edit(obj, func() { obj.Rotate(-1) }) }},
		{Label: "Mirror horizontally", Action: func() { c.edit(obj, func() { obj.Flip(AxisX) }) }},
		{Label: "Mirror vertically", Action: func() { c.edit(obj, func() { obj.Flip(AxisY) }) }},
		{Label: "Clone", Action: func() { c.CloneObject(obj) }},
		{Label: "Delete", Action: func() { c.DeleteObject(obj) }},
	}
	c.prompts.ContextMenu(x, y, obj.Name(), items)
}

func (c *Controller) edit(obj *Object, f func()) {
	if !c.live(obj) {
		return
	}
	f()
	c.scene.Touch()
}

func (c *Controller) promptDimension(obj *Object, title string, get func() float64, set func(float64)) {
	c.prompts.PromptNumber(title, get(), func(v float64, ok bool) {
		if !ok || !c.live(obj) {
			return
		}
		if !(v > 0) {
			c.prompts.Alert("Invalid value", fmt.Sprintf("%s: %v", title, ErrNotPositive))
			return
		}
		set(v)
		c.scene.Touch()
	})
}

func (c *Controller) CloneObject(obj *Object) *Object {
	if !c.live(obj) {
		return nil
	}
	clone, err := c.scene.Clone(obj)
	if err != nil {
		log.Printf("clone %s: %v", obj.Name(), err)
		return nil
	}
	return clone
}

func (c *Controller) DeleteObject(obj *Object) {
	if c.dragged == obj {
		c.endDrag()
	}
	c.scene.Remove(obj)
}

// EditScale prompts for the pixels-per-meter setting.
func (c *Controller) EditScale() {
	if c.prompts == nil {
		return
	}
	c.prompts.PromptNumber("Pixels per meter", c.scene.Camera.PixelsPerMeter, func(v float64, ok bool) {
		if !ok {
			return
		}
		if err := c.SetPixelsPerMeter(v); err != nil {
			c.prompts.Alert("Invalid value", err.Error())
		}
	})
}

func (c *Controller) SetPixelsPerMeter(v float64) error {
	if !(v > 0) {
		return fmt.Errorf("pixels per meter %v: %w", v, ErrNotPositive)
	}
	c.scene.Camera.PixelsPerMeter = v
	c.scene.Touch()
	return nil
}

func (c *Controller) SetCameraPosition(x, y float64) {
	c.scene.Camera.SetCameraPosition(x, y)
	c.scene.Touch()
}

// confirmDiscard runs next straight away when nothing would be lost,
// otherwise after the user agrees.
func (c *Controller) confirmDiscard(title string, next func()) {
	if !c.scene.HasUnsavedChanges() || c.prompts == nil {
		next()
		return
	}
	c.prompts.Confirm(title, "Unsaved changes will be lost. Continue?", func(ok bool) {
		if ok {
			next()
		}
	})
}

func (c *Controller) NewFile() {
	c.confirmDiscard("New project", func() {
		c.endDrag()
		c.scene.Reset()
		log.Printf("new project")
	})
}

// OpenFile reads the project file and then, if the scene has unsaved
// changes, asks before replacing it.
func (c *Controller) OpenFile() {
	if c.files == nil {
		return
	}
	c.files.Read(func(data []byte, err error) {
		if err != nil {
			log.Printf("[LOAD] read failed: %v", err)
			c.alert("Could not open project", err.Error())
			return
		}
		if data == nil {
			return
		}
		c.OpenData(data)
	})
}

// OpenData loads project file contents, e.g. a dropped file.
func (c *Controller) OpenData(data []byte) {
	c.confirmDiscard("Open project", func() {
		if err := c.scene.LoadJSON(bytes.NewReader(data)); err != nil {
			log.Printf("[LOAD] %v", err)
			c.alert("Could not open project", err.Error())
			return
		}
		c.endDrag()
	})
}

func (c *Controller) SaveFile() {
	if c.files == nil {
		return
	}
	data, err := c.scene.MarshalProject()
	if err != nil {
		log.Printf("[SAVE] %v", err)
		c.alert("Could not save project", err.Error())
		return
	}
	edits := c.scene.Edits()
	c.files.Write(data, func(err error) {
		if err != nil {
			log.Printf("[SAVE] %v", err)
			c.alert("Could not save project", err.Error())
			return
		}
		// edits made while the write was in flight stay unsaved
		if c.scene.Edits() == edits {
			c.scene.MarkSaved()
		}
	})
}

func (c *Controller) alert(title, body string) {
	if c.prompts != nil {
		c.prompts.Alert(title, body)
	}
}

// StatusLine shows the cursor's world position and the dragged object.
func (c *Controller) StatusLine() string {
	p := c.View().ScreenToWorld(c.cursor.X, c.cursor.Y)
	line := fmt.Sprintf("%.3g, %.3g", p.X, p.Y)
	if c.dragged != nil {
		line += fmt.Sprintf(" (%s)", c.dragged.Name())
	}
	return line
}
