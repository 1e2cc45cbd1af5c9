package planta

const (
	DefaultPixelsPerMeter = 80.0

	// cameraStep is how far the arrow keys pan the camera.
	cameraStep = 0.5
)

// Camera is the 2D view configuration persisted with a project: where the
// view is centred and how many screen pixels one meter takes.
type Camera struct {
	Position       Vector2
	PixelsPerMeter float64
}

func NewCamera(x, y, pixelsPerMeter float64) *Camera {
	return &Camera{
		Position:       NewVector2(x, y),
		PixelsPerMeter: pixelsPerMeter,
	}
}

func DefaultCamera() *Camera {
	return NewCamera(0, 0, DefaultPixelsPerMeter)
}

func (c *Camera) GetPosition() Vector2 {
	return c.Position
}

func (c *Camera) SetCameraPosition(x, y float64) {
	c.Position = NewVector2(x, y)
}

func (c *Camera) AddXPosition(x float64) {
	c.Position.X += x
}

func (c *Camera) AddYPosition(y float64) {
	c.Position.Y += y
}

// View is a camera bound to a concrete viewport size in pixels.
type View struct {
	Camera Camera
	Width  int
	Height int
}

func NewView(c *Camera, width, height int) View {
	return View{Camera: *c, Width: width, Height: height}
}

// ScreenToWorld converts a viewport pixel into world units. Screen y grows
// downwards, world y grows upwards.
func (v View) ScreenToWorld(x, y float64) Vector2 {
	w, h := float64(v.Width), float64(v.Height)
	ppm := v.Camera.PixelsPerMeter
	return Vector2{
		X: ((x/w)*2-1)*(w/ppm) + v.Camera.Position.X,
		Y: ((y/h)*-2+1)*(h/ppm) + v.Camera.Position.Y,
	}
}

// WorldToScreen is the inverse of ScreenToWorld.
func (v View) WorldToScreen(p Vector2) (float64, float64) {
	w, h := float64(v.Width), float64(v.Height)
	ppm := v.Camera.PixelsPerMeter
	x := ((p.X-v.Camera.Position.X)/(w/ppm) + 1) / 2 * w
	y := (1 - (p.Y-v.Camera.Position.Y)/(h/ppm)) / 2 * h
	return x, y
}

// Contains reports whether a pixel lies inside the viewport.
func (v View) Contains(x, y float64) bool {
	return x >= 0 && y >= 0 && x <= float64(v.Width) && y <= float64(v.Height)
}
