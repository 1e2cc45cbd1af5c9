package planta

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
)

var (
	ErrUnknownKind   = errors.New("unknown object kind")
	ErrShapeCount    = errors.New("shape count mismatch")
	ErrInvalidRecord = errors.New("invalid record")
)

// ProjectRecord is the project file layout.
type ProjectRecord struct {
	Config  ConfigRecord   `json:"config"`
	Objects []ObjectRecord `json:"objects"`
}

type ConfigRecord struct {
	PixelsPerMeter float64   `json:"escala_pixels_por_metro"`
	CameraPosition []float64 `json:"camera_position"`
}

type ObjectRecord struct {
	Type      string        `json:"_type"`
	Layer     int           `json:"layer"`
	X         float64       `json:"x"`
	Y         float64       `json:"y"`
	Scale     []float64     `json:"scale"`
	Rotation  float64       `json:"rotation"`
	Thickness float64       `json:"espessura"`
	Length    float64       `json:"comprimento"`
	Shapes    []ShapeRecord `json:"shapes"`
}

type ShapeRecord struct {
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Size      []float64 `json:"size"`
	Color     []float64 `json:"color"`
	Rotation  float64   `json:"rotation"`
	LineColor []float64 `json:"line_color,omitempty"`
}

// Record snapshots the object's persisted fields. Ids and geometry are left
// out.
func (o *Object) Record() ObjectRecord {
	rec := ObjectRecord{
		Type:      o.Kind.Tag(),
		Layer:     o.Layer,
		X:         o.X,
		Y:         o.Y,
		Scale:     o.Scale.array(),
		Rotation:  o.Rotation,
		Thickness: o.Thickness(),
		Length:    o.Length(),
		Shapes:    make([]ShapeRecord, len(o.Shapes)),
	}
	for i, s := range o.Shapes {
		rec.Shapes[i] = ShapeRecord{
			X:        s.X,
			Y:        s.Y,
			Size:     []float64{s.Size[0], s.Size[1]},
			Color:    append([]float64(nil), s.Color[:]...),
			Rotation: s.Rotation,
		}
		if s.LineColor != nil {
			lc := *s.LineColor
			rec.Shapes[i].LineColor = lc[:]
		}
	}
	return rec
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func toRGBA(v []float64) (RGBA, error) {
	if len(v) != 4 {
		return RGBA{}, fmt.Errorf("%w: colour has %d components", ErrInvalidRecord, len(v))
	}
	var c RGBA
	for i, ch := range v {
		if !finite(ch) || ch < 0 || ch > 1 {
			return RGBA{}, fmt.Errorf("%w: colour component %v out of range", ErrInvalidRecord, ch)
		}
		c[i] = ch
	}
	return c, nil
}

// applyRecord overwrites obj with rec. The record is fully validated before
// anything is written, so a failed apply leaves obj unchanged.
func applyRecord(obj *Object, rec ObjectRecord) error {
	kind, ok := KindFromTag(rec.Type)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, rec.Type)
	}
	if kind != obj.Kind {
		return fmt.Errorf("%w: record %q applied to %s", ErrInvalidRecord, rec.Type, obj.Kind)
	}
	if len(rec.Scale) != 2 {
		return fmt.Errorf("%w: scale has %d components", ErrInvalidRecord, len(rec.Scale))
	}
	if rec.Scale[0] == 0 || rec.Scale[1] == 0 || !finite(rec.Scale...) {
		return fmt.Errorf("%w: scale %v", ErrInvalidRecord, rec.Scale)
	}
	if !finite(rec.X, rec.Y, rec.Rotation, rec.Thickness, rec.Length) {
		return fmt.Errorf("%w: non-finite field", ErrInvalidRecord)
	}
	// zero means the field was absent; dimensions then come from the shapes
	if rec.Thickness < 0 || rec.Length < 0 {
		return fmt.Errorf("%w: dimensions %v x %v", ErrInvalidRecord, rec.Thickness, rec.Length)
	}
	if len(rec.Shapes) != len(obj.Shapes) {
		return fmt.Errorf("%w: %s has %d shapes, record has %d", ErrShapeCount, kind, len(obj.Shapes), len(rec.Shapes))
	}

	type shapeState struct {
		color RGBA
		line  *RGBA
	}
	states := make([]shapeState, len(rec.Shapes))
	for i, sr := range rec.Shapes {
		if len(sr.Size) != 2 {
			return fmt.Errorf("%w: shape %d size has %d components", ErrInvalidRecord, i, len(sr.Size))
		}
		if !(sr.Size[0] > 0 && sr.Size[1] > 0) || !finite(sr.Size...) {
			return fmt.Errorf("%w: shape %d size %v", ErrInvalidRecord, i, sr.Size)
		}
		if !finite(sr.X, sr.Y, sr.Rotation) {
			return fmt.Errorf("%w: shape %d has a non-finite field", ErrInvalidRecord, i)
		}
		c, err := toRGBA(sr.Color)
		if err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		states[i].color = c
		if sr.LineColor != nil {
			lc, err := toRGBA(sr.LineColor)
			if err != nil {
				return fmt.Errorf("shape %d line: %w", i, err)
			}
			states[i].line = &lc
		}
	}

	obj.Layer = rec.Layer
	obj.X = rec.X
	obj.Y = rec.Y
	obj.Scale = NewVector2(rec.Scale[0], rec.Scale[1])
	obj.Rotation = normalizeAngle(rec.Rotation)
	for i, sr := range rec.Shapes {
		s := obj.Shapes[i]
		s.X = sr.X
		s.Y = sr.Y
		s.Size = [2]float64{sr.Size[0], sr.Size[1]}
		s.Rotation = sr.Rotation
		s.Color = states[i].color
		s.LineColor = states[i].line
	}
	if rec.Thickness > 0 {
		obj.SetThickness(rec.Thickness)
	}
	if rec.Length > 0 {
		obj.SetLength(rec.Length)
	}
	return nil
}

// Serialize snapshots the scene in insertion order.
func (s *Scene) Serialize() ProjectRecord {
	rec := ProjectRecord{
		Config: ConfigRecord{
			PixelsPerMeter: s.Camera.PixelsPerMeter,
			CameraPosition: s.Camera.Position.array(),
		},
		Objects: make([]ObjectRecord, 0, len(s.objects)),
	}
	for _, o := range s.objects {
		rec.Objects = append(rec.Objects, o.Record())
	}
	return rec
}

func validateConfig(c ConfigRecord) (*Camera, error) {
	if len(c.CameraPosition) != 2 || !finite(c.CameraPosition...) {
		return nil, fmt.Errorf("%w: camera_position %v", ErrInvalidRecord, c.CameraPosition)
	}
	if !(c.PixelsPerMeter > 0) || !finite(c.PixelsPerMeter) {
		return nil, fmt.Errorf("%w: escala_pixels_por_metro %v", ErrInvalidRecord, c.PixelsPerMeter)
	}
	return NewCamera(c.CameraPosition[0], c.CameraPosition[1], c.PixelsPerMeter), nil
}

// Load replaces the scene's contents with rec. It is all or nothing: on
// error the buffers built so far are released and the scene is untouched.
// On success the old objects are released and ids restart.
func (s *Scene) Load(rec ProjectRecord) error {
	camera, err := validateConfig(rec.Config)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	var nextID uint32 = 1
	objects := make([]*Object, 0, len(rec.Objects))
	abort := func(err error) error {
		for _, o := range objects {
			o.Dispose()
		}
		return err
	}

	for i, orec := range rec.Objects {
		kind, ok := KindFromTag(orec.Type)
		if !ok {
			return abort(fmt.Errorf("object %d: %w: %q", i, ErrUnknownKind, orec.Type))
		}
		obj := newObject(s.meshes, kind, nextID)
		nextID++
		objects = append(objects, obj)
		if err := applyRecord(obj, orec); err != nil {
			return abort(fmt.Errorf("object %d: %w", i, err))
		}
	}

	for _, o := range s.objects {
		o.Dispose()
	}
	s.objects = objects
	s.nextID = nextID
	s.Camera = camera
	s.modified = false
	s.version++
	s.edits++
	return nil
}

// DecodeProject parses a project file. Unknown fields are rejected.
func DecodeProject(r io.Reader) (ProjectRecord, error) {
	var rec ProjectRecord
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		return ProjectRecord{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return rec, nil
}

// LoadJSON decodes a project file and loads it.
func (s *Scene) LoadJSON(r io.Reader) error {
	rec, err := DecodeProject(r)
	if err != nil {
		return err
	}
	if err := s.Load(rec); err != nil {
		return err
	}
	log.Printf("[LOAD] %d objects", len(s.objects))
	return nil
}

// Save writes the scene as a project file and clears the modified flag.
func (s *Scene) Save(w io.Writer) error {
	if err := json.NewEncoder(w).Encode(s.Serialize()); err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	s.MarkSaved()
	return nil
}

// MarshalProject returns the scene's project file bytes without touching the
// modified flag.
func (s *Scene) MarshalProject() ([]byte, error) {
	return json.Marshal(s.Serialize())
}
