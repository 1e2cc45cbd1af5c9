package planta

import (
	"log"
	"sort"
)

// Scene is the open project: the placed objects in insertion order plus the
// persisted view configuration.
type Scene struct {
	Camera *Camera

	objects  []*Object
	nextID   uint32
	meshes   *MeshStore
	modified bool
	version  uint64
	edits    uint64
}

func NewScene(meshes *MeshStore) *Scene {
	return &Scene{
		Camera: DefaultCamera(),
		nextID: 1,
		meshes: meshes,
	}
}

func (s *Scene) Meshes() *MeshStore {
	return s.meshes
}

func (s *Scene) allocateID() uint32 {
	id := s.nextID
	s.nextID++
	if s.nextID == NoObject {
		log.Printf("scene: object id counter exhausted")
		s.nextID = 1
	}
	return id
}

// SpawnPoint is where interactively created objects and clones appear: the
// current camera focus.
func (s *Scene) SpawnPoint() Vector2 {
	return s.Camera.GetPosition()
}

// Add places a new object of the given kind at the spawn point.
func (s *Scene) Add(kind Kind) *Object {
	p := s.SpawnPoint()
	return s.AddAt(kind, p.X, p.Y)
}

func (s *Scene) AddAt(kind Kind, x, y float64) *Object {
	if !kind.Valid() {
		log.Printf("scene: add of unknown kind %d", kind)
		return nil
	}
	obj := newObject(s.meshes, kind, s.allocateID())
	obj.SetPosition(x, y)
	s.objects = append(s.objects, obj)
	s.Touch()
	return obj
}

// Remove deletes obj from the scene and releases its buffers.
func (s *Scene) Remove(obj *Object) bool {
	for i, o := range s.objects {
		if o == obj {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			obj.Dispose()
			s.Touch()
			return true
		}
	}
	return false
}

// Clone adds a copy of src with a fresh id, placed at the spawn point.
func (s *Scene) Clone(src *Object) (*Object, error) {
	obj := newObject(s.meshes, src.Kind, s.allocateID())
	if err := applyRecord(obj, src.Record()); err != nil {
		obj.Dispose()
		return nil, err
	}
	p := s.SpawnPoint()
	obj.SetPosition(p.X, p.Y)
	s.objects = append(s.objects, obj)
	s.Touch()
	return obj, nil
}

// Find resolves an id against the live objects.
func (s *Scene) Find(id uint32) *Object {
	if id == NoObject {
		return nil
	}
	for _, o := range s.objects {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// Objects returns the live objects in insertion order.
func (s *Scene) Objects() []*Object {
	out := make([]*Object, len(s.objects))
	copy(out, s.objects)
	return out
}

func (s *Scene) Len() int {
	return len(s.objects)
}

// DrawOrder sorts objects by layer, higher layers first so that they end up
// underneath. Insertion order breaks ties.
func (s *Scene) DrawOrder() []*Object {
	out := s.Objects()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Layer > out[j].Layer
	})
	return out
}

// Draw paints every object into r.
func (s *Scene) Draw(r Renderer, v View, mode DrawMode) {
	if r == nil {
		return
	}
	r.SetView(v)
	for _, o := range s.DrawOrder() {
		o.Draw(r, mode)
	}
}

// Reset empties the scene for a new file: objects are released, the view
// goes back to defaults and ids restart.
func (s *Scene) Reset() {
	for _, o := range s.objects {
		o.Dispose()
	}
	s.objects = nil
	s.Camera = DefaultCamera()
	s.nextID = 1
	s.modified = false
	s.version++
	s.edits++
}

// Touch records a mutation: the scene is modified and must be redrawn.
func (s *Scene) Touch() {
	s.modified = true
	s.version++
	s.edits++
}

// Invalidate schedules a redraw without marking the scene modified.
func (s *Scene) Invalidate() {
	s.version++
}

// Version changes every time the scene needs redrawing.
func (s *Scene) Version() uint64 {
	return s.version
}

// Edits counts content changes. Unlike Version it ignores redraw-only
// invalidation.
func (s *Scene) Edits() uint64 {
	return s.edits
}

// Modified reports whether the scene changed since the last save, open or
// new file.
func (s *Scene) Modified() bool {
	return s.modified
}

func (s *Scene) MarkSaved() {
	s.modified = false
}

// HasUnsavedChanges gates destructive actions (new, open). Any object or any
// non-default view setting counts, even right after opening a file.
func (s *Scene) HasUnsavedChanges() bool {
	if len(s.objects) > 0 {
		return true
	}
	def := DefaultCamera()
	return s.Camera.PixelsPerMeter != def.PixelsPerMeter || s.Camera.Position != def.Position
}
