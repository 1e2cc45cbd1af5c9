package planta

import "log"

// Buffer identifies geometry uploaded to a MeshStore. The zero value is never
// a valid buffer.
type Buffer uint32

const NoBuffer Buffer = 0

// MeshStore owns uploaded vertex data shared by every render target (screen
// and picking). Buffers live until Release is called.
type MeshStore struct {
	next   Buffer
	meshes map[Buffer][]float32
}

func NewMeshStore() *MeshStore {
	return &MeshStore{
		meshes: make(map[Buffer][]float32),
	}
}

// Upload copies vertices (flat x,y pairs) into the store.
func (m *MeshStore) Upload(vertices []float32) Buffer {
	if m == nil {
		return NoBuffer
	}
	m.next++
	data := make([]float32, len(vertices))
	copy(data, vertices)
	m.meshes[m.next] = data
	return m.next
}

// Release frees a buffer. Releasing NoBuffer or an unknown buffer is a no-op.
func (m *MeshStore) Release(b Buffer) {
	if m == nil || b == NoBuffer {
		return
	}
	if _, ok := m.meshes[b]; !ok {
		log.Printf("mesh store: release of unknown buffer %d", b)
		return
	}
	delete(m.meshes, b)
}

// Vertices returns the data behind b, or nil.
func (m *MeshStore) Vertices(b Buffer) []float32 {
	if m == nil {
		return nil
	}
	return m.meshes[b]
}

// Live is the number of buffers not yet released.
func (m *MeshStore) Live() int {
	if m == nil {
		return 0
	}
	return len(m.meshes)
}
