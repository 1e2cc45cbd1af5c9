package planta

import (
	"context"
	"errors"
	"log"

	"github.com/smasonuk/planta/internal/projectstore"
)

// ProjectFiles reads and writes the open project's file. Both calls return
// at once; done runs later on the frame loop. Read reports a cancelled or
// absent file as nil data with a nil error.
type ProjectFiles interface {
	Read(done func(data []byte, err error))
	Write(data []byte, done func(err error))
}

// TaskQueue carries completions from I/O goroutines back to the frame loop.
type TaskQueue struct {
	tasks chan func()
}

func NewTaskQueue(size int) *TaskQueue {
	return &TaskQueue{tasks: make(chan func(), size)}
}

// Post schedules f to run on the next Drain. It blocks while the queue is
// full.
func (q *TaskQueue) Post(f func()) {
	q.tasks <- f
}

// Drain runs every queued task without blocking.
func (q *TaskQueue) Drain() {
	for {
		select {
		case f := <-q.tasks:
			f()
		default:
			return
		}
	}
}

// StoreFiles keeps the project under one key of a projectstore.Store.
type StoreFiles struct {
	store projectstore.Store
	key   string
	tasks *TaskQueue
}

func NewStoreFiles(store projectstore.Store, key string, tasks *TaskQueue) *StoreFiles {
	return &StoreFiles{store: store, key: key, tasks: tasks}
}

func (f *StoreFiles) Key() string {
	return f.key
}

func (f *StoreFiles) Read(done func(data []byte, err error)) {
	go func() {
		data, err := f.store.Get(context.Background(), f.key)
		if errors.Is(err, projectstore.ErrNotFound) {
			log.Printf("[STORE] no project at %s", f.key)
			data, err = nil, nil
		}
		f.tasks.Post(func() { done(data, err) })
	}()
}

func (f *StoreFiles) Write(data []byte, done func(err error)) {
	go func() {
		info, err := f.store.Put(context.Background(), f.key, data)
		if err == nil {
			log.Printf("[STORE] saved %s (%d bytes, %s)", info.Key, info.Size, f.store.Driver())
		}
		f.tasks.Post(func() { done(err) })
	}()
}
