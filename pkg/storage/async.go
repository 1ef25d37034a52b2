package storage

import (
	"context"
	"io"

	"github.com/noah-isme/faculty-directory-api/pkg/jobs"
)

const taskPhotoDelete = "photo_delete"

// AsyncCleanup wraps a PhotoStore so file deletions run off the request
// path. Saves stay synchronous since the caller needs the stored name.
type AsyncCleanup struct {
	store *PhotoStore
	queue *jobs.Queue
}

// NewAsyncCleanup wraps store with deferred deletion through queue.
func NewAsyncCleanup(store *PhotoStore, queue *jobs.Queue) *AsyncCleanup {
	return &AsyncCleanup{store: store, queue: queue}
}

// Save stores a photo and returns its generated name.
func (a *AsyncCleanup) Save(originalName string, r io.Reader) (string, error) {
	return a.store.Save(originalName, r)
}

// Delete enqueues removal of the named photo.
func (a *AsyncCleanup) Delete(name string) error {
	a.queue.Enqueue(jobs.Task{Kind: taskPhotoDelete, Payload: name})
	return nil
}

// CleanupHandler returns the queue handler that performs the actual file
// removal.
func CleanupHandler(store *PhotoStore) jobs.Handler {
	return func(_ context.Context, task jobs.Task) error {
		return store.Delete(task.Payload)
	}
}
