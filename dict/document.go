package dict

import "sync"

// Document is the explicit handle for one open host document. It carries
// the document's exclusive lock, which serializes all dictionary writes
// against that document.
type Document struct {
	id string
	mu sync.Mutex
}

// NewDocument creates a handle for the document with the given identity.
// All stores operating on the same document must share one handle, or the
// lock serializes nothing.
func NewDocument(id string) *Document {
	return &Document{id: id}
}

// ID returns the document identity.
func (d *Document) ID() string {
	return d.id
}

// Handle is the identity of one persisted object within a document.
type Handle string
