package dict

import (
	"context"

	"github.com/jacentio/espalier/docstore"
)

// PerObject is the dictionary store rooted at individual objects' extension
// containers. Every operation takes the object's Handle; namespaces of
// distinct objects are fully isolated from each other and from the global
// namespace.
type PerObject struct {
	doc   *Document
	store docstore.TxStore
}

// NewPerObject creates a per-object dictionary store for one document.
func NewPerObject(doc *Document, store docstore.TxStore) *PerObject {
	return &PerObject{doc: doc, store: store}
}

// Get returns the value stored under (h, dictionary, key), or "" when the
// object's extension container, the dictionary or the key does not exist.
func (o *PerObject) Get(ctx context.Context, h Handle, dictionary, key string) (string, error) {
	value, _, err := o.Lookup(ctx, h, dictionary, key)
	return value, err
}

// Lookup returns the value stored under (h, dictionary, key) and whether
// the entry exists. It never creates structure.
func (o *PerObject) Lookup(ctx context.Context, h Handle, dictionary, key string) (string, bool, error) {
	return lookupEntry(ctx, o.store, objectAnchor(o.doc, h), dictionary, key)
}

// Set stores value under (h, dictionary, key). The object's extension
// container is created on first write; an object owns at most one, so an
// existing container is reused, never duplicated.
func (o *PerObject) Set(ctx context.Context, h Handle, dictionary, key, value string) error {
	o.doc.mu.Lock()
	defer o.doc.mu.Unlock()
	return setEntry(ctx, o.store, objectAnchor(o.doc, h), dictionary, key, value)
}

// RemoveEntry removes the entry for (h, dictionary, key). A no-op when any
// of the chain is absent; the dictionary node and the extension container
// are never implicitly removed.
func (o *PerObject) RemoveEntry(ctx context.Context, h Handle, dictionary, key string) error {
	o.doc.mu.Lock()
	defer o.doc.mu.Unlock()
	return removeEntry(ctx, o.store, objectAnchor(o.doc, h), dictionary, key)
}

// DictionaryNames returns the names of every dictionary in the object's
// extension namespace.
func (o *PerObject) DictionaryNames(ctx context.Context, h Handle) ([]string, error) {
	return dictionaryNames(ctx, o.store, objectAnchor(o.doc, h))
}

// EntryNames returns the entry keys of the named dictionary in the object's
// extension namespace.
func (o *PerObject) EntryNames(ctx context.Context, h Handle, dictionary string) ([]string, error) {
	return entryNames(ctx, o.store, objectAnchor(o.doc, h), dictionary)
}
