package dict

import (
	"context"

	"github.com/jacentio/espalier/docstore"
)

// Global is the dictionary store rooted at the document's named-object
// root, under the GlobalNamespace dictionary.
type Global struct {
	doc   *Document
	store docstore.TxStore
}

// NewGlobal creates a global dictionary store for one document.
func NewGlobal(doc *Document, store docstore.TxStore) *Global {
	return &Global{doc: doc, store: store}
}

// Get returns the value stored under (dictionary, key), or "" when the
// dictionary or key does not exist. It never creates structure. Use Lookup
// when "" as a stored value must be told apart from absence.
func (g *Global) Get(ctx context.Context, dictionary, key string) (string, error) {
	value, _, err := g.Lookup(ctx, dictionary, key)
	return value, err
}

// Lookup returns the value stored under (dictionary, key) and whether the
// entry exists. It never creates structure.
func (g *Global) Lookup(ctx context.Context, dictionary, key string) (string, bool, error) {
	return lookupEntry(ctx, g.store, globalAnchor(g.doc), dictionary, key)
}

// Set stores value under (dictionary, key), creating the namespace root and
// the dictionary on demand. An existing entry for the key is replaced.
func (g *Global) Set(ctx context.Context, dictionary, key, value string) error {
	g.doc.mu.Lock()
	defer g.doc.mu.Unlock()
	return setEntry(ctx, g.store, globalAnchor(g.doc), dictionary, key, value)
}

// RemoveEntry removes the entry for (dictionary, key). The dictionary node
// stays in place even when it is now empty. A no-op when the dictionary or
// key does not exist.
func (g *Global) RemoveEntry(ctx context.Context, dictionary, key string) error {
	g.doc.mu.Lock()
	defer g.doc.mu.Unlock()
	return removeEntry(ctx, g.store, globalAnchor(g.doc), dictionary, key)
}

// DictionaryNames returns the names of every dictionary in the document's
// global namespace. Enumerating never creates the namespace root.
func (g *Global) DictionaryNames(ctx context.Context) ([]string, error) {
	return dictionaryNames(ctx, g.store, globalAnchor(g.doc))
}

// EntryNames returns the entry keys of the named dictionary. Enumerating
// never creates structure.
func (g *Global) EntryNames(ctx context.Context, dictionary string) ([]string, error) {
	return entryNames(ctx, g.store, globalAnchor(g.doc), dictionary)
}
