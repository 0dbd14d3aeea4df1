package dict

import (
	"context"
	"errors"
	"fmt"

	"github.com/jacentio/espalier/docstore"
	"github.com/jacentio/espalier/internal/pathkey"
)

// GlobalNamespace is the name of the dictionary holding the global
// namespace under a document's named-object root.
const GlobalNamespace = "CustomDictionaries"

// extensionRootName names the extension container node under an object's
// anchor partition. An object owns at most one.
const extensionRootName = "extension"

// anchor locates a namespace root: the partition it is stored under and the
// root container's name within that partition.
type anchor struct {
	root docstore.ContainerKey
	name string
}

func globalAnchor(doc *Document) anchor {
	return anchor{
		root: docstore.ContainerKey(pathkey.DocumentRoot(doc.id)),
		name: GlobalNamespace,
	}
}

func objectAnchor(doc *Document, h Handle) anchor {
	return anchor{
		root: docstore.ContainerKey(pathkey.ObjectExtension(doc.id, string(h))),
		name: extensionRootName,
	}
}

// resolveDictionary walks anchor root -> named dictionary inside one
// transaction, creating both on demand. Resolving the same (anchor,
// dictionary) again returns the same node id. Node ids are never cached
// across calls; every public operation re-resolves.
func resolveDictionary(ctx context.Context, store docstore.TxStore, a anchor, dictionary string) (docstore.NodeID, error) {
	var id docstore.NodeID
	err := store.WithTransaction(ctx, func(tx docstore.Tx) error {
		root, err := getOrCreateChild(ctx, tx, a.root, a.name)
		if err != nil {
			return err
		}
		node, err := getOrCreateChild(ctx, tx, root.ID.Key(), dictionary)
		if err != nil {
			return err
		}
		id = node.ID
		return nil
	})
	return id, err
}

// getOrCreateChild returns the dictionary node named name under parent,
// creating and registering it when absent. A name bound to a non-dictionary
// node is a hard error on this write path.
func getOrCreateChild(ctx context.Context, tx docstore.Tx, parent docstore.ContainerKey, name string) (*docstore.Node, error) {
	node, err := tx.Get(ctx, parent, name, docstore.ForWrite)
	switch {
	case err == nil:
		if node.Kind != docstore.KindDictionary {
			return nil, fmt.Errorf("%w: %q", ErrKindConflict, name)
		}
		return node, nil
	case errors.Is(err, docstore.ErrNotFound):
		return tx.Create(ctx, parent, docstore.Node{Name: name, Kind: docstore.KindDictionary})
	default:
		return nil, err
	}
}

// lookupDictionary is the read-path resolution: it finds the dictionary only
// if the whole chain already exists and never creates anything.
func lookupDictionary(ctx context.Context, store docstore.TxStore, a anchor, dictionary string) (docstore.NodeID, bool, error) {
	var (
		id    docstore.NodeID
		found bool
	)
	err := store.WithTransaction(ctx, func(tx docstore.Tx) error {
		root, err := lookupChild(ctx, tx, a.root, a.name)
		if err != nil || root == nil {
			return err
		}
		node, err := lookupChild(ctx, tx, root.ID.Key(), dictionary)
		if err != nil || node == nil {
			return err
		}
		id = node.ID
		found = true
		return nil
	})
	return id, found, err
}

// lookupChild reads one dictionary child, mapping absence and kind mismatch
// to nil.
func lookupChild(ctx context.Context, tx docstore.Tx, parent docstore.ContainerKey, name string) (*docstore.Node, error) {
	node, err := tx.Get(ctx, parent, name, docstore.ForRead)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if node.Kind != docstore.KindDictionary {
		return nil, nil
	}
	return node, nil
}
