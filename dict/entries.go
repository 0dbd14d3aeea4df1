package dict

import (
	"context"
	"errors"
	"fmt"

	"github.com/jacentio/espalier/docstore"
)

// lookupEntry reads one entry. Absent root, dictionary or key reads as
// ("", false) without creating anything; so does a key bound to a
// non-record node.
func lookupEntry(ctx context.Context, store docstore.TxStore, a anchor, dictionary, key string) (string, bool, error) {
	id, found, err := lookupDictionary(ctx, store, a, dictionary)
	if err != nil || !found {
		return "", false, err
	}

	var (
		value   string
		present bool
	)
	err = store.WithTransaction(ctx, func(tx docstore.Tx) error {
		node, err := tx.Get(ctx, id.Key(), key, docstore.ForRead)
		if errors.Is(err, docstore.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if node.Kind != docstore.KindRecord {
			return nil
		}
		value = node.Payload
		present = true
		return nil
	})
	return value, present, err
}

// setEntry writes one entry, creating the namespace chain on demand. An
// existing record for the key is erased and recreated; stored records are
// never mutated in place.
func setEntry(ctx context.Context, store docstore.TxStore, a anchor, dictionary, key, value string) error {
	id, err := resolveDictionary(ctx, store, a, dictionary)
	if err != nil {
		return err
	}

	return store.WithTransaction(ctx, func(tx docstore.Tx) error {
		existing, err := tx.Get(ctx, id.Key(), key, docstore.ForWrite)
		switch {
		case err == nil:
			if existing.Kind != docstore.KindRecord {
				return fmt.Errorf("%w: %q", ErrKindConflict, key)
			}
			if err := tx.Erase(ctx, id.Key(), key); err != nil {
				return err
			}
		case !errors.Is(err, docstore.ErrNotFound):
			return err
		}

		_, err = tx.Create(ctx, id.Key(), docstore.Node{
			Name:     key,
			Kind:     docstore.KindRecord,
			Encoding: docstore.EncodingText,
			Payload:  value,
		})
		return err
	})
}

// removeEntry erases one entry record, leaving the dictionary node in place
// even when it is now empty. A no-op when the dictionary or key is absent.
func removeEntry(ctx context.Context, store docstore.TxStore, a anchor, dictionary, key string) error {
	id, found, err := lookupDictionary(ctx, store, a, dictionary)
	if err != nil || !found {
		return err
	}

	return store.WithTransaction(ctx, func(tx docstore.Tx) error {
		node, err := tx.Get(ctx, id.Key(), key, docstore.ForWrite)
		if errors.Is(err, docstore.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if node.Kind != docstore.KindRecord {
			return nil
		}
		return tx.Erase(ctx, id.Key(), key)
	})
}

// dictionaryNames enumerates the dictionaries directly under the anchor's
// root container. An absent root enumerates as empty without being created.
func dictionaryNames(ctx context.Context, store docstore.TxStore, a anchor) ([]string, error) {
	var names []string
	err := store.WithTransaction(ctx, func(tx docstore.Tx) error {
		root, err := lookupChild(ctx, tx, a.root, a.name)
		if err != nil || root == nil {
			return err
		}
		children, err := tx.Children(ctx, root.ID.Key())
		if err != nil {
			return err
		}
		for _, child := range children {
			if child.Kind == docstore.KindDictionary {
				names = append(names, child.Name)
			}
		}
		return nil
	})
	return names, err
}

// entryNames enumerates the entry keys of one dictionary under the same
// non-creating read discipline.
func entryNames(ctx context.Context, store docstore.TxStore, a anchor, dictionary string) ([]string, error) {
	id, found, err := lookupDictionary(ctx, store, a, dictionary)
	if err != nil || !found {
		return nil, err
	}

	var names []string
	err = store.WithTransaction(ctx, func(tx docstore.Tx) error {
		children, err := tx.Children(ctx, id.Key())
		if err != nil {
			return err
		}
		for _, child := range children {
			if child.Kind == docstore.KindRecord {
				names = append(names, child.Name)
			}
		}
		return nil
	})
	return names, err
}
