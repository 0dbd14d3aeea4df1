package docstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Mem is an in-memory TxStore with the same contract as the DynamoDB store.
// It backs the dictionary layer's tests and callers without a DynamoDB
// endpoint. Transactions hold the store lock from begin to commit, which
// gives the exclusive write ownership the persisted store gets from its
// commit conditions.
type Mem struct {
	mu    sync.Mutex
	items map[itemKey]*Node
}

// NewMem creates an empty in-memory store.
func NewMem() *Mem {
	return &Mem{items: make(map[itemKey]*Node)}
}

// WithTransaction implements TxStore. Staged writes apply on a nil return
// from fn and are discarded otherwise.
func (m *Mem) WithTransaction(ctx context.Context, fn func(Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{store: m, writes: newWriteSet()}
	defer func() { tx.done = true }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.apply()
}

// memTx stages writes against the store's committed map.
type memTx struct {
	store  *Mem
	writes *writeSet
	done   bool
}

func (t *memTx) Get(ctx context.Context, parent ContainerKey, name string, mode OpenMode) (*Node, error) {
	if t.done {
		return nil, ErrTxDone
	}
	_ = mode // the store lock is held for the whole transaction

	key := itemKey{parent: parent, name: name}
	if op, ok := t.writes.lookup(key); ok {
		if op.node == nil {
			return nil, ErrNotFound
		}
		return op.node.clone(), nil
	}
	if n, ok := t.store.items[key]; ok {
		return n.clone(), nil
	}
	return nil, ErrNotFound
}

func (t *memTx) Create(ctx context.Context, parent ContainerKey, node Node) (*Node, error) {
	if t.done {
		return nil, ErrTxDone
	}
	if err := node.validate(); err != nil {
		return nil, err
	}

	key := itemKey{parent: parent, name: node.Name}
	if _, pending := t.writes.lookup(key); !pending {
		if _, exists := t.store.items[key]; exists {
			return nil, ErrConflict
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	node.ID = NodeID(uuid.New().String())
	node.CreatedAt = now
	node.UpdatedAt = now

	if err := t.writes.put(key, &node); err != nil {
		return nil, err
	}
	return node.clone(), nil
}

func (t *memTx) Erase(ctx context.Context, parent ContainerKey, name string) error {
	if t.done {
		return ErrTxDone
	}
	t.writes.erase(itemKey{parent: parent, name: name})
	return nil
}

func (t *memTx) Children(ctx context.Context, parent ContainerKey) ([]*Node, error) {
	if t.done {
		return nil, ErrTxDone
	}

	var committed []*Node
	for key, n := range t.store.items {
		if key.parent == parent {
			committed = append(committed, n.clone())
		}
	}
	return t.writes.overlayChildren(parent, committed), nil
}

// apply commits the staged writes. Conflicts are checked for the whole set
// before anything mutates so a failed commit leaves the store untouched.
func (t *memTx) apply() error {
	ops := t.writes.all()
	for _, op := range ops {
		if op.node == nil || op.replace {
			continue
		}
		if _, exists := t.store.items[op.key]; exists {
			return ErrConflict
		}
	}

	for _, op := range ops {
		if op.node == nil {
			delete(t.store.items, op.key)
			continue
		}
		t.store.items[op.key] = op.node.clone()
	}
	return nil
}
