package docstore

import "sort"

// itemKey addresses one node item: the container it lives under plus its
// name within that container.
type itemKey struct {
	parent ContainerKey
	name   string
}

// pendingWrite is one write registered with a transaction. A nil node is an
// erase. replace marks a put that supersedes an erase of the same key within
// the transaction; it commits without a create condition.
type pendingWrite struct {
	key     itemKey
	node    *Node
	replace bool
}

// writeSet buffers the writes registered with one transaction, preserving
// registration order and coalescing operations on the same key. DynamoDB
// rejects a transaction containing two operations on one item, so an erase
// followed by a create of the same name must collapse into a single put.
type writeSet struct {
	order []itemKey
	ops   map[itemKey]*pendingWrite
}

func newWriteSet() *writeSet {
	return &writeSet{ops: make(map[itemKey]*pendingWrite)}
}

// lookup returns the pending write for key, if any.
func (w *writeSet) lookup(key itemKey) (*pendingWrite, bool) {
	op, ok := w.ops[key]
	return op, ok
}

// put registers a create for key. A put over a pending erase becomes a
// replacement; a second put for the same key is a conflict.
func (w *writeSet) put(key itemKey, node *Node) error {
	if op, ok := w.ops[key]; ok {
		if op.node != nil {
			return ErrConflict
		}
		op.node = node
		op.replace = true
		return nil
	}
	w.ops[key] = &pendingWrite{key: key, node: node}
	w.order = append(w.order, key)
	return nil
}

// erase registers removal of key, discarding any pending put for it.
func (w *writeSet) erase(key itemKey) {
	if op, ok := w.ops[key]; ok {
		op.node = nil
		op.replace = false
		return
	}
	w.ops[key] = &pendingWrite{key: key}
	w.order = append(w.order, key)
}

// all returns the pending writes in registration order.
func (w *writeSet) all() []*pendingWrite {
	out := make([]*pendingWrite, 0, len(w.order))
	for _, key := range w.order {
		out = append(out, w.ops[key])
	}
	return out
}

// overlayChildren merges the committed children of parent with this
// transaction's pending writes: erased nodes drop out, pending puts shadow
// or extend the committed set. The result is sorted by name.
func (w *writeSet) overlayChildren(parent ContainerKey, committed []*Node) []*Node {
	merged := make([]*Node, 0, len(committed))
	seen := make(map[string]bool, len(committed))

	for _, n := range committed {
		key := itemKey{parent: parent, name: n.Name}
		seen[n.Name] = true
		if op, ok := w.ops[key]; ok {
			if op.node == nil {
				continue
			}
			merged = append(merged, op.node.clone())
			continue
		}
		merged = append(merged, n)
	}

	for _, key := range w.order {
		op := w.ops[key]
		if op.key.parent != parent || op.node == nil || seen[op.key.name] {
			continue
		}
		merged = append(merged, op.node.clone())
	}

	sort.Slice(merged, func(i, j int) bool { return merged[i].Name < merged[j].Name })
	return merged
}
