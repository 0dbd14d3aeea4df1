package docstore

import (
	"context"
	"fmt"
)

// NodeID is the stable identity of a persisted node.
type NodeID string

// ContainerKey addresses the set of children stored under one container.
// It is either a node's id or an anchor key built by internal/pathkey.
type ContainerKey string

// Key returns the container under which this node's children are stored.
func (id NodeID) Key() ContainerKey {
	return ContainerKey(id)
}

// Kind discriminates the two persisted node shapes.
type Kind string

const (
	// KindDictionary is a named container of child nodes.
	KindDictionary Kind = "dictionary"

	// KindRecord is a leaf node holding one tagged payload.
	KindRecord Kind = "record"
)

// Encoding tags the payload arm of a record node. Only free-form text is
// defined today; the tag is persisted so further arms can be added without
// re-reading old data.
type Encoding string

// EncodingText is a free-form string payload.
const EncodingText Encoding = "text"

// OpenMode declares the caller's intent when reading a node. The DynamoDB
// store treats it as advisory (commit-time conditions enforce exclusivity);
// the in-memory store holds the store lock for the transaction either way.
type OpenMode int

const (
	// ForRead opens a node without intent to mutate beneath it.
	ForRead OpenMode = iota

	// ForWrite opens a node ahead of creating or erasing its children.
	ForWrite
)

// Node is one persisted tree node.
type Node struct {
	// ID is assigned by the store on create.
	ID NodeID

	// Name is the node's key within its parent container.
	Name string

	// Kind is the node shape.
	Kind Kind

	// Encoding tags the payload arm (records only).
	Encoding Encoding

	// Payload is the record payload (records only; may be empty).
	Payload string

	// CreatedAt and UpdatedAt are ISO 8601 timestamps.
	CreatedAt string
	UpdatedAt string
}

func (n *Node) clone() *Node {
	c := *n
	return &c
}

// validate checks the fields a caller controls before a create.
func (n *Node) validate() error {
	if n.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidNode)
	}
	switch n.Kind {
	case KindDictionary:
		if n.Payload != "" || n.Encoding != "" {
			return fmt.Errorf("%w: dictionary node carries a payload", ErrInvalidNode)
		}
	case KindRecord:
		if n.Encoding == "" {
			return fmt.Errorf("%w: record node without encoding", ErrInvalidNode)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidNode, n.Kind)
	}
	return nil
}

// Tx is one open transaction against the node store.
type Tx interface {
	// Get returns the node stored under parent with the given name,
	// observing writes already registered with this transaction.
	// Returns ErrNotFound if no such node exists.
	Get(ctx context.Context, parent ContainerKey, name string, mode OpenMode) (*Node, error)

	// Create assigns the node an id and timestamps and registers it with
	// the transaction. The commit fails with ErrConflict if the name is
	// already taken, unless the name was erased earlier in this
	// transaction, in which case the create replaces the erased node.
	Create(ctx context.Context, parent ContainerKey, node Node) (*Node, error)

	// Erase registers removal of the node stored under parent with the
	// given name. Erasing a missing node is not an error.
	Erase(ctx context.Context, parent ContainerKey, name string) error

	// Children returns all nodes stored under parent, sorted by name,
	// observing writes already registered with this transaction.
	Children(ctx context.Context, parent ContainerKey) ([]*Node, error)
}

// TxStore runs transaction bodies against a node store.
type TxStore interface {
	// WithTransaction opens a transaction, runs fn, and commits the
	// registered writes if fn returns nil. On any other exit the writes
	// are discarded. The Tx must not be retained after fn returns.
	WithTransaction(ctx context.Context, fn func(Tx) error) error
}
