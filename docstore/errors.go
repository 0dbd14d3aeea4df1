package docstore

import "errors"

var (
	// ErrNotFound is returned when no node exists under a container with
	// the requested name.
	ErrNotFound = errors.New("espalier: node not found")

	// ErrConflict is returned when a commit loses a race to create a node
	// whose name was taken concurrently.
	ErrConflict = errors.New("espalier: node already exists")

	// ErrTxDone is returned when a transaction is used after its body
	// returned.
	ErrTxDone = errors.New("espalier: transaction already closed")

	// ErrInvalidNode is returned when a node fails validation on create.
	ErrInvalidNode = errors.New("espalier: invalid node")
)
