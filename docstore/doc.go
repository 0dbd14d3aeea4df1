// Package docstore provides the transactional node store the dictionary
// layer is built on.
//
// Espalier persists dictionaries as a tree of nodes inside a single DynamoDB
// table. A node is either a dictionary (a named container of children) or a
// record (a leaf holding one tagged payload). Children of a node live under
// the partition named by that node's id, so the tree is walked one
// (container, name) lookup at a time.
//
// # Transactions
//
// All mutation happens through [TxStore.WithTransaction]. The transaction
// body reads through [Tx.Get] and [Tx.Children] and registers writes with
// [Tx.Create] and [Tx.Erase]; registered writes are buffered and committed
// atomically with TransactWriteItems when the body returns nil. Reads inside
// the body observe its own buffered writes. On any non-nil return the
// buffered writes are discarded and nothing reaches the table.
//
// A body that registers no writes commits trivially, so read-only operations
// can share the same entry point without a store round-trip.
//
// # Errors
//
//   - [ErrNotFound] - no node exists under the container with that name
//   - [ErrConflict] - a node with that name was created concurrently
//   - [ErrTxDone] - the transaction was used after it closed
//   - [ErrInvalidNode] - the node fails basic validation
//
// [Mem] implements the same contract in memory for tests and for callers
// without a DynamoDB endpoint.
package docstore
