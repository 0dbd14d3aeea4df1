// Package pathkey builds the partition keys anchoring dictionary namespaces.
package pathkey

import "strings"

// DocumentRoot returns the partition key for a document's named-object root,
// the anchor of its global dictionary namespace.
func DocumentRoot(docID string) string {
	return "doc#" + escape(docID)
}

// ObjectExtension returns the partition key anchoring one object's extension
// container within a document.
func ObjectExtension(docID, handle string) string {
	return "ext#" + escape(docID) + "#" + escape(handle)
}

// escape percent-encodes the separator so distinct (document, handle) pairs
// can never produce the same key.
func escape(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	return strings.ReplaceAll(s, "#", "%23")
}
