// Package dict attaches named dictionaries of string entries to a host
// document and to its persisted objects.
//
// Two namespaces exist per document. The global namespace hangs off the
// document's named-object root under the well-known [GlobalNamespace]
// dictionary and is served by [Global]. The per-object namespace hangs off
// each object's extension container, keyed by the object's [Handle], and is
// served by [PerObject]. Both expose the same surface: Get, Lookup, Set,
// RemoveEntry, DictionaryNames, EntryNames.
//
// Structure is created lazily and only by writes. Set creates the namespace
// root, the dictionary, and the entry record on demand; Get, Lookup,
// RemoveEntry and the enumerations never create anything, so exploratory
// reads cannot litter a document with empty dictionaries. RemoveEntry erases
// the entry record but leaves the dictionary node in place even when it is
// now empty.
//
// Every operation threads an explicit [Document] handle; there is no ambient
// "current document". Writers serialize on the document's exclusive lock
// across their resolve and data transactions. Readers take no lock and see
// committed state only.
//
// Absent dictionaries and keys read as "" from Get; [Global.Lookup] and
// [PerObject.Lookup] add an explicit presence flag when "" as a stored value
// must be told apart from absence.
package dict
