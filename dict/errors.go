package dict

import "errors"

// ErrKindConflict is returned when a write path runs into a name that is
// already bound to a node of the wrong kind: a record where a dictionary is
// needed, or a dictionary where an entry record would be written. Read paths
// treat such names as absent instead.
var ErrKindConflict = errors.New("espalier: name in use by a node of a different kind")
