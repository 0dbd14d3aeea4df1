package docstore

import (
	"errors"
	"testing"
)

func TestWriteSet_PutThenLookup(t *testing.T) {
	w := newWriteSet()
	key := itemKey{parent: "p", name: "a"}

	if err := w.put(key, &Node{Name: "a", Kind: KindDictionary}); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	op, ok := w.lookup(key)
	if !ok {
		t.Fatal("expected pending write after put")
	}
	if op.node == nil {
		t.Error("expected a put, got an erase")
	}
	if op.replace {
		t.Error("expected a plain create, got a replacement")
	}
}

func TestWriteSet_DoublePutConflicts(t *testing.T) {
	w := newWriteSet()
	key := itemKey{parent: "p", name: "a"}

	if err := w.put(key, &Node{Name: "a", Kind: KindDictionary}); err != nil {
		t.Fatalf("first put failed: %v", err)
	}
	err := w.put(key, &Node{Name: "a", Kind: KindDictionary})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestWriteSet_EraseThenPutCoalesces(t *testing.T) {
	w := newWriteSet()
	key := itemKey{parent: "p", name: "a"}

	w.erase(key)
	if err := w.put(key, &Node{Name: "a", Kind: KindRecord, Encoding: EncodingText, Payload: "v2"}); err != nil {
		t.Fatalf("put over erase failed: %v", err)
	}

	ops := w.all()
	if len(ops) != 1 {
		t.Fatalf("expected 1 coalesced op, got %d", len(ops))
	}
	if ops[0].node == nil {
		t.Fatal("expected coalesced op to be a put")
	}
	if !ops[0].replace {
		t.Error("expected coalesced put to be marked as replacement")
	}
	if ops[0].node.Payload != "v2" {
		t.Errorf("expected payload 'v2', got %q", ops[0].node.Payload)
	}
}

func TestWriteSet_PutThenEraseDiscardsPut(t *testing.T) {
	w := newWriteSet()
	key := itemKey{parent: "p", name: "a"}

	if err := w.put(key, &Node{Name: "a", Kind: KindDictionary}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	w.erase(key)

	ops := w.all()
	if len(ops) != 1 {
		t.Fatalf("expected 1 op, got %d", len(ops))
	}
	if ops[0].node != nil {
		t.Error("expected the surviving op to be an erase")
	}
}

func TestWriteSet_AllPreservesRegistrationOrder(t *testing.T) {
	w := newWriteSet()
	names := []string{"c", "a", "b"}
	for _, name := range names {
		if err := w.put(itemKey{parent: "p", name: name}, &Node{Name: name, Kind: KindDictionary}); err != nil {
			t.Fatalf("put %q failed: %v", name, err)
		}
	}

	ops := w.all()
	if len(ops) != 3 {
		t.Fatalf("expected 3 ops, got %d", len(ops))
	}
	for i, name := range names {
		if ops[i].key.name != name {
			t.Errorf("op %d: expected %q, got %q", i, name, ops[i].key.name)
		}
	}
}

func TestWriteSet_OverlayChildren(t *testing.T) {
	w := newWriteSet()
	parent := ContainerKey("p")

	// Shadow b, erase c, add d under parent; e belongs elsewhere.
	if err := w.put(itemKey{parent: parent, name: "b"}, &Node{Name: "b", Kind: KindRecord, Encoding: EncodingText, Payload: "new"}); err != nil {
		t.Fatalf("put b failed: %v", err)
	}
	w.erase(itemKey{parent: parent, name: "c"})
	if err := w.put(itemKey{parent: parent, name: "d"}, &Node{Name: "d", Kind: KindDictionary}); err != nil {
		t.Fatalf("put d failed: %v", err)
	}
	if err := w.put(itemKey{parent: "other", name: "e"}, &Node{Name: "e", Kind: KindDictionary}); err != nil {
		t.Fatalf("put e failed: %v", err)
	}

	committed := []*Node{
		{Name: "a", Kind: KindDictionary},
		{Name: "b", Kind: KindRecord, Encoding: EncodingText, Payload: "old"},
		{Name: "c", Kind: KindRecord, Encoding: EncodingText},
	}

	merged := w.overlayChildren(parent, committed)

	want := []string{"a", "b", "d"}
	if len(merged) != len(want) {
		t.Fatalf("expected %d children, got %d", len(want), len(merged))
	}
	for i, name := range want {
		if merged[i].Name != name {
			t.Errorf("child %d: expected %q, got %q", i, name, merged[i].Name)
		}
	}
	if merged[1].Payload != "new" {
		t.Errorf("expected shadowed payload 'new', got %q", merged[1].Payload)
	}
}

func TestWriteSet_OverlayChildren_Empty(t *testing.T) {
	w := newWriteSet()
	merged := w.overlayChildren("p", nil)
	if len(merged) != 0 {
		t.Errorf("expected no children, got %d", len(merged))
	}
}
