package docstore_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jacentio/espalier/docstore"
)

func TestMem_CommitPersistsWrites(t *testing.T) {
	m := docstore.NewMem()
	ctx := context.Background()

	var id docstore.NodeID
	err := m.WithTransaction(ctx, func(tx docstore.Tx) error {
		n, err := tx.Create(ctx, "root", docstore.Node{Name: "d", Kind: docstore.KindDictionary})
		if err != nil {
			return err
		}
		id = n.ID
		return nil
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}

	err = m.WithTransaction(ctx, func(tx docstore.Tx) error {
		n, err := tx.Get(ctx, "root", "d", docstore.ForRead)
		if err != nil {
			return err
		}
		if n.ID != id {
			t.Errorf("expected id %q, got %q", id, n.ID)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("read transaction failed: %v", err)
	}
}

func TestMem_FailedBodyDiscardsWrites(t *testing.T) {
	m := docstore.NewMem()
	ctx := context.Background()
	boom := fmt.Errorf("boom")

	err := m.WithTransaction(ctx, func(tx docstore.Tx) error {
		if _, err := tx.Create(ctx, "root", docstore.Node{Name: "d", Kind: docstore.KindDictionary}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected body error to propagate, got %v", err)
	}

	err = m.WithTransaction(ctx, func(tx docstore.Tx) error {
		_, err := tx.Get(ctx, "root", "d", docstore.ForRead)
		if !errors.Is(err, docstore.ErrNotFound) {
			t.Errorf("expected ErrNotFound after rollback, got %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("read transaction failed: %v", err)
	}
}

func TestMem_CreateExistingConflicts(t *testing.T) {
	m := docstore.NewMem()
	ctx := context.Background()

	err := m.WithTransaction(ctx, func(tx docstore.Tx) error {
		_, err := tx.Create(ctx, "root", docstore.Node{Name: "d", Kind: docstore.KindDictionary})
		return err
	})
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	err = m.WithTransaction(ctx, func(tx docstore.Tx) error {
		_, err := tx.Create(ctx, "root", docstore.Node{Name: "d", Kind: docstore.KindDictionary})
		return err
	})
	if !errors.Is(err, docstore.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestMem_EraseThenCreateReplaces(t *testing.T) {
	m := docstore.NewMem()
	ctx := context.Background()

	err := m.WithTransaction(ctx, func(tx docstore.Tx) error {
		_, err := tx.Create(ctx, "dict", docstore.Node{
			Name: "k", Kind: docstore.KindRecord, Encoding: docstore.EncodingText, Payload: "v1",
		})
		return err
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	err = m.WithTransaction(ctx, func(tx docstore.Tx) error {
		if err := tx.Erase(ctx, "dict", "k"); err != nil {
			return err
		}
		_, err := tx.Create(ctx, "dict", docstore.Node{
			Name: "k", Kind: docstore.KindRecord, Encoding: docstore.EncodingText, Payload: "v2",
		})
		return err
	})
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	err = m.WithTransaction(ctx, func(tx docstore.Tx) error {
		n, err := tx.Get(ctx, "dict", "k", docstore.ForRead)
		if err != nil {
			return err
		}
		if n.Payload != "v2" {
			t.Errorf("expected payload 'v2', got %q", n.Payload)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
}

func TestMem_ChildrenSortedWithOverlay(t *testing.T) {
	m := docstore.NewMem()
	ctx := context.Background()

	err := m.WithTransaction(ctx, func(tx docstore.Tx) error {
		for _, name := range []string{"b", "a"} {
			if _, err := tx.Create(ctx, "dict", docstore.Node{Name: name, Kind: docstore.KindDictionary}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	err = m.WithTransaction(ctx, func(tx docstore.Tx) error {
		if _, err := tx.Create(ctx, "dict", docstore.Node{Name: "c", Kind: docstore.KindDictionary}); err != nil {
			return err
		}
		if err := tx.Erase(ctx, "dict", "a"); err != nil {
			return err
		}
		children, err := tx.Children(ctx, "dict")
		if err != nil {
			return err
		}
		want := []string{"b", "c"}
		if len(children) != len(want) {
			t.Fatalf("expected %d children, got %d", len(want), len(children))
		}
		for i, name := range want {
			if children[i].Name != name {
				t.Errorf("child %d: expected %q, got %q", i, name, children[i].Name)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestMem_EraseMissingIsNoError(t *testing.T) {
	m := docstore.NewMem()
	ctx := context.Background()

	err := m.WithTransaction(ctx, func(tx docstore.Tx) error {
		return tx.Erase(ctx, "dict", "missing")
	})
	if err != nil {
		t.Errorf("expected erase of missing node to commit, got %v", err)
	}
}

func TestMem_InvalidNodeRejected(t *testing.T) {
	m := docstore.NewMem()
	ctx := context.Background()

	err := m.WithTransaction(ctx, func(tx docstore.Tx) error {
		_, err := tx.Create(ctx, "dict", docstore.Node{Kind: docstore.KindDictionary})
		return err
	})
	if !errors.Is(err, docstore.ErrInvalidNode) {
		t.Errorf("expected ErrInvalidNode, got %v", err)
	}
}
