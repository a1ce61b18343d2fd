package memdb

import (
	"bytes"
	"context"
	"testing"

	"github.com/chainkit/ledgerdb/lib/db"
	dbtesting "github.com/chainkit/ledgerdb/lib/db/testing"
)

func Test(t *testing.T) {
	dbtesting.RunDatabaseTests(t, "MemoryDB", func() db.Database {
		return NewMemoryDB()
	})
}

func Benchmark(b *testing.B) {
	dbtesting.RunDatabaseBenchmarks(b, "MemoryDB", func() db.Database {
		return NewMemoryDB()
	})
}

// TestScenarios exercises the canonical usage scenarios of the storage
// interface one by one against a fresh store each.
func TestScenarios(t *testing.T) {
	ctx := context.Background()

	t.Run("InsertThenGet", func(t *testing.T) {
		database := NewMemoryDB()
		defer database.Close()

		if err := database.Insert(ctx, db.CategoryBlock, []byte("test"), []byte("test")); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		value, found, err := database.Get(ctx, db.CategoryBlock, []byte("test"))
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !found || !bytes.Equal(value, []byte("test")) {
			t.Errorf("expected (test, true), got (%q, %v)", value, found)
		}
	})

	t.Run("InsertBatchThenGet", func(t *testing.T) {
		database := NewMemoryDB()
		defer database.Close()

		err := database.InsertBatch(ctx, db.CategoryBlock,
			[][]byte{[]byte("t1"), []byte("t2")},
			[][]byte{[]byte("v1"), []byte("v2")})
		if err != nil {
			t.Fatalf("InsertBatch failed: %v", err)
		}

		value, found, _ := database.Get(ctx, db.CategoryBlock, []byte("t1"))
		if !found || !bytes.Equal(value, []byte("v1")) {
			t.Errorf("expected (v1, true), got (%q, %v)", value, found)
		}
		value, found, _ = database.Get(ctx, db.CategoryBlock, []byte("t2"))
		if !found || !bytes.Equal(value, []byte("v2")) {
			t.Errorf("expected (v2, true), got (%q, %v)", value, found)
		}
	})

	t.Run("ContainsOnEmptyStore", func(t *testing.T) {
		database := NewMemoryDB()
		defer database.Close()

		found, err := database.Contains(ctx, db.CategoryBlock, []byte("missing"))
		if err != nil {
			t.Fatalf("Contains failed: %v", err)
		}
		if found {
			t.Errorf("expected false on an empty store")
		}
	})

	t.Run("RemoveAfterInsert", func(t *testing.T) {
		database := NewMemoryDB()
		defer database.Close()

		if err := database.Insert(ctx, db.CategoryBlock, []byte("test"), []byte("test")); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		if err := database.Remove(ctx, db.CategoryBlock, []byte("test")); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		_, found, err := database.Get(ctx, db.CategoryBlock, []byte("test"))
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if found {
			t.Errorf("expected key to be gone after Remove")
		}
	})

	t.Run("InsertBatchMismatchLeavesStoreUnchanged", func(t *testing.T) {
		database := NewMemoryDB()
		defer database.Close()

		err := database.InsertBatch(ctx, db.CategoryBlock,
			[][]byte{[]byte("a")},
			[][]byte{[]byte("v1"), []byte("v2")})
		if err == nil {
			t.Fatalf("expected mismatched batch to fail")
		}
		if code := db.CodeOf(err); code != db.RetCInvalidData {
			t.Errorf("expected RetCInvalidData, got %s", code)
		}
		_, found, _ := database.Get(ctx, db.CategoryBlock, []byte("a"))
		if found {
			t.Errorf("expected store to be unchanged after rejected batch")
		}
	})
}

// Records stored under distinct categories with the same raw key must not
// collide, regardless of how the wire prefixes relate to each other.
func TestCrossCategoryIndependence(t *testing.T) {
	ctx := context.Background()
	database := NewMemoryDB()
	defer database.Close()

	if err := database.Insert(ctx, db.CategoryBlock, []byte("x"), []byte("a")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := database.Insert(ctx, db.CategoryReceipt, []byte("x"), []byte("b")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	value, _, _ := database.Get(ctx, db.CategoryBlock, []byte("x"))
	if !bytes.Equal(value, []byte("a")) {
		t.Errorf("block record overwritten: %q", value)
	}
	value, _, _ = database.Get(ctx, db.CategoryReceipt, []byte("x"))
	if !bytes.Equal(value, []byte("b")) {
		t.Errorf("receipt record overwritten: %q", value)
	}
}
