package testing

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/chainkit/ledgerdb/lib/db"
)

// RunDatabaseTests runs the conformance suite for a db.Database
// implementation. Each subtest receives a fresh instance from the factory.
func RunDatabaseTests(t *testing.T, name string, factory db.DatabaseFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Get&Insert", func(t *testing.T) {
			testGetInsert(t, factory())
		})

		t.Run("Contains", func(t *testing.T) {
			testContains(t, factory())
		})

		t.Run("Remove", func(t *testing.T) {
			testRemove(t, factory())
		})

		t.Run("InsertBatch", func(t *testing.T) {
			testInsertBatch(t, factory())
		})

		t.Run("InsertBatchMismatch", func(t *testing.T) {
			testInsertBatchMismatch(t, factory())
		})

		t.Run("GetBatch", func(t *testing.T) {
			testGetBatch(t, factory())
		})

		t.Run("RemoveBatch", func(t *testing.T) {
			testRemoveBatch(t, factory())
		})

		t.Run("CategoryIsolation", func(t *testing.T) {
			testCategoryIsolation(t, factory())
		})

		t.Run("ValueCopySemantics", func(t *testing.T) {
			testValueCopySemantics(t, factory())
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory())
		})

		t.Run("Close", func(t *testing.T) {
			testClose(t, factory())
		})

		t.Run("ConcurrentUsage", func(t *testing.T) {
			testConcurrentUsage(t, factory())
		})

		t.Run("BatchAtomicity", func(t *testing.T) {
			testBatchAtomicity(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testGetInsert(t *testing.T, database db.Database) {
	defer database.Close()
	ctx := context.Background()

	// unwritten keys read back empty in every category
	for _, c := range db.Categories() {
		value, found, err := database.Get(ctx, c, []byte("missing"))
		if err != nil {
			t.Fatalf("Get on empty store failed: %v", err)
		}
		if found || value != nil {
			t.Errorf("expected empty result for unwritten key in %s", c)
		}
	}

	key := []byte("test")
	value1 := []byte("test")
	value2 := []byte("changed")

	if err := database.Insert(ctx, db.CategoryBlock, key, value1); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, found, err := database.Get(ctx, db.CategoryBlock, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatalf("expected key to exist after Insert")
	}
	if !bytes.Equal(got, value1) {
		t.Errorf("expected value %q, got %q", value1, got)
	}

	// overwrite
	if err := database.Insert(ctx, db.CategoryBlock, key, value2); err != nil {
		t.Fatalf("Insert (overwrite) failed: %v", err)
	}
	got, found, _ = database.Get(ctx, db.CategoryBlock, key)
	if !found || !bytes.Equal(got, value2) {
		t.Errorf("expected overwritten value %q, got %q (found=%v)", value2, got, found)
	}
}

func testContains(t *testing.T, database db.Database) {
	defer database.Close()
	ctx := context.Background()

	found, err := database.Contains(ctx, db.CategoryBlock, []byte("missing"))
	if err != nil {
		t.Fatalf("Contains failed: %v", err)
	}
	if found {
		t.Errorf("Contains must be false on an empty store")
	}

	if err := database.Insert(ctx, db.CategoryBlock, []byte("present"), []byte("v")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	found, err = database.Contains(ctx, db.CategoryBlock, []byte("present"))
	if err != nil {
		t.Fatalf("Contains failed: %v", err)
	}
	if !found {
		t.Errorf("Contains must be true after Insert")
	}
}

func testRemove(t *testing.T, database db.Database) {
	defer database.Close()
	ctx := context.Background()

	key := []byte("test")

	if err := database.Insert(ctx, db.CategoryBlock, key, []byte("v")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := database.Remove(ctx, db.CategoryBlock, key); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	_, found, err := database.Get(ctx, db.CategoryBlock, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Errorf("expected key to be gone after Remove")
	}

	found, _ = database.Contains(ctx, db.CategoryBlock, key)
	if found {
		t.Errorf("Contains must be false after Remove")
	}

	// removing an absent key is idempotent
	if err := database.Remove(ctx, db.CategoryBlock, []byte("never-existed")); err != nil {
		t.Errorf("Remove of an absent key must not fail: %v", err)
	}
}

func testInsertBatch(t *testing.T, database db.Database) {
	defer database.Close()
	ctx := context.Background()

	keys := [][]byte{[]byte("t1"), []byte("t2")}
	values := [][]byte{[]byte("v1"), []byte("v2")}

	if err := database.InsertBatch(ctx, db.CategoryBlock, keys, values); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	for i := range keys {
		got, found, err := database.Get(ctx, db.CategoryBlock, keys[i])
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !found || !bytes.Equal(got, values[i]) {
			t.Errorf("expected %q under %q, got %q (found=%v)", values[i], keys[i], got, found)
		}
	}

	// later duplicates within one batch override earlier entries
	dupKeys := [][]byte{[]byte("dup"), []byte("dup")}
	dupValues := [][]byte{[]byte("first"), []byte("second")}
	if err := database.InsertBatch(ctx, db.CategoryBlock, dupKeys, dupValues); err != nil {
		t.Fatalf("InsertBatch with duplicates failed: %v", err)
	}
	got, _, _ := database.Get(ctx, db.CategoryBlock, []byte("dup"))
	if !bytes.Equal(got, []byte("second")) {
		t.Errorf("expected later duplicate to win, got %q", got)
	}

	// empty batch is a no-op
	if err := database.InsertBatch(ctx, db.CategoryBlock, nil, nil); err != nil {
		t.Errorf("empty InsertBatch must not fail: %v", err)
	}
}

func testInsertBatchMismatch(t *testing.T, database db.Database) {
	defer database.Close()
	ctx := context.Background()

	keys := [][]byte{[]byte("a")}
	values := [][]byte{[]byte("v1"), []byte("v2")}

	err := database.InsertBatch(ctx, db.CategoryBlock, keys, values)
	if err == nil {
		t.Fatalf("expected InsertBatch with mismatched lengths to fail")
	}
	if code := db.CodeOf(err); code != db.RetCInvalidData {
		t.Errorf("expected RetCInvalidData, got %s", code)
	}

	// the store must be completely unchanged
	for _, key := range keys {
		_, found, err := database.Get(ctx, db.CategoryBlock, key)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if found {
			t.Errorf("key %q written despite rejected batch", key)
		}
	}
}

func testGetBatch(t *testing.T, database db.Database) {
	defer database.Close()
	ctx := context.Background()

	if err := database.Insert(ctx, db.CategoryBlock, []byte("k1"), []byte("v1")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// order and independence: k1 exists, k2 does not
	values, found, err := database.GetBatch(ctx, db.CategoryBlock, [][]byte{[]byte("k1"), []byte("k2")})
	if err != nil {
		t.Fatalf("GetBatch failed: %v", err)
	}
	if len(values) != 2 || len(found) != 2 {
		t.Fatalf("expected result length 2, got %d/%d", len(values), len(found))
	}
	if !found[0] || !bytes.Equal(values[0], []byte("v1")) {
		t.Errorf("expected (v1, true) at position 0, got (%q, %v)", values[0], found[0])
	}
	if found[1] || values[1] != nil {
		t.Errorf("expected (nil, false) at position 1, got (%q, %v)", values[1], found[1])
	}

	// duplicate keys in the request are looked up independently
	values, found, err = database.GetBatch(ctx, db.CategoryBlock, [][]byte{[]byte("k1"), []byte("k1")})
	if err != nil {
		t.Fatalf("GetBatch failed: %v", err)
	}
	if !found[0] || !found[1] || !bytes.Equal(values[0], values[1]) {
		t.Errorf("duplicate keys must resolve identically")
	}

	// empty batch
	values, found, err = database.GetBatch(ctx, db.CategoryBlock, nil)
	if err != nil {
		t.Fatalf("empty GetBatch failed: %v", err)
	}
	if len(values) != 0 || len(found) != 0 {
		t.Errorf("empty GetBatch must return empty results")
	}
}

func testRemoveBatch(t *testing.T, database db.Database) {
	defer database.Close()
	ctx := context.Background()

	if err := database.InsertBatch(ctx, db.CategoryBlock,
		[][]byte{[]byte("t1"), []byte("t2")},
		[][]byte{[]byte("v1"), []byte("v2")},
	); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	// mix of present and absent keys, no error either way
	err := database.RemoveBatch(ctx, db.CategoryBlock,
		[][]byte{[]byte("t1"), []byte("absent"), []byte("t2")})
	if err != nil {
		t.Fatalf("RemoveBatch failed: %v", err)
	}

	for _, key := range [][]byte{[]byte("t1"), []byte("t2")} {
		_, found, _ := database.Get(ctx, db.CategoryBlock, key)
		if found {
			t.Errorf("key %q still present after RemoveBatch", key)
		}
	}
}

func testCategoryIsolation(t *testing.T, database db.Database) {
	defer database.Close()
	ctx := context.Background()

	// identical raw key under every category must store independent records
	raw := []byte("x")
	for i, c := range db.Categories() {
		value := []byte(fmt.Sprintf("value-%d", i))
		if err := database.Insert(ctx, c, raw, value); err != nil {
			t.Fatalf("Insert in %s failed: %v", c, err)
		}
	}
	for i, c := range db.Categories() {
		got, found, err := database.Get(ctx, c, raw)
		if err != nil {
			t.Fatalf("Get in %s failed: %v", c, err)
		}
		expected := []byte(fmt.Sprintf("value-%d", i))
		if !found || !bytes.Equal(got, expected) {
			t.Errorf("category %s: expected %q, got %q (found=%v)", c, expected, got, found)
		}
	}

	// the historic prefix-overlap defect: a Transaction key starting with
	// "pool-" must not shadow a TransactionPool key
	if err := database.Insert(ctx, db.CategoryTransaction, []byte("pool-x"), []byte("tx")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := database.Insert(ctx, db.CategoryTransactionPool, []byte("x"), []byte("pool")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	got, _, _ := database.Get(ctx, db.CategoryTransaction, []byte("pool-x"))
	if !bytes.Equal(got, []byte("tx")) {
		t.Errorf("transaction record clobbered by transaction-pool record: %q", got)
	}
	got, _, _ = database.Get(ctx, db.CategoryTransactionPool, []byte("x"))
	if !bytes.Equal(got, []byte("pool")) {
		t.Errorf("transaction-pool record clobbered by transaction record: %q", got)
	}

	// removal in one category must not leak into another
	if err := database.Remove(ctx, db.CategoryBlock, raw); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	found, _ := database.Contains(ctx, db.CategoryReceipt, raw)
	if !found {
		t.Errorf("Remove in block category deleted the receipt record")
	}
}

func testValueCopySemantics(t *testing.T, database db.Database) {
	defer database.Close()
	ctx := context.Background()

	key := []byte("copy-key")
	value := []byte("copy-value")

	if err := database.Insert(ctx, db.CategoryState, key, value); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// mutating the inserted slice must not affect the stored record
	value[0] = 'X'
	got, _, _ := database.Get(ctx, db.CategoryState, key)
	if !bytes.Equal(got, []byte("copy-value")) {
		t.Errorf("stored record aliases the inserted slice: %q", got)
	}

	// mutating a returned slice must not affect the stored record
	got[0] = 'Y'
	again, _, _ := database.Get(ctx, db.CategoryState, key)
	if !bytes.Equal(again, []byte("copy-value")) {
		t.Errorf("Get returns a reference to the stored record: %q", again)
	}
}

func testEdgeCases(t *testing.T, database db.Database) {
	defer database.Close()
	ctx := context.Background()

	// empty raw key
	if err := database.Insert(ctx, db.CategoryBlock, []byte{}, []byte("empty-key")); err != nil {
		t.Fatalf("Insert with empty key failed: %v", err)
	}
	got, found, _ := database.Get(ctx, db.CategoryBlock, []byte{})
	if !found || !bytes.Equal(got, []byte("empty-key")) {
		t.Errorf("empty key round trip failed: %q (found=%v)", got, found)
	}

	// empty and nil values are stored and found
	if err := database.Insert(ctx, db.CategoryBlock, []byte("empty-value"), []byte{}); err != nil {
		t.Fatalf("Insert with empty value failed: %v", err)
	}
	got, found, _ = database.Get(ctx, db.CategoryBlock, []byte("empty-value"))
	if !found || len(got) != 0 {
		t.Errorf("empty value round trip failed: %q (found=%v)", got, found)
	}

	if err := database.Insert(ctx, db.CategoryBlock, []byte("nil-value"), nil); err != nil {
		t.Fatalf("Insert with nil value failed: %v", err)
	}
	_, found, _ = database.Get(ctx, db.CategoryBlock, []byte("nil-value"))
	if !found {
		t.Errorf("nil value must still mark the key as present")
	}

	// binary keys and values pass through unmodified
	binKey := []byte{0x00, 0xff, 0x10, 0x00}
	binValue := []byte{0xde, 0xad, 0xbe, 0xef, 0x00}
	if err := database.Insert(ctx, db.CategoryState, binKey, binValue); err != nil {
		t.Fatalf("Insert with binary key failed: %v", err)
	}
	got, found, _ = database.Get(ctx, db.CategoryState, binKey)
	if !found || !bytes.Equal(got, binValue) {
		t.Errorf("binary round trip failed: %x (found=%v)", got, found)
	}
}

func testClose(t *testing.T, database db.Database) {
	ctx := context.Background()

	if err := database.Insert(ctx, db.CategoryBlock, []byte("k"), []byte("v")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := database.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// every operation on a closed store fails with an internal error
	_, _, err := database.Get(ctx, db.CategoryBlock, []byte("k"))
	if code := db.CodeOf(err); err == nil || code != db.RetCInternalError {
		t.Errorf("expected RetCInternalError after Close, got %v", err)
	}
	err = database.Insert(ctx, db.CategoryBlock, []byte("k"), []byte("v"))
	if code := db.CodeOf(err); err == nil || code != db.RetCInternalError {
		t.Errorf("expected RetCInternalError after Close, got %v", err)
	}
}

func testBatchAtomicity(t *testing.T, database db.Database) {
	defer database.Close()
	ctx := context.Background()

	const readIterations = 50_000

	keys := [][]byte{[]byte("atomic-1"), []byte("atomic-2")}
	generation := func(gen int) [][]byte {
		value := []byte(fmt.Sprintf("gen-%d", gen))
		return [][]byte{value, value}
	}

	// seed so both keys exist before the reader starts
	if err := database.InsertBatch(ctx, db.CategoryState, keys, generation(0)); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	// a writer replaces both records in one batch per iteration, always with
	// matching values, until the reader is done
	stop := make(chan struct{})
	var writerErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for gen := 1; ; gen++ {
			select {
			case <-stop:
				return
			default:
			}
			if err := database.InsertBatch(ctx, db.CategoryState, keys, generation(gen)); err != nil {
				writerErr = err
				return
			}
		}
	}()

	// a reader must never observe the two keys at different generations, a
	// mismatch means the batch write was visible half-applied
	for i := 0; i < readIterations; i++ {
		values, found, err := database.GetBatch(ctx, db.CategoryState, keys)
		if err != nil {
			t.Fatalf("GetBatch failed: %v", err)
		}
		if !found[0] || !found[1] {
			t.Fatalf("seeded keys missing at iteration %d: %v", i, found)
		}
		if !bytes.Equal(values[0], values[1]) {
			t.Fatalf("torn batch read at iteration %d: %q vs %q", i, values[0], values[1])
		}
	}

	close(stop)
	wg.Wait()
	if writerErr != nil {
		t.Fatalf("concurrent InsertBatch failed: %v", writerErr)
	}
}

func testConcurrentUsage(t *testing.T, database db.Database) {
	defer database.Close()
	ctx := context.Background()

	const (
		numWorkers       = 8
		opsPerWorker     = 2_000
		keysPerCategory  = 64
		batchEveryNthOp  = 10
		removeEveryNthOp = 7
	)

	categories := db.Categories()

	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for w := 0; w < numWorkers; w++ {
		go func(workerID int) {
			defer wg.Done()

			for i := 0; i < opsPerWorker; i++ {
				c := categories[(workerID+i)%len(categories)]
				key := []byte(fmt.Sprintf("key-%d", i%keysPerCategory))
				value := []byte(fmt.Sprintf("value-%d-%d", workerID, i))

				switch {
				case i%batchEveryNthOp == 0:
					keys := [][]byte{key, []byte(fmt.Sprintf("key-%d", (i+1)%keysPerCategory))}
					values := [][]byte{value, value}
					if err := database.InsertBatch(ctx, c, keys, values); err != nil {
						t.Errorf("InsertBatch failed: %v", err)
						return
					}
				case i%removeEveryNthOp == 0:
					if err := database.Remove(ctx, c, key); err != nil {
						t.Errorf("Remove failed: %v", err)
						return
					}
				default:
					if err := database.Insert(ctx, c, key, value); err != nil {
						t.Errorf("Insert failed: %v", err)
						return
					}
					if _, _, err := database.Get(ctx, c, key); err != nil {
						t.Errorf("Get failed: %v", err)
						return
					}
				}
			}
		}(w)
	}

	wg.Wait()

	// the store must still be fully readable afterwards
	for _, c := range categories {
		for i := 0; i < keysPerCategory; i++ {
			key := []byte(fmt.Sprintf("key-%d", i))
			if _, _, err := database.Get(ctx, c, key); err != nil {
				t.Fatalf("Get after concurrent usage failed: %v", err)
			}
		}
	}
}
