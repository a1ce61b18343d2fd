package server

import (
	"bytes"
	"testing"
	"time"

	"github.com/chainkit/ledgerdb/lib/db"
	"github.com/chainkit/ledgerdb/lib/db/engines/memdb"
	"github.com/chainkit/ledgerdb/rpc/common"
)

// newTestAdapter returns an adapter and a fresh in-memory database
func newTestAdapter(t *testing.T) (IRPCServerAdapter, db.Database) {
	t.Helper()
	database := memdb.NewMemoryDB()
	t.Cleanup(func() { _ = database.Close() })
	return NewDatabaseServerAdapter(5 * time.Second), database
}

func TestAdapterPointOperations(t *testing.T) {
	adapter, database := newTestAdapter(t)

	// Insert
	resp := adapter.Handle(common.NewInsertRequest(db.CategoryBlock, []byte("k"), []byte("v")), database)
	if resp.Err != "" {
		t.Fatalf("insert failed: %s", resp.Err)
	}

	// Contains
	resp = adapter.Handle(common.NewContainsRequest(db.CategoryBlock, []byte("k")), database)
	if resp.Err != "" || !resp.Found {
		t.Fatalf("expected key to be found, got err=%q found=%v", resp.Err, resp.Found)
	}

	// Get
	resp = adapter.Handle(common.NewGetRequest(db.CategoryBlock, []byte("k")), database)
	if resp.Err != "" || !resp.Found || !bytes.Equal(resp.Value, []byte("v")) {
		t.Fatalf("unexpected get response: %+v", resp)
	}

	// Same key in a different category must not be visible
	resp = adapter.Handle(common.NewGetRequest(db.CategoryReceipt, []byte("k")), database)
	if resp.Err != "" || resp.Found {
		t.Fatalf("key must not leak across categories: %+v", resp)
	}

	// Remove
	resp = adapter.Handle(common.NewRemoveRequest(db.CategoryBlock, []byte("k")), database)
	if resp.Err != "" {
		t.Fatalf("remove failed: %s", resp.Err)
	}
	resp = adapter.Handle(common.NewContainsRequest(db.CategoryBlock, []byte("k")), database)
	if resp.Found {
		t.Fatal("key still present after remove")
	}
}

func TestAdapterBatchOperations(t *testing.T) {
	adapter, database := newTestAdapter(t)

	keys := [][]byte{[]byte("a"), []byte("b"), []byte("c")}
	values := [][]byte{[]byte("1"), []byte("2"), []byte("3")}

	// InsertBatch
	resp := adapter.Handle(common.NewInsertBatchRequest(db.CategoryTransaction, keys, values), database)
	if resp.Err != "" {
		t.Fatalf("insert batch failed: %s", resp.Err)
	}

	// GetBatch with one missing key
	resp = adapter.Handle(common.NewGetBatchRequest(db.CategoryTransaction,
		[][]byte{[]byte("a"), []byte("missing"), []byte("c")}), database)
	if resp.Err != "" {
		t.Fatalf("get batch failed: %s", resp.Err)
	}
	wantFound := []bool{true, false, true}
	if len(resp.FoundMany) != len(wantFound) {
		t.Fatalf("expected %d found flags, got %d", len(wantFound), len(resp.FoundMany))
	}
	for i, want := range wantFound {
		if resp.FoundMany[i] != want {
			t.Errorf("found[%d]: expected %v, got %v", i, want, resp.FoundMany[i])
		}
	}
	if !bytes.Equal(resp.Values[0], []byte("1")) || !bytes.Equal(resp.Values[2], []byte("3")) {
		t.Errorf("unexpected batch values: %v", resp.Values)
	}

	// RemoveBatch
	resp = adapter.Handle(common.NewRemoveBatchRequest(db.CategoryTransaction, keys), database)
	if resp.Err != "" {
		t.Fatalf("remove batch failed: %s", resp.Err)
	}
	resp = adapter.Handle(common.NewContainsRequest(db.CategoryTransaction, []byte("a")), database)
	if resp.Found {
		t.Fatal("key still present after batch remove")
	}
}

func TestAdapterBatchMismatch(t *testing.T) {
	adapter, database := newTestAdapter(t)

	// Key and value counts differ, the store must reject and stay unchanged
	resp := adapter.Handle(common.NewInsertBatchRequest(db.CategoryState,
		[][]byte{[]byte("a"), []byte("b")}, [][]byte{[]byte("1")}), database)
	if resp.Err == "" {
		t.Fatal("expected error for mismatched batch")
	}
	if resp.ErrCode != db.RetCInvalidData {
		t.Errorf("expected RetCInvalidData on the wire, got %s", resp.ErrCode)
	}

	resp = adapter.Handle(common.NewContainsRequest(db.CategoryState, []byte("a")), database)
	if resp.Found {
		t.Fatal("store must be unchanged after rejected batch")
	}
}

func TestAdapterErrors(t *testing.T) {
	adapter, database := newTestAdapter(t)

	// Nil database
	resp := adapter.Handle(common.NewGetRequest(db.CategoryBlock, []byte("k")), nil)
	if resp.MsgType != common.MsgTError || resp.Err == "" {
		t.Fatalf("expected error response for nil database, got %+v", resp)
	}
	if resp.ErrCode != db.RetCInternalError {
		t.Errorf("expected RetCInternalError, got %s", resp.ErrCode)
	}

	// Unknown category prefix
	resp = adapter.Handle(&common.Message{
		MsgType:  common.MsgTGet,
		Category: "transaction", // incomplete prefix, must not resolve
		Key:      []byte("k"),
	}, database)
	if resp.MsgType != common.MsgTError || resp.Err == "" {
		t.Fatalf("expected error response for unknown category, got %+v", resp)
	}
	if resp.ErrCode != db.RetCInvalidData {
		t.Errorf("expected RetCInvalidData, got %s", resp.ErrCode)
	}

	// Unsupported message type
	resp = adapter.Handle(&common.Message{
		MsgType:  common.MsgTSuccess,
		Category: db.CategoryBlock.Prefix(),
	}, database)
	if resp.MsgType != common.MsgTError || resp.Err == "" {
		t.Fatalf("expected error response for unsupported message type, got %+v", resp)
	}
	if resp.ErrCode != db.RetCUnsupportedOperation {
		t.Errorf("expected RetCUnsupportedOperation, got %s", resp.ErrCode)
	}
}
