package db

import (
	"bytes"
	"testing"
)

// The prefix table is a compatibility contract and must match byte for byte.
func TestCategoryPrefixTable(t *testing.T) {
	expected := map[DataCategory]string{
		CategoryBlock:               "block-",
		CategoryTransaction:         "transaction-",
		CategoryReceipt:             "receipt-",
		CategoryState:               "state-",
		CategoryTransactionPool:     "transaction-pool-",
		CategoryTransactionPosition: "transaction-position-",
	}

	if len(expected) != len(Categories()) {
		t.Fatalf("expected %d categories, got %d", len(expected), len(Categories()))
	}

	for c, prefix := range expected {
		if c.Prefix() != prefix {
			t.Errorf("prefix mismatch for %s: expected %q, got %q", c, prefix, c.Prefix())
		}
	}
}

func TestCategoryByPrefix(t *testing.T) {
	for _, c := range Categories() {
		resolved, ok := CategoryByPrefix(c.Prefix())
		if !ok {
			t.Errorf("prefix %q did not resolve", c.Prefix())
			continue
		}
		if resolved != c {
			t.Errorf("prefix %q resolved to %s, expected %s", c.Prefix(), resolved, c)
		}
	}

	if _, ok := CategoryByPrefix("transaction"); ok {
		t.Errorf("incomplete prefix must not resolve")
	}
	if _, ok := CategoryByPrefix(""); ok {
		t.Errorf("empty prefix must not resolve")
	}
}

func TestCategoryByName(t *testing.T) {
	for _, c := range Categories() {
		resolved, ok := CategoryByName(c.String())
		if !ok || resolved != c {
			t.Errorf("name %q resolved to (%v, %v), expected %s", c.String(), resolved, ok, c)
		}
	}
}

func TestEncodeKeyDeterministic(t *testing.T) {
	key := []byte("some-raw-key")

	a := EncodeKey(CategoryBlock, key)
	b := EncodeKey(CategoryBlock, key)

	if !bytes.Equal(a, b) {
		t.Errorf("EncodeKey is not deterministic: %x vs %x", a, b)
	}

	// the composite must not alias the raw key
	a[1] = 'X'
	if key[0] == 'X' {
		t.Errorf("EncodeKey must copy the raw key bytes")
	}
}

// Two distinct (category, raw key) pairs must never encode to the same
// composite key, in particular not for the overlapping ASCII prefixes of
// the transaction family.
func TestEncodeKeyCollisionFree(t *testing.T) {
	// a Transaction key starting with "pool-" historically collided with a
	// TransactionPool key holding the remainder
	a := EncodeKey(CategoryTransaction, []byte("pool-x"))
	b := EncodeKey(CategoryTransactionPool, []byte("x"))
	if bytes.Equal(a, b) {
		t.Fatalf("transaction/transaction-pool keys collide: %x", a)
	}

	// same raw key under every pair of distinct categories
	raw := []byte("x")
	for _, c1 := range Categories() {
		for _, c2 := range Categories() {
			if c1 == c2 {
				continue
			}
			if bytes.Equal(EncodeKey(c1, raw), EncodeKey(c2, raw)) {
				t.Errorf("categories %s and %s share a composite key", c1, c2)
			}
		}
	}
}

func TestEncodeKeysOrderAndLength(t *testing.T) {
	keys := [][]byte{[]byte("k1"), []byte("k2"), []byte("k1"), nil}

	composites := EncodeKeys(CategoryReceipt, keys)

	if len(composites) != len(keys) {
		t.Fatalf("expected %d composites, got %d", len(keys), len(composites))
	}
	for i, key := range keys {
		if !bytes.Equal(composites[i], EncodeKey(CategoryReceipt, key)) {
			t.Errorf("composite %d out of order", i)
		}
	}
}
