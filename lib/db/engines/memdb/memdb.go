package memdb

import (
	"context"
	"sync"

	"github.com/chainkit/ledgerdb/lib/db"
)

// --------------------------------------------------------------------------
// Core Structure
// --------------------------------------------------------------------------

// memoryDB implements db.Database with a single map guarded by one
// reader-writer lock. The zero value is not usable; construct instances
// with NewMemoryDB.
type memoryDB struct {
	mu      sync.RWMutex
	records map[string][]byte
	closed  bool
}

// NewMemoryDB creates a new, empty in-memory database.
//
// The returned handle owns the backing map; share the handle itself to
// share the store. The store needs no teardown beyond Close, which only
// marks the instance unusable.
func NewMemoryDB() db.Database {
	return &memoryDB{
		records: make(map[string][]byte),
	}
}

// errClosed is returned for every operation on a closed store.
func errClosed() error {
	return db.NewError(db.RetCInternalError, "store is closed")
}

// --------------------------------------------------------------------------
// Read Operations (docu see db.Database)
// --------------------------------------------------------------------------

func (m *memoryDB) Get(_ context.Context, c db.DataCategory, key []byte) ([]byte, bool, error) {
	composite := string(db.EncodeKey(c, key))

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, false, errClosed()
	}

	value, found := m.records[composite]
	if !found {
		return nil, false, nil
	}
	return copyBytes(value), true, nil
}

func (m *memoryDB) GetBatch(_ context.Context, c db.DataCategory, keys [][]byte) ([][]byte, []bool, error) {
	composites := db.EncodeKeys(c, keys)

	// one shared-lock acquisition covers the whole batch
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, nil, errClosed()
	}

	values := make([][]byte, len(composites))
	found := make([]bool, len(composites))
	for i, composite := range composites {
		if value, ok := m.records[string(composite)]; ok {
			values[i] = copyBytes(value)
			found[i] = true
		}
	}
	return values, found, nil
}

func (m *memoryDB) Contains(_ context.Context, c db.DataCategory, key []byte) (bool, error) {
	composite := string(db.EncodeKey(c, key))

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return false, errClosed()
	}

	_, found := m.records[composite]
	return found, nil
}

// --------------------------------------------------------------------------
// Write Operations (docu see db.Database)
// --------------------------------------------------------------------------

func (m *memoryDB) Insert(_ context.Context, c db.DataCategory, key, value []byte) error {
	composite := string(db.EncodeKey(c, key))
	stored := copyBytes(value)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errClosed()
	}

	m.records[composite] = stored
	return nil
}

func (m *memoryDB) InsertBatch(_ context.Context, c db.DataCategory, keys, values [][]byte) error {
	// validated before the write lock is taken, the store stays unchanged
	if len(keys) != len(values) {
		return db.NewErrorf(db.RetCInvalidData,
			"insert batch: %d keys but %d values", len(keys), len(values))
	}

	composites := db.EncodeKeys(c, keys)
	stored := make([][]byte, len(values))
	for i, value := range values {
		stored[i] = copyBytes(value)
	}

	// one exclusive-lock acquisition covers the whole batch; entries are
	// applied in input order so later duplicates win
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errClosed()
	}

	for i, composite := range composites {
		m.records[string(composite)] = stored[i]
	}
	return nil
}

func (m *memoryDB) Remove(_ context.Context, c db.DataCategory, key []byte) error {
	composite := string(db.EncodeKey(c, key))

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errClosed()
	}

	delete(m.records, composite)
	return nil
}

func (m *memoryDB) RemoveBatch(_ context.Context, c db.DataCategory, keys [][]byte) error {
	composites := db.EncodeKeys(c, keys)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errClosed()
	}

	for _, composite := range composites {
		delete(m.records, string(composite))
	}
	return nil
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

// Close marks the store unusable. Closing twice is not an error; the
// backing map is released to the garbage collector.
func (m *memoryDB) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.records = nil
	return nil
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// copyBytes returns a fresh copy of b. nil stays nil-length but is
// normalized to an owned, non-aliased slice.
func copyBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
