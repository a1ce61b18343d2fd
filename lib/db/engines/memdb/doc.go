// Package memdb implements the volatile in-memory backend of the
// db.Database interface. It is the storage engine used by tests and by
// deployments that stand in for a durable engine behind the same
// interface; all data lives in process memory and is lost on exit.
//
// The package focuses on:
//   - A single backing map from composite keys to records, owned by the
//     store value and shared by reference wherever the store handle is
//     passed around - there is no hidden global instance
//   - One coarse reader-writer lock for the whole store: concurrent
//     readers, exclusive writers, one lock acquisition per batch
//   - Copy-in/copy-out value semantics so callers can never corrupt the
//     stored records through retained slices
//
// Concurrency Model:
//
// Every operation is a single short critical section relative to the
// store-wide sync.RWMutex. Read operations (Get, GetBatch, Contains) take
// the shared lock; write operations (Insert, InsertBatch, Remove,
// RemoveBatch) take the exclusive lock. Operations are therefore
// linearizable in lock-acquisition order: a batch is observed either not
// at all or in full, never partially interleaved with another operation.
// Nothing suspends while a lock is held, and the caller-supplied context
// is not consulted - once an operation starts it runs to completion.
//
// Failure Model:
//
// InsertBatch with mismatched key/value counts fails with RetCInvalidData
// before the write lock is taken; the store is left untouched. After
// Close, every operation fails with RetCInternalError - the Go analogue of
// a store whose internal state must be considered suspect. No other
// failure mode exists: missing keys are regular results and removing an
// absent key is a no-op.
package memdb
