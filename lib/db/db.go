package db

import (
	"context"
	"fmt"
)

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

// DatabaseFactory is a function type that creates a new Database instance.
// It is used to abstract the construction of a backend from the code that
// hosts it (servers, tests, benchmarks).
type DatabaseFactory func() Database

// --------------------------------------------------------------------------
// Database Interface
// --------------------------------------------------------------------------

// Database is the generic interface for category-partitioned byte-record
// storage. All keys and values are opaque byte strings; a record is
// addressed by the pair (category, raw key).
//
// Every operation accepts a context.Context. The context is request-scoped
// state of the caller and is treated as opaque: in-process backends do not
// consult it, remote backends may use it for transport plumbing. No
// operation suspends while holding internal locks.
//
// Read operations never fail because a key is absent - absence is reported
// through the found return values. The only errors defined for this
// interface are *Error values with code RetCInvalidData (malformed batch
// input, store unchanged) or RetCInternalError (the instance is unusable
// and should be considered suspect).
type Database interface {

	// --------------------------------------------------------------------------
	// Read Operations
	// --------------------------------------------------------------------------

	// Get returns a copy of the record stored under (c, key).
	// The boolean return value reports whether the record exists.
	Get(ctx context.Context, c DataCategory, key []byte) (value []byte, found bool, err error)

	// GetBatch looks up every key in keys. The returned slices have exactly
	// the same length and order as keys; values[i] is nil and found[i] is
	// false for keys that are absent. Each element is looked up
	// independently - a missing key is not an error. The whole batch is
	// served from one consistent snapshot of the store.
	GetBatch(ctx context.Context, c DataCategory, keys [][]byte) (values [][]byte, found []bool, err error)

	// Contains reports whether a record is stored under (c, key).
	Contains(ctx context.Context, c DataCategory, key []byte) (found bool, err error)

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Insert stores value under (c, key), overwriting any existing record.
	Insert(ctx context.Context, c DataCategory, key, value []byte) (err error)

	// InsertBatch stores values[i] under (c, keys[i]) for every i.
	// Precondition: len(keys) == len(values); a violation fails with
	// RetCInvalidData before anything is written and leaves the store
	// completely unchanged. Entries are applied in input order, so a later
	// duplicate key within the batch overrides an earlier one. The batch is
	// applied atomically with respect to all other operations on the store.
	InsertBatch(ctx context.Context, c DataCategory, keys, values [][]byte) (err error)

	// Remove deletes the record stored under (c, key). Removing an absent
	// key is not an error.
	Remove(ctx context.Context, c DataCategory, key []byte) (err error)

	// RemoveBatch deletes every present key among keys in one atomic step,
	// silently skipping absent ones.
	RemoveBatch(ctx context.Context, c DataCategory, keys [][]byte) (err error)

	// --------------------------------------------------------------------------
	// Lifecycle
	// --------------------------------------------------------------------------

	// Close releases the backend. Operations invoked after Close fail with
	// RetCInternalError.
	Close() (err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is the error type returned by all Database implementations. It
// wraps a stable return code (of type RetCode) and a human-readable
// message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("DatabaseError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new *Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// NewErrorf creates a new *Error with the given code and a formatted message.
func NewErrorf(code RetCode, format string, args ...interface{}) *Error {
	return NewError(code, fmt.Sprintf(format, args...))
}

// CodeOf extracts the RetCode from an error returned by a Database.
// It returns RetCSuccess for nil and RetCInternalError for foreign errors.
func CodeOf(err error) RetCode {
	if err == nil {
		return RetCSuccess
	}
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return RetCInternalError
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Operation executed successfully.
	RetCInternalError                       // 1: Operation failed, the store instance is suspect.
	RetCInvalidData                         // 2: Operation rejected, malformed input, store unchanged.
	RetCUnsupportedOperation                // 3: Operation is not part of the Database contract.
)

// String returns the symbolic name of the return code.
func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCInvalidData:
		return "InvalidData"
	case RetCUnsupportedOperation:
		return "UnsupportedOperation"
	default:
		return "Unknown"
	}
}
