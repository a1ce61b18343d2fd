// Package db defines the storage interface consumed by the ledger data
// layer together with the category-based key model shared by all backends.
//
// The package focuses on:
//   - A unified Database interface for category-partitioned byte records
//   - A closed set of data categories with a fixed wire identity
//   - A structured composite-key encoding shared by all backends
//   - A typed error system with stable return codes
//
// Key Components:
//
//   - Database Interface: The core interface every storage backend must
//     satisfy. It provides point operations (Get, Insert, Contains, Remove)
//     and batch operations (GetBatch, InsertBatch, RemoveBatch). Every
//     operation takes a context.Context (opaque to the backends, reserved
//     for request-scoped plumbing of the caller) and a DataCategory that
//     selects the logical namespace the raw key lives in.
//
//   - DataCategory: A closed enumeration of the record families a ledger
//     node stores: blocks, transactions, receipts, state entries, the
//     transaction pool and transaction positions. Each category carries a
//     fixed ASCII prefix that is part of the compatibility contract with
//     other implementations of this interface - see the table in
//     category.go. The prefix identifies the category on the wire; it is
//     deliberately NOT used to build map keys (see below).
//
//   - Composite Keys: EncodeKey combines a category and a raw key into the
//     composite key a backend stores records under. The encoding is a fixed
//     width category tag byte followed by the raw key bytes. Because every
//     tag has the same width, two distinct (category, raw key) pairs can
//     never encode to the same composite key. Naive prefix concatenation
//     does not have this property: "transaction-" + "pool-x" and
//     "transaction-pool-" + "x" collide.
//
//   - Error System: All failures are reported as *db.Error values carrying
//     a RetCode. Backends only ever fail with RetCInvalidData (malformed
//     batch input, nothing written) or RetCInternalError (the store is no
//     longer usable); missing keys are regular, non-error results.
//
// Implementations:
//
// The engines/memdb package (github.com/chainkit/ledgerdb/lib/db/engines/memdb)
// provides the volatile in-memory implementation used as a test stand-in
// for a durable engine. The rpc/client package provides a Database backed
// by a remote ledgerdb server.
//
// The testing package (github.com/chainkit/ledgerdb/lib/db/testing) provides
// a conformance suite and benchmarks for Database implementations:
//   - RunDatabaseTests: validates the interface contract
//   - RunDatabaseBenchmarks: measures throughput of common operations
package db
