// Package testing provides standardised tests and benchmarks for storage
// backends that satisfy the db.Database interface.
//
// The package contains:
//   - testing: A conformance suite validating the Database contract,
//     including batch ordering, category isolation and error semantics
//   - benchmark: Performance tests for measuring throughput of common
//     storage operations
//
// This package is particularly useful for:
//   - Backend developers implementing the Database interface
//   - Applications choosing between backends based on performance
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func() db.Database {
//		return NewMyDatabase()
//	}
//
//	// Running the standard conformance suite
//	dbtesting.RunDatabaseTests(t, "MyDatabase", factory)
//
//	// Running performance benchmarks
//	dbtesting.RunDatabaseBenchmarks(b, "MyDatabase", factory)
package testing
