// Package cmd implements the command-line interface for the ledgerdb
// key-value store. It provides a hierarchical command structure with operations
// for running the server and interacting with it as a client.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for storage operations (get, insert, remove, etc.)
//   - serve: Commands for starting and configuring the ledgerdb server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See ledgerdb -help for a list of all commands.
package cmd
