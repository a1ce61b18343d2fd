// Package common provides core data structures and utilities shared across
// the ledgerdb RPC system. It defines fundamental types, configuration
// structures, and protocol elements used by the other rpc packages.
//
// The package focuses on:
//   - Message protocol definition for the seven storage operations
//   - Configuration structures for client and server components
//   - Named slog-based loggers with a shared level configuration
//
// Key Components:
//
//   - Message: Core data structure for all RPC communication. One flexible
//     record type carries both requests and responses; which fields are
//     populated depends on the MessageType. Data categories travel as
//     their ASCII wire prefix, which is the compatibility contract shared
//     with other implementations of the storage interface.
//
//   - MessageType: Enumeration of all supported operations - the seven
//     storage operations plus control messages - with string and JSON
//     codecs.
//
//   - ServerConfig / ClientConfig: Configuration for server and client
//     components, controlling endpoints, hosted stores, socket tuning,
//     timeouts and retry behavior.
//
//   - Logger: Named log/slog loggers with consistent formatting and a
//     process-wide level switch.
package common
