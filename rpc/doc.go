// Package rpc provides the remote procedure call framework that exposes a
// db.Database over a network boundary. It acts as the communication layer
// between ledger nodes and a storage server process.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the RPC system,
//     including the Message protocol, configuration structures, and logging.
//
//   - transport: Network communication abstractions with pluggable
//     implementations (TCP, Unix sockets, HTTP).
//
//   - serializer: Message serialization with multiple format options
//     (Binary, JSON, GOB) for converting between Message objects and byte
//     arrays.
//
//   - client: An RPC-backed implementation of the db.Database interface,
//     allowing applications to use a remote store transparently.
//
//   - server: RPC server components that handle incoming requests, including
//     the adapter that dispatches storage operations to hosted stores.
package rpc
