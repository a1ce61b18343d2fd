// Package server implements the RPC server for the ledger store. It provides
// an adapter for handling RPC requests against the storage database, along with
// the core server implementation that manages hosted stores and request routing.
//
// The package focuses on:
//   - Server-side RPC request handling for all storage operations
//   - Adapter pattern to decouple application logic from RPC mechanisms
//   - Hosting multiple independent stores within a single server
//   - Request metrics in Prometheus text format
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for all server adapters,
//     with the Handle method that processes incoming requests against a db.Database.
//
//   - NewDatabaseServerAdapter: Factory function creating an adapter for the
//     storage operations, translating RPC requests to db.Database method calls.
//
//   - NewRPCServer: Factory function creating a configured server with the specified
//     transport and serializer mechanisms.
//
// Usage Example:
//
//	// Create server configuration
//	config := common.ServerConfig{
//	  Stores: []common.StoreShard{
//	    {ShardID: 100, Engine: common.EngineMemory},
//	  },
//	  Endpoint: "0.0.0.0:8080",
//	  TimeoutSecond: 5,
//	  LogLevel: "info",
//	}
//
//	// Create and start the server
//	s := server.NewRPCServer(
//	  config,
//	  tcp.NewTCPDefaultServerTransport(),
//	  serializer.NewBinarySerializer(),
//	)
//
//	// Start the server
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// Each hosted store is an independent in-memory database with its own category
// namespaces and its own lock. Clients address a store by its ID, which is part
// of every transport frame.
//
// Metrics:
//
//	When MetricsEndpoint is set, the server exposes request counters and
//	latency summaries per store and operation under /metrics.
//
// Thread Safety:
//
//	The server implementation is thread-safe and can handle concurrent requests
//	across multiple connections. Each request is processed independently.
//	The Listen method is not thread-safe and should be called only once.
package server
