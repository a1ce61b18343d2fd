// Package client implements the RPC client for the ledger store. It provides
// an implementation of the db.Database interface that communicates with remote
// servers via RPC.
//
// The package focuses on:
//   - Transparent RPC access to a remotely hosted store
//   - Integration with the transport and serialization layers
//   - Error handling and conversion between RPC and domain errors
//
// Key Components:
//
//   - NewRPCDatabase: Factory function that creates a client implementing the
//     db.Database interface. This client forwards all operations to remote
//     servers via the configured transport layer.
//
// Usage Example:
//
//	// Configure the client
//	config := common.ClientConfig{
//	  Endpoints:              []string{"localhost:5000"},
//	  TimeoutSecond:          5,
//	  RetryCount:             3,
//	  ConnectionsPerEndpoint: 1,
//	}
//
//	// Create a serializer
//	serializer := serializer.NewBinarySerializer()
//
//	// Create database client
//	database, _ := client.NewRPCDatabase(1, config, tcp.NewTCPClientTransport(), serializer)
//
//	// Use the database
//	database.Insert(ctx, db.CategoryBlock, []byte("height:42"), blockBytes)
//	value, found, _ := database.Get(ctx, db.CategoryBlock, []byte("height:42"))
//
// Performance Considerations:
//
//   - For applications that frequently send large payloads, increasing ConnectionsPerEndpoint
//     can improve throughput by allowing parallel requests.
//
//   - For small messages, a single connection per endpoint is often more efficient due to
//     reduced connection overhead.
//
//   - The choice of serializer significantly affects performance. The binary serializer
//     provides the best performance and smallest payload size.
//
// Thread Safety:
//
//	The client implementation is thread-safe and can be used concurrently from
//	multiple goroutines without additional synchronization.
package client
