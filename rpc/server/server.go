package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/chainkit/ledgerdb/lib/db"
	"github.com/chainkit/ledgerdb/lib/db/engines/memdb"
	"github.com/chainkit/ledgerdb/rpc/common"
	"github.com/chainkit/ledgerdb/rpc/serializer"
	"github.com/chainkit/ledgerdb/rpc/transport"
	"github.com/puzpuzpuz/xsync/v3"
)

var logger = common.GetLogger("rpc")

// hostedStore is a struct that represents one store hosted by the RPC server
// It contains the database it encapsulates and the adapter that handles
// requests for the database
type hostedStore struct {
	Database db.Database
	Adapter  IRPCServerAdapter
}

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		config,
//		tcp.NewTCPDefaultServerTransport(),
//		serializer.NewBinarySerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) rpcServer {
	// Create stores map
	storeMap := xsync.NewMapOf[uint64, hostedStore]()

	logger.Info("created RPC server")
	logger.Info(config.String())

	// Create the RPC server
	return rpcServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		stores:     storeMap,
	}
}

type rpcServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	stores     *xsync.MapOf[uint64, hostedStore]
}

func (s *rpcServer) registerTransportHandler() {
	s.transport.RegisterHandler(func(storeID uint64, req []byte) []byte {
		var msg common.Message
		var respMsg common.Message

		start := time.Now()

		// Get appropriate store
		store, ok := s.stores.Load(storeID)

		// Case store does not exist -> error
		if !ok {
			respMsg = *common.NewErrorResponse(db.RetCInternalError, "store not found")
		} else {
			// Decode the request
			err := s.serializer.Deserialize(req, &msg)

			if err != nil {
				respMsg = *common.NewErrorResponse(db.RetCInvalidData,
					fmt.Sprintf("failed to deserialize request: %s", err))
			} else {
				// Let the adapter handle the request
				respMsg = *store.Adapter.Handle(&msg, store.Database)
			}
		}

		// Record request metrics
		metrics.GetOrCreateCounter(
			fmt.Sprintf(`ledgerdb_rpc_requests_total{store="%d",op=%q}`, storeID, msg.MsgType),
		).Inc()
		if respMsg.Err != "" {
			metrics.GetOrCreateCounter(
				fmt.Sprintf(`ledgerdb_rpc_errors_total{store="%d",op=%q}`, storeID, msg.MsgType),
			).Inc()
		}
		metrics.GetOrCreateSummary(
			fmt.Sprintf(`ledgerdb_rpc_request_duration_seconds{store="%d",op=%q}`, storeID, msg.MsgType),
		).UpdateDuration(start)

		// Return result
		val, err := s.serializer.Serialize(respMsg)
		if err != nil {
			logger.Error("failed to serialize response", "err", err)
			return nil
		}
		return val
	})
}

func (s *rpcServer) init() error {

	// Init logger
	if err := common.InitLoggers(s.config); err != nil {
		return err
	}

	// Configure the per request timeout for the adapters
	timeout := time.Duration(s.config.TimeoutSecond) * time.Second

	// CREATE STORES

	/*
		Note: A single RPC server can host any number of stores. Each store is
		an independent database with its own categories and its own lock. The
		following loop creates all the stores for the RPC server.
	*/

	for _, storeConfig := range s.config.Stores {
		database, err := newDatabase(storeConfig.Engine)
		if err != nil {
			return fmt.Errorf("failed to create store %d: %w", storeConfig.ShardID, err)
		}

		s.stores.Store(storeConfig.ShardID, hostedStore{
			Database: database,
			Adapter:  NewDatabaseServerAdapter(timeout),
		})
		logger.Info("created store", "store", storeConfig.ShardID, "engine", storeConfig.Engine)
	}

	// Start the metrics listener if configured
	if s.config.MetricsEndpoint != "" {
		go s.serveMetrics()
	}

	logger.Info("server setup completed successfully")

	// Configure the transport layer
	s.registerTransportHandler()

	return nil
}

// Serve starts the RPC server
// This function will also initialize the server plus the stores and start the transport layer
func (s *rpcServer) Serve() error {
	err := s.init()
	if err != nil {
		return err
	}
	return s.transport.Listen(s.config)
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// newDatabase creates a database instance for the given engine
func newDatabase(engine common.StoreEngine) (db.Database, error) {
	switch engine {
	case common.EngineMemory, "":
		return memdb.NewMemoryDB(), nil
	default:
		return nil, fmt.Errorf("unknown storage engine: %s", engine)
	}
}

// serveMetrics exposes the collected metrics in Prometheus text format
func (s *rpcServer) serveMetrics() {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	logger.Info("starting metrics server", "endpoint", s.config.MetricsEndpoint)
	if err := http.ListenAndServe(s.config.MetricsEndpoint, mux); err != nil {
		logger.Error("metrics server failed", "err", err)
	}
}
