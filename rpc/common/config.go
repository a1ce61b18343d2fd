package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// StoreEngine names the storage engine backing a hosted store.
type StoreEngine string

const (
	EngineMemory StoreEngine = "memory"
)

// StoreShard describes one store hosted by the server. Each shard is an
// independent database with its own categories and its own lock.
type StoreShard struct {
	// ShardID is the ID of the store, clients address requests by it
	ShardID uint64
	// Engine selects the storage engine for the store
	Engine StoreEngine
}

// ServerConfig holds all configuration parameters for the RPC server.
type ServerConfig struct {
	// Stores hosted by this server
	Stores []StoreShard

	// request handling parameters
	TimeoutSecond int64

	// RPC api settings
	Endpoint string

	// MetricsEndpoint is the address of the HTTP metrics listener,
	// empty disables metrics exposition
	MetricsEndpoint string

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))

	// Metrics
	addSection("Metrics")
	if c.MetricsEndpoint != "" {
		addField("Endpoint", c.MetricsEndpoint)
	} else {
		addField("Endpoint", "disabled")
	}

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	// Stores
	addSection("Stores")
	for _, store := range c.Stores {
		addField(strconv.FormatUint(store.ShardID, 10), string(store.Engine))
	}

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// SocketConf holds buffer settings shared by all socket based transports.
type SocketConf struct {
	WriteBufferSize int
	ReadBufferSize  int
}

// TCPConf holds settings specific to TCP connections.
type TCPConf struct {
	TCPKeepAliveSec int
	TCPLingerSec    int
	TCPNoDelay      bool
}

type ClientConfig struct {
	Endpoints              []string
	TimeoutSecond          int
	RetryCount             int
	ConnectionsPerEndpoint int

	SocketConf SocketConf
	TCPConf    TCPConf
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.RetryCount))
	addField("Connections Per Endpoint", strconv.Itoa(int(math.Max(1, float64(c.ConnectionsPerEndpoint)))))

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}
