package tcp

import (
	"fmt"
	"net"

	"github.com/chainkit/ledgerdb/rpc/common"
	"github.com/chainkit/ledgerdb/rpc/transport"
	"github.com/chainkit/ledgerdb/rpc/transport/base"
)

const (
	defaultBufferSize        = 512 * 1024 // 512 KB
	defaultWorkersPerConnTCP = 16
)

// serverConnector implements the IServerConnector interface for TCP sockets
type serverConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IServerConnector)
// --------------------------------------------------------------------------

func (c *serverConnector) GetName() string {
	return "tcp"
}

func (c *serverConnector) Listen(config common.ServerConfig) (net.Listener, error) {
	// Create TCP socket listener
	listener, err := net.Listen("tcp", config.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create TCP socket: %v", err)
	}

	return listener, nil
}

// --------------------------------------------------------------------------
// Server Transport Factory Method
// --------------------------------------------------------------------------

// NewTCPDefaultServerTransport creates a new TCP server transport with default settings
func NewTCPDefaultServerTransport() transport.IRPCServerTransport {
	return NewTCPServerTransport(defaultBufferSize, defaultWorkersPerConnTCP)
}

// NewTCPServerTransport creates a new TCP server transport with the specified
// buffer size and worker count per connection
func NewTCPServerTransport(bufferSize int, maxWorkersPerConn int) transport.IRPCServerTransport {
	return base.NewBaseServerTransport(&serverConnector{}, bufferSize, maxWorkersPerConn)
}
