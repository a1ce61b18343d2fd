package unix

import (
	"net"

	"github.com/chainkit/ledgerdb/rpc/common"
	"github.com/chainkit/ledgerdb/rpc/transport"
	"github.com/chainkit/ledgerdb/rpc/transport/base"
)

// clientConnector implements the IClientConnector interface for Unix sockets
type clientConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IClientConnector)
// --------------------------------------------------------------------------

func (c *clientConnector) GetName() string {
	return "unix"
}

func (c *clientConnector) Connect(endpoint string) (net.Conn, error) {
	return net.Dial("unix", endpoint)
}

// UpgradeConnection applies the socket buffer settings to a Unix connection
func (c *clientConnector) UpgradeConnection(conn net.Conn, config common.ClientConfig) error {
	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		return nil // Not a Unix connection, nothing to upgrade
	}

	// Set socket write buffer size if configured
	if config.SocketConf.WriteBufferSize > 0 {
		if err := unixConn.SetWriteBuffer(config.SocketConf.WriteBufferSize); err != nil {
			return err
		}
	}

	// Set socket read buffer size if configured
	if config.SocketConf.ReadBufferSize > 0 {
		if err := unixConn.SetReadBuffer(config.SocketConf.ReadBufferSize); err != nil {
			return err
		}
	}

	return nil
}

// --------------------------------------------------------------------------
// Client Transport Factory Method
// --------------------------------------------------------------------------

// NewUnixClientTransport creates a new Unix client transport
func NewUnixClientTransport() transport.IRPCClientTransport {
	return base.NewBaseClientTransport(&clientConnector{})
}
