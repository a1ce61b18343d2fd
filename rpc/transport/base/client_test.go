package base

import (
	"fmt"
	"net"
	"strings"
	"testing"

	"github.com/chainkit/ledgerdb/rpc/common"
)

// failingConnector never establishes a connection
type failingConnector struct{}

func (c *failingConnector) Connect(endpoint string) (net.Conn, error) {
	return nil, fmt.Errorf("connection refused")
}

func (c *failingConnector) GetName() string {
	return "test"
}

func (c *failingConnector) UpgradeConnection(conn net.Conn, config common.ClientConfig) error {
	return nil
}

func TestClientConnectValidation(t *testing.T) {
	transport := NewBaseClientTransport(&failingConnector{})

	// No endpoints at all
	err := transport.Connect(common.ClientConfig{})
	if err == nil || !strings.Contains(err.Error(), "no endpoints") {
		t.Fatalf("expected endpoint validation error, got %v", err)
	}

	// Endpoints given but none reachable
	err = transport.Connect(common.ClientConfig{Endpoints: []string{"localhost:1"}})
	if err == nil {
		t.Fatal("expected error when no endpoint is reachable")
	}
}

func TestClientSendWithoutConnections(t *testing.T) {
	transport := NewBaseClientTransport(&failingConnector{})

	// Send before any successful Connect must fail, not panic
	if _, err := transport.Send(1, []byte("req")); err == nil {
		t.Fatal("expected error for Send without connections")
	}

	// Close is safe on an unconnected transport and Send keeps failing after
	if err := transport.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := transport.Send(1, []byte("req")); err == nil {
		t.Fatal("expected error for Send after Close")
	}
}
