package http

import (
	"strings"
	"testing"

	"github.com/chainkit/ledgerdb/rpc/common"
)

func TestHttpClientConnectValidation(t *testing.T) {
	transport := NewHttpClientTransport()

	// Connect without endpoints must be rejected, otherwise the round-robin
	// selection in Send would divide by zero
	err := transport.Connect(common.ClientConfig{})
	if err == nil || !strings.Contains(err.Error(), "no endpoints") {
		t.Fatalf("expected endpoint validation error, got %v", err)
	}

	// Send on the rejected transport must fail, not panic
	if _, err := transport.Send(1, []byte("req")); err == nil {
		t.Fatal("expected error for Send without connections")
	}
}
