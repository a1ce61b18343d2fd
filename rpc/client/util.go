package client

import (
	"fmt"

	"github.com/chainkit/ledgerdb/lib/db"
	"github.com/chainkit/ledgerdb/rpc/common"
	"github.com/chainkit/ledgerdb/rpc/serializer"
	"github.com/chainkit/ledgerdb/rpc/transport"
)

// rpcClientAdapter is a struct that stores all data needed for an implementation of an RPC client
// Used by the RPCDatabase with composition pattern
type rpcClientAdapter struct {
	storeID    uint64
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
}

// invokeRPCRequest is a helper function used for all RPC clients to send requests
// It takes a store ID, a request message, a transport layer and a serializer as parameters
// It returns a response message and an error if any occurs
// This method also checks if the response is an error response and if the type of the response is the expected type
func invokeRPCRequest(storeID uint64, req *common.Message, transport transport.IRPCClientTransport, serializer serializer.IRPCSerializer) (*common.Message, error) {
	// Serialize the request
	reqBytes, err := serializer.Serialize(*req)
	if err != nil {
		return nil, err
	}

	// Send the request
	respBytes, err := transport.Send(storeID, reqBytes)
	if err != nil {
		return nil, err
	}

	// Deserialize the response
	resp := &common.Message{}
	err = serializer.Deserialize(respBytes, resp)
	if err != nil {
		return nil, fmt.Errorf("rpc client - failed to deserialize response: %s", err)
	}

	// Check if the response is an error response. The server forwards the
	// return code of the database error, so a typed error is rebuilt here
	// and db.CodeOf works across the RPC boundary.
	if resp.MsgType == common.MsgTError || resp.Err != "" {
		if resp.ErrCode != db.RetCSuccess {
			return nil, db.NewError(resp.ErrCode, resp.Err)
		}
		return nil, fmt.Errorf("rpc client - server error: %s", resp.Err)
	}

	// Check if the type of the response is the expected type
	if resp.MsgType != req.MsgType {
		return nil, fmt.Errorf("rpc client - unexpected message type: %s, expected %s", resp.MsgType, req.MsgType)
	}

	// Return the response
	return resp, nil
}
