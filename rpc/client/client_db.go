package client

import (
	"context"

	"github.com/chainkit/ledgerdb/lib/db"
	"github.com/chainkit/ledgerdb/rpc/common"
	"github.com/chainkit/ledgerdb/rpc/serializer"
	"github.com/chainkit/ledgerdb/rpc/transport"
)

// NewRPCDatabase creates a new RPC backed database
// The function takes a store ID, a config, a transport and a serializer as parameters
// It returns a db.Database and an error
func NewRPCDatabase(
	storeID uint64,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (db.Database, error) {

	// Connect the transport
	err := transport.Connect(config)
	if err != nil {
		return nil, err
	}

	// Create a new RPC database
	d := rpcDatabase{
		rpcClientAdapter{
			storeID:    storeID,
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}

	// Return the RPC database
	return &d, nil
}

type rpcDatabase struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the db package in db.go)
// --------------------------------------------------------------------------

func (i *rpcDatabase) Get(ctx context.Context, c db.DataCategory, key []byte) (value []byte, found bool, err error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	req := common.NewGetRequest(c, key)
	resp, err := invokeRPCRequest(i.storeID, req, i.transport, i.serializer)
	if err != nil {
		return nil, false, err
	}
	return resp.Value, resp.Found, nil
}

func (i *rpcDatabase) GetBatch(ctx context.Context, c db.DataCategory, keys [][]byte) (values [][]byte, found []bool, err error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	req := common.NewGetBatchRequest(c, keys)
	resp, err := invokeRPCRequest(i.storeID, req, i.transport, i.serializer)
	if err != nil {
		return nil, nil, err
	}
	return resp.Values, resp.FoundMany, nil
}

func (i *rpcDatabase) Contains(ctx context.Context, c db.DataCategory, key []byte) (found bool, err error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	req := common.NewContainsRequest(c, key)
	resp, err := invokeRPCRequest(i.storeID, req, i.transport, i.serializer)
	if err != nil {
		return false, err
	}
	return resp.Found, nil
}

func (i *rpcDatabase) Insert(ctx context.Context, c db.DataCategory, key, value []byte) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	req := common.NewInsertRequest(c, key, value)
	_, err = invokeRPCRequest(i.storeID, req, i.transport, i.serializer)
	return err
}

func (i *rpcDatabase) InsertBatch(ctx context.Context, c db.DataCategory, keys, values [][]byte) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	// Reject mismatched batches locally, the store would reject them anyway
	if len(keys) != len(values) {
		return db.NewErrorf(db.RetCInvalidData,
			"invalid data: %d keys but %d values", len(keys), len(values))
	}
	req := common.NewInsertBatchRequest(c, keys, values)
	_, err = invokeRPCRequest(i.storeID, req, i.transport, i.serializer)
	return err
}

func (i *rpcDatabase) Remove(ctx context.Context, c db.DataCategory, key []byte) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	req := common.NewRemoveRequest(c, key)
	_, err = invokeRPCRequest(i.storeID, req, i.transport, i.serializer)
	return err
}

func (i *rpcDatabase) RemoveBatch(ctx context.Context, c db.DataCategory, keys [][]byte) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	req := common.NewRemoveBatchRequest(c, keys)
	_, err = invokeRPCRequest(i.storeID, req, i.transport, i.serializer)
	return err
}

// Close closes the underlying transport. The remote store is not affected.
func (i *rpcDatabase) Close() error {
	return i.transport.Close()
}
