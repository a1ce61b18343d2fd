package server

import (
	"context"
	"fmt"
	"time"

	"github.com/chainkit/ledgerdb/lib/db"
	"github.com/chainkit/ledgerdb/rpc/common"
)

// NewDatabaseServerAdapter creates an adapter that translates RPC messages
// into database operations. The timeout bounds each operation, a value of
// zero disables the per request deadline.
func NewDatabaseServerAdapter(timeout time.Duration) IRPCServerAdapter {
	return &databaseServerAdapterImpl{timeout: timeout}
}

type databaseServerAdapterImpl struct {
	timeout time.Duration
}

func (adapter *databaseServerAdapterImpl) Handle(req *common.Message, database db.Database) *common.Message {
	// Check for nil database
	if database == nil {
		return common.NewErrorResponse(db.RetCInternalError, "handler: database is nil")
	}

	ctx := context.Background()
	if adapter.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, adapter.timeout)
		defer cancel()
	}

	// Every storage request carries a category, resolve it first
	category, err := req.ResolveCategory()
	if err != nil {
		return common.NewErrorResponse(db.RetCInvalidData, err.Error())
	}

	// Handle different message types
	switch req.MsgType {
	case common.MsgTGet:
		val, found, err := database.Get(ctx, category, req.Key)
		return common.NewGetResponse(val, found, err)
	case common.MsgTGetBatch:
		values, found, err := database.GetBatch(ctx, category, req.Keys)
		return common.NewGetBatchResponse(values, found, err)
	case common.MsgTInsert:
		err := database.Insert(ctx, category, req.Key, req.Value)
		return common.NewInsertResponse(err)
	case common.MsgTInsertBatch:
		err := database.InsertBatch(ctx, category, req.Keys, req.Values)
		return common.NewInsertBatchResponse(err)
	case common.MsgTContains:
		found, err := database.Contains(ctx, category, req.Key)
		return common.NewContainsResponse(found, err)
	case common.MsgTRemove:
		err := database.Remove(ctx, category, req.Key)
		return common.NewRemoveResponse(err)
	case common.MsgTRemoveBatch:
		err := database.RemoveBatch(ctx, category, req.Keys)
		return common.NewRemoveBatchResponse(err)
	default:
		return common.NewErrorResponse(
			db.RetCUnsupportedOperation,
			fmt.Sprintf("RPC DatabaseAdapter - Unsupported message type: %s", req.MsgType),
		)
	}
}
