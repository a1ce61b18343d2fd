package kv

import (
	"github.com/chainkit/ledgerdb/cmd/util"
	"github.com/chainkit/ledgerdb/lib/db"
	"github.com/chainkit/ledgerdb/rpc/client"
	"github.com/spf13/cobra"
)

var (
	rpcDatabase db.Database

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:               "kv",
		Short:             "Perform storage operations",
		PersistentPreRunE: setupKVClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the KV command
	util.SetupRPCClientFlags(KeyValueCommands)

	// Set default store ID for key value operations
	KeyValueCommands.PersistentFlags().Int("store", 100, util.WrapString("ID of the store to connect to"))

	// Set default data category for key value operations
	KeyValueCommands.PersistentFlags().String("category", "block", util.WrapString("Data category to operate on (block, transaction, receipt, state, transaction-pool, transaction-position)"))

	// Add subcommands
	KeyValueCommands.AddCommand(insertCmd)
	KeyValueCommands.AddCommand(insertBatchCmd)
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(getBatchCmd)
	KeyValueCommands.AddCommand(containsCmd)
	KeyValueCommands.AddCommand(removeCmd)
	KeyValueCommands.AddCommand(removeBatchCmd)
	KeyValueCommands.AddCommand(perfTestCmd)
}

// setupKVClient initializes the RPC database client
func setupKVClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Get client configuration components
	config := util.GetClientConfig()
	storeID := util.GetStoreID()

	// Get serializer and transport
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	t, err := util.GetTransport()
	if err != nil {
		return err
	}

	// Create the database client
	rpcDatabase, err = client.NewRPCDatabase(
		storeID,
		*config,
		t,
		s,
	)

	return err
}
