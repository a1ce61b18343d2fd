package serve

import (
	"fmt"
	"strconv"
	"strings"

	cmdUtil "github.com/chainkit/ledgerdb/cmd/util"
	"github.com/chainkit/ledgerdb/rpc/common"
	"github.com/chainkit/ledgerdb/rpc/serializer"
	"github.com/chainkit/ledgerdb/rpc/server"
	"github.com/chainkit/ledgerdb/rpc/transport"
	"github.com/chainkit/ledgerdb/rpc/transport/http"
	"github.com/chainkit/ledgerdb/rpc/transport/tcp"
	"github.com/chainkit/ledgerdb/rpc/transport/unix"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the ledgerdb server",
		Long:    `Start the ledgerdb server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is LEDGERDB_<flag> (e.g. LEDGERDB_TIMEOUT=15)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(initConfig)

	// add flags
	key := "stores"
	ServeCmd.PersistentFlags().String(key, "100=memory", cmdUtil.WrapString("Comma-separated list of stores to serve. Format: ID=ENGINE where ENGINE is one of: memory"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 5, cmdUtil.WrapString("Timeout in seconds for request handling"))

	key = "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", cmdUtil.WrapString("The address on which the API will listen (e.g. localhost:8080, /tmp/ledgerdb.sock, ...)"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("The address on which Prometheus metrics will be served (empty disables metrics)"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// parse stores
	storesConfig := viper.GetString("stores")
	serveCmdConfig.Stores = []common.StoreShard{}
	for _, storeConfig := range strings.Split(storesConfig, ",") {
		parts := strings.Split(storeConfig, "=")
		if len(parts) != 2 {
			return fmt.Errorf("invalid store format: %s (expected ID=ENGINE)", storeConfig)
		}

		// Parse store ID
		storeID, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid store ID %s: %v", parts[0], err)
		}

		// Parse engine
		engine := strings.TrimSpace(parts[1])
		switch engine {
		case "memory":
			// the one supported engine
		default:
			return fmt.Errorf("invalid storage engine: %s (expected one of: memory)", engine)
		}

		serveCmdConfig.Stores = append(serveCmdConfig.Stores, common.StoreShard{
			ShardID: storeID,
			Engine:  common.StoreEngine(engine),
		})
	}

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	return nil
}

// run starts the ledgerdb server
func run(_ *cobra.Command, _ []string) error {

	// parse the serializer
	var s serializer.IRPCSerializer
	switch viper.GetString("serializer") {
	case "json":
		s = serializer.NewJSONSerializer()
	case "gob":
		s = serializer.NewGOBSerializer()
	case "binary":
		s = serializer.NewBinarySerializer()
	default:
		return fmt.Errorf("invalid serializer %s", viper.GetString("serializer"))
	}

	// Parse the transport
	var t transport.IRPCServerTransport
	switch viper.GetString("transport") {
	case "http":
		t = http.NewHttpServerTransport()
	case "tcp":
		t = tcp.NewTCPDefaultServerTransport()
	case "unix":
		t = unix.NewUnixDefaultServerTransport()
	default:
		return fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}

	serv := server.NewRPCServer(
		*serveCmdConfig,
		t,
		s,
	)

	return serv.Serve()
}

// initConfig reads in serveCmdConfig file and ENV variables if set.
func initConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("ledgerdb")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}
