package kv

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chainkit/ledgerdb/cmd/util"
	"github.com/chainkit/ledgerdb/lib/db"
	"github.com/chainkit/ledgerdb/rpc/common"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for ledgerdb servers",
		Long:    "",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix        = "__test"
	perfLargeValueSizeKB = 100
	perfNumThreads       = 10
	perfKeySpread        = 100
	perfOpsPerThread     = 1000
	perfSkip             = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. insert,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "ops"
	perfTestCmd.Flags().Int(key, 1000, util.WrapString("Number of operations per thread for each benchmark"))
	key = "large-value-size"
	perfTestCmd.Flags().Int(key, 1000, util.WrapString("How large the value for the insert-large test should be (in KB)"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfKeySpread = viper.GetInt("keys")
	perfNumThreads = viper.GetInt("threads")
	perfOpsPerThread = viper.GetInt("ops")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for ledgerdb servers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d, Ops per thread: %d\n", perfNumThreads, perfOpsPerThread)
	fmt.Println()

	category, err := util.GetCategory()
	if err != nil {
		return err
	}
	ctx := context.Background()

	fmt.Println("starting tests...")

	// Registry holding one latency timer per benchmark
	registry := gometrics.NewRegistry()
	results := make(map[string]gometrics.Timer)

	runBenchmark := func(name string, prepare bool, op func(key []byte, counter int) error) {
		timer := gometrics.GetOrRegisterTimer(name, registry)
		results[name] = timer

		if shouldSkip(name) {
			return
		}

		getKey, iter := getKeys(name)

		// preload keys for read style benchmarks
		if prepare {
			iter(func(k []byte) {
				if err := rpcDatabase.Insert(ctx, category, k, []byte("test")); err != nil {
					log.Printf("(%s) - error inserting key: %v\n", name, err)
				}
			})
		}

		// run the workers
		var wg sync.WaitGroup
		for thread := 0; thread < perfNumThreads; thread++ {
			wg.Add(1)
			go func(thread int) {
				defer wg.Done()
				for i := 0; i < perfOpsPerThread; i++ {
					counter := thread*perfOpsPerThread + i
					key := getKey(counter)
					timer.Time(func() {
						if err := op(key, counter); err != nil {
							log.Printf("(%s) - operation error: %v\n", name, err)
						}
					})
				}
			}(thread)
		}
		wg.Wait()

		// cleanup
		iter(func(k []byte) {
			if err := rpcDatabase.Remove(ctx, category, k); err != nil {
				log.Printf("(%s) - error removing key: %v\n", name, err)
			}
		})

		printResult(name, timer)
	}

	// insert
	runBenchmark("insert", false, func(key []byte, _ int) error {
		return rpcDatabase.Insert(ctx, category, key, []byte("test"))
	})

	// insert-large
	largeValue := make([]byte, perfLargeValueSizeKB*1024)
	runBenchmark("insert-large", false, func(key []byte, _ int) error {
		return rpcDatabase.Insert(ctx, category, key, largeValue)
	})

	// insert-batch
	batchKeys := make([][]byte, 16)
	batchValues := make([][]byte, 16)
	for i := range batchKeys {
		batchKeys[i] = []byte(fmt.Sprintf("%s-insert-batch-%d", perfKeyPrefix, i))
		batchValues[i] = []byte("test")
	}
	runBenchmark("insert-batch", false, func(_ []byte, _ int) error {
		return rpcDatabase.InsertBatch(ctx, category, batchKeys, batchValues)
	})

	// get
	runBenchmark("get", true, func(key []byte, _ int) error {
		_, _, err := rpcDatabase.Get(ctx, category, key)
		return err
	})

	// get-batch
	runBenchmark("get-batch", true, func(_ []byte, _ int) error {
		_, _, err := rpcDatabase.GetBatch(ctx, category, batchKeys)
		return err
	})

	// contains
	runBenchmark("contains", true, func(key []byte, _ int) error {
		_, err := rpcDatabase.Contains(ctx, category, key)
		return err
	})

	// contains-missing
	runBenchmark("contains-missing", false, func(_ []byte, counter int) error {
		key := []byte(fmt.Sprintf("%s/missing-%d", perfKeyPrefix, counter%perfKeySpread))
		_, err := rpcDatabase.Contains(ctx, category, key)
		return err
	})

	// remove
	runBenchmark("remove", true, func(key []byte, _ int) error {
		return rpcDatabase.Remove(ctx, category, key)
	})

	// mixed
	runBenchmark("mixed", true, func(key []byte, counter int) error {
		var err error
		switch counter % 4 {
		case 0:
			err = rpcDatabase.Insert(ctx, category, key, []byte("test"))
		case 1:
			_, _, err = rpcDatabase.Get(ctx, category, key)
		case 2:
			err = rpcDatabase.Remove(ctx, category, key)
		case 3:
			_, err = rpcDatabase.Contains(ctx, category, key)
		}
		return err
	})

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, category, util.GetClientConfig()); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// creates an array of test keys and functions to work with them
func getKeys(prefix string) (func(int) []byte, func(func([]byte))) {
	keys := make([][]byte, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = []byte(fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i))
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) []byte {
		return keys[i%perfKeySpread]
	}

	// Function to iterate over all keys and apply a function to each
	iterateKeys := func(fn func([]byte)) {
		for _, key := range keys {
			fn(key)
		}
	}

	return getKey, iterateKeys
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, timer gometrics.Timer) {
	if timer.Count() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	fmt.Printf("%-20s%.0fns/op (mean)\tp50=%s p95=%s p99=%s\t%.0f ops/sec\n",
		test,
		timer.Mean(),
		time.Duration(timer.Percentile(0.50)),
		time.Duration(timer.Percentile(0.95)),
		time.Duration(timer.Percentile(0.99)),
		timer.RateMean(),
	)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]gometrics.Timer, category db.DataCategory, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "Count", "MeanNsPerOp", "P50", "P95", "P99", "OpsPerSec", "Skipped",
		"Category", "Endpoints", "TimeoutSec", "RetryCount", "ConnectionsPerEndpoint",
		"StoreID", "Serializer", "Transport",
		"Threads", "OpsPerThread", "LargeValueSizeKB", "KeysCount",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, timer := range results {
		skipped := "false"
		if timer.Count() == 0 {
			skipped = "true"
		}

		row := []string{
			test,
			strconv.FormatInt(timer.Count(), 10),
			fmt.Sprintf("%.0f", timer.Mean()),
			time.Duration(timer.Percentile(0.50)).String(),
			time.Duration(timer.Percentile(0.95)).String(),
			time.Duration(timer.Percentile(0.99)).String(),
			fmt.Sprintf("%.0f", timer.RateMean()),
			skipped,
			category.String(),
			strings.Join(config.Endpoints, ";"),
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(config.RetryCount),
			strconv.Itoa(config.ConnectionsPerEndpoint),
			strconv.FormatUint(util.GetStoreID(), 10),
			viper.GetString("serializer"),
			viper.GetString("transport"),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfOpsPerThread),
			strconv.Itoa(perfLargeValueSizeKB),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
