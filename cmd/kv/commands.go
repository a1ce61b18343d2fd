package kv

import (
	"context"
	"fmt"
	"strings"

	"github.com/chainkit/ledgerdb/cmd/util"
	"github.com/spf13/cobra"
)

var (
	insertCmd = &cobra.Command{
		Use:   "insert [key] [value]",
		Short: "Inserts the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := util.GetCategory()
			if err != nil {
				return err
			}
			if err := rpcDatabase.Insert(context.Background(), category, []byte(args[0]), []byte(args[1])); err != nil {
				return err
			}
			fmt.Println("inserted successfully")
			return nil
		},
	}
	insertBatchCmd = &cobra.Command{
		Use:   "insert-batch [key=value]...",
		Short: "Inserts multiple key value pairs atomically",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := util.GetCategory()
			if err != nil {
				return err
			}

			keys := make([][]byte, 0, len(args))
			values := make([][]byte, 0, len(args))
			for _, arg := range args {
				key, value, found := strings.Cut(arg, "=")
				if !found {
					return fmt.Errorf("invalid pair %q (expected key=value)", arg)
				}
				keys = append(keys, []byte(key))
				values = append(values, []byte(value))
			}

			if err := rpcDatabase.InsertBatch(context.Background(), category, keys, values); err != nil {
				return err
			}
			fmt.Printf("inserted %d pairs successfully\n", len(keys))
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := util.GetCategory()
			if err != nil {
				return err
			}
			value, found, err := rpcDatabase.Get(context.Background(), category, []byte(args[0]))
			if err != nil {
				return err
			}
			fmt.Printf("category=%s, key=%s, found=%v, value=%s\n", category, args[0], found, value)
			return nil
		},
	}
	getBatchCmd = &cobra.Command{
		Use:   "get-batch [key]...",
		Short: "Reads the values for multiple keys",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := util.GetCategory()
			if err != nil {
				return err
			}

			keys := make([][]byte, len(args))
			for i, arg := range args {
				keys[i] = []byte(arg)
			}

			values, found, err := rpcDatabase.GetBatch(context.Background(), category, keys)
			if err != nil {
				return err
			}
			for i := range keys {
				fmt.Printf("category=%s, key=%s, found=%v, value=%s\n", category, keys[i], found[i], values[i])
			}
			return nil
		},
	}
	containsCmd = &cobra.Command{
		Use:   "contains [key]",
		Short: "Checks if a key exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := util.GetCategory()
			if err != nil {
				return err
			}
			found, err := rpcDatabase.Contains(context.Background(), category, []byte(args[0]))
			if err != nil {
				return err
			}
			fmt.Printf("category=%s, key=%s, found=%t\n", category, args[0], found)
			return nil
		},
	}
	removeCmd = &cobra.Command{
		Use:   "remove [key]",
		Short: "Removes a key value pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := util.GetCategory()
			if err != nil {
				return err
			}
			if err := rpcDatabase.Remove(context.Background(), category, []byte(args[0])); err != nil {
				return err
			}
			fmt.Println("removed successfully")
			return nil
		},
	}
	removeBatchCmd = &cobra.Command{
		Use:   "remove-batch [key]...",
		Short: "Removes multiple key value pairs atomically",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := util.GetCategory()
			if err != nil {
				return err
			}

			keys := make([][]byte, len(args))
			for i, arg := range args {
				keys[i] = []byte(arg)
			}

			if err := rpcDatabase.RemoveBatch(context.Background(), category, keys); err != nil {
				return err
			}
			fmt.Printf("removed %d keys successfully\n", len(keys))
			return nil
		},
	}
)
