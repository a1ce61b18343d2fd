package main

import "github.com/chainkit/ledgerdb/cmd"

func main() {
	cmd.Execute()
}
