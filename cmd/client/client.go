// Package main provides a standalone command-line client for the economy service
package main

import (
	"fmt"
	"os"

	"github.com/KirkDiggler/funko-battle/cmd/server/client"
)

func main() {
	client.ClientCmd.Use = "funko-client"
	if err := client.ClientCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
