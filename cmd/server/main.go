// Package main is the entry point for the funko-battle server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/funko-battle/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "funko-battle",
	Short: "Funko Battle economy server",
	Long: `Funko Battle serves the game economy: mystery boxes, battles and coin
exchange over gRPC and JSON HTTP.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
