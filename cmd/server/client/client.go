// Package client provides test commands for the Funko Battle gRPC service
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/KirkDiggler/funko-battle/internal/errors"
	"github.com/KirkDiggler/funko-battle/internal/handlers/economy/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
)

// ClientCmd is the root command for all client test commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Test client commands for the economy service",
	Long:  `Client commands exercise a running server by making real gRPC requests.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	// Account commands
	ClientCmd.AddCommand(userCmd)
	ClientCmd.AddCommand(getUserCmd)
	ClientCmd.AddCommand(collectionCmd)

	// Economy commands
	ClientCmd.AddCommand(openBoxCmd)
	ClientCmd.AddCommand(battleCmd)
	ClientCmd.AddCommand(getBattleCmd)
	ClientCmd.AddCommand(exchangeCmd)
	ClientCmd.AddCommand(ratesCmd)
}

// createConnection creates a gRPC connection to the server
func createConnection() (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	return conn, nil
}

// createEconomyClient creates an economy service client
func createEconomyClient() (v1alpha1.EconomyServiceClient, func(), error) {
	conn, err := createConnection()
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}

	return v1alpha1.NewEconomyServiceClient(conn), cleanup, nil
}

// call runs fn against a fresh client with the timeout applied and prints
// the response as indented JSON.
func call[Resp any](
	cmd *cobra.Command,
	fn func(ctx context.Context, client v1alpha1.EconomyServiceClient) (*Resp, error),
) error {
	client, cleanup, err := createEconomyClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	resp, err := fn(ctx, client)
	if err != nil {
		return describe(errors.FromGRPCError(err))
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// describe folds error metadata into the message shown on the terminal
func describe(err error) error {
	meta := errors.GetMeta(err)
	if len(meta) == 0 {
		return err
	}

	details, marshalErr := json.Marshal(meta)
	if marshalErr != nil {
		return err
	}
	return fmt.Errorf("%w %s", err, details)
}
