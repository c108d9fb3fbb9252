package client

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/funko-battle/internal/handlers/economy/v1alpha1"
)

var userCmd = &cobra.Command{
	Use:   "user [external-identity]",
	Short: "Get or create the account for an external identity",
	Long: `Get or create the account bound to an external identity such as
"telegram:12345". Repeating the call returns the same account.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, func(ctx context.Context, c v1alpha1.EconomyServiceClient) (*v1alpha1.GetOrCreateAccountResponse, error) {
			return c.GetOrCreateAccount(ctx, &v1alpha1.GetOrCreateAccountRequest{ExternalIdentity: args[0]})
		})
	},
}

var getUserCmd = &cobra.Command{
	Use:   "get-user [account-id]",
	Short: "Get an account by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, func(ctx context.Context, c v1alpha1.EconomyServiceClient) (*v1alpha1.GetAccountResponse, error) {
			return c.GetAccount(ctx, &v1alpha1.GetAccountRequest{UserID: args[0]})
		})
	},
}

var collectionCmd = &cobra.Command{
	Use:   "collection [account-id]",
	Short: "List the collectibles an account owns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, func(ctx context.Context, c v1alpha1.EconomyServiceClient) (*v1alpha1.ListCollectiblesResponse, error) {
			return c.ListCollectibles(ctx, &v1alpha1.ListCollectiblesRequest{UserID: args[0]})
		})
	},
}
