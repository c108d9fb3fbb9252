package client

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/funko-battle/internal/errors"
	"github.com/KirkDiggler/funko-battle/internal/handlers/economy/v1alpha1"
)

var openBoxCmd = &cobra.Command{
	Use:   "open-box [account-id] [common|rare|legendary]",
	Short: "Buy and open a mystery box",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, func(ctx context.Context, c v1alpha1.EconomyServiceClient) (*v1alpha1.OpenBoxResponse, error) {
			return c.OpenBox(ctx, &v1alpha1.OpenBoxRequest{UserID: args[0], BoxType: args[1]})
		})
	},
}

var battleCmd = &cobra.Command{
	Use:   "battle [account-id]",
	Short: "Start a battle against a generated opponent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, func(ctx context.Context, c v1alpha1.EconomyServiceClient) (*v1alpha1.StartBattleResponse, error) {
			return c.StartBattle(ctx, &v1alpha1.StartBattleRequest{UserID: args[0], FunkoID: battleFunkoID})
		})
	},
}

var battleFunkoID string

func init() {
	battleCmd.Flags().StringVar(&battleFunkoID, "funko", "", "ID of one of the account's collectibles to field")
}

var getBattleCmd = &cobra.Command{
	Use:   "get-battle [battle-id]",
	Short: "Get a battle record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, func(ctx context.Context, c v1alpha1.EconomyServiceClient) (*v1alpha1.GetBattleResponse, error) {
			return c.GetBattle(ctx, &v1alpha1.GetBattleRequest{BattleID: args[0]})
		})
	},
}

var exchangeCmd = &cobra.Command{
	Use:   "exchange [account-id] [amount] [btc|eth]",
	Short: "Convert coins into an external currency",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return errors.InvalidArgumentf("amount %q is not a whole number", args[1])
		}

		return call(cmd, func(ctx context.Context, c v1alpha1.EconomyServiceClient) (*v1alpha1.ExchangeResponse, error) {
			return c.Exchange(ctx, &v1alpha1.ExchangeRequest{
				UserID:     args[0],
				Amount:     amount,
				CryptoType: args[2],
			})
		})
	},
}

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Show the exchange rates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return call(cmd, func(ctx context.Context, c v1alpha1.EconomyServiceClient) (*v1alpha1.GetExchangeRatesResponse, error) {
			return c.GetExchangeRates(ctx, &v1alpha1.GetExchangeRatesRequest{})
		})
	},
}
