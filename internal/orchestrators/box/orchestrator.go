// Package box implements the mystery box purchase: one debit, one generated
// collectible.
package box

//go:generate mockgen -destination=mock/mock_service.go -package=boxmock github.com/KirkDiggler/funko-battle/internal/orchestrators/box Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/funko-battle/internal/engine"
	"github.com/KirkDiggler/funko-battle/internal/entities"
	"github.com/KirkDiggler/funko-battle/internal/errors"
	"github.com/KirkDiggler/funko-battle/internal/metrics"
	"github.com/KirkDiggler/funko-battle/internal/repositories/collectibles"
	"github.com/KirkDiggler/funko-battle/internal/services/ledger"
)

// Service defines the interface for box operations
type Service interface {
	// OpenBox charges the tier's cost and stores the collectible it yields.
	// Either both happen or the account ends with its original balance.
	OpenBox(ctx context.Context, input *OpenBoxInput) (*OpenBoxOutput, error)
}

// Config holds the dependencies for the box orchestrator
type Config struct {
	Ledger          ledger.Service
	Factory         engine.CollectibleFactory
	CollectibleRepo collectibles.Repository
	Costs           map[entities.BoxTier]int64
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Ledger == nil {
		vb.RequiredField("Ledger")
	}
	if c.Factory == nil {
		vb.RequiredField("Factory")
	}
	if c.CollectibleRepo == nil {
		vb.RequiredField("CollectibleRepo")
	}
	for _, tier := range entities.AllBoxTiers() {
		cost, ok := c.Costs[tier]
		if !ok {
			vb.RequiredField("Costs." + string(tier))
			continue
		}
		errors.ValidateNonNegative("Costs."+string(tier), cost, vb)
	}

	return vb.Build()
}

type orchestrator struct {
	ledger          ledger.Service
	factory         engine.CollectibleFactory
	collectibleRepo collectibles.Repository
	costs           map[entities.BoxTier]int64
}

// NewOrchestrator creates a new box orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	costs := make(map[entities.BoxTier]int64, len(cfg.Costs))
	for tier, cost := range cfg.Costs {
		costs[tier] = cost
	}

	return &orchestrator{
		ledger:          cfg.Ledger,
		factory:         cfg.Factory,
		collectibleRepo: cfg.CollectibleRepo,
		costs:           costs,
	}, nil
}

// OpenBox charges the box cost, generates a collectible and stores it
func (o *orchestrator) OpenBox(ctx context.Context, input *OpenBoxInput) (*OpenBoxOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.AccountID == "" {
		return nil, errors.InvalidArgument("account ID is required")
	}

	tier, err := entities.ParseBoxTier(input.BoxTier)
	if err != nil {
		return nil, err
	}

	cost, ok := o.costs[tier]
	if !ok {
		return nil, errors.InvalidArgumentf("box tier %q is not for sale", tier)
	}

	debit, err := o.ledger.Debit(ctx, &ledger.DebitInput{
		AccountID: input.AccountID,
		Amount:    cost,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to pay for %s box", tier)
	}

	collectible, err := o.factory.Create(input.AccountID, tier)
	if err != nil {
		return nil, o.refund(ctx, input.AccountID, tier, cost,
			errors.Wrapf(err, "failed to generate %s box contents", tier))
	}

	inserted, err := o.collectibleRepo.Insert(ctx, &collectibles.InsertInput{Collectible: collectible})
	if err != nil {
		return nil, o.refund(ctx, input.AccountID, tier, cost,
			errors.Wrapf(err, "failed to store %s box contents", tier))
	}

	metrics.RecordBoxOpened(string(tier), string(inserted.Collectible.Rarity))

	slog.InfoContext(ctx, "box opened",
		"account_id", input.AccountID,
		"box_tier", tier,
		"cost", cost,
		"collectible_id", inserted.Collectible.ID,
		"rarity", inserted.Collectible.Rarity,
		"power", inserted.Collectible.Power,
		"balance", debit.Account.Balance)

	return &OpenBoxOutput{
		Collectible: inserted.Collectible,
		Account:     debit.Account,
		Cost:        cost,
	}, nil
}

// refund credits the cost back after a failure that followed the debit and
// returns cause. The refund runs even if ctx was canceled.
func (o *orchestrator) refund(
	ctx context.Context,
	accountID string,
	tier entities.BoxTier,
	cost int64,
	cause *errors.Error,
) error {
	_, err := o.ledger.Credit(context.WithoutCancel(ctx), &ledger.CreditInput{
		AccountID: accountID,
		Amount:    cost,
	})
	if err != nil {
		slog.ErrorContext(ctx, "box refund failed",
			"account_id", accountID,
			"box_tier", tier,
			"cost", cost,
			"error", err,
			"cause", cause)
		return cause.WithMeta("refund_failed", true)
	}

	slog.WarnContext(ctx, "box cost refunded",
		"account_id", accountID,
		"box_tier", tier,
		"cost", cost,
		"cause", cause)
	return cause
}
