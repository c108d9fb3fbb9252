// Package battle implements battles against synthetic opponents. Battles are
// not resolved: every start pays the reward.
package battle

//go:generate mockgen -destination=mock/mock_service.go -package=battlemock github.com/KirkDiggler/funko-battle/internal/orchestrators/battle Service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/funko-battle/internal/engine"
	"github.com/KirkDiggler/funko-battle/internal/entities"
	"github.com/KirkDiggler/funko-battle/internal/errors"
	"github.com/KirkDiggler/funko-battle/internal/metrics"
	"github.com/KirkDiggler/funko-battle/internal/repositories/accounts"
	"github.com/KirkDiggler/funko-battle/internal/repositories/battles"
	"github.com/KirkDiggler/funko-battle/internal/repositories/collectibles"
	"github.com/KirkDiggler/funko-battle/internal/services/ledger"
)

const (
	// OpponentTier is the box tier synthetic opponents are drawn from
	OpponentTier = entities.BoxTierRare

	opponentNameFormat = "AI Opponent #%04d"
)

// Service defines the interface for battle operations
type Service interface {
	StartBattle(ctx context.Context, input *StartBattleInput) (*StartBattleOutput, error)
	GetBattle(ctx context.Context, input *GetBattleInput) (*GetBattleOutput, error)
}

// Config holds the dependencies for the battle orchestrator
type Config struct {
	AccountRepo     accounts.Repository
	BattleRepo      battles.Repository
	CollectibleRepo collectibles.Repository
	Ledger          ledger.Service
	Factory         engine.CollectibleFactory
	Random          engine.Random

	// Reward is the inclusive range of coins a battle pays
	Reward engine.Range
	// OpponentNumber is the inclusive range of the number in an opponent's name
	OpponentNumber engine.Range
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.AccountRepo == nil {
		vb.RequiredField("AccountRepo")
	}
	if c.BattleRepo == nil {
		vb.RequiredField("BattleRepo")
	}
	if c.CollectibleRepo == nil {
		vb.RequiredField("CollectibleRepo")
	}
	if c.Ledger == nil {
		vb.RequiredField("Ledger")
	}
	if c.Factory == nil {
		vb.RequiredField("Factory")
	}
	if c.Random == nil {
		vb.RequiredField("Random")
	}
	if c.Reward.Min < 0 || c.Reward.Min > c.Reward.Max {
		vb.Fieldf("Reward", "invalid range [%d, %d]", c.Reward.Min, c.Reward.Max)
	}
	if c.OpponentNumber.Min < 0 || c.OpponentNumber.Min > c.OpponentNumber.Max {
		vb.Fieldf("OpponentNumber", "invalid range [%d, %d]", c.OpponentNumber.Min, c.OpponentNumber.Max)
	}

	return vb.Build()
}

type orchestrator struct {
	accountRepo     accounts.Repository
	battleRepo      battles.Repository
	collectibleRepo collectibles.Repository
	ledger          ledger.Service
	factory         engine.CollectibleFactory
	random          engine.Random
	reward          engine.Range
	opponentNumber  engine.Range
}

// NewOrchestrator creates a new battle orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		accountRepo:     cfg.AccountRepo,
		battleRepo:      cfg.BattleRepo,
		collectibleRepo: cfg.CollectibleRepo,
		ledger:          cfg.Ledger,
		factory:         cfg.Factory,
		random:          cfg.Random,
		reward:          cfg.Reward,
		opponentNumber:  cfg.OpponentNumber,
	}, nil
}

// StartBattle pits the account against a generated opponent, records the
// battle and credits the reward.
//
// The record is written before the credit. If the credit fails the record
// exists without its payout and the error carries the battle_id.
func (o *orchestrator) StartBattle(ctx context.Context, input *StartBattleInput) (*StartBattleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.AccountID == "" {
		return nil, errors.InvalidArgument("account ID is required")
	}

	acct, err := o.accountRepo.Get(ctx, &accounts.GetInput{ID: input.AccountID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get account %s", input.AccountID)
	}
	if acct.Account.IsSystem() {
		return nil, errors.NotFound("account not found").WithMeta("account_id", input.AccountID)
	}
	if input.CollectibleID != "" {
		if err := o.checkOwnership(ctx, input.AccountID, input.CollectibleID); err != nil {
			return nil, err
		}
	}

	opponentCollectible, err := o.factory.Create("", OpponentTier)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate opponent")
	}

	number, err := o.random.Between(o.opponentNumber.Min, o.opponentNumber.Max)
	if err != nil {
		return nil, errors.Wrap(err, "failed to name opponent")
	}

	reward, err := o.random.Between(o.reward.Min, o.reward.Max)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sample reward")
	}

	inserted, err := o.battleRepo.Insert(ctx, &battles.InsertInput{
		Record: &entities.BattleRecord{
			InitiatorAccountID:     input.AccountID,
			InitiatorCollectibleID: input.CollectibleID,
			Opponent:               entities.Synthetic(fmt.Sprintf(opponentNameFormat, number)),
			OpponentCollectible:    opponentCollectible,
			RewardAmount:           int64(reward),
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to record battle")
	}
	record := inserted.Record

	credit, err := o.ledger.Credit(ctx, &ledger.CreditInput{
		AccountID: input.AccountID,
		Amount:    record.RewardAmount,
	})
	if err != nil {
		slog.ErrorContext(ctx, "battle reward not credited",
			"account_id", input.AccountID,
			"battle_id", record.ID,
			"reward", record.RewardAmount,
			"error", err)
		return nil, errors.Wrap(err, "failed to credit battle reward").
			WithMeta("battle_id", record.ID)
	}

	metrics.RecordBattleReward(record.RewardAmount)

	slog.InfoContext(ctx, "battle started",
		"account_id", input.AccountID,
		"battle_id", record.ID,
		"collectible_id", input.CollectibleID,
		"opponent", record.Opponent.Name,
		"opponent_rarity", opponentCollectible.Rarity,
		"reward", record.RewardAmount,
		"balance", credit.Account.Balance)

	return &StartBattleOutput{
		Battle:  record,
		Account: credit.Account,
	}, nil
}

// GetBattle loads a stored battle record
func (o *orchestrator) GetBattle(ctx context.Context, input *GetBattleInput) (*GetBattleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.BattleID == "" {
		return nil, errors.InvalidArgument("battle ID is required")
	}

	out, err := o.battleRepo.Get(ctx, &battles.GetInput{ID: input.BattleID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get battle %s", input.BattleID)
	}

	return &GetBattleOutput{Battle: out.Record}, nil
}

// checkOwnership ensures the collectible fielded for a battle belongs to the
// account. Someone else's collectible answers NotFound like a missing one.
func (o *orchestrator) checkOwnership(ctx context.Context, accountID, collectibleID string) error {
	out, err := o.collectibleRepo.ListByOwner(ctx, &collectibles.ListByOwnerInput{
		OwnerAccountID: accountID,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to list collectibles for %s", accountID)
	}

	for _, c := range out.Collectibles {
		if c.ID == collectibleID {
			return nil
		}
	}
	return errors.NotFoundf("collectible %s not found", collectibleID).
		WithMeta("account_id", accountID).
		WithMeta("collectible_id", collectibleID)
}
