package app

import (
	"github.com/cenkalti/backoff/v5"

	"github.com/KirkDiggler/funko-battle/internal/config"
	"github.com/KirkDiggler/funko-battle/internal/engine"
	"github.com/KirkDiggler/funko-battle/internal/errors"
	v1alpha1 "github.com/KirkDiggler/funko-battle/internal/handlers/economy/v1alpha1"
	"github.com/KirkDiggler/funko-battle/internal/orchestrators/account"
	"github.com/KirkDiggler/funko-battle/internal/orchestrators/battle"
	"github.com/KirkDiggler/funko-battle/internal/orchestrators/box"
	"github.com/KirkDiggler/funko-battle/internal/orchestrators/exchange"
	"github.com/KirkDiggler/funko-battle/internal/services/ledger"
)

// ServicesConfig holds what the services are built from
type ServicesConfig struct {
	Storage *Storage
	Economy *config.Economy

	// Random defaults to the crypto backed dice source
	Random engine.Random

	// LedgerMaxAttempts bounds retries of a conflicting balance write
	LedgerMaxAttempts int

	// NewBackOff overrides the ledger retry schedule
	NewBackOff func() backoff.BackOff
}

// Validate ensures all required dependencies are provided
func (c *ServicesConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Storage == nil {
		vb.RequiredField("Storage")
	}
	if c.Economy == nil {
		vb.RequiredField("Economy")
	}
	if c.LedgerMaxAttempts < 0 {
		vb.Field("LedgerMaxAttempts", "must not be negative")
	}

	return vb.Build()
}

// Services holds the orchestrators and the gRPC handler built on them
type Services struct {
	Ledger   ledger.Service
	Accounts account.Service
	Boxes    box.Service
	Battles  battle.Service
	Exchange exchange.Service
	Handler  *v1alpha1.Handler
}

// NewServices wires the ledger, orchestrators and handler
func NewServices(cfg *ServicesConfig) (*Services, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	if err := cfg.Economy.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid economy")
	}

	random := cfg.Random
	if random == nil {
		random = engine.NewDiceSource(nil)
	}

	factory, err := cfg.Economy.NewFactory(random)
	if err != nil {
		return nil, err
	}

	rates, err := engine.NewRateTable(cfg.Economy.ExchangeRates)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create rate table")
	}

	ledgerService, err := ledger.NewService(&ledger.Config{
		Accounts:    cfg.Storage.Accounts,
		MaxAttempts: cfg.LedgerMaxAttempts,
		NewBackOff:  cfg.NewBackOff,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create ledger")
	}

	accountService, err := account.NewOrchestrator(&account.Config{
		AccountRepo:     cfg.Storage.Accounts,
		CollectibleRepo: cfg.Storage.Collectibles,
		StartingBalance: cfg.Economy.StartingBalance,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create account orchestrator")
	}

	boxService, err := box.NewOrchestrator(&box.Config{
		Ledger:          ledgerService,
		Factory:         factory,
		CollectibleRepo: cfg.Storage.Collectibles,
		Costs:           cfg.Economy.BoxCosts,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create box orchestrator")
	}

	battleService, err := battle.NewOrchestrator(&battle.Config{
		AccountRepo:     cfg.Storage.Accounts,
		BattleRepo:      cfg.Storage.Battles,
		CollectibleRepo: cfg.Storage.Collectibles,
		Ledger:          ledgerService,
		Factory:         factory,
		Random:          random,
		Reward:          cfg.Economy.BattleReward,
		OpponentNumber:  cfg.Economy.OpponentNumber,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create battle orchestrator")
	}

	exchangeService, err := exchange.NewOrchestrator(&exchange.Config{
		AccountRepo:      cfg.Storage.Accounts,
		Ledger:           ledgerService,
		Rates:            rates,
		TreasuryIdentity: cfg.Economy.TreasuryIdentity,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create exchange orchestrator")
	}

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		AccountService:  accountService,
		BoxService:      boxService,
		BattleService:   battleService,
		ExchangeService: exchangeService,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create handler")
	}

	return &Services{
		Ledger:   ledgerService,
		Accounts: accountService,
		Boxes:    boxService,
		Battles:  battleService,
		Exchange: exchangeService,
		Handler:  handler,
	}, nil
}
