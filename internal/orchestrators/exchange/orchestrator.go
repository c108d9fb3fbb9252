// Package exchange converts coins into external units. Converted coins are
// moved to a treasury account rather than destroyed.
package exchange

//go:generate mockgen -destination=mock/mock_service.go -package=exchangemock github.com/KirkDiggler/funko-battle/internal/orchestrators/exchange Service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/KirkDiggler/funko-battle/internal/engine"
	"github.com/KirkDiggler/funko-battle/internal/entities"
	"github.com/KirkDiggler/funko-battle/internal/errors"
	"github.com/KirkDiggler/funko-battle/internal/metrics"
	"github.com/KirkDiggler/funko-battle/internal/repositories/accounts"
	"github.com/KirkDiggler/funko-battle/internal/services/ledger"
)

// Service defines the interface for exchange operations
type Service interface {
	Exchange(ctx context.Context, input *ExchangeInput) (*ExchangeOutput, error)
	Rates(ctx context.Context, input *RatesInput) (*RatesOutput, error)
}

// Config holds the dependencies for the exchange orchestrator
type Config struct {
	AccountRepo accounts.Repository
	Ledger      ledger.Service
	Rates       *engine.RateTable

	// TreasuryIdentity is the external identity of the account that
	// receives exchanged coins. It must be a system identity so players can
	// never resolve or spend it. It is created on first use.
	TreasuryIdentity string
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.AccountRepo == nil {
		vb.RequiredField("AccountRepo")
	}
	if c.Ledger == nil {
		vb.RequiredField("Ledger")
	}
	if c.Rates == nil {
		vb.RequiredField("Rates")
	}
	errors.ValidateRequired("TreasuryIdentity", c.TreasuryIdentity, vb)
	if c.TreasuryIdentity != "" && !entities.IsSystemIdentity(c.TreasuryIdentity) {
		vb.Fieldf("TreasuryIdentity", "must start with %q", entities.SystemIdentityPrefix)
	}

	return vb.Build()
}

type orchestrator struct {
	accountRepo      accounts.Repository
	ledger           ledger.Service
	rates            *engine.RateTable
	treasuryIdentity string

	mu         sync.Mutex
	treasuryID string
}

// NewOrchestrator creates a new exchange orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		accountRepo:      cfg.AccountRepo,
		ledger:           cfg.Ledger,
		rates:            cfg.Rates,
		treasuryIdentity: cfg.TreasuryIdentity,
	}, nil
}

// Exchange debits amount coins from the account into the treasury and
// returns their value in unit. Nothing is converted when the debit fails.
func (o *orchestrator) Exchange(ctx context.Context, input *ExchangeInput) (*ExchangeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("account_id", input.AccountID, vb)
	errors.ValidateNonNegative("amount", input.Amount, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	unit := strings.ToLower(strings.TrimSpace(input.Unit))
	rate, err := o.rates.Rate(unit)
	if err != nil {
		return nil, err
	}

	treasuryID, err := o.treasury(ctx)
	if err != nil {
		return nil, err
	}
	if treasuryID == input.AccountID {
		return nil, errors.InvalidArgument("the treasury cannot exchange coins")
	}

	out, err := o.ledger.DebitAndCredit(ctx, &ledger.DebitAndCreditInput{
		DebitAccountID:  input.AccountID,
		DebitAmount:     input.Amount,
		CreditAccountID: treasuryID,
		CreditAmount:    input.Amount,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to exchange %d coins to %s", input.Amount, unit)
	}

	external, err := o.rates.Convert(input.Amount, unit)
	if err != nil {
		return nil, err
	}

	metrics.RecordExchange(unit, input.Amount)

	slog.InfoContext(ctx, "coins exchanged",
		"account_id", input.AccountID,
		"amount", input.Amount,
		"unit", unit,
		"external_amount", external,
		"balance", out.DebitAccount.Balance)

	return &ExchangeOutput{
		Account:        out.DebitAccount,
		Amount:         input.Amount,
		Unit:           unit,
		Rate:           rate,
		ExternalAmount: external,
	}, nil
}

// Rates returns the configured rate table
func (o *orchestrator) Rates(_ context.Context, _ *RatesInput) (*RatesOutput, error) {
	return &RatesOutput{Rates: o.rates.Rates()}, nil
}

// treasury resolves the treasury account id once and caches it. A failed
// lookup is not cached.
func (o *orchestrator) treasury(ctx context.Context) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.treasuryID != "" {
		return o.treasuryID, nil
	}

	out, err := o.accountRepo.GetOrCreate(ctx, &accounts.GetOrCreateInput{
		ExternalIdentity: o.treasuryIdentity,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve exchange treasury")
	}
	if out.Created {
		slog.InfoContext(ctx, "exchange treasury created", "account_id", out.Account.ID)
	}

	o.treasuryID = out.Account.ID
	return o.treasuryID, nil
}
