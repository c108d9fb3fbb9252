// Package account implements the account orchestrator: first contact with a
// player and read access to their wallet and collection.
package account

//go:generate mockgen -destination=mock/mock_service.go -package=accountmock github.com/KirkDiggler/funko-battle/internal/orchestrators/account Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/funko-battle/internal/entities"
	"github.com/KirkDiggler/funko-battle/internal/errors"
	"github.com/KirkDiggler/funko-battle/internal/repositories/accounts"
	"github.com/KirkDiggler/funko-battle/internal/repositories/collectibles"
)

// Service defines the interface for account operations
type Service interface {
	GetOrCreateAccount(ctx context.Context, input *GetOrCreateAccountInput) (*GetOrCreateAccountOutput, error)
	GetAccount(ctx context.Context, input *GetAccountInput) (*GetAccountOutput, error)
	ListCollectibles(ctx context.Context, input *ListCollectiblesInput) (*ListCollectiblesOutput, error)
}

// Config holds the dependencies for the account orchestrator
type Config struct {
	AccountRepo     accounts.Repository
	CollectibleRepo collectibles.Repository

	// StartingBalance is credited to accounts when they are created
	StartingBalance int64
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.AccountRepo == nil {
		vb.RequiredField("AccountRepo")
	}
	if c.CollectibleRepo == nil {
		vb.RequiredField("CollectibleRepo")
	}
	errors.ValidateNonNegative("StartingBalance", c.StartingBalance, vb)

	return vb.Build()
}

type orchestrator struct {
	accountRepo     accounts.Repository
	collectibleRepo collectibles.Repository
	startingBalance int64
}

// NewOrchestrator creates a new account orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		accountRepo:     cfg.AccountRepo,
		collectibleRepo: cfg.CollectibleRepo,
		startingBalance: cfg.StartingBalance,
	}, nil
}

// GetOrCreateAccount returns the account bound to an external identity,
// creating it on first contact
func (o *orchestrator) GetOrCreateAccount(
	ctx context.Context,
	input *GetOrCreateAccountInput,
) (*GetOrCreateAccountOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("external_identity", input.ExternalIdentity, vb)
	if entities.IsSystemIdentity(input.ExternalIdentity) {
		vb.Fieldf("external_identity", "the %q prefix is reserved", entities.SystemIdentityPrefix)
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	out, err := o.accountRepo.GetOrCreate(ctx, &accounts.GetOrCreateInput{
		ExternalIdentity: input.ExternalIdentity,
		StartingBalance:  o.startingBalance,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve account for %s", input.ExternalIdentity)
	}

	if out.Created {
		slog.InfoContext(ctx, "account created",
			"account_id", out.Account.ID,
			"external_identity", input.ExternalIdentity,
			"balance", out.Account.Balance)
	}

	return &GetOrCreateAccountOutput{
		Account: out.Account,
		Created: out.Created,
	}, nil
}

// GetAccount loads an account by id
func (o *orchestrator) GetAccount(ctx context.Context, input *GetAccountInput) (*GetAccountOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.AccountID == "" {
		return nil, errors.InvalidArgument("account ID is required")
	}

	acct, err := o.playerAccount(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	return &GetAccountOutput{Account: acct}, nil
}

// ListCollectibles returns the collectibles an account owns, oldest first
func (o *orchestrator) ListCollectibles(
	ctx context.Context,
	input *ListCollectiblesInput,
) (*ListCollectiblesOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.AccountID == "" {
		return nil, errors.InvalidArgument("account ID is required")
	}

	// unknown accounts are NotFound rather than an empty collection
	if _, err := o.playerAccount(ctx, input.AccountID); err != nil {
		return nil, err
	}

	out, err := o.collectibleRepo.ListByOwner(ctx, &collectibles.ListByOwnerInput{
		OwnerAccountID: input.AccountID,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list collectibles for %s", input.AccountID)
	}

	return &ListCollectiblesOutput{Collectibles: out.Collectibles}, nil
}

// playerAccount loads an account and hides system accounts behind NotFound
func (o *orchestrator) playerAccount(ctx context.Context, id string) (*entities.Account, error) {
	out, err := o.accountRepo.Get(ctx, &accounts.GetInput{ID: id})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get account %s", id)
	}
	if out.Account.IsSystem() {
		return nil, errors.NotFound("account not found").WithMeta("account_id", id)
	}
	return out.Account, nil
}
