// Package accounts stores player accounts and applies conditional balance
// writes.
package accounts

import (
	"context"

	"github.com/KirkDiggler/funko-battle/internal/entities"
	"github.com/KirkDiggler/funko-battle/internal/errors"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=accountsmock github.com/KirkDiggler/funko-battle/internal/repositories/accounts Repository

// Repository is the storage collaborator for accounts. Implementations must
// make UpdateBalances all-or-nothing and reject it with an Aborted error when
// any account's version differs from the expected one.
type Repository interface {
	// Get returns NotFound for unknown ids
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// GetOrCreate is idempotent on ExternalIdentity, including under
	// concurrent first contact
	GetOrCreate(ctx context.Context, input *GetOrCreateInput) (*GetOrCreateOutput, error)

	// UpdateBalances applies every update or none
	UpdateBalances(ctx context.Context, input *UpdateBalancesInput) (*UpdateBalancesOutput, error)
}

// GetInput identifies an account
type GetInput struct {
	ID string
}

// GetOutput holds the account
type GetOutput struct {
	Account *entities.Account
}

// GetOrCreateInput identifies an account by its external identity.
// StartingBalance only applies when the account is created.
type GetOrCreateInput struct {
	ExternalIdentity string
	StartingBalance  int64
}

// GetOrCreateOutput holds the account and whether this call created it
type GetOrCreateOutput struct {
	Account *entities.Account
	Created bool
}

// BalanceUpdate sets an account's balance if its version still matches
type BalanceUpdate struct {
	AccountID       string
	ExpectedVersion int64
	NewBalance      int64
}

// UpdateBalancesInput lists the writes to apply together
type UpdateBalancesInput struct {
	Updates []BalanceUpdate
}

// UpdateBalancesOutput holds the updated accounts in input order
type UpdateBalancesOutput struct {
	Accounts []*entities.Account
}

func validateGetOrCreate(input *GetOrCreateInput) error {
	if input == nil {
		return errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("external_identity", input.ExternalIdentity, vb)
	errors.ValidateNonNegative("starting_balance", input.StartingBalance, vb)
	return vb.Build()
}

func validateUpdates(input *UpdateBalancesInput) error {
	if input == nil {
		return errors.InvalidArgument("input is required")
	}
	if len(input.Updates) == 0 {
		return errors.InvalidArgument("at least one update is required")
	}

	seen := make(map[string]bool, len(input.Updates))
	for _, u := range input.Updates {
		if u.AccountID == "" {
			return errors.InvalidArgument("account ID is required")
		}
		if seen[u.AccountID] {
			return errors.InvalidArgumentf("account %s updated twice", u.AccountID)
		}
		seen[u.AccountID] = true
		if u.NewBalance < 0 {
			return errors.InvalidArgumentf("balance of account %s would be negative", u.AccountID)
		}
	}
	return nil
}

func versionConflict(accountID string, expected, actual int64) error {
	return errors.Abortedf("account %s changed concurrently", accountID).
		WithMeta("account_id", accountID).
		WithMeta("expected_version", expected).
		WithMeta("actual_version", actual)
}

func copyAccount(a *entities.Account) *entities.Account {
	c := *a
	return &c
}
