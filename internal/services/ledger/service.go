// Package ledger implements the economy ledger on top of the accounts
// repository.
//
// Writes to one account are serialized in process by a keyed lock and
// across processes by the repository's version check. A version conflict is
// retried with exponential backoff; running out of attempts is an Internal
// error.
package ledger

import (
	"context"
	stderrors "errors"
	"log/slog"
	"math"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/KirkDiggler/funko-battle/internal/entities"
	"github.com/KirkDiggler/funko-battle/internal/errors"
	"github.com/KirkDiggler/funko-battle/internal/metrics"
	"github.com/KirkDiggler/funko-battle/internal/pkg/keylock"
	"github.com/KirkDiggler/funko-battle/internal/repositories/accounts"
)

// DefaultMaxAttempts bounds the tries of one balance write
const DefaultMaxAttempts = 5

const (
	opDebit          = "debit"
	opCredit         = "credit"
	opDebitAndCredit = "debit_and_credit"
)

// Config holds the dependencies for the ledger
type Config struct {
	Accounts accounts.Repository

	// MaxAttempts defaults to DefaultMaxAttempts
	MaxAttempts int

	// NewBackOff builds the retry schedule for one operation. Defaults to
	// exponential backoff from 5ms capped at 100ms.
	NewBackOff func() backoff.BackOff
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Accounts == nil {
		vb.RequiredField("Accounts")
	}
	if c.MaxAttempts < 0 {
		vb.Field("MaxAttempts", "must not be negative")
	}
	return vb.Build()
}

type service struct {
	accounts    accounts.Repository
	locks       *keylock.Locker
	maxAttempts int
	newBackOff  func() backoff.BackOff
}

// NewService creates a ledger
func NewService(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = DefaultMaxAttempts
	}

	newBackOff := cfg.NewBackOff
	if newBackOff == nil {
		newBackOff = defaultBackOff
	}

	return &service{
		accounts:    cfg.Accounts,
		locks:       keylock.New(),
		maxAttempts: maxAttempts,
		newBackOff:  newBackOff,
	}, nil
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 5 * time.Millisecond
	b.MaxInterval = 100 * time.Millisecond
	return b
}

// Debit takes coins from an account
func (s *service) Debit(ctx context.Context, input *DebitInput) (*DebitOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateAmount(input.AccountID, input.Amount); err != nil {
		return nil, err
	}

	updated, err := s.apply(ctx, opDebit, []string{input.AccountID},
		func(accts map[string]*entities.Account) ([]accounts.BalanceUpdate, error) {
			acct := accts[input.AccountID]
			if err := checkDebitable(acct); err != nil {
				return nil, err
			}
			if err := checkFunds(acct, input.Amount); err != nil {
				return nil, err
			}
			return []accounts.BalanceUpdate{{
				AccountID:       acct.ID,
				ExpectedVersion: acct.Version,
				NewBalance:      acct.Balance - input.Amount,
			}}, nil
		})
	if err != nil {
		return nil, err
	}

	return &DebitOutput{Account: updated[0]}, nil
}

// Credit adds coins to an account
func (s *service) Credit(ctx context.Context, input *CreditInput) (*CreditOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateAmount(input.AccountID, input.Amount); err != nil {
		return nil, err
	}

	updated, err := s.apply(ctx, opCredit, []string{input.AccountID},
		func(accts map[string]*entities.Account) ([]accounts.BalanceUpdate, error) {
			acct := accts[input.AccountID]
			balance, err := addChecked(acct, input.Amount)
			if err != nil {
				return nil, err
			}
			return []accounts.BalanceUpdate{{
				AccountID:       acct.ID,
				ExpectedVersion: acct.Version,
				NewBalance:      balance,
			}}, nil
		})
	if err != nil {
		return nil, err
	}

	return &CreditOutput{Account: updated[0]}, nil
}

// DebitAndCredit moves coins between two distinct accounts in one write
func (s *service) DebitAndCredit(ctx context.Context, input *DebitAndCreditInput) (*DebitAndCreditOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateAmount(input.DebitAccountID, input.DebitAmount); err != nil {
		return nil, err
	}
	if err := validateAmount(input.CreditAccountID, input.CreditAmount); err != nil {
		return nil, err
	}
	if input.DebitAccountID == input.CreditAccountID {
		return nil, errors.InvalidArgument("debit and credit accounts must differ").
			WithMeta("account_id", input.DebitAccountID)
	}

	updated, err := s.apply(ctx, opDebitAndCredit, []string{input.DebitAccountID, input.CreditAccountID},
		func(accts map[string]*entities.Account) ([]accounts.BalanceUpdate, error) {
			debit := accts[input.DebitAccountID]
			credit := accts[input.CreditAccountID]

			if err := checkDebitable(debit); err != nil {
				return nil, err
			}
			if err := checkFunds(debit, input.DebitAmount); err != nil {
				return nil, err
			}
			balance, err := addChecked(credit, input.CreditAmount)
			if err != nil {
				return nil, err
			}

			return []accounts.BalanceUpdate{
				{AccountID: debit.ID, ExpectedVersion: debit.Version, NewBalance: debit.Balance - input.DebitAmount},
				{AccountID: credit.ID, ExpectedVersion: credit.Version, NewBalance: balance},
			}, nil
		})
	if err != nil {
		return nil, err
	}

	return &DebitAndCreditOutput{DebitAccount: updated[0], CreditAccount: updated[1]}, nil
}

// planFunc turns freshly read accounts into the balance writes to attempt
type planFunc func(accts map[string]*entities.Account) ([]accounts.BalanceUpdate, error)

// apply locks the accounts, then reads, plans and writes until the write
// is not rejected for a stale version or attempts run out. Updated accounts
// are returned in the order of ids.
func (s *service) apply(ctx context.Context, op string, ids []string, plan planFunc) ([]*entities.Account, error) {
	unlock, err := s.locks.Lock(ctx, ids...)
	if err != nil {
		err = s.classify(ctx, op, ids, err)
		metrics.RecordLedgerOperation(op, outcome(err))
		return nil, err
	}
	defer unlock()

	attempt := func() ([]*entities.Account, error) {
		accts := make(map[string]*entities.Account, len(ids))
		for _, id := range ids {
			out, err := s.accounts.Get(ctx, &accounts.GetInput{ID: id})
			if err != nil {
				return nil, backoff.Permanent(err)
			}
			accts[id] = out.Account
		}

		updates, err := plan(accts)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		out, err := s.accounts.UpdateBalances(ctx, &accounts.UpdateBalancesInput{Updates: updates})
		if err != nil {
			if errors.IsAborted(err) {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return out.Accounts, nil
	}

	updated, err := backoff.Retry(ctx, attempt,
		backoff.WithBackOff(s.newBackOff()),
		backoff.WithMaxTries(uint(s.maxAttempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			metrics.RecordLedgerConflict(op)
			slog.DebugContext(ctx, "balance write conflicted, retrying",
				"operation", op,
				"account_ids", ids,
				"retry_in", next,
				"error", err)
		}),
	)
	if err != nil {
		err = s.classify(ctx, op, ids, unwrapPermanent(err))
		metrics.RecordLedgerOperation(op, outcome(err))
		return nil, err
	}

	metrics.RecordLedgerOperation(op, metrics.OutcomeOK)
	return updated, nil
}

func (s *service) classify(ctx context.Context, op string, ids []string, err error) error {
	if errors.IsAborted(err) {
		slog.WarnContext(ctx, "balance write kept conflicting, giving up",
			"operation", op,
			"account_ids", ids,
			"attempts", s.maxAttempts)
		return errors.WrapWithCodef(err, errors.CodeInternal,
			"%s gave up after %d conflicting attempts", op, s.maxAttempts).
			WithMeta("attempts", s.maxAttempts)
	}

	var structured *errors.Error
	if errors.As(err, &structured) {
		return err
	}
	switch {
	case stderrors.Is(err, context.Canceled):
		return errors.WrapWithCode(err, errors.CodeCanceled, "ledger operation canceled")
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.WrapWithCode(err, errors.CodeDeadlineExceeded, "ledger operation timed out")
	}
	return errors.Wrapf(err, "%s failed", op)
}

func outcome(err error) string {
	switch {
	case errors.IsInsufficientFunds(err):
		return metrics.OutcomeInsufficientFunds
	case errors.IsInternal(err) && errors.GetMeta(err)["attempts"] != nil:
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeError
	}
}

func unwrapPermanent(err error) error {
	var permanent *backoff.PermanentError
	if stderrors.As(err, &permanent) {
		return permanent.Err
	}
	return err
}

func validateAmount(accountID string, amount int64) error {
	if accountID == "" {
		return errors.InvalidArgument("account ID is required")
	}
	if amount < 0 {
		return errors.InvalidArgumentf("amount must not be negative, got %d", amount).
			WithMeta("account_id", accountID)
	}
	return nil
}

// checkDebitable refuses to spend from system accounts. They answer as
// unknown so a guessed id reveals nothing.
func checkDebitable(acct *entities.Account) error {
	if acct.IsSystem() {
		return errors.NotFound("account not found").WithMeta("account_id", acct.ID)
	}
	return nil
}

func checkFunds(acct *entities.Account, amount int64) error {
	if acct.Balance < amount {
		return errors.InsufficientFundsf("balance %d does not cover %d", acct.Balance, amount).
			WithMeta("account_id", acct.ID).
			WithMeta("balance", acct.Balance).
			WithMeta("requested", amount)
	}
	return nil
}

func addChecked(acct *entities.Account, amount int64) (int64, error) {
	if acct.Balance > math.MaxInt64-amount {
		return 0, errors.OutOfRangef("crediting %d would overflow the balance of account %s", amount, acct.ID).
			WithMeta("account_id", acct.ID)
	}
	return acct.Balance + amount, nil
}
