package ledger_test

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/funko-battle/internal/entities"
	"github.com/KirkDiggler/funko-battle/internal/errors"
	mockclock "github.com/KirkDiggler/funko-battle/internal/pkg/clock/mock"
	"github.com/KirkDiggler/funko-battle/internal/pkg/idgen"
	"github.com/KirkDiggler/funko-battle/internal/repositories/accounts"
	"github.com/KirkDiggler/funko-battle/internal/services/ledger"
	"github.com/KirkDiggler/funko-battle/internal/testutils"
)

func noWait() backoff.BackOff {
	return &backoff.ZeroBackOff{}
}

type LedgerTestSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	repo   accounts.Repository
	ledger ledger.Service
	ctx    context.Context
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func (s *LedgerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ctx = context.Background()

	clk := mockclock.NewMockClock(s.ctrl)
	clk.EXPECT().Now().Return(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)).AnyTimes()

	repo, err := accounts.NewInMemory(&accounts.InMemoryConfig{
		Clock:       clk,
		IDGenerator: idgen.NewSequential("acct"),
	})
	s.Require().NoError(err)
	s.repo = repo

	svc, err := ledger.NewService(&ledger.Config{Accounts: repo, NewBackOff: noWait})
	s.Require().NoError(err)
	s.ledger = svc
}

func (s *LedgerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *LedgerTestSuite) account(identity string, balance int64) *entities.Account {
	out, err := s.repo.GetOrCreate(s.ctx, &accounts.GetOrCreateInput{
		ExternalIdentity: identity,
		StartingBalance:  balance,
	})
	s.Require().NoError(err)
	return out.Account
}

func (s *LedgerTestSuite) balance(id string) int64 {
	out, err := s.repo.Get(s.ctx, &accounts.GetInput{ID: id})
	s.Require().NoError(err)
	return out.Account.Balance
}

func (s *LedgerTestSuite) TestDebitExactBalance() {
	acct := s.account("discord:1", 100)

	out, err := s.ledger.Debit(s.ctx, &ledger.DebitInput{AccountID: acct.ID, Amount: 100})
	s.Require().NoError(err)
	s.Equal(int64(0), out.Account.Balance)
	s.Equal(int64(0), s.balance(acct.ID))
}

func (s *LedgerTestSuite) TestDebitInsufficientFunds() {
	acct := s.account("discord:1", 50)

	_, err := s.ledger.Debit(s.ctx, &ledger.DebitInput{AccountID: acct.ID, Amount: 500})
	s.True(errors.IsInsufficientFunds(err), "got %v", err)
	s.Equal(acct.ID, errors.GetMeta(err)["account_id"])
	s.Equal(int64(50), s.balance(acct.ID))
}

func (s *LedgerTestSuite) TestCreditThenDebitRoundTrip() {
	acct := s.account("discord:1", 30)

	credited, err := s.ledger.Credit(s.ctx, &ledger.CreditInput{AccountID: acct.ID, Amount: 70})
	s.Require().NoError(err)
	s.Equal(int64(100), credited.Account.Balance)

	debited, err := s.ledger.Debit(s.ctx, &ledger.DebitInput{AccountID: acct.ID, Amount: 70})
	s.Require().NoError(err)
	s.Equal(int64(30), debited.Account.Balance)
	s.Equal(int64(2), debited.Account.Version)
}

func (s *LedgerTestSuite) TestCreditOverflow() {
	acct := s.account("discord:1", math.MaxInt64-10)

	_, err := s.ledger.Credit(s.ctx, &ledger.CreditInput{AccountID: acct.ID, Amount: 11})
	s.True(errors.IsOutOfRange(err), "got %v", err)
	s.Equal(int64(math.MaxInt64-10), s.balance(acct.ID))
}

func (s *LedgerTestSuite) TestInvalidInput() {
	acct := s.account("discord:1", 10)

	_, err := s.ledger.Debit(s.ctx, &ledger.DebitInput{AccountID: acct.ID, Amount: -1})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.ledger.Credit(s.ctx, &ledger.CreditInput{Amount: 5})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.ledger.DebitAndCredit(s.ctx, &ledger.DebitAndCreditInput{
		DebitAccountID: acct.ID, DebitAmount: 1,
		CreditAccountID: acct.ID, CreditAmount: 1,
	})
	s.True(errors.IsInvalidArgument(err))
}

func (s *LedgerTestSuite) TestUnknownAccount() {
	_, err := s.ledger.Debit(s.ctx, &ledger.DebitInput{AccountID: "acct_missing", Amount: 1})
	s.True(errors.IsNotFound(err), "got %v", err)
}

func (s *LedgerTestSuite) TestDebitAndCredit() {
	player := s.account("discord:1", 1000)
	treasury := s.account("system:treasury", 0)

	out, err := s.ledger.DebitAndCredit(s.ctx, &ledger.DebitAndCreditInput{
		DebitAccountID: player.ID, DebitAmount: 1000,
		CreditAccountID: treasury.ID, CreditAmount: 1000,
	})
	s.Require().NoError(err)
	s.Equal(int64(0), out.DebitAccount.Balance)
	s.Equal(int64(1000), out.CreditAccount.Balance)
}

func (s *LedgerTestSuite) TestDebitAndCreditInsufficientLeavesBoth() {
	player := s.account("discord:1", 10)
	treasury := s.account("system:treasury", 5)

	_, err := s.ledger.DebitAndCredit(s.ctx, &ledger.DebitAndCreditInput{
		DebitAccountID: player.ID, DebitAmount: 11,
		CreditAccountID: treasury.ID, CreditAmount: 11,
	})
	s.True(errors.IsInsufficientFunds(err))
	s.Equal(int64(10), s.balance(player.ID))
	s.Equal(int64(5), s.balance(treasury.ID))
}

func (s *LedgerTestSuite) TestSystemAccountsAreNeverDebited() {
	player := s.account("discord:1", 10)
	treasury := s.account("system:treasury", 500)

	_, err := s.ledger.Debit(s.ctx, &ledger.DebitInput{AccountID: treasury.ID, Amount: 100})
	s.True(errors.IsNotFound(err), "got %v", err)

	_, err = s.ledger.DebitAndCredit(s.ctx, &ledger.DebitAndCreditInput{
		DebitAccountID: treasury.ID, DebitAmount: 100,
		CreditAccountID: player.ID, CreditAmount: 100,
	})
	s.True(errors.IsNotFound(err), "got %v", err)

	s.Equal(int64(500), s.balance(treasury.ID))
	s.Equal(int64(10), s.balance(player.ID))

	// crediting a system account stays allowed
	out, err := s.ledger.Credit(s.ctx, &ledger.CreditInput{AccountID: treasury.ID, Amount: 1})
	s.Require().NoError(err)
	s.Equal(int64(501), out.Account.Balance)
}

func (s *LedgerTestSuite) TestCanceledContextLeavesBalance() {
	acct := s.account("discord:1", 100)

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.ledger.Debit(ctx, &ledger.DebitInput{AccountID: acct.ID, Amount: 10})
	s.Require().Error(err)
	s.Equal(errors.CodeCanceled, errors.GetCode(err))
	s.Equal(int64(100), s.balance(acct.ID))
}

func (s *LedgerTestSuite) TestConcurrentDebitsNeverDoubleSpend() {
	acct := s.account("discord:1", 1000)
	s.assertNoDoubleSpend(acct.ID, s.ledger, s.ledger)
	s.Equal(int64(0), s.balance(acct.ID))
}

// assertNoDoubleSpend fires 50 debits of 100 against a balance of 1000,
// alternating between two ledgers
func (s *LedgerTestSuite) assertNoDoubleSpend(accountID string, a, b ledger.Service) {
	var (
		ok, short atomic.Int32
		g         errgroup.Group
	)
	for i := 0; i < 50; i++ {
		svc := a
		if i%2 == 1 {
			svc = b
		}
		g.Go(func() error {
			_, err := svc.Debit(s.ctx, &ledger.DebitInput{AccountID: accountID, Amount: 100})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.IsInsufficientFunds(err):
				short.Add(1)
			default:
				return fmt.Errorf("debit %d: %w", i, err)
			}
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	s.Equal(int32(10), ok.Load())
	s.Equal(int32(40), short.Load())
}

func (s *LedgerTestSuite) TestNoDoubleSpendAcrossProcesses() {
	client, _ := testutils.CreateTestRedisClient(s.T())
	clk := mockclock.NewMockClock(s.ctrl)
	clk.EXPECT().Now().Return(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)).AnyTimes()

	repo, err := accounts.NewRedis(&accounts.RedisConfig{
		Client:      client,
		Clock:       clk,
		IDGenerator: idgen.NewSequential("acct"),
	})
	s.Require().NoError(err)

	// two ledgers do not share a keyed lock, like two server processes
	first, err := ledger.NewService(&ledger.Config{Accounts: repo, MaxAttempts: 200, NewBackOff: noWait})
	s.Require().NoError(err)
	second, err := ledger.NewService(&ledger.Config{Accounts: repo, MaxAttempts: 200, NewBackOff: noWait})
	s.Require().NoError(err)

	created, err := repo.GetOrCreate(s.ctx, &accounts.GetOrCreateInput{
		ExternalIdentity: "discord:1",
		StartingBalance:  1000,
	})
	s.Require().NoError(err)

	s.assertNoDoubleSpend(created.Account.ID, first, second)

	got, err := repo.Get(s.ctx, &accounts.GetInput{ID: created.Account.ID})
	s.Require().NoError(err)
	s.Equal(int64(0), got.Account.Balance)
}

func (s *LedgerTestSuite) TestConfigValidation() {
	_, err := ledger.NewService(&ledger.Config{})
	s.True(errors.IsInvalidArgument(err))
}
