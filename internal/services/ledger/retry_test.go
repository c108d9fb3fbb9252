package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/funko-battle/internal/entities"
	"github.com/KirkDiggler/funko-battle/internal/errors"
	"github.com/KirkDiggler/funko-battle/internal/repositories/accounts"
	accountsmock "github.com/KirkDiggler/funko-battle/internal/repositories/accounts/mock"
	"github.com/KirkDiggler/funko-battle/internal/services/ledger"
)

type RetryTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	accounts *accountsmock.MockRepository
	ledger   ledger.Service
	ctx      context.Context
}

func TestRetrySuite(t *testing.T) {
	suite.Run(t, new(RetryTestSuite))
}

func (s *RetryTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.accounts = accountsmock.NewMockRepository(s.ctrl)
	s.ctx = context.Background()

	svc, err := ledger.NewService(&ledger.Config{
		Accounts:    s.accounts,
		MaxAttempts: 3,
		NewBackOff:  noWait,
	})
	s.Require().NoError(err)
	s.ledger = svc
}

func (s *RetryTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *RetryTestSuite) expectGet(version, balance int64) *gomock.Call {
	return s.accounts.EXPECT().
		Get(gomock.Any(), &accounts.GetInput{ID: "acct_1"}).
		Return(&accounts.GetOutput{Account: &entities.Account{
			ID: "acct_1", Balance: balance, Version: version,
		}}, nil)
}

func (s *RetryTestSuite) TestConflictThenSuccess() {
	gomock.InOrder(
		s.expectGet(4, 300),
		s.accounts.EXPECT().
			UpdateBalances(gomock.Any(), &accounts.UpdateBalancesInput{Updates: []accounts.BalanceUpdate{
				{AccountID: "acct_1", ExpectedVersion: 4, NewBalance: 200},
			}}).
			Return(nil, errors.Aborted("stale")),
		// a concurrent writer spent 50 meanwhile
		s.expectGet(5, 250),
		s.accounts.EXPECT().
			UpdateBalances(gomock.Any(), &accounts.UpdateBalancesInput{Updates: []accounts.BalanceUpdate{
				{AccountID: "acct_1", ExpectedVersion: 5, NewBalance: 150},
			}}).
			Return(&accounts.UpdateBalancesOutput{Accounts: []*entities.Account{
				{ID: "acct_1", Balance: 150, Version: 6},
			}}, nil),
	)

	out, err := s.ledger.Debit(s.ctx, &ledger.DebitInput{AccountID: "acct_1", Amount: 100})
	s.Require().NoError(err)
	s.Equal(int64(150), out.Account.Balance)
}

func (s *RetryTestSuite) TestConflictRechecksFunds() {
	gomock.InOrder(
		s.expectGet(1, 100),
		s.accounts.EXPECT().UpdateBalances(gomock.Any(), gomock.Any()).Return(nil, errors.Aborted("stale")),
		s.expectGet(2, 20),
	)

	_, err := s.ledger.Debit(s.ctx, &ledger.DebitInput{AccountID: "acct_1", Amount: 100})
	s.True(errors.IsInsufficientFunds(err), "got %v", err)
}

func (s *RetryTestSuite) TestExhaustionIsInternal() {
	s.expectGet(1, 100).Times(3)
	s.accounts.EXPECT().UpdateBalances(gomock.Any(), gomock.Any()).
		Return(nil, errors.Aborted("stale")).Times(3)

	_, err := s.ledger.Credit(s.ctx, &ledger.CreditInput{AccountID: "acct_1", Amount: 10})
	s.True(errors.IsInternal(err), "got %v", err)
	s.Equal(3, errors.GetMeta(err)["attempts"])
}

func (s *RetryTestSuite) TestStorageUnavailableIsNotRetried() {
	s.expectGet(1, 100).Times(1)
	s.accounts.EXPECT().UpdateBalances(gomock.Any(), gomock.Any()).
		Return(nil, errors.Unavailable("redis down")).Times(1)

	_, err := s.ledger.Debit(s.ctx, &ledger.DebitInput{AccountID: "acct_1", Amount: 10})
	s.True(errors.IsUnavailable(err), "got %v", err)
}

func (s *RetryTestSuite) TestCanceledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	s.accounts.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, context.Canceled).AnyTimes()

	_, err := s.ledger.Debit(ctx, &ledger.DebitInput{AccountID: "acct_1", Amount: 10})
	s.Equal(errors.CodeCanceled, errors.GetCode(err))
}
