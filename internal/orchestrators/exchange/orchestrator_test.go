package exchange_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/funko-battle/internal/config"
	"github.com/KirkDiggler/funko-battle/internal/engine"
	"github.com/KirkDiggler/funko-battle/internal/entities"
	"github.com/KirkDiggler/funko-battle/internal/errors"
	"github.com/KirkDiggler/funko-battle/internal/orchestrators/exchange"
	"github.com/KirkDiggler/funko-battle/internal/pkg/clock"
	"github.com/KirkDiggler/funko-battle/internal/pkg/idgen"
	"github.com/KirkDiggler/funko-battle/internal/repositories/accounts"
	accountsmock "github.com/KirkDiggler/funko-battle/internal/repositories/accounts/mock"
	"github.com/KirkDiggler/funko-battle/internal/services/ledger"
	ledgermock "github.com/KirkDiggler/funko-battle/internal/services/ledger/mock"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	ctx          context.Context
	accounts     *accounts.InMemoryRepository
	ledger       ledger.Service
	rates        *engine.RateTable
	orchestrator exchange.Service
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ctx = context.Background()

	var err error
	s.accounts, err = accounts.NewInMemory(&accounts.InMemoryConfig{
		Clock:       clock.New(),
		IDGenerator: idgen.NewSequential("acct"),
	})
	s.Require().NoError(err)

	s.ledger, err = ledger.NewService(&ledger.Config{Accounts: s.accounts})
	s.Require().NoError(err)

	s.rates, err = engine.NewRateTable(engine.DefaultExchangeRates())
	s.Require().NoError(err)

	s.orchestrator = s.newOrchestrator(s.accounts, s.ledger)
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) newOrchestrator(repo accounts.Repository, l ledger.Service) exchange.Service {
	o, err := exchange.NewOrchestrator(&exchange.Config{
		AccountRepo:      repo,
		Ledger:           l,
		Rates:            s.rates,
		TreasuryIdentity: config.DefaultTreasuryIdentity,
	})
	s.Require().NoError(err)
	return o
}

func (s *OrchestratorTestSuite) account(identity string, balance int64) *entities.Account {
	out, err := s.accounts.GetOrCreate(s.ctx, &accounts.GetOrCreateInput{
		ExternalIdentity: identity,
		StartingBalance:  balance,
	})
	s.Require().NoError(err)
	return out.Account
}

func (s *OrchestratorTestSuite) treasury() *entities.Account {
	return s.account(config.DefaultTreasuryIdentity, 0)
}

func (s *OrchestratorTestSuite) TestExchangeWholeBalanceToBTC() {
	acct := s.account("discord:1", 1000)

	out, err := s.orchestrator.Exchange(s.ctx, &exchange.ExchangeInput{
		AccountID: acct.ID,
		Amount:    1000,
		Unit:      "btc",
	})
	s.Require().NoError(err)

	s.InDelta(0.0001, out.ExternalAmount, 1e-15)
	s.Equal(int64(0), out.Account.Balance)
	s.Equal("btc", out.Unit)
	s.Equal(0.0000001, out.Rate)
	s.Equal(int64(1000), out.Amount)

	s.Equal(int64(1000), s.treasury().Balance)
}

func (s *OrchestratorTestSuite) TestExchangeToETHIgnoresCase() {
	acct := s.account("discord:1", 500)

	out, err := s.orchestrator.Exchange(s.ctx, &exchange.ExchangeInput{
		AccountID: acct.ID,
		Amount:    200,
		Unit:      " ETH ",
	})
	s.Require().NoError(err)

	s.InDelta(0.0002, out.ExternalAmount, 1e-15)
	s.Equal("eth", out.Unit)
	s.Equal(int64(300), out.Account.Balance)
}

func (s *OrchestratorTestSuite) TestInsufficientFundsConvertsNothing() {
	acct := s.account("discord:1", 50)

	out, err := s.orchestrator.Exchange(s.ctx, &exchange.ExchangeInput{
		AccountID: acct.ID,
		Amount:    100,
		Unit:      "btc",
	})
	s.Nil(out)
	s.True(errors.IsInsufficientFunds(err))

	s.Equal(int64(50), s.account("discord:1", 0).Balance)
	s.Equal(int64(0), s.treasury().Balance)
}

func (s *OrchestratorTestSuite) TestZeroAmount() {
	acct := s.account("discord:1", 10)

	out, err := s.orchestrator.Exchange(s.ctx, &exchange.ExchangeInput{
		AccountID: acct.ID,
		Amount:    0,
		Unit:      "eth",
	})
	s.Require().NoError(err)
	s.Zero(out.ExternalAmount)
	s.Equal(int64(10), out.Account.Balance)
}

func (s *OrchestratorTestSuite) TestInvalidInput() {
	acct := s.account("discord:1", 1000)

	testCases := []struct {
		name  string
		input *exchange.ExchangeInput
	}{
		{"nil input", nil},
		{"missing account", &exchange.ExchangeInput{Amount: 1, Unit: "btc"}},
		{"negative amount", &exchange.ExchangeInput{AccountID: acct.ID, Amount: -1, Unit: "btc"}},
		{"unknown unit", &exchange.ExchangeInput{AccountID: acct.ID, Amount: 1, Unit: "doge"}},
		{"blank unit", &exchange.ExchangeInput{AccountID: acct.ID, Amount: 1}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.orchestrator.Exchange(s.ctx, tc.input)
			s.True(errors.IsInvalidArgument(err), "got %v", err)
		})
	}

	s.Equal(int64(1000), s.account("discord:1", 0).Balance)
}

func (s *OrchestratorTestSuite) TestUnknownUnitListsSupportedUnits() {
	_, err := s.orchestrator.Exchange(s.ctx, &exchange.ExchangeInput{
		AccountID: "acct_1",
		Amount:    1,
		Unit:      "doge",
	})
	s.Equal("btc,eth", errors.GetMeta(err)["supported_units"])
}

func (s *OrchestratorTestSuite) TestTreasuryCannotExchange() {
	treasury := s.treasury()

	_, err := s.orchestrator.Exchange(s.ctx, &exchange.ExchangeInput{
		AccountID: treasury.ID,
		Amount:    0,
		Unit:      "btc",
	})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestTreasuryResolvedOnce() {
	repo := accountsmock.NewMockRepository(s.ctrl)
	l := ledgermock.NewMockService(s.ctrl)

	repo.EXPECT().GetOrCreate(gomock.Any(), &accounts.GetOrCreateInput{
		ExternalIdentity: config.DefaultTreasuryIdentity,
	}).Return(&accounts.GetOrCreateOutput{
		Account: &entities.Account{ID: "acct_treasury"},
		Created: true,
	}, nil).Times(1)

	l.EXPECT().DebitAndCredit(gomock.Any(), &ledger.DebitAndCreditInput{
		DebitAccountID:  "acct_1",
		DebitAmount:     10,
		CreditAccountID: "acct_treasury",
		CreditAmount:    10,
	}).Return(&ledger.DebitAndCreditOutput{
		DebitAccount:  &entities.Account{ID: "acct_1"},
		CreditAccount: &entities.Account{ID: "acct_treasury"},
	}, nil).Times(2)

	o := s.newOrchestrator(repo, l)
	for i := 0; i < 2; i++ {
		_, err := o.Exchange(s.ctx, &exchange.ExchangeInput{AccountID: "acct_1", Amount: 10, Unit: "btc"})
		s.Require().NoError(err)
	}
}

func (s *OrchestratorTestSuite) TestTreasuryFailureIsRetried() {
	repo := accountsmock.NewMockRepository(s.ctrl)
	l := ledgermock.NewMockService(s.ctrl)

	gomock.InOrder(
		repo.EXPECT().GetOrCreate(gomock.Any(), gomock.Any()).
			Return(nil, errors.Unavailable("redis is down")),
		repo.EXPECT().GetOrCreate(gomock.Any(), gomock.Any()).
			Return(&accounts.GetOrCreateOutput{Account: &entities.Account{ID: "acct_treasury"}}, nil),
	)
	l.EXPECT().DebitAndCredit(gomock.Any(), gomock.Any()).
		Return(&ledger.DebitAndCreditOutput{
			DebitAccount:  &entities.Account{ID: "acct_1"},
			CreditAccount: &entities.Account{ID: "acct_treasury"},
		}, nil)

	o := s.newOrchestrator(repo, l)

	_, err := o.Exchange(s.ctx, &exchange.ExchangeInput{AccountID: "acct_1", Amount: 1, Unit: "eth"})
	s.True(errors.IsUnavailable(err))

	_, err = o.Exchange(s.ctx, &exchange.ExchangeInput{AccountID: "acct_1", Amount: 1, Unit: "eth"})
	s.NoError(err)
}

func (s *OrchestratorTestSuite) TestRates() {
	out, err := s.orchestrator.Rates(s.ctx, &exchange.RatesInput{})
	s.Require().NoError(err)
	s.Equal(engine.DefaultExchangeRates(), out.Rates)

	out.Rates["btc"] = 1
	again, err := s.orchestrator.Rates(s.ctx, &exchange.RatesInput{})
	s.Require().NoError(err)
	s.Equal(0.0000001, again.Rates["btc"])
}

func (s *OrchestratorTestSuite) TestConfigValidation() {
	testCases := []struct {
		name   string
		mutate func(cfg *exchange.Config)
	}{
		{"missing accounts", func(cfg *exchange.Config) { cfg.AccountRepo = nil }},
		{"missing ledger", func(cfg *exchange.Config) { cfg.Ledger = nil }},
		{"missing rates", func(cfg *exchange.Config) { cfg.Rates = nil }},
		{"blank treasury", func(cfg *exchange.Config) { cfg.TreasuryIdentity = " " }},
		{"player treasury", func(cfg *exchange.Config) { cfg.TreasuryIdentity = "telegram:1" }},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			cfg := &exchange.Config{
				AccountRepo:      s.accounts,
				Ledger:           s.ledger,
				Rates:            s.rates,
				TreasuryIdentity: config.DefaultTreasuryIdentity,
			}
			tc.mutate(cfg)

			_, err := exchange.NewOrchestrator(cfg)
			s.True(errors.IsInvalidArgument(err))
		})
	}
}
