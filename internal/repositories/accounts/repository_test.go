package accounts_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/funko-battle/internal/errors"
	"github.com/KirkDiggler/funko-battle/internal/pkg/clock"
	mockclock "github.com/KirkDiggler/funko-battle/internal/pkg/clock/mock"
	"github.com/KirkDiggler/funko-battle/internal/pkg/idgen"
	"github.com/KirkDiggler/funko-battle/internal/repositories/accounts"
	"github.com/KirkDiggler/funko-battle/internal/sqlite"
	"github.com/KirkDiggler/funko-battle/internal/testutils"
)

type newRepositoryFunc func(t *testing.T, clk clock.Clock) accounts.Repository

// RepositoryTestSuite runs the same contract against every backend
type RepositoryTestSuite struct {
	suite.Suite
	newRepo newRepositoryFunc
	ctrl    *gomock.Controller
	repo    accounts.Repository
	ctx     context.Context
	now     time.Time
}

func TestInMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{newRepo: func(t *testing.T, clk clock.Clock) accounts.Repository {
		repo, err := accounts.NewInMemory(&accounts.InMemoryConfig{
			Clock:       clk,
			IDGenerator: idgen.NewSequential("acct"),
		})
		if err != nil {
			t.Fatal(err)
		}
		return repo
	}})
}

func TestRedisRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{newRepo: func(t *testing.T, clk clock.Clock) accounts.Repository {
		client, _ := testutils.CreateTestRedisClient(t)
		repo, err := accounts.NewRedis(&accounts.RedisConfig{
			Client:      client,
			Clock:       clk,
			IDGenerator: idgen.NewSequential("acct"),
		})
		if err != nil {
			t.Fatal(err)
		}
		return repo
	}})
}

func TestSQLiteRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{newRepo: func(t *testing.T, clk clock.Clock) accounts.Repository {
		db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "funko.db"))
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = db.Close() })

		repo, err := accounts.NewSQLite(&accounts.SQLiteConfig{
			DB:          db,
			Clock:       clk,
			IDGenerator: idgen.NewSequential("acct"),
		})
		if err != nil {
			t.Fatal(err)
		}
		return repo
	}})
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ctx = context.Background()
	s.now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	clk := mockclock.NewMockClock(s.ctrl)
	clk.EXPECT().Now().Return(s.now).AnyTimes()

	s.repo = s.newRepo(s.T(), clk)
}

func (s *RepositoryTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *RepositoryTestSuite) create(identity string, balance int64) *accounts.GetOrCreateOutput {
	out, err := s.repo.GetOrCreate(s.ctx, &accounts.GetOrCreateInput{
		ExternalIdentity: identity,
		StartingBalance:  balance,
	})
	s.Require().NoError(err)
	return out
}

func (s *RepositoryTestSuite) TestGetOrCreate() {
	first := s.create("discord:1", 100)
	s.True(first.Created)
	s.NotEmpty(first.Account.ID)
	s.Equal("discord:1", first.Account.ExternalIdentity)
	s.Equal(int64(100), first.Account.Balance)
	s.Equal(1, first.Account.Level)
	s.Equal(int64(0), first.Account.Version)
	s.True(first.Account.CreatedAt.Equal(s.now))

	second := s.create("discord:1", 999)
	s.False(second.Created)
	s.Equal(first.Account.ID, second.Account.ID)
	s.Equal(int64(100), second.Account.Balance)

	other := s.create("discord:2", 0)
	s.NotEqual(first.Account.ID, other.Account.ID)
}

func (s *RepositoryTestSuite) TestGetOrCreateValidation() {
	_, err := s.repo.GetOrCreate(s.ctx, &accounts.GetOrCreateInput{ExternalIdentity: " "})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.GetOrCreate(s.ctx, &accounts.GetOrCreateInput{ExternalIdentity: "x", StartingBalance: -1})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.GetOrCreate(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *RepositoryTestSuite) TestGet() {
	created := s.create("discord:1", 10)

	out, err := s.repo.Get(s.ctx, &accounts.GetInput{ID: created.Account.ID})
	s.Require().NoError(err)
	s.Equal(created.Account.ID, out.Account.ID)
	s.Equal(int64(10), out.Account.Balance)

	_, err = s.repo.Get(s.ctx, &accounts.GetInput{ID: "acct_missing"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Get(s.ctx, &accounts.GetInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RepositoryTestSuite) TestUpdateBalances() {
	acct := s.create("discord:1", 100).Account

	out, err := s.repo.UpdateBalances(s.ctx, &accounts.UpdateBalancesInput{
		Updates: []accounts.BalanceUpdate{{AccountID: acct.ID, ExpectedVersion: 0, NewBalance: 40}},
	})
	s.Require().NoError(err)
	s.Require().Len(out.Accounts, 1)
	s.Equal(int64(40), out.Accounts[0].Balance)
	s.Equal(int64(1), out.Accounts[0].Version)

	got, err := s.repo.Get(s.ctx, &accounts.GetInput{ID: acct.ID})
	s.Require().NoError(err)
	s.Equal(int64(40), got.Account.Balance)
	s.Equal(int64(1), got.Account.Version)
}

func (s *RepositoryTestSuite) TestUpdateBalancesStaleVersion() {
	acct := s.create("discord:1", 100).Account

	_, err := s.repo.UpdateBalances(s.ctx, &accounts.UpdateBalancesInput{
		Updates: []accounts.BalanceUpdate{{AccountID: acct.ID, ExpectedVersion: 3, NewBalance: 0}},
	})
	s.True(errors.IsAborted(err), "got %v", err)

	got, err := s.repo.Get(s.ctx, &accounts.GetInput{ID: acct.ID})
	s.Require().NoError(err)
	s.Equal(int64(100), got.Account.Balance)
	s.Equal(int64(0), got.Account.Version)
}

func (s *RepositoryTestSuite) TestUpdateBalancesAllOrNothing() {
	a := s.create("discord:a", 100).Account
	b := s.create("discord:b", 5).Account

	_, err := s.repo.UpdateBalances(s.ctx, &accounts.UpdateBalancesInput{
		Updates: []accounts.BalanceUpdate{
			{AccountID: a.ID, ExpectedVersion: 0, NewBalance: 0},
			{AccountID: b.ID, ExpectedVersion: 7, NewBalance: 105},
		},
	})
	s.True(errors.IsAborted(err), "got %v", err)

	for id, balance := range map[string]int64{a.ID: 100, b.ID: 5} {
		got, err := s.repo.Get(s.ctx, &accounts.GetInput{ID: id})
		s.Require().NoError(err)
		s.Equal(balance, got.Account.Balance, id)
		s.Equal(int64(0), got.Account.Version, id)
	}

	out, err := s.repo.UpdateBalances(s.ctx, &accounts.UpdateBalancesInput{
		Updates: []accounts.BalanceUpdate{
			{AccountID: a.ID, ExpectedVersion: 0, NewBalance: 0},
			{AccountID: b.ID, ExpectedVersion: 0, NewBalance: 105},
		},
	})
	s.Require().NoError(err)
	s.Equal(a.ID, out.Accounts[0].ID)
	s.Equal(int64(0), out.Accounts[0].Balance)
	s.Equal(b.ID, out.Accounts[1].ID)
	s.Equal(int64(105), out.Accounts[1].Balance)
}

func (s *RepositoryTestSuite) TestUpdateBalancesErrors() {
	acct := s.create("discord:1", 100).Account

	_, err := s.repo.UpdateBalances(s.ctx, &accounts.UpdateBalancesInput{
		Updates: []accounts.BalanceUpdate{{AccountID: "acct_missing", NewBalance: 1}},
	})
	s.True(errors.IsNotFound(err), "got %v", err)

	testCases := []struct {
		name    string
		updates []accounts.BalanceUpdate
	}{
		{"empty", nil},
		{"negative", []accounts.BalanceUpdate{{AccountID: acct.ID, NewBalance: -1}}},
		{"duplicate", []accounts.BalanceUpdate{
			{AccountID: acct.ID, NewBalance: 1},
			{AccountID: acct.ID, NewBalance: 2},
		}},
		{"missing id", []accounts.BalanceUpdate{{NewBalance: 1}}},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.repo.UpdateBalances(s.ctx, &accounts.UpdateBalancesInput{Updates: tc.updates})
			s.True(errors.IsInvalidArgument(err), "got %v", err)
		})
	}
}

func (s *RepositoryTestSuite) TestConcurrentFirstContact() {
	const callers = 20

	var (
		created atomic.Int32
		ids     = make([]string, callers)
		g       errgroup.Group
	)
	for i := 0; i < callers; i++ {
		g.Go(func() error {
			out, err := s.repo.GetOrCreate(s.ctx, &accounts.GetOrCreateInput{ExternalIdentity: "discord:race"})
			if err != nil {
				return err
			}
			if out.Created {
				created.Add(1)
			}
			ids[i] = out.Account.ID
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	s.Equal(int32(1), created.Load())
	for _, id := range ids {
		s.Equal(ids[0], id)
	}
}

func (s *RepositoryTestSuite) TestConcurrentWritersOneWins() {
	acct := s.create("discord:1", 100).Account

	const writers = 10
	var (
		wins atomic.Int32
		g    errgroup.Group
	)
	for i := 0; i < writers; i++ {
		g.Go(func() error {
			_, err := s.repo.UpdateBalances(s.ctx, &accounts.UpdateBalancesInput{
				Updates: []accounts.BalanceUpdate{{AccountID: acct.ID, ExpectedVersion: 0, NewBalance: int64(i)}},
			})
			switch {
			case err == nil:
				wins.Add(1)
				return nil
			case errors.IsAborted(err):
				return nil
			default:
				return fmt.Errorf("writer %d: %w", i, err)
			}
		})
	}
	s.Require().NoError(g.Wait())

	s.Equal(int32(1), wins.Load())
	got, err := s.repo.Get(s.ctx, &accounts.GetInput{ID: acct.ID})
	s.Require().NoError(err)
	s.Equal(int64(1), got.Account.Version)
}

func (s *RepositoryTestSuite) TestConfigValidation() {
	_, err := accounts.NewInMemory(&accounts.InMemoryConfig{})
	s.True(errors.IsInvalidArgument(err))
	_, err = accounts.NewRedis(&accounts.RedisConfig{})
	s.True(errors.IsInvalidArgument(err))
	_, err = accounts.NewSQLite(&accounts.SQLiteConfig{})
	s.True(errors.IsInvalidArgument(err))
}
