package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/funko-battle/internal/config"
	"github.com/KirkDiggler/funko-battle/internal/engine"
	"github.com/KirkDiggler/funko-battle/internal/entities"
	"github.com/KirkDiggler/funko-battle/internal/errors"
)

type EconomyTestSuite struct {
	suite.Suite
}

func TestEconomySuite(t *testing.T) {
	suite.Run(t, new(EconomyTestSuite))
}

func (s *EconomyTestSuite) TestDefaults() {
	eco, err := config.LoadEconomy("")
	s.Require().NoError(err)
	s.Require().NoError(eco.Validate())

	s.Equal(int64(500), eco.BoxCosts[entities.BoxTierLegendary])
	s.Equal(engine.Range{Min: 50, Max: 200}, eco.BattleReward)
	s.Equal(config.DefaultTreasuryIdentity, eco.TreasuryIdentity)
}

func (s *EconomyTestSuite) TestOverlay() {
	eco, err := config.ParseEconomy([]byte(`
starting_balance: 1000
box_costs:
  rare: 300
power_ranges:
  legendary: {min: 60, max: 90}
exchange_rates:
  sol: 0.00002
`))
	s.Require().NoError(err)

	s.Equal(int64(1000), eco.StartingBalance)
	s.Equal(int64(100), eco.BoxCosts[entities.BoxTierCommon])
	s.Equal(int64(300), eco.BoxCosts[entities.BoxTierRare])
	s.Equal(engine.Range{Min: 60, Max: 90}, eco.PowerRanges[entities.RarityLegendary])
	s.Equal(engine.Range{Min: 10, Max: 20}, eco.PowerRanges[entities.RarityCommon])
	s.InDelta(0.0000001, eco.ExchangeRates["btc"], 1e-15)
	s.InDelta(0.00002, eco.ExchangeRates["sol"], 1e-15)
	s.Len(eco.TypeTags, 5)
}

func (s *EconomyTestSuite) TestInvalidTables() {
	testCases := []struct {
		name string
		yaml string
	}{
		{"negative cost", "box_costs: {common: -1}"},
		{"empty candidates", "box_rarities: {rare: []}"},
		{"unknown rarity", "box_rarities: {rare: [mythic]}"},
		{"inverted power", "power_ranges: {epic: {min: 50, max: 35}}"},
		{"zero power", "power_ranges: {common: {min: 0, max: 20}}"},
		{"inverted reward", "battle_reward: {min: 200, max: 50}"},
		{"zero rate", "exchange_rates: {btc: 0}"},
		{"blank treasury", "treasury_identity: ''"},
		{"player treasury", "treasury_identity: 'telegram:1'"},
		{"no tags", "type_tags: []"},
		{"not yaml", "box_costs: [1, 2"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := config.ParseEconomy([]byte(tc.yaml))
			s.True(errors.IsInvalidArgument(err), "got %v", err)
		})
	}
}

func (s *EconomyTestSuite) TestExampleFileLoads() {
	eco, err := config.LoadEconomy(filepath.Join("..", "..", "configs", "economy.example.yaml"))
	s.Require().NoError(err)
	s.Equal(config.DefaultEconomy(), eco)
}

func (s *EconomyTestSuite) TestMissingFile() {
	_, err := config.LoadEconomy(filepath.Join(s.T().TempDir(), "nope.yaml"))
	s.True(errors.IsInvalidArgument(err))
}

func (s *EconomyTestSuite) TestNewFactoryHonorsTables() {
	path := filepath.Join(s.T().TempDir(), "economy.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(`
box_rarities:
  common: [legendary]
type_tags: [Pop]
`), 0o600))

	eco, err := config.LoadEconomy(path)
	s.Require().NoError(err)

	factory, err := eco.NewFactory(engine.NewDiceSource(nil))
	s.Require().NoError(err)

	c, err := factory.Create("acct_1", entities.BoxTierCommon)
	s.Require().NoError(err)
	s.Equal(entities.RarityLegendary, c.Rarity)
	s.Equal("Pop", c.TypeTag)
	s.True(eco.PowerRanges[entities.RarityLegendary].Contains(c.Power))
}
