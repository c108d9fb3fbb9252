package engine_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/funko-battle/internal/engine"
	"github.com/KirkDiggler/funko-battle/internal/entities"
	"github.com/KirkDiggler/funko-battle/internal/errors"
	"github.com/KirkDiggler/funko-battle/internal/testutils"
)

type PowerSamplerTestSuite struct {
	suite.Suite
}

func TestPowerSamplerSuite(t *testing.T) {
	suite.Run(t, new(PowerSamplerTestSuite))
}

func (s *PowerSamplerTestSuite) newSampler(random engine.Random) engine.PowerSampler {
	sampler, err := engine.NewPowerSampler(&engine.PowerSamplerConfig{
		Random: random,
		Ranges: engine.DefaultPowerRanges(),
	})
	s.Require().NoError(err)
	return sampler
}

func (s *PowerSamplerTestSuite) TestAlwaysWithinRange() {
	sampler := s.newSampler(engine.NewDiceSource(nil))

	for rarity, rng := range engine.DefaultPowerRanges() {
		s.Run(string(rarity), func() {
			for i := 0; i < 1000; i++ {
				power, err := sampler.Sample(rarity)
				s.Require().NoError(err)
				s.Require().True(rng.Contains(power), "power %d outside %+v", power, rng)
			}
		})
	}
}

func (s *PowerSamplerTestSuite) TestBoundariesReachable() {
	low := s.newSampler(engine.NewDiceSource(testutils.EdgeRoller{}))
	high := s.newSampler(engine.NewDiceSource(testutils.EdgeRoller{High: true}))

	expected := map[entities.Rarity][2]int{
		entities.RarityCommon:    {10, 20},
		entities.RarityRare:      {20, 35},
		entities.RarityEpic:      {35, 50},
		entities.RarityLegendary: {50, 75},
	}

	for rarity, bounds := range expected {
		s.Run(string(rarity), func() {
			minPower, err := low.Sample(rarity)
			s.Require().NoError(err)
			maxPower, err := high.Sample(rarity)
			s.Require().NoError(err)

			s.Equal(bounds[0], minPower)
			s.Equal(bounds[1], maxPower)
		})
	}
}

func (s *PowerSamplerTestSuite) TestUnknownRarity() {
	sampler := s.newSampler(engine.NewDiceSource(nil))
	_, err := sampler.Sample(entities.Rarity("mythic"))
	s.True(errors.IsInvalidArgument(err))
}

func (s *PowerSamplerTestSuite) TestConfigValidation() {
	ranges := engine.DefaultPowerRanges()
	ranges[entities.RarityEpic] = engine.Range{Min: 50, Max: 35}
	_, err := engine.NewPowerSampler(&engine.PowerSamplerConfig{
		Random: engine.NewDiceSource(nil),
		Ranges: ranges,
	})
	s.True(errors.IsInvalidArgument(err))

	ranges = engine.DefaultPowerRanges()
	delete(ranges, entities.RarityLegendary)
	_, err = engine.NewPowerSampler(&engine.PowerSamplerConfig{
		Random: engine.NewDiceSource(nil),
		Ranges: ranges,
	})
	s.True(errors.IsInvalidArgument(err))

	ranges = engine.DefaultPowerRanges()
	ranges[entities.RarityCommon] = engine.Range{Min: 0, Max: 20}
	_, err = engine.NewPowerSampler(&engine.PowerSamplerConfig{
		Random: engine.NewDiceSource(nil),
		Ranges: ranges,
	})
	s.True(errors.IsInvalidArgument(err))
}
