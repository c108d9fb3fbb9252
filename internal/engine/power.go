package engine

import (
	"github.com/KirkDiggler/funko-battle/internal/entities"
	"github.com/KirkDiggler/funko-battle/internal/errors"
)

// Range is an inclusive integer interval
type Range struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Contains reports whether v lies within the range
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// DefaultPowerRanges is the rarity to power table the game ships with
func DefaultPowerRanges() map[entities.Rarity]Range {
	return map[entities.Rarity]Range{
		entities.RarityCommon:    {Min: 10, Max: 20},
		entities.RarityRare:      {Min: 20, Max: 35},
		entities.RarityEpic:      {Min: 35, Max: 50},
		entities.RarityLegendary: {Min: 50, Max: 75},
	}
}

// PowerSamplerConfig holds the dependencies for a PowerSampler
type PowerSamplerConfig struct {
	Random Random
	Ranges map[entities.Rarity]Range
}

// Validate ensures every rarity has a positive, non-empty range
func (c *PowerSamplerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Random == nil {
		vb.RequiredField("Random")
	}
	for _, rarity := range entities.AllRarities() {
		field := "Ranges." + string(rarity)
		rng, ok := c.Ranges[rarity]
		switch {
		case !ok:
			vb.RequiredField(field)
		case rng.Min < 1:
			vb.Field(field, "min must be at least 1")
		case rng.Min > rng.Max:
			vb.Fieldf(field, "min %d exceeds max %d", rng.Min, rng.Max)
		}
	}

	return vb.Build()
}

type powerSampler struct {
	random Random
	ranges map[entities.Rarity]Range
}

// NewPowerSampler creates a sampler drawing uniformly from each rarity's range
func NewPowerSampler(cfg *PowerSamplerConfig) (PowerSampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ranges := make(map[entities.Rarity]Range, len(cfg.Ranges))
	for rarity, rng := range cfg.Ranges {
		ranges[rarity] = rng
	}

	return &powerSampler{
		random: cfg.Random,
		ranges: ranges,
	}, nil
}

// Sample returns a power value within the rarity's range
func (s *powerSampler) Sample(rarity entities.Rarity) (int, error) {
	rng, ok := s.ranges[rarity]
	if !ok || !rarity.IsValid() {
		return 0, errors.InvalidArgumentf("unknown rarity %q", rarity)
	}

	power, err := s.random.Between(rng.Min, rng.Max)
	if err != nil {
		return 0, errors.Wrap(err, "failed to sample power")
	}

	return power, nil
}
