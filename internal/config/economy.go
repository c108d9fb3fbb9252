package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/funko-battle/internal/engine"
	"github.com/KirkDiggler/funko-battle/internal/entities"
	"github.com/KirkDiggler/funko-battle/internal/errors"
)

// DefaultTreasuryIdentity is the external identity of the system account
// that books exchanged coins
const DefaultTreasuryIdentity = "system:exchange-treasury"

// Economy holds every tunable table of the game economy
type Economy struct {
	StartingBalance int64                                  `yaml:"starting_balance"`
	BoxCosts        map[entities.BoxTier]int64             `yaml:"box_costs"`
	BoxRarities     map[entities.BoxTier][]entities.Rarity `yaml:"box_rarities"`
	PowerRanges     map[entities.Rarity]engine.Range       `yaml:"power_ranges"`
	TypeTags        []string                               `yaml:"type_tags"`
	BattleReward    engine.Range                           `yaml:"battle_reward"`
	// OpponentNumber is the range of the number in a synthetic opponent's name
	OpponentNumber   engine.Range       `yaml:"opponent_number"`
	ExchangeRates    map[string]float64 `yaml:"exchange_rates"`
	TreasuryIdentity string             `yaml:"treasury_identity"`
}

// DefaultEconomy returns the tables the game ships with
func DefaultEconomy() *Economy {
	return &Economy{
		StartingBalance: 0,
		BoxCosts: map[entities.BoxTier]int64{
			entities.BoxTierCommon:    100,
			entities.BoxTierRare:      250,
			entities.BoxTierLegendary: 500,
		},
		BoxRarities:      engine.DefaultRarityCandidates(),
		PowerRanges:      engine.DefaultPowerRanges(),
		TypeTags:         engine.DefaultTypeTags(),
		BattleReward:     engine.Range{Min: 50, Max: 200},
		OpponentNumber:   engine.Range{Min: 1000, Max: 9999},
		ExchangeRates:    engine.DefaultExchangeRates(),
		TreasuryIdentity: DefaultTreasuryIdentity,
	}
}

// LoadEconomy reads a YAML file over the defaults. Keys absent from the file
// keep their default; a map entry present in the file replaces that entry
// only. An empty path returns the defaults.
func LoadEconomy(path string) (*Economy, error) {
	if path == "" {
		return DefaultEconomy(), nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- operator supplied path
	if err != nil {
		return nil, errors.InvalidArgumentf("failed to read economy file %s: %v", path, err)
	}

	return ParseEconomy(data)
}

// ParseEconomy decodes YAML over the defaults and validates the result
func ParseEconomy(data []byte) (*Economy, error) {
	eco := DefaultEconomy()
	if err := yaml.Unmarshal(data, eco); err != nil {
		return nil, errors.InvalidArgumentf("failed to parse economy yaml: %v", err)
	}

	if err := eco.Validate(); err != nil {
		return nil, err
	}
	return eco, nil
}

// Validate checks the tables are complete and consistent
func (e *Economy) Validate() error {
	vb := errors.NewValidationBuilder()

	if e.StartingBalance < 0 {
		vb.Field("starting_balance", "must not be negative")
	}

	for _, tier := range entities.AllBoxTiers() {
		cost, ok := e.BoxCosts[tier]
		switch {
		case !ok:
			vb.RequiredField("box_costs." + string(tier))
		case cost < 0:
			vb.Field("box_costs."+string(tier), "must not be negative")
		}

		candidates := e.BoxRarities[tier]
		if len(candidates) == 0 {
			vb.Field("box_rarities."+string(tier), "must list at least one rarity")
		}
		for _, r := range candidates {
			if !r.IsValid() {
				vb.Fieldf("box_rarities."+string(tier), "unknown rarity %q", r)
			}
		}
	}
	for tier := range e.BoxCosts {
		if !tier.IsValid() {
			vb.Fieldf("box_costs", "unknown box tier %q", tier)
		}
	}

	for _, rarity := range entities.AllRarities() {
		field := "power_ranges." + string(rarity)
		rng, ok := e.PowerRanges[rarity]
		switch {
		case !ok:
			vb.RequiredField(field)
		case rng.Min < 1:
			vb.Field(field, "min must be at least 1")
		case rng.Min > rng.Max:
			vb.Fieldf(field, "min %d exceeds max %d", rng.Min, rng.Max)
		}
	}

	if len(e.TypeTags) == 0 {
		vb.Field("type_tags", "must not be empty")
	}
	for _, tag := range e.TypeTags {
		if strings.TrimSpace(tag) == "" {
			vb.Field("type_tags", "must not contain blank tags")
			break
		}
	}

	if e.BattleReward.Min < 0 || e.BattleReward.Min > e.BattleReward.Max {
		vb.Fieldf("battle_reward", "need 0 <= min <= max, got [%d, %d]", e.BattleReward.Min, e.BattleReward.Max)
	}
	if e.OpponentNumber.Min < 0 || e.OpponentNumber.Min > e.OpponentNumber.Max {
		vb.Fieldf("opponent_number", "need 0 <= min <= max, got [%d, %d]", e.OpponentNumber.Min, e.OpponentNumber.Max)
	}

	if len(e.ExchangeRates) == 0 {
		vb.Field("exchange_rates", "must define at least one unit")
	}
	for unit, rate := range e.ExchangeRates {
		if rate <= 0 {
			vb.Fieldf("exchange_rates."+unit, "rate must be positive, got %v", rate)
		}
	}

	errors.ValidateRequired("treasury_identity", e.TreasuryIdentity, vb)
	if e.TreasuryIdentity != "" && !entities.IsSystemIdentity(e.TreasuryIdentity) {
		vb.Fieldf("treasury_identity", "must start with %q", entities.SystemIdentityPrefix)
	}

	return vb.Build()
}

// NewFactory builds the collectible factory described by the tables
func (e *Economy) NewFactory(random engine.Random) (engine.CollectibleFactory, error) {
	resolver, err := engine.NewRarityResolver(&engine.RarityResolverConfig{
		Random:     random,
		Candidates: e.BoxRarities,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create rarity resolver")
	}

	sampler, err := engine.NewPowerSampler(&engine.PowerSamplerConfig{
		Random: random,
		Ranges: e.PowerRanges,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create power sampler")
	}

	return engine.NewFactory(&engine.FactoryConfig{
		Random:   random,
		Resolver: resolver,
		Sampler:  sampler,
		TypeTags: e.TypeTags,
	})
}
