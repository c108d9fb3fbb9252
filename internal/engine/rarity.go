package engine

import (
	"github.com/KirkDiggler/funko-battle/internal/entities"
	"github.com/KirkDiggler/funko-battle/internal/errors"
)

// DefaultRarityCandidates is the box tier to rarity table the game ships with
func DefaultRarityCandidates() map[entities.BoxTier][]entities.Rarity {
	return map[entities.BoxTier][]entities.Rarity{
		entities.BoxTierCommon:    {entities.RarityCommon, entities.RarityRare},
		entities.BoxTierRare:      {entities.RarityRare, entities.RarityEpic},
		entities.BoxTierLegendary: {entities.RarityEpic, entities.RarityLegendary},
	}
}

// RarityResolverConfig holds the dependencies for a RarityResolver
type RarityResolverConfig struct {
	Random     Random
	Candidates map[entities.BoxTier][]entities.Rarity
}

// Validate ensures every box tier has a non-empty set of known rarities
func (c *RarityResolverConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Random == nil {
		vb.RequiredField("Random")
	}
	for _, tier := range entities.AllBoxTiers() {
		field := "Candidates." + string(tier)
		candidates := c.Candidates[tier]
		if len(candidates) == 0 {
			vb.Field(field, "must list at least one rarity")
			continue
		}
		for _, r := range candidates {
			if !r.IsValid() {
				vb.Fieldf(field, "unknown rarity %q", r)
			}
		}
	}

	return vb.Build()
}

type rarityResolver struct {
	random     Random
	candidates map[entities.BoxTier][]entities.Rarity
}

// NewRarityResolver creates a resolver drawing uniformly within each tier's
// candidate set
func NewRarityResolver(cfg *RarityResolverConfig) (RarityResolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	candidates := make(map[entities.BoxTier][]entities.Rarity, len(cfg.Candidates))
	for tier, set := range cfg.Candidates {
		candidates[tier] = append([]entities.Rarity(nil), set...)
	}

	return &rarityResolver{
		random:     cfg.Random,
		candidates: candidates,
	}, nil
}

// Resolve returns a rarity from the tier's candidate set
func (r *rarityResolver) Resolve(tier entities.BoxTier) (entities.Rarity, error) {
	candidates, ok := r.candidates[tier]
	if !ok || !tier.IsValid() {
		return "", errors.InvalidArgumentf("unknown box tier %q", tier)
	}

	idx, err := r.random.Index(len(candidates))
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve rarity")
	}

	return candidates[idx], nil
}
