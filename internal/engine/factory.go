package engine

import (
	"strings"

	"github.com/KirkDiggler/funko-battle/internal/entities"
	"github.com/KirkDiggler/funko-battle/internal/errors"
)

// DefaultTypeTags is the catalog of figure types
func DefaultTypeTags() []string {
	return []string{"Pop", "Deluxe", "Exclusive", "Chase", "Limited"}
}

// FactoryConfig holds the dependencies for a CollectibleFactory
type FactoryConfig struct {
	Random   Random
	Resolver RarityResolver
	Sampler  PowerSampler
	TypeTags []string
}

// Validate ensures all required dependencies are provided
func (c *FactoryConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Random == nil {
		vb.RequiredField("Random")
	}
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.Sampler == nil {
		vb.RequiredField("Sampler")
	}
	if len(c.TypeTags) == 0 {
		vb.Field("TypeTags", "must not be empty")
	}
	for _, tag := range c.TypeTags {
		if strings.TrimSpace(tag) == "" {
			vb.Field("TypeTags", "must not contain blank tags")
			break
		}
	}

	return vb.Build()
}

type factory struct {
	random   Random
	resolver RarityResolver
	sampler  PowerSampler
	typeTags []string
}

// NewFactory creates a CollectibleFactory
func NewFactory(cfg *FactoryConfig) (CollectibleFactory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &factory{
		random:   cfg.Random,
		resolver: cfg.Resolver,
		sampler:  cfg.Sampler,
		typeTags: append([]string(nil), cfg.TypeTags...),
	}, nil
}

// Create rolls type, rarity and power for a new collectible
func (f *factory) Create(ownerAccountID string, tier entities.BoxTier) (*entities.Collectible, error) {
	rarity, err := f.resolver.Resolve(tier)
	if err != nil {
		return nil, err
	}

	power, err := f.sampler.Sample(rarity)
	if err != nil {
		return nil, err
	}

	idx, err := f.random.Index(len(f.typeTags))
	if err != nil {
		return nil, errors.Wrap(err, "failed to pick type tag")
	}

	return &entities.Collectible{
		OwnerAccountID: ownerAccountID,
		TypeTag:        f.typeTags[idx],
		Rarity:         rarity,
		Level:          1,
		Power:          power,
	}, nil
}
