// Package engine holds the generation rules of the economy: which rarity a
// box yields, how strong a collectible is and what coins are worth in
// external units. It is stateless apart from the shared random source.
package engine

//go:generate mockgen -destination=mock/mock_engine.go -package=enginemock github.com/KirkDiggler/funko-battle/internal/engine CollectibleFactory,Random

import (
	"github.com/KirkDiggler/funko-battle/internal/entities"
)

// Random draws uniform integers. Implementations must be safe for
// concurrent use; every call is one independent draw.
type Random interface {
	// Between returns a value in the inclusive range [lo, hi]
	Between(lo, hi int) (int, error)
	// Index returns a value in [0, n)
	Index(n int) (int, error)
}

// RarityResolver picks the rarity a box of the given tier yields
type RarityResolver interface {
	Resolve(tier entities.BoxTier) (entities.Rarity, error)
}

// PowerSampler picks a power value for a rarity
type PowerSampler interface {
	Sample(rarity entities.Rarity) (int, error)
}

// CollectibleFactory builds new, unsaved collectibles
type CollectibleFactory interface {
	// Create returns a level 1 collectible without an ID. An empty owner
	// produces an unowned collectible for synthetic opponents.
	Create(ownerAccountID string, tier entities.BoxTier) (*entities.Collectible, error)
}
