package entities

import (
	"strings"

	"github.com/KirkDiggler/funko-battle/internal/errors"
)

// Rarity is the ordered quality tier of a collectible. Box resolution and
// power sampling both key off this one type.
type Rarity string

// Rarity tiers, lowest first
const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// AllRarities returns every rarity in ascending order
func AllRarities() []Rarity {
	return []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}
}

// Rank returns the position of the rarity in the ordering, or -1 if unknown
func (r Rarity) Rank() int {
	for i, known := range AllRarities() {
		if r == known {
			return i
		}
	}
	return -1
}

// IsValid reports whether r is one of the known tiers
func (r Rarity) IsValid() bool {
	return r.Rank() >= 0
}

// ParseRarity normalizes and validates a rarity name
func ParseRarity(s string) (Rarity, error) {
	r := Rarity(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", errors.InvalidArgumentf("unknown rarity %q", s)
	}
	return r, nil
}

// BoxTier is the purchase category of a mystery box
type BoxTier string

// Box tiers
const (
	BoxTierCommon    BoxTier = "common"
	BoxTierRare      BoxTier = "rare"
	BoxTierLegendary BoxTier = "legendary"
)

// AllBoxTiers returns every box tier, cheapest first
func AllBoxTiers() []BoxTier {
	return []BoxTier{BoxTierCommon, BoxTierRare, BoxTierLegendary}
}

// IsValid reports whether t is one of the known box tiers
func (t BoxTier) IsValid() bool {
	for _, known := range AllBoxTiers() {
		if t == known {
			return true
		}
	}
	return false
}

// ParseBoxTier normalizes and validates a box tier name
func ParseBoxTier(s string) (BoxTier, error) {
	t := BoxTier(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", errors.InvalidArgumentf("unknown box tier %q", s)
	}
	return t, nil
}
