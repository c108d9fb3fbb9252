package entities

import (
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"
)

// EntityTypeCollectible is the core.Entity type of a collectible
const EntityTypeCollectible = "collectible"

// Collectible is a figure yielded by a box or generated for a synthetic
// opponent. An empty OwnerAccountID means the collectible is not owned by
// any account and is never stored.
type Collectible struct {
	ID             string    `json:"id"`
	OwnerAccountID string    `json:"owner_account_id,omitempty"`
	TypeTag        string    `json:"type"`
	Rarity         Rarity    `json:"rarity"`
	Level          int       `json:"level"`
	Power          int       `json:"power"`
	CreatedAt      time.Time `json:"created_at"`
}

// GetID implements core.Entity
func (c *Collectible) GetID() string {
	return c.ID
}

// GetType implements core.Entity
func (c *Collectible) GetType() string {
	return EntityTypeCollectible
}

// IsOwned reports whether the collectible belongs to an account
func (c *Collectible) IsOwned() bool {
	return c.OwnerAccountID != ""
}

var _ core.Entity = (*Collectible)(nil)
