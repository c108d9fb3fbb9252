package entities

import (
	"strings"
	"time"
)

// Account is a player's wallet. Balance only changes through the ledger and
// never goes below zero; Version increments with every balance write and is
// the token for conditional updates.
type Account struct {
	ID               string    `json:"id"`
	ExternalIdentity string    `json:"external_identity"`
	Balance          int64     `json:"balance"`
	Level            int       `json:"level"`
	Version          int64     `json:"version"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DefaultAccountLevel is the level every account starts at
const DefaultAccountLevel = 1

// SystemIdentityPrefix marks external identities reserved for accounts the
// economy itself owns, such as the exchange treasury
const SystemIdentityPrefix = "system:"

// IsSystemIdentity reports whether identity is reserved for a system account
func IsSystemIdentity(identity string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(identity)), SystemIdentityPrefix)
}

// IsSystem reports whether the account belongs to the economy. System
// accounts are never resolved for players and never debited.
func (a *Account) IsSystem() bool {
	return IsSystemIdentity(a.ExternalIdentity)
}
