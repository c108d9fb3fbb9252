package entities

import (
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"
)

// OpponentKind tags which variant an Opponent holds
type OpponentKind string

// Opponent kinds
const (
	OpponentKindAccount   OpponentKind = "account"
	OpponentKindSynthetic OpponentKind = "synthetic"
)

// Opponent is either a real account or a synthetic AI opponent that exists
// only for one battle. Use RealAccount or Synthetic to build one.
type Opponent struct {
	Kind      OpponentKind `json:"kind"`
	AccountID string       `json:"account_id,omitempty"`
	Name      string       `json:"name,omitempty"`
}

// RealAccount returns an opponent backed by an existing account
func RealAccount(accountID string) Opponent {
	return Opponent{Kind: OpponentKindAccount, AccountID: accountID}
}

// Synthetic returns a generated opponent with a display name
func Synthetic(name string) Opponent {
	return Opponent{Kind: OpponentKindSynthetic, Name: name}
}

// IsSynthetic reports whether the opponent is generated
func (o Opponent) IsSynthetic() bool {
	return o.Kind == OpponentKindSynthetic
}

// GetID implements core.Entity. Synthetic opponents are identified by name.
func (o Opponent) GetID() string {
	if o.IsSynthetic() {
		return o.Name
	}
	return o.AccountID
}

// GetType implements core.Entity
func (o Opponent) GetType() string {
	return string(o.Kind)
}

var _ core.Entity = Opponent{}

// BattleRecord is written once per battle start and never modified.
// WinnerAccountID stays nil: battles are not resolved.
type BattleRecord struct {
	ID                     string       `json:"id"`
	InitiatorAccountID     string       `json:"initiator_account_id"`
	InitiatorCollectibleID string       `json:"initiator_collectible_id,omitempty"`
	Opponent               Opponent     `json:"opponent"`
	OpponentCollectible    *Collectible `json:"opponent_collectible,omitempty"`
	WinnerAccountID        *string      `json:"winner_account_id,omitempty"`
	RewardAmount           int64        `json:"reward_amount"`
	CreatedAt              time.Time    `json:"created_at"`
}
