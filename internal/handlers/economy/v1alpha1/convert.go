package v1alpha1

import (
	"github.com/KirkDiggler/funko-battle/internal/entities"
)

// ConvertAccount maps an account to its wire form
func ConvertAccount(a *entities.Account) *Account {
	if a == nil {
		return nil
	}
	return &Account{
		ID:               a.ID,
		ExternalIdentity: a.ExternalIdentity,
		FunkoCoins:       a.Balance,
		Level:            a.Level,
		CreatedAt:        a.CreatedAt,
	}
}

// ConvertCollectible maps a collectible to its wire form
func ConvertCollectible(c *entities.Collectible) *Collectible {
	if c == nil {
		return nil
	}
	return &Collectible{
		ID:     c.ID,
		Type:   c.TypeTag,
		Rarity: string(c.Rarity),
		Power:  c.Power,
		Level:  c.Level,
	}
}

// ConvertCollectibles maps a list, never returning nil
func ConvertCollectibles(list []*entities.Collectible) []*Collectible {
	out := make([]*Collectible, 0, len(list))
	for _, c := range list {
		out = append(out, ConvertCollectible(c))
	}
	return out
}

// ConvertOpponent maps the opponent of a battle record
func ConvertOpponent(r *entities.BattleRecord) Opponent {
	opp := Opponent{
		Kind:   string(r.Opponent.Kind),
		Name:   r.Opponent.Name,
		UserID: r.Opponent.AccountID,
	}
	if r.Opponent.IsSynthetic() {
		opp.Collectible = ConvertCollectible(r.OpponentCollectible)
	}
	return opp
}

// ConvertBattle maps a battle record to its wire form
func ConvertBattle(r *entities.BattleRecord) *Battle {
	if r == nil {
		return nil
	}
	return &Battle{
		ID:        r.ID,
		UserID:    r.InitiatorAccountID,
		FunkoID:   r.InitiatorCollectibleID,
		Opponent:  ConvertOpponent(r),
		WinnerID:  r.WinnerAccountID,
		Reward:    r.RewardAmount,
		CreatedAt: r.CreatedAt,
	}
}
