package v1alpha1

import (
	"time"
)

// Account is the wire form of a player account
type Account struct {
	ID               string    `json:"id"`
	ExternalIdentity string    `json:"external_identity"`
	FunkoCoins       int64     `json:"funko_coins"`
	Level            int       `json:"level"`
	CreatedAt        time.Time `json:"created_at"`
}

// Collectible is the wire form of a collectible
type Collectible struct {
	ID     string `json:"id,omitempty"`
	Type   string `json:"type"`
	Rarity string `json:"rarity"`
	Power  int    `json:"power"`
	Level  int    `json:"level"`
}

// Opponent is the wire form of a battle opponent. Collectible is set for
// synthetic opponents.
type Opponent struct {
	Kind        string       `json:"kind"`
	Name        string       `json:"name,omitempty"`
	UserID      string       `json:"user_id,omitempty"`
	Collectible *Collectible `json:"funko,omitempty"`
}

// Battle is the wire form of a battle record
type Battle struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FunkoID   string    `json:"funko_id,omitempty"`
	Opponent  Opponent  `json:"opponent"`
	WinnerID  *string   `json:"winner_id"`
	Reward    int64     `json:"reward"`
	CreatedAt time.Time `json:"created_at"`
}

// GetOrCreateAccountRequest resolves a player by external identity
type GetOrCreateAccountRequest struct {
	ExternalIdentity string `json:"external_identity"`
}

// GetOrCreateAccountResponse holds the resolved account
type GetOrCreateAccountResponse struct {
	Account *Account `json:"account"`
	Created bool     `json:"created"`
}

// GetAccountRequest loads an account
type GetAccountRequest struct {
	UserID string `json:"user_id"`
}

// GetAccountResponse holds the account
type GetAccountResponse struct {
	Account *Account `json:"account"`
}

// ListCollectiblesRequest loads an account's collection
type ListCollectiblesRequest struct {
	UserID string `json:"user_id"`
}

// ListCollectiblesResponse holds the collection, oldest first
type ListCollectiblesResponse struct {
	Funkos []*Collectible `json:"funkos"`
}

// OpenBoxRequest buys and opens a box
type OpenBoxRequest struct {
	UserID  string `json:"user_id"`
	BoxType string `json:"box_type"`
}

// OpenBoxResponse holds the new collectible and the balance after payment
type OpenBoxResponse struct {
	Funko     *Collectible `json:"funko"`
	Cost      int64        `json:"cost"`
	UserCoins int64        `json:"user_coins"`
}

// StartBattleRequest starts a battle
type StartBattleRequest struct {
	UserID string `json:"user_id"`
	// FunkoID optionally names one of the player's own collectibles
	FunkoID string `json:"funko_id,omitempty"`
}

// StartBattleResponse holds the battle and the balance after the reward
type StartBattleResponse struct {
	BattleID  string   `json:"battle_id"`
	Opponent  Opponent `json:"opponent"`
	Reward    int64    `json:"reward"`
	UserCoins int64    `json:"user_coins"`
}

// GetBattleRequest loads a battle record
type GetBattleRequest struct {
	BattleID string `json:"battle_id"`
}

// GetBattleResponse holds the battle record
type GetBattleResponse struct {
	Battle *Battle `json:"battle"`
}

// ExchangeRequest converts coins into an external unit
type ExchangeRequest struct {
	UserID     string `json:"user_id"`
	Amount     int64  `json:"amount"`
	CryptoType string `json:"crypto_type"`
}

// ExchangeResponse holds the converted amount and the remaining balance
type ExchangeResponse struct {
	Success        bool    `json:"success"`
	CryptoType     string  `json:"crypto_type"`
	Rate           float64 `json:"rate"`
	CryptoAmount   float64 `json:"crypto_amount"`
	RemainingCoins int64   `json:"remaining_coins"`
}

// GetExchangeRatesRequest asks for the rate table
type GetExchangeRatesRequest struct{}

// GetExchangeRatesResponse holds the value of one coin per unit
type GetExchangeRatesResponse struct {
	Rates map[string]float64 `json:"rates"`
}
