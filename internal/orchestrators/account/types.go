package account

import (
	"github.com/KirkDiggler/funko-battle/internal/entities"
)

// GetOrCreateAccountInput defines the request for resolving a player
type GetOrCreateAccountInput struct {
	ExternalIdentity string
}

// GetOrCreateAccountOutput defines the response for resolving a player
type GetOrCreateAccountOutput struct {
	Account *entities.Account
	Created bool
}

// GetAccountInput defines the request for loading an account
type GetAccountInput struct {
	AccountID string
}

// GetAccountOutput defines the response for loading an account
type GetAccountOutput struct {
	Account *entities.Account
}

// ListCollectiblesInput defines the request for an account's collection
type ListCollectiblesInput struct {
	AccountID string
}

// ListCollectiblesOutput defines the response for an account's collection
type ListCollectiblesOutput struct {
	Collectibles []*entities.Collectible
}
