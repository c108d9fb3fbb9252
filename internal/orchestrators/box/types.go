package box

import (
	"github.com/KirkDiggler/funko-battle/internal/entities"
)

// OpenBoxInput defines the request for buying and opening a box
type OpenBoxInput struct {
	AccountID string
	BoxTier   string
}

// OpenBoxOutput defines the response for opening a box. Account carries the
// balance after the purchase.
type OpenBoxOutput struct {
	Collectible *entities.Collectible
	Account     *entities.Account
	Cost        int64
}
