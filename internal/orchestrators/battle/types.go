package battle

import (
	"github.com/KirkDiggler/funko-battle/internal/entities"
)

// StartBattleInput defines the request for starting a battle
type StartBattleInput struct {
	AccountID string

	// CollectibleID optionally names the account's own collectible fielded
	// for the battle. It is recorded but does not change the reward.
	CollectibleID string
}

// StartBattleOutput defines the response for starting a battle. Account
// carries the balance after the reward.
type StartBattleOutput struct {
	Battle  *entities.BattleRecord
	Account *entities.Account
}

// GetBattleInput defines the request for loading a battle record
type GetBattleInput struct {
	BattleID string
}

// GetBattleOutput defines the response for loading a battle record
type GetBattleOutput struct {
	Battle *entities.BattleRecord
}
