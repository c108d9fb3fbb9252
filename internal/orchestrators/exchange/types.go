package exchange

import (
	"github.com/KirkDiggler/funko-battle/internal/entities"
)

// ExchangeInput defines the request for converting coins
type ExchangeInput struct {
	AccountID string
	Amount    int64
	Unit      string
}

// ExchangeOutput defines the response for converting coins. Account carries
// the balance after the debit.
type ExchangeOutput struct {
	Account        *entities.Account
	Amount         int64
	Unit           string
	Rate           float64
	ExternalAmount float64
}

// RatesInput defines the request for the rate table
type RatesInput struct{}

// RatesOutput holds the external value of one coin per unit
type RatesOutput struct {
	Rates map[string]float64
}
