package ledger

import (
	"context"

	"github.com/KirkDiggler/funko-battle/internal/entities"
)

//go:generate mockgen -destination=mock/mock_service.go -package=ledgermock github.com/KirkDiggler/funko-battle/internal/services/ledger Service

// Service moves coins between account balances. Every operation is atomic
// and no balance ever goes below zero.
type Service interface {
	// Debit removes Amount from the account, failing with InsufficientFunds
	// when the balance does not cover it
	Debit(ctx context.Context, input *DebitInput) (*DebitOutput, error)

	// Credit adds Amount to the account
	Credit(ctx context.Context, input *CreditInput) (*CreditOutput, error)

	// DebitAndCredit applies a debit and a credit on two accounts as one
	// unit: both balances change or neither does
	DebitAndCredit(ctx context.Context, input *DebitAndCreditInput) (*DebitAndCreditOutput, error)
}

// DebitInput names the account and the amount to take
type DebitInput struct {
	AccountID string
	Amount    int64
}

// DebitOutput holds the account after the debit
type DebitOutput struct {
	Account *entities.Account
}

// CreditInput names the account and the amount to add
type CreditInput struct {
	AccountID string
	Amount    int64
}

// CreditOutput holds the account after the credit
type CreditOutput struct {
	Account *entities.Account
}

// DebitAndCreditInput describes a paired debit and credit
type DebitAndCreditInput struct {
	DebitAccountID  string
	DebitAmount     int64
	CreditAccountID string
	CreditAmount    int64
}

// DebitAndCreditOutput holds both accounts after the update
type DebitAndCreditOutput struct {
	DebitAccount  *entities.Account
	CreditAccount *entities.Account
}
