// Package battles stores battle records. Records are written once and never
// modified.
package battles

import (
	"context"

	"github.com/KirkDiggler/funko-battle/internal/entities"
	"github.com/KirkDiggler/funko-battle/internal/errors"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=battlesmock github.com/KirkDiggler/funko-battle/internal/repositories/battles Repository

// Repository persists battle records
type Repository interface {
	// Insert assigns the ID and creation time and stores the record
	Insert(ctx context.Context, input *InsertInput) (*InsertOutput, error)

	// Get returns NotFound for unknown ids
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)
}

// InsertInput holds a record without an ID
type InsertInput struct {
	Record *entities.BattleRecord
}

// InsertOutput holds the stored record
type InsertOutput struct {
	Record *entities.BattleRecord
}

// GetInput identifies a record
type GetInput struct {
	ID string
}

// GetOutput holds the record
type GetOutput struct {
	Record *entities.BattleRecord
}

func validateInsert(input *InsertInput) error {
	if input == nil || input.Record == nil {
		return errors.InvalidArgument("battle record is required")
	}

	rec := input.Record
	vb := errors.NewValidationBuilder()
	if rec.ID != "" {
		vb.Field("id", "is assigned on insert")
	}
	errors.ValidateRequired("initiator_account_id", rec.InitiatorAccountID, vb)
	switch rec.Opponent.Kind {
	case entities.OpponentKindSynthetic:
		errors.ValidateRequired("opponent.name", rec.Opponent.Name, vb)
	case entities.OpponentKindAccount:
		errors.ValidateRequired("opponent.account_id", rec.Opponent.AccountID, vb)
	default:
		vb.Fieldf("opponent.kind", "unknown opponent kind %q", rec.Opponent.Kind)
	}
	errors.ValidateNonNegative("reward_amount", rec.RewardAmount, vb)
	return vb.Build()
}

func copyRecord(rec *entities.BattleRecord) *entities.BattleRecord {
	cp := *rec
	if rec.OpponentCollectible != nil {
		c := *rec.OpponentCollectible
		cp.OpponentCollectible = &c
	}
	if rec.WinnerAccountID != nil {
		w := *rec.WinnerAccountID
		cp.WinnerAccountID = &w
	}
	return &cp
}
