// Package collectibles stores the figures owned by accounts.
package collectibles

import (
	"context"
	"strings"

	"github.com/KirkDiggler/funko-battle/internal/entities"
	"github.com/KirkDiggler/funko-battle/internal/errors"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=collectiblesmock github.com/KirkDiggler/funko-battle/internal/repositories/collectibles Repository

// Repository persists owned collectibles
type Repository interface {
	// Insert assigns the ID and creation time and stores the collectible
	Insert(ctx context.Context, input *InsertInput) (*InsertOutput, error)

	// ListByOwner returns an account's collectibles, oldest first
	ListByOwner(ctx context.Context, input *ListByOwnerInput) (*ListByOwnerOutput, error)
}

// InsertInput holds a collectible without an ID
type InsertInput struct {
	Collectible *entities.Collectible
}

// InsertOutput holds the stored collectible
type InsertOutput struct {
	Collectible *entities.Collectible
}

// ListByOwnerInput identifies the owner
type ListByOwnerInput struct {
	OwnerAccountID string
}

// ListByOwnerOutput holds the owner's collectibles
type ListByOwnerOutput struct {
	Collectibles []*entities.Collectible
}

func validateInsert(input *InsertInput) error {
	if input == nil || input.Collectible == nil {
		return errors.InvalidArgument("collectible is required")
	}

	c := input.Collectible
	vb := errors.NewValidationBuilder()
	if !c.IsOwned() {
		vb.Field("owner_account_id", "only owned collectibles are stored")
	}
	if c.ID != "" {
		vb.Field("id", "is assigned on insert")
	}
	errors.ValidateRequired("type", c.TypeTag, vb)
	if !c.Rarity.IsValid() {
		vb.Fieldf("rarity", "unknown rarity %q", c.Rarity)
	}
	if c.Level < 1 {
		vb.Field("level", "must be at least 1")
	}
	if c.Power < 1 {
		vb.Field("power", "must be at least 1")
	}
	return vb.Build()
}

func validateList(input *ListByOwnerInput) error {
	if input == nil || strings.TrimSpace(input.OwnerAccountID) == "" {
		return errors.InvalidArgument("owner account ID is required")
	}
	return nil
}
