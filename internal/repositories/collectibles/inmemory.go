package collectibles

import (
	"context"
	"sync"

	"github.com/KirkDiggler/funko-battle/internal/entities"
	"github.com/KirkDiggler/funko-battle/internal/errors"
	"github.com/KirkDiggler/funko-battle/internal/pkg/clock"
	"github.com/KirkDiggler/funko-battle/internal/pkg/idgen"
)

// InMemoryConfig holds the dependencies for the in-memory repository
type InMemoryConfig struct {
	Clock       clock.Clock
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *InMemoryConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	return vb.Build()
}

// InMemoryRepository keeps collectibles per owner in insertion order
type InMemoryRepository struct {
	mu      sync.RWMutex
	byOwner map[string][]*entities.Collectible
	clock   clock.Clock
	ids     idgen.Generator
}

// NewInMemory creates a new in-memory repository
func NewInMemory(cfg *InMemoryConfig) (*InMemoryRepository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &InMemoryRepository{
		byOwner: make(map[string][]*entities.Collectible),
		clock:   cfg.Clock,
		ids:     cfg.IDGenerator,
	}, nil
}

var _ Repository = (*InMemoryRepository)(nil)

// Insert stores a copy of the collectible
func (r *InMemoryRepository) Insert(_ context.Context, input *InsertInput) (*InsertOutput, error) {
	if err := validateInsert(input); err != nil {
		return nil, err
	}

	stored := *input.Collectible
	stored.ID = r.ids.Generate()
	stored.CreatedAt = r.clock.Now()

	r.mu.Lock()
	r.byOwner[stored.OwnerAccountID] = append(r.byOwner[stored.OwnerAccountID], &stored)
	r.mu.Unlock()

	out := stored
	return &InsertOutput{Collectible: &out}, nil
}

// ListByOwner returns copies of the owner's collectibles
func (r *InMemoryRepository) ListByOwner(_ context.Context, input *ListByOwnerInput) (*ListByOwnerOutput, error) {
	if err := validateList(input); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := r.byOwner[input.OwnerAccountID]
	out := make([]*entities.Collectible, len(owned))
	for i, c := range owned {
		cp := *c
		out[i] = &cp
	}
	return &ListByOwnerOutput{Collectibles: out}, nil
}
