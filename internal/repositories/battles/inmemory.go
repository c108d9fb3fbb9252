package battles

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

// InMemoryRepository implements Repository using a map
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*entities.BattleRecord
	clock clock.Clock
	ids   idgen.Generator
}

// NewInMemory creates a new in-memory repository
func NewInMemory(cfg *InMemoryConfig) (*InMemoryRepository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &InMemoryRepository{
		store: make(map[string]*entities.BattleRecord),
		clock: cfg.Clock,
		ids:   cfg.IDGenerator,
	}, nil
}

var _ Repository = (*InMemoryRepository)(nil)

// Insert stores a copy of the record
func (r *InMemoryRepository) Insert(_ context.Context, input *InsertInput) (*InsertOutput, error) {
	if err := validateInsert(input); err != nil {
		return nil, err
	}

	stored := copyRecord(input.Record)
	stored.ID = r.ids.Generate()
	stored.CreatedAt = r.clock.Now()

	r.mu.Lock()
	r.store[stored.ID] = stored
	r.mu.Unlock()

	return &InsertOutput{Record: copyRecord(stored)}, nil
}

// Get retrieves a record by ID
func (r *InMemoryRepository) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("battle ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.store[input.ID]
	if !ok {
		return nil, errors.NotFoundf("battle %s not found", input.ID)
	}
	return &GetOutput{Record: copyRecord(rec)}, nil
}
