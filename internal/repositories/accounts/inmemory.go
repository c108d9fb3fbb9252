package accounts

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

// InMemoryRepository implements Repository using maps guarded by one lock
type InMemoryRepository struct {
	mu         sync.RWMutex
	byID       map[string]*entities.Account
	byIdentity map[string]string
	clock      clock.Clock
	ids        idgen.Generator
}

// NewInMemory creates a new in-memory repository
func NewInMemory(cfg *InMemoryConfig) (*InMemoryRepository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &InMemoryRepository{
		byID:       make(map[string]*entities.Account),
		byIdentity: make(map[string]string),
		clock:      cfg.Clock,
		ids:        cfg.IDGenerator,
	}, nil
}

var _ Repository = (*InMemoryRepository)(nil)

// Get retrieves an account by ID
func (r *InMemoryRepository) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("account ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	acct, ok := r.byID[input.ID]
	if !ok {
		return nil, errors.NotFoundf("account %s not found", input.ID)
	}
	return &GetOutput{Account: copyAccount(acct)}, nil
}

// GetOrCreate returns the account for an external identity, creating it on
// first contact
func (r *InMemoryRepository) GetOrCreate(_ context.Context, input *GetOrCreateInput) (*GetOrCreateOutput, error) {
	if err := validateGetOrCreate(input); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byIdentity[input.ExternalIdentity]; ok {
		return &GetOrCreateOutput{Account: copyAccount(r.byID[id])}, nil
	}

	now := r.clock.Now()
	acct := &entities.Account{
		ID:               r.ids.Generate(),
		ExternalIdentity: input.ExternalIdentity,
		Balance:          input.StartingBalance,
		Level:            entities.DefaultAccountLevel,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	r.byID[acct.ID] = acct
	r.byIdentity[acct.ExternalIdentity] = acct.ID

	return &GetOrCreateOutput{Account: copyAccount(acct), Created: true}, nil
}

// UpdateBalances checks every version before writing any balance
func (r *InMemoryRepository) UpdateBalances(_ context.Context, input *UpdateBalancesInput) (*UpdateBalancesOutput, error) {
	if err := validateUpdates(input); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range input.Updates {
		acct, ok := r.byID[u.AccountID]
		if !ok {
			return nil, errors.NotFoundf("account %s not found", u.AccountID)
		}
		if acct.Version != u.ExpectedVersion {
			return nil, versionConflict(u.AccountID, u.ExpectedVersion, acct.Version)
		}
	}

	now := r.clock.Now()
	out := make([]*entities.Account, 0, len(input.Updates))
	for _, u := range input.Updates {
		acct := r.byID[u.AccountID]
		acct.Balance = u.NewBalance
		acct.Version++
		acct.UpdatedAt = now
		out = append(out, copyAccount(acct))
	}

	return &UpdateBalancesOutput{Accounts: out}, nil
}
