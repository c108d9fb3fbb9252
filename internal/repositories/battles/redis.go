package battles

import (
	"context"
	"encoding/json"

	"github.com/KirkDiggler/funko-battle/internal/entities"
	"github.com/KirkDiggler/funko-battle/internal/errors"
	"github.com/KirkDiggler/funko-battle/internal/pkg/clock"
	"github.com/KirkDiggler/funko-battle/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/funko-battle/internal/redis"
)

const (
	// Key pattern: battle:{id}
	battleKeyPrefix = "battle:"
	// Key pattern: battles:account:{account_id} is a list of battle IDs
	accountIndexPrefix = "battles:account:"
)

// RedisConfig holds the dependencies for the Redis repository
type RedisConfig struct {
	Client      redisclient.Client
	Clock       clock.Clock
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	return vb.Build()
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
	ids    idgen.Generator
}

// NewRedis creates a Redis backed repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
		ids:    cfg.IDGenerator,
	}, nil
}

// Insert writes the record and indexes it under the initiator
func (r *redisRepository) Insert(ctx context.Context, input *InsertInput) (*InsertOutput, error) {
	if err := validateInsert(input); err != nil {
		return nil, err
	}

	stored := copyRecord(input.Record)
	stored.ID = r.ids.Generate()
	stored.CreatedAt = r.clock.Now()

	data, err := json.Marshal(stored)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal battle record")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, battleKeyPrefix+stored.ID, data, 0)
	pipe.RPush(ctx, accountIndexPrefix+stored.InitiatorAccountID, stored.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to store battle record")
	}

	return &InsertOutput{Record: stored}, nil
}

// Get retrieves a record by ID
func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("battle ID is required")
	}

	data, err := r.client.Get(ctx, battleKeyPrefix+input.ID).Bytes()
	if err == redisclient.Nil {
		return nil, errors.NotFoundf("battle %s not found", input.ID)
	}
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read battle record")
	}

	var rec entities.BattleRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal battle %s", input.ID)
	}
	return &GetOutput{Record: &rec}, nil
}
