package collectibles

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/KirkDiggler/funko-battle/internal/entities"
	"github.com/KirkDiggler/funko-battle/internal/errors"
	"github.com/KirkDiggler/funko-battle/internal/pkg/clock"
	"github.com/KirkDiggler/funko-battle/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/funko-battle/internal/redis"
)

const (
	// Key pattern: collectible:{id}
	collectibleKeyPrefix = "collectible:"
	// Key pattern: collectibles:owner:{account_id} is a list of IDs, oldest first
	ownerIndexPrefix = "collectibles:owner:"
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

// Insert writes the collectible and appends it to the owner index in one
// transaction
func (r *redisRepository) Insert(ctx context.Context, input *InsertInput) (*InsertOutput, error) {
	if err := validateInsert(input); err != nil {
		return nil, err
	}

	stored := *input.Collectible
	stored.ID = r.ids.Generate()
	stored.CreatedAt = r.clock.Now()

	data, err := json.Marshal(&stored)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal collectible")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, collectibleKeyPrefix+stored.ID, data, 0)
	pipe.RPush(ctx, ownerIndexPrefix+stored.OwnerAccountID, stored.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to store collectible")
	}

	return &InsertOutput{Collectible: &stored}, nil
}

// ListByOwner reads the owner index and fetches the collectibles in one MGET
func (r *redisRepository) ListByOwner(ctx context.Context, input *ListByOwnerInput) (*ListByOwnerOutput, error) {
	if err := validateList(input); err != nil {
		return nil, err
	}

	ids, err := r.client.LRange(ctx, ownerIndexPrefix+input.OwnerAccountID, 0, -1).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read owner index")
	}
	if len(ids) == 0 {
		return &ListByOwnerOutput{Collectibles: []*entities.Collectible{}}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = collectibleKeyPrefix + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read collectibles")
	}

	out := make([]*entities.Collectible, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			slog.WarnContext(ctx, "owner index references a missing collectible",
				"account_id", input.OwnerAccountID,
				"collectible_id", ids[i])
			continue
		}

		var c entities.Collectible
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal collectible %s", ids[i])
		}
		out = append(out, &c)
	}

	return &ListByOwnerOutput{Collectibles: out}, nil
}
