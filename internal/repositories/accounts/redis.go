package accounts

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/funko-battle/internal/entities"
	"github.com/KirkDiggler/funko-battle/internal/errors"
	"github.com/KirkDiggler/funko-battle/internal/pkg/clock"
	"github.com/KirkDiggler/funko-battle/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/funko-battle/internal/redis"
)

const (
	// Key pattern: account:{id} holds the account JSON
	accountKeyPrefix = "account:"
	// Key pattern: account:identity:{external_identity} holds the account ID
	identityKeyPrefix = "account:identity:"

	// attempts at claiming an identity before giving up to the caller
	maxCreateAttempts = 5
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

// NewRedis creates a Redis backed repository. Balance writes use
// WATCH/MULTI so a concurrent writer on any touched account aborts the
// transaction.
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

// Get retrieves an account by ID
func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("account ID is required")
	}

	acct, err := readAccount(ctx, r.client, input.ID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Account: acct}, nil
}

// GetOrCreate watches the identity key so two first contacts cannot both
// create an account
func (r *redisRepository) GetOrCreate(ctx context.Context, input *GetOrCreateInput) (*GetOrCreateOutput, error) {
	if err := validateGetOrCreate(input); err != nil {
		return nil, err
	}

	identityKey := identityKeyPrefix + input.ExternalIdentity

	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		var out *GetOrCreateOutput

		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			id, err := tx.Get(ctx, identityKey).Result()
			switch {
			case err == nil:
				acct, err := readAccount(ctx, tx, id)
				if err != nil {
					return err
				}
				out = &GetOrCreateOutput{Account: acct}
				return nil
			case err != redisclient.Nil:
				return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read identity index")
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
			data, err := json.Marshal(acct)
			if err != nil {
				return errors.Wrap(err, "failed to marshal account")
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, accountKeyPrefix+acct.ID, data, 0)
				pipe.Set(ctx, identityKey, acct.ID, 0)
				return nil
			})
			if err != nil {
				return err
			}

			out = &GetOrCreateOutput{Account: acct, Created: true}
			return nil
		}, identityKey)

		if err == redisclient.TxFailedErr {
			slog.DebugContext(ctx, "identity claimed concurrently, reading winner",
				"external_identity", input.ExternalIdentity,
				"attempt", attempt)
			continue
		}
		if err != nil {
			return nil, asStorageError(err, "failed to get or create account")
		}
		return out, nil
	}

	return nil, errors.Abortedf("could not claim identity %s", input.ExternalIdentity)
}

// UpdateBalances reads and checks every account inside one WATCH and writes
// them in one MULTI/EXEC
func (r *redisRepository) UpdateBalances(ctx context.Context, input *UpdateBalancesInput) (*UpdateBalancesOutput, error) {
	if err := validateUpdates(input); err != nil {
		return nil, err
	}

	keys := make([]string, len(input.Updates))
	for i, u := range input.Updates {
		keys[i] = accountKeyPrefix + u.AccountID
	}

	var updated []*entities.Account

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		updated = make([]*entities.Account, 0, len(input.Updates))
		payloads := make([][]byte, 0, len(input.Updates))
		now := r.clock.Now()

		for _, u := range input.Updates {
			acct, err := readAccount(ctx, tx, u.AccountID)
			if err != nil {
				return err
			}
			if acct.Version != u.ExpectedVersion {
				return versionConflict(u.AccountID, u.ExpectedVersion, acct.Version)
			}

			acct.Balance = u.NewBalance
			acct.Version++
			acct.UpdatedAt = now

			data, err := json.Marshal(acct)
			if err != nil {
				return errors.Wrap(err, "failed to marshal account")
			}
			updated = append(updated, acct)
			payloads = append(payloads, data)
		}

		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, key := range keys {
				pipe.Set(ctx, key, payloads[i], 0)
			}
			return nil
		})
		return err
	}, keys...)

	if err == redisclient.TxFailedErr {
		return nil, errors.Aborted("accounts changed during update").
			WithMeta("account_ids", joinIDs(input.Updates))
	}
	if err != nil {
		return nil, asStorageError(err, "failed to update balances")
	}

	return &UpdateBalancesOutput{Accounts: updated}, nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readAccount(ctx context.Context, client getter, id string) (*entities.Account, error) {
	data, err := client.Get(ctx, accountKeyPrefix+id).Bytes()
	if err == redisclient.Nil {
		return nil, errors.NotFoundf("account %s not found", id)
	}
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read account")
	}

	var acct entities.Account
	if err := json.Unmarshal(data, &acct); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal account %s", id)
	}
	return &acct, nil
}

// asStorageError passes structured errors through and marks raw client
// errors as Unavailable
func asStorageError(err error, message string) error {
	var structured *errors.Error
	if errors.As(err, &structured) {
		return err
	}
	return errors.WrapWithCode(err, errors.CodeUnavailable, message)
}

func joinIDs(updates []BalanceUpdate) string {
	ids := make([]string, len(updates))
	for i, u := range updates {
		ids[i] = u.AccountID
	}
	return strings.Join(ids, ",")
}
