package battles

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"

	"github.com/KirkDiggler/funko-battle/internal/entities"
	"github.com/KirkDiggler/funko-battle/internal/errors"
	"github.com/KirkDiggler/funko-battle/internal/pkg/clock"
	"github.com/KirkDiggler/funko-battle/internal/pkg/idgen"
	"github.com/KirkDiggler/funko-battle/internal/sqlite"
)

// SQLiteConfig holds the dependencies for the SQLite repository
type SQLiteConfig struct {
	DB          *sql.DB
	Clock       clock.Clock
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *SQLiteConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.DB == nil {
		vb.RequiredField("DB")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	return vb.Build()
}

type sqliteRepository struct {
	db    *sql.DB
	clock clock.Clock
	ids   idgen.Generator
}

// NewSQLite creates a repository over a database opened with sqlite.Open
func NewSQLite(cfg *SQLiteConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &sqliteRepository{
		db:    cfg.DB,
		clock: cfg.Clock,
		ids:   cfg.IDGenerator,
	}, nil
}

// Insert stores the record. The opponent collectible is kept as JSON.
func (r *sqliteRepository) Insert(ctx context.Context, input *InsertInput) (*InsertOutput, error) {
	if err := validateInsert(input); err != nil {
		return nil, err
	}

	stored := copyRecord(input.Record)
	stored.ID = r.ids.Generate()
	stored.CreatedAt = r.clock.Now()

	var collectible sql.NullString
	if stored.OpponentCollectible != nil {
		data, err := json.Marshal(stored.OpponentCollectible)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal opponent collectible")
		}
		collectible = sql.NullString{String: string(data), Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO battles (id, initiator_account_id, initiator_collectible_id, opponent_kind,
		   opponent_account_id, opponent_name, opponent_collectible, winner_account_id,
		   reward_amount, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.ID, stored.InitiatorAccountID, nullable(stored.InitiatorCollectibleID),
		string(stored.Opponent.Kind),
		nullable(stored.Opponent.AccountID), nullable(stored.Opponent.Name),
		collectible, stored.WinnerAccountID, stored.RewardAmount,
		sqlite.ToMillis(stored.CreatedAt),
	)
	if err != nil {
		return nil, sqlite.Classify(err, "failed to store battle record")
	}

	return &InsertOutput{Record: stored}, nil
}

// Get retrieves a record by ID
func (r *sqliteRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("battle ID is required")
	}

	var (
		rec                      entities.BattleRecord
		kind                     string
		initiatorCollectible     sql.NullString
		opponentID, opponentName sql.NullString
		collectible, winner      sql.NullString
		created                  int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, initiator_account_id, initiator_collectible_id, opponent_kind,
		   opponent_account_id, opponent_name, opponent_collectible, winner_account_id,
		   reward_amount, created_at
		 FROM battles WHERE id = ?`, input.ID,
	).Scan(&rec.ID, &rec.InitiatorAccountID, &initiatorCollectible, &kind, &opponentID, &opponentName,
		&collectible, &winner, &rec.RewardAmount, &created)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFoundf("battle %s not found", input.ID)
	}
	if err != nil {
		return nil, sqlite.Classify(err, "failed to read battle record")
	}

	rec.InitiatorCollectibleID = initiatorCollectible.String
	rec.Opponent = entities.Opponent{
		Kind:      entities.OpponentKind(kind),
		AccountID: opponentID.String,
		Name:      opponentName.String,
	}
	if collectible.Valid {
		var c entities.Collectible
		if err := json.Unmarshal([]byte(collectible.String), &c); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal opponent collectible of battle %s", rec.ID)
		}
		rec.OpponentCollectible = &c
	}
	if winner.Valid {
		w := winner.String
		rec.WinnerAccountID = &w
	}
	rec.CreatedAt = sqlite.FromMillis(created)

	return &GetOutput{Record: &rec}, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
