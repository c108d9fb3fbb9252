package collectibles

import (
	"context"
	"database/sql"

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

// Insert stores the collectible
func (r *sqliteRepository) Insert(ctx context.Context, input *InsertInput) (*InsertOutput, error) {
	if err := validateInsert(input); err != nil {
		return nil, err
	}

	stored := *input.Collectible
	stored.ID = r.ids.Generate()
	stored.CreatedAt = r.clock.Now()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO collectibles (id, owner_account_id, type_tag, rarity, level, power, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		stored.ID, stored.OwnerAccountID, stored.TypeTag, string(stored.Rarity),
		stored.Level, stored.Power, sqlite.ToMillis(stored.CreatedAt),
	)
	if err != nil {
		return nil, sqlite.Classify(err, "failed to store collectible")
	}

	return &InsertOutput{Collectible: &stored}, nil
}

// ListByOwner returns the owner's collectibles in insertion order
func (r *sqliteRepository) ListByOwner(ctx context.Context, input *ListByOwnerInput) (*ListByOwnerOutput, error) {
	if err := validateList(input); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_account_id, type_tag, rarity, level, power, created_at
		 FROM collectibles WHERE owner_account_id = ?
		 ORDER BY created_at, rowid`,
		input.OwnerAccountID,
	)
	if err != nil {
		return nil, sqlite.Classify(err, "failed to list collectibles")
	}
	defer func() { _ = rows.Close() }()

	out := []*entities.Collectible{}
	for rows.Next() {
		var (
			c       entities.Collectible
			rarity  string
			created int64
		)
		if err := rows.Scan(&c.ID, &c.OwnerAccountID, &c.TypeTag, &rarity, &c.Level, &c.Power, &created); err != nil {
			return nil, sqlite.Classify(err, "failed to scan collectible")
		}
		c.Rarity = entities.Rarity(rarity)
		c.CreatedAt = sqlite.FromMillis(created)
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlite.Classify(err, "failed to list collectibles")
	}

	return &ListByOwnerOutput{Collectibles: out}, nil
}
