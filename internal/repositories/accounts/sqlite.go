package accounts

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/KirkDiggler/funko-battle/internal/entities"
	"github.com/KirkDiggler/funko-battle/internal/errors"
	"github.com/KirkDiggler/funko-battle/internal/pkg/clock"
	"github.com/KirkDiggler/funko-battle/internal/pkg/idgen"
	"github.com/KirkDiggler/funko-battle/internal/sqlite"
)

const accountColumns = `id, external_identity, balance, level, version, created_at, updated_at`

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

// Get retrieves an account by ID
func (r *sqliteRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("account ID is required")
	}

	acct, err := scanAccount(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, input.ID))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFoundf("account %s not found", input.ID)
	}
	if err != nil {
		return nil, sqlite.Classify(err, "failed to read account")
	}
	return &GetOutput{Account: acct}, nil
}

// GetOrCreate relies on the unique external_identity column; the losing
// writer of a race inserts nothing and reads the winner's row
func (r *sqliteRepository) GetOrCreate(ctx context.Context, input *GetOrCreateInput) (*GetOrCreateOutput, error) {
	if err := validateGetOrCreate(input); err != nil {
		return nil, err
	}

	now := sqlite.ToMillis(r.clock.Now())
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, 0, ?, ?)
		 ON CONFLICT(external_identity) DO NOTHING`,
		r.ids.Generate(), input.ExternalIdentity, input.StartingBalance,
		entities.DefaultAccountLevel, now, now,
	)
	if err != nil {
		return nil, sqlite.Classify(err, "failed to create account")
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, sqlite.Classify(err, "failed to create account")
	}

	acct, err := scanAccount(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE external_identity = ?`, input.ExternalIdentity))
	if err != nil {
		return nil, sqlite.Classify(err, "failed to read account")
	}

	return &GetOrCreateOutput{Account: acct, Created: inserted == 1}, nil
}

// UpdateBalances runs every conditional update in one transaction
func (r *sqliteRepository) UpdateBalances(ctx context.Context, input *UpdateBalancesInput) (*UpdateBalancesOutput, error) {
	if err := validateUpdates(input); err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, sqlite.Classify(err, "failed to begin balance update")
	}
	defer func() { _ = tx.Rollback() }()

	now := sqlite.ToMillis(r.clock.Now())
	out := make([]*entities.Account, 0, len(input.Updates))

	for _, u := range input.Updates {
		res, err := tx.ExecContext(ctx,
			`UPDATE accounts SET balance = ?, version = version + 1, updated_at = ?
			 WHERE id = ? AND version = ?`,
			u.NewBalance, now, u.AccountID, u.ExpectedVersion,
		)
		if err != nil {
			return nil, sqlite.Classify(err, "failed to update balance")
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, sqlite.Classify(err, "failed to update balance")
		}

		if n == 0 {
			var actual int64
			err := tx.QueryRowContext(ctx, `SELECT version FROM accounts WHERE id = ?`, u.AccountID).Scan(&actual)
			if stderrors.Is(err, sql.ErrNoRows) {
				return nil, errors.NotFoundf("account %s not found", u.AccountID)
			}
			if err != nil {
				return nil, sqlite.Classify(err, "failed to read account version")
			}
			return nil, versionConflict(u.AccountID, u.ExpectedVersion, actual)
		}

		acct, err := scanAccount(tx.QueryRowContext(ctx,
			`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, u.AccountID))
		if err != nil {
			return nil, sqlite.Classify(err, "failed to read account")
		}
		out = append(out, acct)
	}

	if err := tx.Commit(); err != nil {
		return nil, sqlite.Classify(err, "failed to commit balance update")
	}

	return &UpdateBalancesOutput{Accounts: out}, nil
}

func scanAccount(row *sql.Row) (*entities.Account, error) {
	var (
		acct               entities.Account
		created, updatedAt int64
	)
	if err := row.Scan(
		&acct.ID, &acct.ExternalIdentity, &acct.Balance, &acct.Level,
		&acct.Version, &created, &updatedAt,
	); err != nil {
		return nil, err
	}
	acct.CreatedAt = sqlite.FromMillis(created)
	acct.UpdatedAt = sqlite.FromMillis(updatedAt)
	return &acct, nil
}
