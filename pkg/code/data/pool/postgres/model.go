package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/code-payments/zk-liquidity-pool/pkg/code/data/pool"
	pgutil "github.com/code-payments/zk-liquidity-pool/pkg/database/postgres"
)

const (
	tableName = "zkpool__core_liquiditypool"

	// total_staked is NUMERIC(20,0), so the full uint64 range is bounded here
	maxTotalStaked = "18446744073709551615"

	allColumns = `id, address, bump, mint, authority, total_staked::TEXT AS total_staked, last_deposit_at, created_at, last_updated_at`
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	Address string `db:"address"`
	Bump    uint   `db:"bump"`

	Mint      string `db:"mint"`
	Authority string `db:"authority"`

	TotalStaked uint64 `db:"total_staked"`

	LastDepositAt sql.NullTime `db:"last_deposit_at"`

	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

func toModel(obj *pool.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &model{
		Address: obj.Address,
		Bump:    uint(obj.Bump),

		Mint:      obj.Mint,
		Authority: obj.Authority,

		TotalStaked: obj.TotalStaked,

		CreatedAt:     obj.CreatedAt,
		LastUpdatedAt: obj.LastUpdatedAt,
	}, nil
}

func fromModel(obj *model) *pool.Record {
	var lastDepositAt time.Time
	if obj.LastDepositAt.Valid {
		lastDepositAt = obj.LastDepositAt.Time
	}

	return &pool.Record{
		Id: uint64(obj.Id.Int64),

		Address: obj.Address,
		Bump:    uint8(obj.Bump),

		Mint:      obj.Mint,
		Authority: obj.Authority,

		TotalStaked: obj.TotalStaked,

		LastDepositAt: lastDepositAt,

		CreatedAt:     obj.CreatedAt,
		LastUpdatedAt: obj.LastUpdatedAt,
	}
}

func (m *model) dbCreate(ctx context.Context, db *sqlx.DB) error {
	now := time.Now()
	m.TotalStaked = 0
	m.LastDepositAt = sql.NullTime{}
	m.CreatedAt = now
	m.LastUpdatedAt = now

	query := `INSERT INTO ` + tableName + `
		(address, bump, mint, authority, total_staked, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, 0, $5, $6)
		RETURNING ` + allColumns

	err := db.QueryRowxContext(
		ctx,
		query,
		m.Address,
		m.Bump,
		m.Mint,
		m.Authority,
		m.CreatedAt.UTC(),
		m.LastUpdatedAt.UTC(),
	).StructScan(m)
	return pgutil.CheckUniqueViolation(err, pool.ErrPoolAlreadyExists)
}

func dbGetByAddress(ctx context.Context, db *sqlx.DB, address string) (*model, error) {
	var res model
	query := `SELECT ` + allColumns + ` FROM ` + tableName + `
		WHERE address = $1
	`
	err := db.GetContext(ctx, &res, query, address)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, pool.ErrPoolNotFound)
	}
	return &res, nil
}

func dbGetByMint(ctx context.Context, db *sqlx.DB, mint string) (*model, error) {
	var res model
	query := `SELECT ` + allColumns + ` FROM ` + tableName + `
		WHERE mint = $1
	`
	err := db.GetContext(ctx, &res, query, mint)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, pool.ErrPoolNotFound)
	}
	return &res, nil
}

// dbApplyDelta relies on a single conditional UPDATE so the bounds on
// total_staked hold across concurrent writers, including other processes.
func dbApplyDelta(ctx context.Context, db *sqlx.DB, address string, delta int64) (*model, error) {
	var res model
	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `UPDATE ` + tableName + `
			SET
				total_staked = total_staked + $2,
				last_deposit_at = CASE WHEN $2 > 0 THEN $3 ELSE last_deposit_at END,
				last_updated_at = $3
			WHERE address = $1 AND total_staked + $2 >= 0 AND total_staked + $2 <= ` + maxTotalStaked + `
			RETURNING ` + allColumns

		err := tx.QueryRowxContext(
			ctx,
			query,
			address,
			delta,
			time.Now().UTC(),
		).StructScan(&res)
		if !pgutil.IsNoRows(err) {
			return err
		}

		// Nothing was updated, so figure out which condition failed
		var id int64
		err = tx.GetContext(ctx, &id, `SELECT id FROM `+tableName+` WHERE address = $1`, address)
		if err != nil {
			return pgutil.CheckNoRows(err, pool.ErrPoolNotFound)
		}

		if delta < 0 {
			return pool.ErrUnderflow
		}
		return pool.ErrOverflow
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}
