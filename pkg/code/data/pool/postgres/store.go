package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/code-payments/zk-liquidity-pool/pkg/code/data/pool"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres-backed pool.Store
func New(db *sql.DB) pool.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Create implements pool.Store.Create
func (s *store) Create(ctx context.Context, record *pool.Record) error {
	model, err := toModel(record)
	if err != nil {
		return err
	}

	if err := model.dbCreate(ctx, s.db); err != nil {
		return err
	}

	res := fromModel(model)
	res.CopyTo(record)

	return nil
}

// Get implements pool.Store.Get
func (s *store) Get(ctx context.Context, address string) (*pool.Record, error) {
	model, err := dbGetByAddress(ctx, s.db, address)
	if err != nil {
		return nil, err
	}

	return fromModel(model), nil
}

// GetByMint implements pool.Store.GetByMint
func (s *store) GetByMint(ctx context.Context, mint string) (*pool.Record, error) {
	model, err := dbGetByMint(ctx, s.db, mint)
	if err != nil {
		return nil, err
	}

	return fromModel(model), nil
}

// ApplyDelta implements pool.Store.ApplyDelta
func (s *store) ApplyDelta(ctx context.Context, address string, delta int64) (*pool.Record, error) {
	model, err := dbApplyDelta(ctx, s.db, address, delta)
	if err != nil {
		return nil, err
	}

	return fromModel(model), nil
}
