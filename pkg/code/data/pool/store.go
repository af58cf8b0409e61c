package pool

import (
	"context"
	"errors"
)

var (
	ErrPoolNotFound      = errors.New("no records could be found")
	ErrPoolAlreadyExists = errors.New("pool already exists")
	ErrUnderflow         = errors.New("pool total staked would become negative")
	ErrOverflow          = errors.New("pool total staked would overflow")
)

// Store is the authoritative ledger of liquidity pools. Implementations must
// apply balance deltas atomically with respect to each other.
type Store interface {
	// Create inserts a new pool with a zero total. ErrPoolAlreadyExists is
	// returned if a pool already exists at the address or for the mint.
	Create(ctx context.Context, record *Record) error

	// Get gets a pool by its address
	Get(ctx context.Context, address string) (*Record, error)

	// GetByMint gets a pool by its token mint
	GetByMint(ctx context.Context, mint string) (*Record, error)

	// ApplyDelta adds delta to the pool's total staked and returns the updated
	// pool. A positive delta also sets LastDepositAt. Nothing is changed when
	// ErrUnderflow or ErrOverflow is returned.
	ApplyDelta(ctx context.Context, address string, delta int64) (*Record, error)
}
