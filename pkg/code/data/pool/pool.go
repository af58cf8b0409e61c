package pool

import (
	"math"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/zk-liquidity-pool/pkg/solana/zkpool"
)

type Record struct {
	Id uint64

	Address string
	Bump    uint8

	Mint      string
	Authority string

	TotalStaked uint64

	// LastDepositAt is zero until the first positive delta is applied
	LastDepositAt time.Time

	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

func (r *Record) Validate() error {
	if len(r.Address) == 0 {
		return errors.New("address is required")
	}

	if len(r.Mint) == 0 {
		return errors.New("mint is required")
	}

	if len(r.Authority) == 0 {
		return errors.New("authority is required")
	}

	return nil
}

// ApplyDelta computes the total staked after adding delta, without modifying
// the record
func (r *Record) ApplyDelta(delta int64) (uint64, error) {
	if delta < 0 {
		// Negating math.MinInt64 overflows, so compute the magnitude in uint64 space
		magnitude := uint64(-(delta + 1)) + 1
		if magnitude > r.TotalStaked {
			return 0, ErrUnderflow
		}
		return r.TotalStaked - magnitude, nil
	}

	if uint64(delta) > math.MaxUint64-r.TotalStaked {
		return 0, ErrOverflow
	}
	return r.TotalStaked + uint64(delta), nil
}

// ToAccount converts the record into the on-chain LiquidityPool account layout
func (r *Record) ToAccount() (*zkpool.LiquidityPoolAccount, error) {
	authority, err := base58.Decode(r.Authority)
	if err != nil {
		return nil, errors.Wrap(err, "error decoding authority")
	}

	mint, err := base58.Decode(r.Mint)
	if err != nil {
		return nil, errors.Wrap(err, "error decoding mint")
	}

	return &zkpool.LiquidityPoolAccount{
		Authority:   authority,
		TokenMint:   mint,
		TotalStaked: r.TotalStaked,
		Bump:        r.Bump,
	}, nil
}

func (r *Record) Clone() *Record {
	return &Record{
		Id: r.Id,

		Address: r.Address,
		Bump:    r.Bump,

		Mint:      r.Mint,
		Authority: r.Authority,

		TotalStaked: r.TotalStaked,

		LastDepositAt: r.LastDepositAt,

		CreatedAt:     r.CreatedAt,
		LastUpdatedAt: r.LastUpdatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id

	dst.Address = r.Address
	dst.Bump = r.Bump

	dst.Mint = r.Mint
	dst.Authority = r.Authority

	dst.TotalStaked = r.TotalStaked

	dst.LastDepositAt = r.LastDepositAt

	dst.CreatedAt = r.CreatedAt
	dst.LastUpdatedAt = r.LastUpdatedAt
}
