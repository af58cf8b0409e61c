package zkpool

import (
	"crypto/ed25519"

	"github.com/code-payments/zk-liquidity-pool/pkg/solana"
)

var (
	PoolPrefix      = []byte("pool")
	UserStakePrefix = []byte("user_stake")
)

type GetPoolAddressArgs struct {
	Mint ed25519.PublicKey
}

type GetUserStakeAddressArgs struct {
	User ed25519.PublicKey
	Pool ed25519.PublicKey
}

// GetPoolAddress derives the liquidity pool account for a mint along with its
// canonical bump
func GetPoolAddress(args *GetPoolAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		PoolPrefix,
		args.Mint,
	)
}

// VerifyPoolAddress checks that a stored bump reproduces the pool address for
// the mint
func VerifyPoolAddress(pool, mint ed25519.PublicKey, bump uint8) (bool, error) {
	return solana.VerifyProgramAddress(
		pool,
		PROGRAM_ID,
		bump,
		PoolPrefix,
		mint,
	)
}

func GetUserStakeAddress(args *GetUserStakeAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		UserStakePrefix,
		args.User,
		args.Pool,
	)
}
