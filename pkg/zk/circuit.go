package zk

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	bn254mimc "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

const balanceBits = 64

// BalanceTransitionCircuit proves that a hidden balance moved by a public
// amount. Balances are committed to as MiMC(balance, blinding), and the new
// balance must fit in a u64.
type BalanceTransitionCircuit struct {
	Amount        frontend.Variable `gnark:",public"`
	Withdrawal    frontend.Variable `gnark:",public"` // 0 for a deposit, 1 for a withdrawal
	OldCommitment frontend.Variable `gnark:",public"`
	NewCommitment frontend.Variable `gnark:",public"`

	OldBalance frontend.Variable
	NewBalance frontend.Variable
	Blinding   frontend.Variable
}

func (c *BalanceTransitionCircuit) Define(api frontend.API) error {
	api.AssertIsBoolean(c.Withdrawal)

	api.ToBinary(c.Amount, balanceBits)
	api.ToBinary(c.OldBalance, balanceBits)
	api.ToBinary(c.NewBalance, balanceBits)

	delta := api.Select(c.Withdrawal, api.Neg(c.Amount), c.Amount)
	api.AssertIsEqual(c.NewBalance, api.Add(c.OldBalance, delta))

	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}

	h.Write(c.OldBalance, c.Blinding)
	api.AssertIsEqual(h.Sum(), c.OldCommitment)

	h.Reset()
	h.Write(c.NewBalance, c.Blinding)
	api.AssertIsEqual(h.Sum(), c.NewCommitment)

	return nil
}

// CommitBalance computes the MiMC balance commitment checked by
// BalanceTransitionCircuit
func CommitBalance(balance uint64, blinding *fr.Element) *big.Int {
	var balanceElement fr.Element
	balanceElement.SetUint64(balance)

	balanceBytes := balanceElement.Bytes()
	blindingBytes := blinding.Bytes()

	h := bn254mimc.NewMiMC()
	h.Write(balanceBytes[:])
	h.Write(blindingBytes[:])

	return new(big.Int).SetBytes(h.Sum(nil))
}
