// Package zktest provides a throwaway PLONK setup for the balance transition
// circuit. The SRS comes from gnark's unsafekzg and must never be used
// outside of tests.
package zktest

import (
	"bytes"
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/scs"
	"github.com/consensys/gnark/test/unsafekzg"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/zk-liquidity-pool/pkg/zk"
)

type Environment struct {
	ccs constraint.ConstraintSystem
	pk  plonk.ProvingKey
	vk  plonk.VerifyingKey
}

// Transition is the witness for a single balance transition
type Transition struct {
	OldBalance uint64
	Amount     uint64
	Withdrawal bool
}

func NewEnvironment(t *testing.T) *Environment {
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), scs.NewBuilder, &zk.BalanceTransitionCircuit{})
	require.NoError(t, err)

	srs, srsLagrange, err := unsafekzg.NewSRS(ccs)
	require.NoError(t, err)

	pk, vk, err := plonk.Setup(ccs, srs, srsLagrange)
	require.NoError(t, err)

	return &Environment{
		ccs: ccs,
		pk:  pk,
		vk:  vk,
	}
}

func (e *Environment) VerifyingKey() plonk.VerifyingKey {
	return e.vk
}

func (e *Environment) Verifier() *zk.PlonkVerifier {
	return zk.NewPlonkVerifier(e.vk)
}

// Prove returns a compressed proof and the serialized public inputs for the
// transition
func (e *Environment) Prove(t *testing.T, transition Transition) (proof, publicInputs []byte) {
	var blinding fr.Element
	_, err := blinding.SetRandom()
	require.NoError(t, err)

	newBalance := transition.OldBalance + transition.Amount
	withdrawal := 0
	if transition.Withdrawal {
		newBalance = transition.OldBalance - transition.Amount
		withdrawal = 1
	}

	assignment := &zk.BalanceTransitionCircuit{
		Amount:        transition.Amount,
		Withdrawal:    withdrawal,
		OldCommitment: zk.CommitBalance(transition.OldBalance, &blinding),
		NewCommitment: zk.CommitBalance(newBalance, &blinding),

		OldBalance: transition.OldBalance,
		NewBalance: newBalance,
		Blinding:   blinding.BigInt(new(big.Int)),
	}

	fullWitness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	require.NoError(t, err)

	plonkProof, err := plonk.Prove(e.ccs, e.pk, fullWitness)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = plonkProof.WriteTo(&buf)
	require.NoError(t, err)

	proof, err = zk.CompressProof(buf.Bytes())
	require.NoError(t, err)

	publicWitness, err := fullWitness.Public()
	require.NoError(t, err)

	publicInputs, err = publicWitness.MarshalBinary()
	require.NoError(t, err)

	return proof, publicInputs
}

// RandomBytes is used to produce garbage proofs
func RandomBytes(t *testing.T, n int) []byte {
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}
