package zk

import (
	"bytes"
	"context"
	"io"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/backend/witness"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	ErrMalformedProof        = errors.New("malformed proof")
	ErrMalformedPublicInputs = errors.New("malformed public inputs")
)

// PlonkVerifier verifies BN254 PLONK proofs against a fixed verifying key.
//
// Proofs are expected zlib-compressed (see CompressProof), and public inputs
// in gnark's binary witness encoding.
type PlonkVerifier struct {
	log *logrus.Entry
	vk  plonk.VerifyingKey
}

func NewPlonkVerifier(vk plonk.VerifyingKey) *PlonkVerifier {
	return &PlonkVerifier{
		log: logrus.StandardLogger().WithField("type", "zk/plonk_verifier"),
		vk:  vk,
	}
}

// NewPlonkVerifierFromReader loads a serialized verifying key
func NewPlonkVerifierFromReader(r io.Reader) (*PlonkVerifier, error) {
	vk := plonk.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(r); err != nil {
		return nil, errors.Wrap(err, "error reading verifying key")
	}
	return NewPlonkVerifier(vk), nil
}

// Verify reports whether the proof is valid for the public inputs. A proof
// that decodes but fails verification returns false with no error.
func (v *PlonkVerifier) Verify(ctx context.Context, compressedProof, publicInputs []byte) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	log := v.log.WithField("method", "Verify")

	rawProof, err := DecompressProof(compressedProof)
	if err != nil {
		return false, errors.Wrap(ErrMalformedProof, err.Error())
	}

	proof := plonk.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(rawProof)); err != nil {
		return false, errors.Wrap(ErrMalformedProof, err.Error())
	}

	publicWitness, err := witness.New(ecc.BN254.ScalarField())
	if err != nil {
		return false, errors.Wrap(err, "error creating witness")
	}
	if err := publicWitness.UnmarshalBinary(publicInputs); err != nil {
		return false, errors.Wrap(ErrMalformedPublicInputs, err.Error())
	}

	if err := plonk.Verify(proof, v.vk, publicWitness); err != nil {
		log.WithError(err).Debug("proof failed verification")
		return false, nil
	}

	return true, nil
}
