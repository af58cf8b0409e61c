package zk

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressProof_RoundTrip(t *testing.T) {
	for _, proof := range [][]byte{
		{},
		[]byte("proof"),
		bytes.Repeat([]byte{0xab}, 1024),
	} {
		compressed, err := CompressProof(proof)
		require.NoError(t, err)

		actual, err := DecompressProof(compressed)
		require.NoError(t, err)
		assert.Equal(t, proof, actual)
	}
}

func TestDecompressProof_Invalid(t *testing.T) {
	_, err := DecompressProof([]byte("not zlib"))
	assert.Error(t, err)

	compressed, err := CompressProof(make([]byte, maxDecompressedProofSize+1))
	require.NoError(t, err)

	_, err = DecompressProof(compressed)
	assert.Equal(t, ErrProofTooLarge, err)
}
