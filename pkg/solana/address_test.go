package solana

import (
	"crypto/ed25519"
	"crypto/sha256"
	"hash"
	"testing"

	"github.com/mr-tron/base58/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProgramAddress(t *testing.T) {
	exceededSeed := make([]byte, maxSeedLength+1)
	maxSeed := make([]byte, maxSeedLength)

	// The typo here was taken directly from the Solana test case,
	// which was used to derive the expected outputs.
	publicKey, err := base58.Decode("SeedPubey1111111111111111111111111111111111")
	require.NoError(t, err)
	programID, err := base58.Decode("BPFLoader1111111111111111111111111111111111")
	require.NoError(t, err)

	_, err = CreateProgramAddress(programID, exceededSeed)
	assert.Equal(t, ErrMaxSeedLengthExceeded, err)
	_, err = CreateProgramAddress(programID, []byte("short seed"), exceededSeed)
	assert.Equal(t, ErrMaxSeedLengthExceeded, err)

	_, err = CreateProgramAddress(programID, make([][]byte, maxSeeds+1)...)
	assert.Equal(t, ErrTooManySeeds, err)

	_, err = CreateProgramAddress(programID, maxSeed)
	assert.NoError(t, err)

	for _, tc := range []struct {
		expected string
		input    [][]byte
	}{
		{
			expected: "3gF2KMe9KiC6FNVBmfg9i267aMPvK37FewCip4eGBFcT",
			input:    [][]byte{{}, {1}},
		},
		{
			expected: "7ytmC1nT1xY4RfxCV2ZgyA7UakC93do5ZdyhdF3EtPj7",
			input:    [][]byte{[]byte("☉")},
		},
		{
			expected: "HwRVBufQ4haG5XSgpspwKtNd3PC9GM9m1196uJW36vds",
			input:    [][]byte{[]byte("Talking"), []byte("Squirrels")},
		},
		{
			expected: "GUs5qLUfsEHkcMB9T38vjr18ypEhRuNWiePW2LoK4E3K",
			input:    [][]byte{publicKey},
		},
	} {
		key, err := CreateProgramAddress(programID, tc.input...)
		assert.NoError(t, err)
		assert.Equal(t, tc.expected, base58.Encode(key))
	}
}

// fixedHash always sums to the same value, letting tests force the derived
// key onto the curve.
type fixedHash struct {
	sumResult []byte
}

func (h *fixedHash) Write(p []byte) (n int, err error) { return len(p), nil }
func (h *fixedHash) Sum(b []byte) []byte               { return h.sumResult }
func (h *fixedHash) Reset()                            {}
func (h *fixedHash) Size() int                         { return sha256.Size }
func (h *fixedHash) BlockSize() int                    { return sha256.BlockSize }

func withOnCurveHash(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	programHashCtor = func() hash.Hash {
		return &fixedHash{sumResult: pub}
	}
	t.Cleanup(func() {
		programHashCtor = sha256.New
	})
}

func TestCreateProgramAddress_OnCurve(t *testing.T) {
	withOnCurveHash(t)

	programID, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	_, err = CreateProgramAddress(programID, []byte("Lil'"), []byte("Bits"))
	assert.Equal(t, ErrInvalidPublicKey, err)
}

func TestFindProgramAddressAndBump_Exhausted(t *testing.T) {
	withOnCurveHash(t)

	programID, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	address, bump, err := FindProgramAddressAndBump(programID, []byte("pool"))
	assert.Equal(t, ErrDerivationExhausted, err)
	assert.Nil(t, address)
	assert.EqualValues(t, 0, bump)
}

func TestFindProgramAddressAndBump_TooManySeeds(t *testing.T) {
	programID, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	_, _, err = FindProgramAddressAndBump(programID, make([][]byte, maxSeeds)...)
	assert.Equal(t, ErrTooManySeeds, err)
}

func TestFindProgramAddressAndBump_Deterministic(t *testing.T) {
	for i := 0; i < 250; i++ {
		programID, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		mint, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)

		first, firstBump, err := FindProgramAddressAndBump(programID, []byte("pool"), mint)
		require.NoError(t, err)

		second, secondBump, err := FindProgramAddressAndBump(programID, []byte("pool"), mint)
		require.NoError(t, err)

		assert.EqualValues(t, first, second)
		assert.Equal(t, firstBump, secondBump)

		// Every bump above the canonical one must land on the curve
		for bump := 255; bump > int(firstBump); bump-- {
			_, err := CreateProgramAddress(programID, []byte("pool"), mint, []byte{byte(bump)})
			assert.Equal(t, ErrInvalidPublicKey, err)
		}

		ok, err := VerifyProgramAddress(first, programID, firstBump, []byte("pool"), mint)
		require.NoError(t, err)
		assert.True(t, ok)

		if firstBump > 0 {
			ok, err = VerifyProgramAddress(first, programID, firstBump-1, []byte("pool"), mint)
			require.NoError(t, err)
			assert.False(t, ok)
		}
	}
}

func TestFindProgramAddress_Ref(t *testing.T) {
	for _, r := range []struct {
		programID string
		expected  string
	}{
		{
			programID: "4uQeVj5tqViQh7yWWGStvkEG1Zmhx6uasJtWCJziofM",
			expected:  "Bn9pAWUXWc5Kd849xTkQcHqiCbHUEizLFn4r5Cf8XYnd",
		},
		{
			programID: "8opHzTAnfzRpPEx21XtnrVTX28YQuCpAjcn1PczScKh",
			expected:  "oDvUHiiGdMo31xYzjefAzUekWH8EbCKrxgs2FkyTs1S",
		},
		{
			programID: "CiDwVBFgWV9E5MvXWoLgnEgn2hK7rJikbvfWavzAQz3",
			expected:  "B2vBn2bmF9GuaGkebrm8oUqDC34pE6m4bagjNcVE6msv",
		},
		{
			programID: "GcdayuLaLyrdmUu324nahyv33G5poQdLUEZ1nEytDeP",
			expected:  "2mN5Nfq9v1EwTV9FPTHPESZ3XiZce9wi5PQoULFuxvev",
		},
		{
			programID: "LX3EUdRUBUa3TbsYXLEUdj9J3prXkWXvLYSWyYyc2Jj",
			expected:  "9CqF6oTZtW5zSeoLnZRoQmj3s2tXGPqifM1W8Z8LVE1z",
		},
	} {
		programID, err := base58.Decode(r.programID)
		require.NoError(t, err)
		expected, err := base58.Decode(r.expected)
		require.NoError(t, err)

		actual, err := FindProgramAddress(programID, []byte("Lil'"), []byte("Bits"))
		assert.NoError(t, err)
		assert.EqualValues(t, expected, actual)
	}
}
