package zkpool

import (
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPoolAddress(t *testing.T) {
	for _, tc := range []struct {
		mint     string
		expected string
		bump     uint8
	}{
		{
			mint:     "kinXdEcpDQeHPEuQnqmUgtYykqKGVFq6CeVX5iAHJq6",
			expected: "GegKVryxprovmEkDKb9f1Bi2XXKXsFEReaT4Cst79yTC",
			bump:     255,
		},
		{
			mint:     "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
			expected: "CpmfU68Ea5VNfpidUDep3UV28iHtzbNconZXiC1knDV2",
			bump:     253,
		},
		{
			mint:     "So11111111111111111111111111111111111111112",
			expected: "BauycfeU7MjBqeQg5jiyPt5ELratXiYE9nfNHaPwtps4",
			bump:     252,
		},
	} {
		mint := mustBase58Decode(tc.mint)

		address, bump, err := GetPoolAddress(&GetPoolAddressArgs{
			Mint: mint,
		})
		require.NoError(t, err)
		assert.Equal(t, tc.expected, base58.Encode(address))
		assert.Equal(t, tc.bump, bump)

		ok, err := VerifyPoolAddress(address, mint, bump)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = VerifyPoolAddress(address, mint, bump-1)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestGetUserStakeAddress(t *testing.T) {
	address, bump, err := GetUserStakeAddress(&GetUserStakeAddressArgs{
		User: mustBase58Decode("codeHy87wGD5oMRLG75qKqsSi1vWE3oxNyYmXo5F9YR"),
		Pool: mustBase58Decode("GegKVryxprovmEkDKb9f1Bi2XXKXsFEReaT4Cst79yTC"),
	})
	require.NoError(t, err)
	assert.Equal(t, "BHTkFLJYYTnmWR33vCMzf5AXzDVhLFnnFsiUr5JwkHeo", base58.Encode(address))
	assert.EqualValues(t, 255, bump)
}
