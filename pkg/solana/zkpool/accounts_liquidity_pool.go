package zkpool

import (
	"bytes"
	"crypto/ed25519"
	"strconv"

	"github.com/mr-tron/base58"
)

const LiquidityPoolAccountSize = (discriminatorSize + // discriminator
	32 + // authority
	32 + // token_mint
	8 + // total_staked
	1) // bump

var liquidityPoolAccountDiscriminator = []byte{66, 38, 17, 64, 188, 80, 68, 129}

type LiquidityPoolAccount struct {
	Authority   ed25519.PublicKey
	TokenMint   ed25519.PublicKey
	TotalStaked uint64
	Bump        uint8
}

func (obj *LiquidityPoolAccount) Marshal() []byte {
	data := make([]byte, LiquidityPoolAccountSize)

	var offset int

	putDiscriminator(data, liquidityPoolAccountDiscriminator, &offset)
	putKey(data, obj.Authority, &offset)
	putKey(data, obj.TokenMint, &offset)
	putUint64(data, obj.TotalStaked, &offset)
	putUint8(data, obj.Bump, &offset)

	return data
}

func (obj *LiquidityPoolAccount) Unmarshal(data []byte) error {
	if len(data) < LiquidityPoolAccountSize {
		return ErrInvalidAccountData
	}

	var offset int
	var discriminator []byte

	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, liquidityPoolAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	getKey(data, &obj.Authority, &offset)
	getKey(data, &obj.TokenMint, &offset)
	getUint64(data, &obj.TotalStaked, &offset)
	getUint8(data, &obj.Bump, &offset)

	return nil
}

func (obj *LiquidityPoolAccount) String() string {
	var authority, mint string

	if obj.Authority != nil {
		authority = base58.Encode(obj.Authority)
	}
	if obj.TokenMint != nil {
		mint = base58.Encode(obj.TokenMint)
	}

	return "LiquidityPoolAccount{" +
		"authority='" + authority + "'" +
		", token_mint='" + mint + "'" +
		", total_staked=" + strconv.FormatUint(obj.TotalStaked, 10) +
		", bump=" + strconv.Itoa(int(obj.Bump)) +
		"}"
}
