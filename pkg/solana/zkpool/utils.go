package zkpool

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/mr-tron/base58"
)

const (
	discriminatorSize       = 8
	ConfidentialBalanceSize = 64
)

func putDiscriminator(dst []byte, v []byte, offset *int) {
	copy(dst[*offset:], v)
	*offset += discriminatorSize
}
func getDiscriminator(src []byte, dst *[]byte, offset *int) {
	*dst = make([]byte, discriminatorSize)
	copy(*dst, src[*offset:])
	*offset += discriminatorSize
}

func putKey(dst []byte, v ed25519.PublicKey, offset *int) {
	copy(dst[*offset:], v)
	*offset += ed25519.PublicKeySize
}
func getKey(src []byte, dst *ed25519.PublicKey, offset *int) {
	*dst = make([]byte, ed25519.PublicKeySize)
	copy(*dst, src[*offset:])
	*offset += ed25519.PublicKeySize
}

func putUint8(dst []byte, v uint8, offset *int) {
	dst[*offset] = v
	*offset += 1
}
func getUint8(src []byte, dst *uint8, offset *int) {
	*dst = src[*offset]
	*offset += 1
}

func putUint32(dst []byte, v uint32, offset *int) {
	binary.LittleEndian.PutUint32(dst[*offset:], v)
	*offset += 4
}
func getUint32(src []byte, dst *uint32, offset *int) {
	*dst = binary.LittleEndian.Uint32(src[*offset:])
	*offset += 4
}

func putUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst[*offset:], v)
	*offset += 8
}
func getUint64(src []byte, dst *uint64, offset *int) {
	*dst = binary.LittleEndian.Uint64(src[*offset:])
	*offset += 8
}

// Borsh Vec<u8>: u32 little endian length prefix followed by the bytes
func putBytes(dst []byte, v []byte, offset *int) {
	putUint32(dst, uint32(len(v)), offset)
	copy(dst[*offset:], v)
	*offset += len(v)
}
func getBytes(src []byte, dst *[]byte, offset *int) bool {
	if len(src) < *offset+4 {
		return false
	}

	var length uint32
	getUint32(src, &length, offset)
	if uint64(len(src)) < uint64(*offset)+uint64(length) {
		return false
	}

	*dst = make([]byte, length)
	copy(*dst, src[*offset:])
	*offset += int(length)
	return true
}

func putConfidentialBalance(dst []byte, v ConfidentialBalance, offset *int) {
	copy(dst[*offset:], v[:])
	*offset += ConfidentialBalanceSize
}
func getConfidentialBalance(src []byte, dst *ConfidentialBalance, offset *int) {
	copy(dst[:], src[*offset:])
	*offset += ConfidentialBalanceSize
}

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}
