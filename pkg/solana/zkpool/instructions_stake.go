package zkpool

import (
	"bytes"
	"crypto/ed25519"
)

var stakeInstructionDiscriminator = []byte{
	206, 176, 202, 18, 200, 209, 179, 108,
}

// ConfidentialBalance is the 64 byte balance commitment kept in a user's
// stake account
type ConfidentialBalance [ConfidentialBalanceSize]byte

// StakeInstructionArgs is shared by the stake and withdraw instructions,
// which have identical argument layouts
type StakeInstructionArgs struct {
	Amount                 uint64
	ZkProof                []byte
	NewConfidentialBalance ConfidentialBalance
}

type StakeInstructionAccounts struct {
	Pool             ed25519.PublicKey
	User             ed25519.PublicKey
	UserStake        ed25519.PublicKey
	UserTokenAccount ed25519.PublicKey
	PoolTokenAccount ed25519.PublicKey
	TokenMint        ed25519.PublicKey
}

func getStakeInstructionArgsSize(proofLength int) int {
	return (8 + // amount
		4 + proofLength + // zk_proof
		ConfidentialBalanceSize) // new_confidential_balance
}

func NewStakeInstruction(
	accounts *StakeInstructionAccounts,
	args *StakeInstructionArgs,
) Instruction {
	return Instruction{
		Program: PROGRAM_ID,

		// Instruction args
		Data: marshalStakeInstructionArgs(stakeInstructionDiscriminator, args),

		// Instruction accounts
		Accounts: []AccountMeta{
			{
				PublicKey:  accounts.Pool,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.User,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.UserStake,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.UserTokenAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.PoolTokenAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.TokenMint,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SPL_TOKEN_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  CONFIDENTIAL_TOKEN_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSTEM_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSVAR_RENT_PUBKEY,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}

func StakeInstructionArgsFromBinary(data []byte) (*StakeInstructionArgs, error) {
	return unmarshalStakeInstructionArgs(stakeInstructionDiscriminator, data)
}

func marshalStakeInstructionArgs(discriminator []byte, args *StakeInstructionArgs) []byte {
	var offset int

	data := make([]byte, discriminatorSize+getStakeInstructionArgsSize(len(args.ZkProof)))

	putDiscriminator(data, discriminator, &offset)
	putUint64(data, args.Amount, &offset)
	putBytes(data, args.ZkProof, &offset)
	putConfidentialBalance(data, args.NewConfidentialBalance, &offset)

	return data
}

func unmarshalStakeInstructionArgs(expectedDiscriminator, data []byte) (*StakeInstructionArgs, error) {
	if len(data) < discriminatorSize+getStakeInstructionArgsSize(0) {
		return nil, ErrInvalidInstructionData
	}

	var offset int
	var discriminator []byte

	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, expectedDiscriminator) {
		return nil, ErrInvalidInstructionData
	}

	var args StakeInstructionArgs
	getUint64(data, &args.Amount, &offset)
	if !getBytes(data, &args.ZkProof, &offset) {
		return nil, ErrInvalidInstructionData
	}
	if len(data) < offset+ConfidentialBalanceSize {
		return nil, ErrInvalidInstructionData
	}
	getConfidentialBalance(data, &args.NewConfidentialBalance, &offset)

	return &args, nil
}
