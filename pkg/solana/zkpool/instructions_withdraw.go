package zkpool

import (
	"crypto/ed25519"
)

var withdrawInstructionDiscriminator = []byte{
	183, 18, 70, 156, 148, 109, 161, 34,
}

type WithdrawInstructionAccounts struct {
	Pool             ed25519.PublicKey
	UserStake        ed25519.PublicKey
	User             ed25519.PublicKey
	PoolTokenAccount ed25519.PublicKey
	UserTokenAccount ed25519.PublicKey
	TokenMint        ed25519.PublicKey
}

func NewWithdrawInstruction(
	accounts *WithdrawInstructionAccounts,
	args *StakeInstructionArgs,
) Instruction {
	return Instruction{
		Program: PROGRAM_ID,

		// Instruction args
		Data: marshalStakeInstructionArgs(withdrawInstructionDiscriminator, args),

		// Instruction accounts
		Accounts: []AccountMeta{
			{
				PublicKey:  accounts.Pool,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.UserStake,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.User,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.PoolTokenAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.UserTokenAccount,
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
		},
	}
}

func WithdrawInstructionArgsFromBinary(data []byte) (*StakeInstructionArgs, error) {
	return unmarshalStakeInstructionArgs(withdrawInstructionDiscriminator, data)
}
