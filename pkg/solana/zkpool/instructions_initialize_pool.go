package zkpool

import (
	"bytes"
	"crypto/ed25519"
)

var initializePoolInstructionDiscriminator = []byte{
	95, 180, 10, 172, 84, 174, 232, 40,
}

const (
	InitializePoolInstructionArgsSize = 1 // bump

	InitializePoolInstructionSize = (discriminatorSize + // discriminator
		InitializePoolInstructionArgsSize) // args
)

type InitializePoolInstructionArgs struct {
	Bump uint8
}

type InitializePoolInstructionAccounts struct {
	Pool      ed25519.PublicKey
	TokenMint ed25519.PublicKey
	Authority ed25519.PublicKey
}

func NewInitializePoolInstruction(
	accounts *InitializePoolInstructionAccounts,
	args *InitializePoolInstructionArgs,
) Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte, InitializePoolInstructionSize)

	putDiscriminator(data, initializePoolInstructionDiscriminator, &offset)
	putUint8(data, args.Bump, &offset)

	return Instruction{
		Program: PROGRAM_ID,

		// Instruction args
		Data: data,

		// Instruction accounts
		Accounts: []AccountMeta{
			{
				PublicKey:  accounts.Pool,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.TokenMint,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Authority,
				IsWritable: true,
				IsSigner:   true,
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

func InitializePoolInstructionFromInstruction(ix Instruction) (*InitializePoolInstructionArgs, *InitializePoolInstructionAccounts, error) {
	if !bytes.Equal(ix.Program, PROGRAM_ID) {
		return nil, nil, ErrInvalidProgram
	}

	if len(ix.Data) < InitializePoolInstructionSize || len(ix.Accounts) < 3 {
		return nil, nil, ErrInvalidInstructionData
	}

	var offset int
	var discriminator []byte

	getDiscriminator(ix.Data, &discriminator, &offset)
	if !bytes.Equal(discriminator, initializePoolInstructionDiscriminator) {
		return nil, nil, ErrInvalidInstructionData
	}

	var args InitializePoolInstructionArgs
	getUint8(ix.Data, &args.Bump, &offset)

	accounts := InitializePoolInstructionAccounts{
		Pool:      ix.Accounts[0].PublicKey,
		TokenMint: ix.Accounts[1].PublicKey,
		Authority: ix.Accounts[2].PublicKey,
	}

	return &args, &accounts, nil
}
