package recordservice

import (
	"github.com/gagliardetto/solana-go"
	"github.com/solrecord/record-service/codec"
	"github.com/solrecord/record-service/program"
)

// Instruction discriminators, assigned densely from 0. The delegate
// management set extends the baseline program after freezeRecord.
const (
	InstructionCreateClass uint8 = iota
	InstructionUpdateClassMetadata
	InstructionFreezeClass
	InstructionCreateRecord
	InstructionUpdateRecord
	InstructionTransferRecord
	InstructionDeleteRecord
	InstructionFreezeRecord
	InstructionCreateRecordDelegate
	InstructionUpdateRecordDelegate
	InstructionDeleteRecordDelegate
)

var (
	CreateClassSchema = codec.MustSchema("createClass",
		codec.Const("discriminator", codec.U8(), InstructionCreateClass),
		codec.NewField("isPermissioned", codec.Bool()),
		codec.NewField("isFrozen", codec.Bool()),
		codec.NewField("name", codec.SizedString()),
		codec.NewField("metadata", codec.String()),
	)

	UpdateClassMetadataSchema = codec.MustSchema("updateClassMetadata",
		codec.Const("discriminator", codec.U8(), InstructionUpdateClassMetadata),
		codec.NewField("metadata", codec.String()),
	)

	FreezeClassSchema = codec.MustSchema("freezeClass",
		codec.Const("discriminator", codec.U8(), InstructionFreezeClass),
		codec.NewField("isFrozen", codec.Bool()),
	)

	CreateRecordSchema = codec.MustSchema("createRecord",
		codec.Const("discriminator", codec.U8(), InstructionCreateRecord),
		codec.NewField("expiration", codec.I64()),
		codec.NewField("name", codec.SizedString()),
		codec.NewField("data", codec.String()),
	)

	UpdateRecordSchema = codec.MustSchema("updateRecord",
		codec.Const("discriminator", codec.U8(), InstructionUpdateRecord),
		codec.NewField("data", codec.String()),
	)

	TransferRecordSchema = codec.MustSchema("transferRecord",
		codec.Const("discriminator", codec.U8(), InstructionTransferRecord),
		codec.NewField("newOwner", codec.PublicKey()),
	)

	DeleteRecordSchema = codec.MustSchema("deleteRecord",
		codec.Const("discriminator", codec.U8(), InstructionDeleteRecord),
	)

	FreezeRecordSchema = codec.MustSchema("freezeRecord",
		codec.Const("discriminator", codec.U8(), InstructionFreezeRecord),
		codec.NewField("isFrozen", codec.Bool()),
	)

	CreateRecordDelegateSchema = codec.MustSchema("createRecordDelegate",
		codec.Const("discriminator", codec.U8(), InstructionCreateRecordDelegate),
		codec.NewField("updateAuthority", codec.PublicKey()),
		codec.NewField("freezeAuthority", codec.PublicKey()),
		codec.NewField("transferAuthority", codec.PublicKey()),
		codec.NewField("burnAuthority", codec.PublicKey()),
		codec.NewField("authorityProgram", codec.Option(codec.PublicKey())),
	)

	UpdateRecordDelegateSchema = codec.MustSchema("updateRecordDelegate",
		codec.Const("discriminator", codec.U8(), InstructionUpdateRecordDelegate),
		codec.NewField("updateAuthority", codec.PublicKey()),
		codec.NewField("freezeAuthority", codec.PublicKey()),
		codec.NewField("transferAuthority", codec.PublicKey()),
		codec.NewField("burnAuthority", codec.PublicKey()),
		codec.NewField("authorityProgram", codec.Option(codec.PublicKey())),
	)

	DeleteRecordDelegateSchema = codec.MustSchema("deleteRecordDelegate",
		codec.Const("discriminator", codec.U8(), InstructionDeleteRecordDelegate),
	)
)

// Descriptor builds the program descriptor: every account and instruction
// schema keyed by discriminator, for first-byte dispatch.
func Descriptor() *codec.Program {
	descriptor := codec.NewProgram("record service", program.RecordService)
	descriptor.Accounts.MustRegister(
		ClassSchema,
		RecordSchema,
		RecordDelegateSchema,
	)
	descriptor.Instructions.MustRegister(
		CreateClassSchema,
		UpdateClassMetadataSchema,
		FreezeClassSchema,
		CreateRecordSchema,
		UpdateRecordSchema,
		TransferRecordSchema,
		DeleteRecordSchema,
		FreezeRecordSchema,
		CreateRecordDelegateSchema,
		UpdateRecordDelegateSchema,
		DeleteRecordDelegateSchema,
	)
	return descriptor
}

// DelegateAuthorities are the four per-record authorities plus an optional
// program allowed to act through them.
type DelegateAuthorities struct {
	UpdateAuthority   solana.PublicKey
	FreezeAuthority   solana.PublicKey
	TransferAuthority solana.PublicKey
	BurnAuthority     solana.PublicKey
	AuthorityProgram  *solana.PublicKey
}

func (a *DelegateAuthorities) values() map[string]interface{} {
	var authorityProgram interface{}
	if a.AuthorityProgram != nil {
		authorityProgram = *a.AuthorityProgram
	}
	return map[string]interface{}{
		"updateAuthority":   a.UpdateAuthority,
		"freezeAuthority":   a.FreezeAuthority,
		"transferAuthority": a.TransferAuthority,
		"burnAuthority":     a.BurnAuthority,
		"authorityProgram":  authorityProgram,
	}
}
