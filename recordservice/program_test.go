package recordservice

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/solrecord/record-service/codec"
	"github.com/solrecord/record-service/program"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProgram() *Program {
	return NewProgram(context.Background(), nil, nil)
}

func TestInstructionCreateClassData(t *testing.T) {
	p := testProgram()
	authority := solana.MustPublicKeyFromBase58("11111111111111111111111111111112")
	in, err := p.InstructionCreateClass(authority, true, false, "core", "")
	require.NoError(t, err)

	data, err := in.Data()
	require.NoError(t, err)
	// empty remainder metadata contributes no bytes
	expected := []byte{
		InstructionCreateClass,
		0x01, // isPermissioned
		0x00, // isFrozen
		0x04, 'c', 'o', 'r', 'e',
	}
	assert.Equal(t, expected, data)

	accounts := in.Accounts()
	require.Len(t, accounts, 3)
	assert.Equal(t, authority, accounts[0].PublicKey)
	assert.True(t, accounts[0].IsSigner)
	class, _, err := ClassAddress(authority, "core")
	require.NoError(t, err)
	assert.Equal(t, class, accounts[1].PublicKey)
	assert.Equal(t, p.Id(), in.ProgramID())
}

func TestInstructionTransferRecordData(t *testing.T) {
	p := testProgram()
	owner := solana.MustPublicKeyFromBase58("11111111111111111111111111111112")
	record := solana.MustPublicKeyFromBase58("SysvarC1ock11111111111111111111111111111111")
	newOwner := solana.MustPublicKeyFromBase58("SysvarRent111111111111111111111111111111111")
	in, err := p.InstructionTransferRecord(owner, record, newOwner, nil)
	require.NoError(t, err)

	data, err := in.Data()
	require.NoError(t, err)
	require.Len(t, data, 1+solana.PublicKeyLength)
	assert.Equal(t, InstructionTransferRecord, data[0])
	assert.Equal(t, newOwner.Bytes(), data[1:])
	require.Len(t, in.Accounts(), 2)
}

func TestInstructionDeleteRecordData(t *testing.T) {
	p := testProgram()
	owner := solana.MustPublicKeyFromBase58("11111111111111111111111111111112")
	payer := solana.MustPublicKeyFromBase58("SysvarRent111111111111111111111111111111111")
	record := solana.MustPublicKeyFromBase58("SysvarC1ock11111111111111111111111111111111")
	in, err := p.InstructionDeleteRecord(owner, payer, record)
	require.NoError(t, err)

	data, err := in.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{InstructionDeleteRecord}, data)

	accounts := in.Accounts()
	require.Len(t, accounts, 3)
	assert.Equal(t, owner, accounts[0].PublicKey)
	assert.True(t, accounts[0].IsSigner)
	assert.Equal(t, payer, accounts[1].PublicKey)
	assert.True(t, accounts[1].IsWritable)
	assert.Equal(t, record, accounts[2].PublicKey)
}

func TestInstructionCreateRecordAccounts(t *testing.T) {
	p := testProgram()
	owner := solana.MustPublicKeyFromBase58("11111111111111111111111111111112")
	payer := solana.MustPublicKeyFromBase58("SysvarRent111111111111111111111111111111111")
	class := solana.MustPublicKeyFromBase58("SysvarC1ock11111111111111111111111111111111")
	in, err := p.InstructionCreateRecord(owner, payer, class, 0, "alice", "")
	require.NoError(t, err)

	record, _, err := RecordAddress(class, "alice")
	require.NoError(t, err)
	accounts := in.Accounts()
	require.Len(t, accounts, 5)
	assert.Equal(t, owner, accounts[0].PublicKey)
	assert.Equal(t, payer, accounts[1].PublicKey)
	assert.True(t, accounts[1].IsSigner)
	assert.True(t, accounts[1].IsWritable)
	assert.Equal(t, class, accounts[2].PublicKey)
	assert.Equal(t, record, accounts[3].PublicKey)
	assert.True(t, accounts[3].IsWritable)
	assert.Equal(t, program.System, accounts[4].PublicKey)
}

func TestInstructionUpdateRecordAccounts(t *testing.T) {
	p := testProgram()
	authority := solana.MustPublicKeyFromBase58("11111111111111111111111111111112")
	record := solana.MustPublicKeyFromBase58("SysvarC1ock11111111111111111111111111111111")

	in, err := p.InstructionUpdateRecord(authority, record, nil, "payload")
	require.NoError(t, err)
	accounts := in.Accounts()
	require.Len(t, accounts, 3)
	assert.Equal(t, authority, accounts[0].PublicKey)
	assert.Equal(t, record, accounts[1].PublicKey)
	assert.Equal(t, program.System, accounts[2].PublicKey)

	// the delegate comes after the system program
	delegate, _, err := DelegateAddress(record)
	require.NoError(t, err)
	in, err = p.InstructionUpdateRecord(authority, record, &delegate, "payload")
	require.NoError(t, err)
	accounts = in.Accounts()
	require.Len(t, accounts, 4)
	assert.Equal(t, program.System, accounts[2].PublicKey)
	assert.Equal(t, delegate, accounts[3].PublicKey)
}

func TestInstructionDelegateAccounts(t *testing.T) {
	p := testProgram()
	owner := solana.MustPublicKeyFromBase58("11111111111111111111111111111112")
	record := solana.MustPublicKeyFromBase58("SysvarC1ock11111111111111111111111111111111")
	in, err := p.InstructionCreateRecordDelegate(owner, record, &DelegateAuthorities{
		UpdateAuthority:   owner,
		FreezeAuthority:   owner,
		TransferAuthority: owner,
		BurnAuthority:     owner,
	})
	require.NoError(t, err)

	delegate, _, err := DelegateAddress(record)
	require.NoError(t, err)
	accounts := in.Accounts()
	require.Len(t, accounts, 4)
	assert.Equal(t, delegate, accounts[2].PublicKey)

	data, err := in.Data()
	require.NoError(t, err)
	// disc + four authorities + absent option tag
	assert.Equal(t, 1+32*4+1, len(data))
	assert.Equal(t, byte(0), data[len(data)-1])
}

func TestDecodeInstruction(t *testing.T) {
	p := testProgram()
	owner := solana.MustPublicKeyFromBase58("11111111111111111111111111111112")
	class := solana.MustPublicKeyFromBase58("SysvarC1ock11111111111111111111111111111111")
	in, err := p.InstructionCreateRecord(owner, owner, class, 1893456000, "alice", `{"handle":"@alice"}`)
	require.NoError(t, err)

	data, err := in.Data()
	require.NoError(t, err)
	schema, values, err := p.DecodeInstruction(data)
	require.NoError(t, err)
	assert.Equal(t, CreateRecordSchema, schema)
	assert.Equal(t, int64(1893456000), values["expiration"])
	assert.Equal(t, "alice", values["name"])

	_, _, err = p.DecodeInstruction([]byte{0xff})
	var unknown *codec.UnknownDiscriminatorError
	require.ErrorAs(t, err, &unknown)
}

func TestAddressDerivation(t *testing.T) {
	authority := solana.MustPublicKeyFromBase58("11111111111111111111111111111112")

	class1, bump1, err := ClassAddress(authority, "dns")
	require.NoError(t, err)
	class2, bump2, err := ClassAddress(authority, "dns")
	require.NoError(t, err)
	assert.Equal(t, class1, class2)
	assert.Equal(t, bump1, bump2)

	other, _, err := ClassAddress(authority, "ens")
	require.NoError(t, err)
	assert.NotEqual(t, class1, other)

	record1, _, err := RecordAddress(class1, "alice")
	require.NoError(t, err)
	record2, _, err := RecordAddress(other, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, record1, record2)

	delegate, _, err := DelegateAddress(record1)
	require.NoError(t, err)
	assert.NotEqual(t, record1, delegate)
}
