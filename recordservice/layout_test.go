package recordservice

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/solrecord/record-service/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassLayoutRoundTrip(t *testing.T) {
	authority := solana.MustPublicKeyFromBase58("11111111111111111111111111111112")
	layout := ClassLayout{
		Authority:      authority,
		IsPermissioned: true,
		IsFrozen:       false,
		Name:           "twitter",
		Metadata:       `{"fields":["handle"]}`,
	}
	data, err := EncodeClass(&layout)
	require.NoError(t, err)
	assert.Equal(t, ClassDiscriminator, data[0])
	assert.Equal(t, int(ClassSpace(layout.Name, layout.Metadata)), len(data))

	decoded, err := DecodeClass(data)
	require.NoError(t, err)
	assert.Equal(t, layout, decoded)
}

func TestRecordLayoutRoundTrip(t *testing.T) {
	layout := RecordLayout{
		Class:    solana.MustPublicKeyFromBase58("11111111111111111111111111111112"),
		Owner:    solana.MustPublicKeyFromBase58("SysvarC1ock11111111111111111111111111111111"),
		IsFrozen: true,
		Expiry:   1893456000,
		Name:     "alice",
		Data:     `{"handle":"@alice"}`,
	}
	data, err := EncodeRecord(&layout)
	require.NoError(t, err)
	assert.Equal(t, RecordDiscriminator, data[0])
	assert.Equal(t, int(RecordSpace(layout.Name, layout.Data)), len(data))

	decoded, err := DecodeRecord(data)
	require.NoError(t, err)
	assert.Equal(t, layout, decoded)
}

func TestRecordLayoutTruncated(t *testing.T) {
	layout := RecordLayout{
		Class: solana.MustPublicKeyFromBase58("11111111111111111111111111111112"),
		Owner: solana.MustPublicKeyFromBase58("SysvarC1ock11111111111111111111111111111111"),
		Name:  "alice",
	}
	data, err := EncodeRecord(&layout)
	require.NoError(t, err)

	_, err = DecodeRecord(data[:40])
	var truncated *codec.TruncatedInputError
	require.ErrorAs(t, err, &truncated)
	assert.Equal(t, "owner", truncated.Field)
}

func TestDelegateLayoutOption(t *testing.T) {
	record := solana.MustPublicKeyFromBase58("SysvarC1ock11111111111111111111111111111111")
	owner := solana.MustPublicKeyFromBase58("11111111111111111111111111111112")
	layout := RecordDelegateLayout{
		Record:            record,
		UpdateAuthority:   owner,
		FreezeAuthority:   owner,
		TransferAuthority: owner,
		BurnAuthority:     owner,
	}
	data, err := EncodeRecordDelegate(&layout)
	require.NoError(t, err)
	assert.Equal(t, RecordDelegateDiscriminator, data[0])
	assert.Equal(t, RecordDelegateSchema.MinSize(), len(data))
	assert.Equal(t, byte(0), data[len(data)-1])

	decoded, err := DecodeRecordDelegate(data)
	require.NoError(t, err)
	assert.Nil(t, decoded.AuthorityProgram)

	program := solana.MustPublicKeyFromBase58("SysvarRent111111111111111111111111111111111")
	layout.AuthorityProgram = &program
	data, err = EncodeRecordDelegate(&layout)
	require.NoError(t, err)
	assert.Equal(t, RecordDelegateSchema.MinSize()+solana.PublicKeyLength, len(data))

	decoded, err = DecodeRecordDelegate(data)
	require.NoError(t, err)
	require.NotNil(t, decoded.AuthorityProgram)
	assert.Equal(t, program, *decoded.AuthorityProgram)
}

func TestAccountMinSizes(t *testing.T) {
	// disc + authority + two flags + sized-string length byte
	assert.Equal(t, 1+32+1+1+1, ClassSchema.MinSize())
	// disc + class + owner + flag + expiry + sized-string length byte
	assert.Equal(t, 1+32+32+1+8+1, RecordSchema.MinSize())
	// disc + record + four authorities + option tag
	assert.Equal(t, 1+32+32*4+1, RecordDelegateSchema.MinSize())
}

func TestAccountDispatch(t *testing.T) {
	descriptor := Descriptor()
	layout := ClassLayout{
		Authority: solana.MustPublicKeyFromBase58("11111111111111111111111111111112"),
		Name:      "dns",
	}
	data, err := EncodeClass(&layout)
	require.NoError(t, err)

	schema, values, err := descriptor.Accounts.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, ClassSchema, schema)
	assert.Equal(t, "dns", values["name"])

	_, err = DecodeRecord(data)
	var mismatch *codec.DiscriminatorMismatchError
	require.ErrorAs(t, err, &mismatch)
}
