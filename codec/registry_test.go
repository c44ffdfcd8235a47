package codec

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func accountRegistry(t *testing.T) *Registry {
	classSchema := MustSchema("class",
		Const("discriminator", U8(), uint8(1)),
		NewField("authority", PublicKey()),
		NewField("name", SizedString()),
	)
	recordSchema := MustSchema("record",
		Const("discriminator", U8(), uint8(2)),
		NewField("owner", PublicKey()),
		NewField("data", String()),
	)
	registry := NewRegistry("accounts")
	require.NoError(t, registry.Register(classSchema))
	require.NoError(t, registry.Register(recordSchema))
	return registry
}

func TestRegistryDispatch(t *testing.T) {
	registry := accountRegistry(t)
	owner := solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")

	recordSchema, _ := registry.Schema(2)
	data, err := recordSchema.Encode(map[string]interface{}{
		"owner": owner,
		"data":  "records.sol",
	})
	require.NoError(t, err)

	// a record buffer decoded against the class schema is a mismatch,
	// while dispatch resolves it to the record schema
	classSchema, _ := registry.Schema(1)
	_, err = classSchema.Decode(data)
	var mismatch *DiscriminatorMismatchError
	require.ErrorAs(t, err, &mismatch)

	schema, values, err := registry.Decode(data)
	require.NoError(t, err)
	require.Equal(t, "record", schema.Name())
	require.Equal(t, owner, values["owner"])
	require.Equal(t, "records.sol", values["data"])
}

func TestRegistryUnknownDiscriminator(t *testing.T) {
	registry := accountRegistry(t)
	_, err := registry.Resolve([]byte{0x09})
	var unknown *UnknownDiscriminatorError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, byte(0x09), unknown.Discriminator)

	_, err = registry.Resolve(nil)
	var truncated *TruncatedInputError
	require.ErrorAs(t, err, &truncated)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := accountRegistry(t)
	err := registry.Register(MustSchema("classAgain",
		Const("discriminator", U8(), uint8(1)),
		NewField("authority", PublicKey()),
	))
	require.Error(t, err)

	// schemas without a leading fixed u8 cannot be dispatched
	err = registry.Register(MustSchema("bare", NewField("frozen", Bool())))
	require.Error(t, err)
}
