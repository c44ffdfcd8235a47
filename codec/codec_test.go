package codec

import (
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

// earliest createClass variant: discriminator 1, no isFrozen argument
func legacyCreateClassSchema(t *testing.T) *Schema {
	schema, err := NewSchema("createClassLegacy",
		Const("discriminator", U8(), uint8(1)),
		NewField("isPermissioned", Bool()),
		NewField("name", SizedString()),
		NewField("metadata", String()),
	)
	require.NoError(t, err)
	return schema
}

func TestLegacyCreateClassGoldenBytes(t *testing.T) {
	schema := legacyCreateClassSchema(t)
	data, err := schema.Encode(map[string]interface{}{
		"isPermissioned": false,
		"name":           "twitter",
		"metadata":       "test",
	})
	require.NoError(t, err)
	require.Equal(t, []byte{
		0x01, 0x00, 0x07,
		0x74, 0x77, 0x69, 0x74, 0x74, 0x65, 0x72, // twitter
		0x74, 0x65, 0x73, 0x74, // test
	}, data)

	values, err := schema.Decode(data)
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{
		"discriminator":  uint8(1),
		"isPermissioned": false,
		"name":           "twitter",
		"metadata":       "test",
	}, values)
}

func allTypesSchema(t *testing.T) *Schema {
	schema, err := NewSchema("allTypes",
		Const("discriminator", U8(), uint8(7)),
		NewField("count", U8()),
		NewField("expiry", I64()),
		NewField("frozen", Bool()),
		NewField("owner", PublicKey()),
		NewField("delegate", Option(PublicKey())),
		NewField("name", SizedString()),
		NewField("data", String()),
	)
	require.NoError(t, err)
	return schema
}

func TestRoundTrip(t *testing.T) {
	schema := allTypesSchema(t)
	owner := solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	delegate := solana.MustPublicKeyFromBase58("SysvarRent111111111111111111111111111111111")

	for _, values := range []map[string]interface{}{
		{
			"count":    uint8(3),
			"expiry":   int64(-1234567890),
			"frozen":   true,
			"owner":    owner,
			"delegate": delegate,
			"name":     "alice",
			"data":     "hello world",
		},
		{
			"count":    uint8(0),
			"expiry":   int64(0),
			"frozen":   false,
			"owner":    owner,
			"delegate": nil,
			"name":     "",
			"data":     "",
		},
	} {
		data, err := schema.Encode(values)
		require.NoError(t, err)
		decoded, err := schema.Decode(data)
		require.NoError(t, err)
		// fixed fields are materialized into the result
		expected := map[string]interface{}{"discriminator": uint8(7)}
		for k, v := range values {
			expected[k] = v
		}
		require.Equal(t, expected, decoded)
	}
}

func TestCanonicalEncoding(t *testing.T) {
	schema := allTypesSchema(t)
	owner := solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	data, err := schema.Encode(map[string]interface{}{
		"count":    uint8(9),
		"expiry":   int64(42),
		"frozen":   false,
		"owner":    owner,
		"delegate": nil,
		"name":     "bob",
		"data":     "payload",
	})
	require.NoError(t, err)
	decoded, err := schema.Decode(data)
	require.NoError(t, err)
	again, err := schema.Encode(decoded)
	require.NoError(t, err)
	require.Equal(t, data, again)
}

func TestSizedStringBoundary(t *testing.T) {
	schema := MustSchema("sized", NewField("name", SizedString()))

	data, err := schema.Encode(map[string]interface{}{"name": strings.Repeat("a", 255)})
	require.NoError(t, err)
	require.Equal(t, byte(0xFF), data[0])
	require.Len(t, data, 256)

	_, err = schema.Encode(map[string]interface{}{"name": strings.Repeat("a", 256)})
	var limitErr *EncodingLimitError
	require.ErrorAs(t, err, &limitErr)
	require.Equal(t, 256, limitErr.Length)
}

func TestDiscriminatorMismatch(t *testing.T) {
	schema := legacyCreateClassSchema(t)
	_, err := schema.Decode([]byte{0x02, 0x00, 0x00})
	var mismatch *DiscriminatorMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, uint8(1), mismatch.Want)
	require.Equal(t, uint8(2), mismatch.Got)
}

func TestTruncatedInput(t *testing.T) {
	schema := MustSchema("keyed",
		Const("discriminator", U8(), uint8(2)),
		NewField("owner", PublicKey()),
	)
	_, err := schema.Decode(append([]byte{0x02}, make([]byte, 16)...))
	var truncated *TruncatedInputError
	require.ErrorAs(t, err, &truncated)
	require.Equal(t, "owner", truncated.Field)
	require.Equal(t, 32, truncated.Need)
	require.Equal(t, 16, truncated.Have)
}

func TestOptionEncoding(t *testing.T) {
	schema := MustSchema("opt", NewField("authority", Option(PublicKey())))
	key := solana.MustPublicKeyFromBase58("SysvarC1ock11111111111111111111111111111111")

	absent, err := schema.Encode(map[string]interface{}{"authority": nil})
	require.NoError(t, err)
	require.Equal(t, []byte{0x00}, absent)
	values, err := schema.Decode(absent)
	require.NoError(t, err)
	require.Nil(t, values["authority"])

	present, err := schema.Encode(map[string]interface{}{"authority": key})
	require.NoError(t, err)
	require.Len(t, present, 33)
	require.Equal(t, byte(0x01), present[0])
	require.Equal(t, key.Bytes(), present[1:])
	values, err = schema.Decode(present)
	require.NoError(t, err)
	require.Equal(t, key, values["authority"])
}

func TestInvalidOptionTag(t *testing.T) {
	schema := MustSchema("opt", NewField("authority", Option(PublicKey())))
	_, err := schema.Decode([]byte{0x02})
	var tagErr *InvalidOptionTagError
	require.ErrorAs(t, err, &tagErr)
	require.Equal(t, byte(0x02), tagErr.Tag)
}

func TestTrailingData(t *testing.T) {
	schema := MustSchema("flag", NewField("frozen", Bool()))
	_, err := schema.Decode([]byte{0x01, 0xAA})
	var trailing *TrailingDataError
	require.ErrorAs(t, err, &trailing)
	require.Equal(t, 1, trailing.Extra)
}

func TestMissingField(t *testing.T) {
	schema := MustSchema("flag", NewField("frozen", Bool()))
	_, err := schema.Encode(map[string]interface{}{})
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "frozen", missing.Field)
}

func TestTypeMismatch(t *testing.T) {
	schema := MustSchema("flag", NewField("frozen", Bool()))
	_, err := schema.Encode(map[string]interface{}{"frozen": "yes"})
	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestInvalidBoolByte(t *testing.T) {
	schema := MustSchema("flag", NewField("frozen", Bool()))
	_, err := schema.Decode([]byte{0x02})
	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestInvalidUtf8(t *testing.T) {
	schema := MustSchema("named", NewField("name", SizedString()))
	_, err := schema.Decode([]byte{0x02, 0xFF, 0xFE})
	var utf8Err *InvalidUtf8Error
	require.ErrorAs(t, err, &utf8Err)
}

func TestSchemaConstruction(t *testing.T) {
	_, err := NewSchema("empty")
	require.Error(t, err)

	_, err = NewSchema("dup", NewField("a", U8()), NewField("a", Bool()))
	require.Error(t, err)

	// remainder string must be the final field
	_, err = NewSchema("midString", NewField("data", String()), NewField("frozen", Bool()))
	require.Error(t, err)

	// and must not hide inside an option
	_, err = NewSchema("optString", NewField("data", Option(String())))
	require.Error(t, err)

	// constant shape must match the field type
	_, err = NewSchema("badConst", Const("discriminator", U8(), "one"))
	require.Error(t, err)

	schema, err := NewSchema("ok",
		Const("discriminator", U8(), uint8(2)),
		NewField("owner", PublicKey()),
		NewField("expiry", I64()),
		NewField("name", SizedString()),
		NewField("data", String()),
	)
	require.NoError(t, err)
	require.Equal(t, 1+32+8+1, schema.MinSize())
	disc, ok := schema.Discriminator()
	require.True(t, ok)
	require.Equal(t, uint8(2), disc)
}
