package recordservice

import (
	"github.com/gagliardetto/solana-go"
	"github.com/solrecord/record-service/codec"
)

// Account discriminators. Account numbering starts at 1; instruction
// numbering starts at 0 (see instruction.go).
const (
	ClassDiscriminator          = uint8(1)
	RecordDiscriminator         = uint8(2)
	RecordDelegateDiscriminator = uint8(3)
)

var (
	ClassSchema = codec.MustSchema("class",
		codec.Const("discriminator", codec.U8(), ClassDiscriminator),
		codec.NewField("authority", codec.PublicKey()),
		codec.NewField("isPermissioned", codec.Bool()),
		codec.NewField("isFrozen", codec.Bool()),
		codec.NewField("name", codec.SizedString()),
		codec.NewField("metadata", codec.String()),
	)

	RecordSchema = codec.MustSchema("record",
		codec.Const("discriminator", codec.U8(), RecordDiscriminator),
		codec.NewField("class", codec.PublicKey()),
		codec.NewField("owner", codec.PublicKey()),
		codec.NewField("isFrozen", codec.Bool()),
		codec.NewField("expiry", codec.I64()),
		codec.NewField("name", codec.SizedString()),
		codec.NewField("data", codec.String()),
	)

	RecordDelegateSchema = codec.MustSchema("recordDelegate",
		codec.Const("discriminator", codec.U8(), RecordDelegateDiscriminator),
		codec.NewField("record", codec.PublicKey()),
		codec.NewField("updateAuthority", codec.PublicKey()),
		codec.NewField("freezeAuthority", codec.PublicKey()),
		codec.NewField("transferAuthority", codec.PublicKey()),
		codec.NewField("burnAuthority", codec.PublicKey()),
		codec.NewField("authorityProgram", codec.Option(codec.PublicKey())),
	)
)

type ClassLayout struct {
	Authority      solana.PublicKey
	IsPermissioned bool
	IsFrozen       bool
	Name           string
	Metadata       string
}

func (l *ClassLayout) values() map[string]interface{} {
	return map[string]interface{}{
		"authority":      l.Authority,
		"isPermissioned": l.IsPermissioned,
		"isFrozen":       l.IsFrozen,
		"name":           l.Name,
		"metadata":       l.Metadata,
	}
}

func classFromValues(values map[string]interface{}) ClassLayout {
	return ClassLayout{
		Authority:      values["authority"].(solana.PublicKey),
		IsPermissioned: values["isPermissioned"].(bool),
		IsFrozen:       values["isFrozen"].(bool),
		Name:           values["name"].(string),
		Metadata:       values["metadata"].(string),
	}
}

type RecordLayout struct {
	Class    solana.PublicKey
	Owner    solana.PublicKey
	IsFrozen bool
	Expiry   int64
	Name     string
	Data     string
}

func (l *RecordLayout) values() map[string]interface{} {
	return map[string]interface{}{
		"class":    l.Class,
		"owner":    l.Owner,
		"isFrozen": l.IsFrozen,
		"expiry":   l.Expiry,
		"name":     l.Name,
		"data":     l.Data,
	}
}

func recordFromValues(values map[string]interface{}) RecordLayout {
	return RecordLayout{
		Class:    values["class"].(solana.PublicKey),
		Owner:    values["owner"].(solana.PublicKey),
		IsFrozen: values["isFrozen"].(bool),
		Expiry:   values["expiry"].(int64),
		Name:     values["name"].(string),
		Data:     values["data"].(string),
	}
}

type RecordDelegateLayout struct {
	Record            solana.PublicKey
	UpdateAuthority   solana.PublicKey
	FreezeAuthority   solana.PublicKey
	TransferAuthority solana.PublicKey
	BurnAuthority     solana.PublicKey
	AuthorityProgram  *solana.PublicKey
}

func (l *RecordDelegateLayout) values() map[string]interface{} {
	var authorityProgram interface{}
	if l.AuthorityProgram != nil {
		authorityProgram = *l.AuthorityProgram
	}
	return map[string]interface{}{
		"record":            l.Record,
		"updateAuthority":   l.UpdateAuthority,
		"freezeAuthority":   l.FreezeAuthority,
		"transferAuthority": l.TransferAuthority,
		"burnAuthority":     l.BurnAuthority,
		"authorityProgram":  authorityProgram,
	}
}

func delegateFromValues(values map[string]interface{}) RecordDelegateLayout {
	layout := RecordDelegateLayout{
		Record:            values["record"].(solana.PublicKey),
		UpdateAuthority:   values["updateAuthority"].(solana.PublicKey),
		FreezeAuthority:   values["freezeAuthority"].(solana.PublicKey),
		TransferAuthority: values["transferAuthority"].(solana.PublicKey),
		BurnAuthority:     values["burnAuthority"].(solana.PublicKey),
	}
	if program, ok := values["authorityProgram"].(solana.PublicKey); ok {
		layout.AuthorityProgram = &program
	}
	return layout
}

// EncodeClass produces the account's persisted byte layout.
func EncodeClass(layout *ClassLayout) ([]byte, error) {
	return ClassSchema.Encode(layout.values())
}

func DecodeClass(data []byte) (ClassLayout, error) {
	values, err := ClassSchema.Decode(data)
	if err != nil {
		return ClassLayout{}, err
	}
	return classFromValues(values), nil
}

func EncodeRecord(layout *RecordLayout) ([]byte, error) {
	return RecordSchema.Encode(layout.values())
}

func DecodeRecord(data []byte) (RecordLayout, error) {
	values, err := RecordSchema.Decode(data)
	if err != nil {
		return RecordLayout{}, err
	}
	return recordFromValues(values), nil
}

func EncodeRecordDelegate(layout *RecordDelegateLayout) ([]byte, error) {
	return RecordDelegateSchema.Encode(layout.values())
}

func DecodeRecordDelegate(data []byte) (RecordDelegateLayout, error) {
	values, err := RecordDelegateSchema.Decode(data)
	if err != nil {
		return RecordDelegateLayout{}, err
	}
	return delegateFromValues(values), nil
}

type KeyedClass struct {
	Key      solana.PublicKey
	Height   uint64
	Lamports uint64
	ClassLayout
}

type KeyedRecord struct {
	Key      solana.PublicKey
	Height   uint64
	Lamports uint64
	RecordLayout
}

type KeyedDelegate struct {
	Key      solana.PublicKey
	Height   uint64
	Lamports uint64
	RecordDelegateLayout
}
