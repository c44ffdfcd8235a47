package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/badgerodon/collections/stack"
	"github.com/gagliardetto/solana-go"
)

// MaxSizedStringLen is the capacity of the 1-byte length prefix.
const MaxSizedStringLen = 255

type Kind uint8

const (
	KindU8 Kind = iota
	KindI64
	KindBool
	KindPublicKey
	KindString      // unprefixed utf-8, all remaining bytes, final field only
	KindSizedString // 1 length byte then that many utf-8 bytes
	KindOption      // 1 presence byte then the inner encoding
)

func (k Kind) String() string {
	switch k {
	case KindU8:
		return "u8"
	case KindI64:
		return "i64"
	case KindBool:
		return "bool"
	case KindPublicKey:
		return "publicKey"
	case KindString:
		return "string"
	case KindSizedString:
		return "sizedString"
	case KindOption:
		return "option"
	}
	return "unknown"
}

// Type describes the wire shape of one field. Elem is set for options only.
type Type struct {
	Kind Kind
	Elem *Type
}

func U8() Type          { return Type{Kind: KindU8} }
func I64() Type         { return Type{Kind: KindI64} }
func Bool() Type        { return Type{Kind: KindBool} }
func PublicKey() Type   { return Type{Kind: KindPublicKey} }
func String() Type      { return Type{Kind: KindString} }
func SizedString() Type { return Type{Kind: KindSizedString} }

func Option(inner Type) Type {
	elem := inner
	return Type{Kind: KindOption, Elem: &elem}
}

type Field struct {
	Name  string
	Type  Type
	Fixed interface{}
}

func NewField(name string, t Type) Field {
	return Field{Name: name, Type: t}
}

// Const declares a field always encoded as the given constant, used for
// discriminators. The caller-supplied value map is ignored for it.
func Const(name string, t Type, fixed interface{}) Field {
	return Field{Name: name, Type: t, Fixed: fixed}
}

// Schema is an ordered, immutable field list. Schemas are built once at
// process start and never mutated afterwards.
type Schema struct {
	name    string
	fields  []Field
	minSize int
}

func NewSchema(name string, fields ...Field) (*Schema, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("schema %s: no fields", name)
	}
	names := make(map[string]bool)
	minSize := 0
	for i := range fields {
		field := &fields[i]
		if field.Name == "" {
			return nil, fmt.Errorf("schema %s: field %d has no name", name, i)
		}
		if names[field.Name] {
			return nil, fmt.Errorf("schema %s: duplicate field %s", name, field.Name)
		}
		names[field.Name] = true
		if err := validateType(name, field.Name, field.Type, i == len(fields)-1); err != nil {
			return nil, err
		}
		if field.Fixed != nil {
			if !fixedShapeOk(field.Type, field.Fixed) {
				return nil, fmt.Errorf("schema %s: field %s constant has wrong shape for %s",
					name, field.Name, field.Type.Kind)
			}
		}
		minSize += minTypeSize(field.Type)
	}
	return &Schema{name: name, fields: fields, minSize: minSize}, nil
}

func MustSchema(name string, fields ...Field) *Schema {
	schema, err := NewSchema(name, fields...)
	if err != nil {
		panic(err)
	}
	return schema
}

// validateType walks nested option types iteratively. A remainder string is
// only decodable when its length is implied by the end of the buffer, so it
// must be the outermost type of the final field.
func validateType(schema, field string, t Type, last bool) error {
	type item struct {
		t     Type
		outer bool
	}
	st := stack.New()
	st.Push(item{t: t, outer: true})
	for st.Len() > 0 {
		cur := st.Pop().(item)
		switch cur.t.Kind {
		case KindU8, KindI64, KindBool, KindPublicKey, KindSizedString:
		case KindString:
			if !cur.outer || !last {
				return fmt.Errorf("schema %s: field %s: unprefixed string is only valid as the final field", schema, field)
			}
		case KindOption:
			if cur.t.Elem == nil {
				return fmt.Errorf("schema %s: field %s: option has no element type", schema, field)
			}
			st.Push(item{t: *cur.t.Elem})
		default:
			return fmt.Errorf("schema %s: field %s: unknown kind %d", schema, field, cur.t.Kind)
		}
	}
	return nil
}

func fixedShapeOk(t Type, fixed interface{}) bool {
	switch t.Kind {
	case KindU8:
		_, ok := fixed.(uint8)
		return ok
	case KindI64:
		_, ok := fixed.(int64)
		return ok
	case KindBool:
		_, ok := fixed.(bool)
		return ok
	case KindPublicKey:
		_, ok := fixed.(solana.PublicKey)
		return ok
	case KindString, KindSizedString:
		_, ok := fixed.(string)
		return ok
	}
	return false
}

func minTypeSize(t Type) int {
	switch t.Kind {
	case KindU8, KindBool, KindSizedString, KindOption:
		return 1
	case KindI64:
		return 8
	case KindPublicKey:
		return solana.PublicKeyLength
	}
	return 0
}

func (s *Schema) Name() string {
	return s.name
}

func (s *Schema) Fields() []Field {
	return s.fields
}

// MinSize is the smallest byte length any encoding of this schema can have.
func (s *Schema) MinSize() int {
	return s.minSize
}

// Discriminator reports the constant of a leading fixed u8 field, if the
// schema has one.
func (s *Schema) Discriminator() (uint8, bool) {
	first := &s.fields[0]
	if first.Type.Kind != KindU8 || first.Fixed == nil {
		return 0, false
	}
	return first.Fixed.(uint8), true
}

// Encode serializes the value map in schema order. Fixed fields always emit
// their constant, whatever the map holds for their name. For option fields
// the map entry must exist; a nil entry encodes as absent.
func (s *Schema) Encode(values map[string]interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	for i := range s.fields {
		field := &s.fields[i]
		value := field.Fixed
		if value == nil {
			var ok bool
			value, ok = values[field.Name]
			if !ok {
				return nil, &MissingFieldError{Schema: s.name, Field: field.Name}
			}
		}
		if err := s.encodeValue(buf, field.Name, field.Type, value); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func (s *Schema) encodeValue(buf *bytes.Buffer, field string, t Type, value interface{}) error {
	switch t.Kind {
	case KindU8:
		b, ok := value.(uint8)
		if !ok {
			return s.mismatch(field, t, value)
		}
		buf.WriteByte(b)
	case KindI64:
		n, ok := value.(int64)
		if !ok {
			return s.mismatch(field, t, value)
		}
		var raw [8]byte
		binary.LittleEndian.PutUint64(raw[:], uint64(n))
		buf.Write(raw[:])
	case KindBool:
		b, ok := value.(bool)
		if !ok {
			return s.mismatch(field, t, value)
		}
		if b {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case KindPublicKey:
		switch key := value.(type) {
		case solana.PublicKey:
			buf.Write(key.Bytes())
		case []byte:
			if len(key) != solana.PublicKeyLength {
				return &TypeMismatchError{Schema: s.name, Field: field,
					Want: "32 bytes", Got: fmt.Sprintf("%d bytes", len(key))}
			}
			buf.Write(key)
		default:
			return s.mismatch(field, t, value)
		}
	case KindSizedString:
		str, ok := value.(string)
		if !ok {
			return s.mismatch(field, t, value)
		}
		if !utf8.ValidString(str) {
			return &InvalidUtf8Error{Schema: s.name, Field: field}
		}
		if len(str) > MaxSizedStringLen {
			return &EncodingLimitError{Schema: s.name, Field: field, Length: len(str), Max: MaxSizedStringLen}
		}
		buf.WriteByte(uint8(len(str)))
		buf.WriteString(str)
	case KindString:
		str, ok := value.(string)
		if !ok {
			return s.mismatch(field, t, value)
		}
		if !utf8.ValidString(str) {
			return &InvalidUtf8Error{Schema: s.name, Field: field}
		}
		buf.WriteString(str)
	case KindOption:
		if value == nil {
			buf.WriteByte(0)
			return nil
		}
		buf.WriteByte(1)
		return s.encodeValue(buf, field, *t.Elem, value)
	}
	return nil
}

func (s *Schema) mismatch(field string, t Type, value interface{}) error {
	return &TypeMismatchError{Schema: s.name, Field: field,
		Want: t.Kind.String(), Got: fmt.Sprintf("%T", value)}
}

// Decode consumes the buffer strictly left to right and rejects trailing
// bytes. Fixed fields are materialized into the result under their name.
func (s *Schema) Decode(data []byte) (map[string]interface{}, error) {
	r := &reader{schema: s.name, data: data}
	values := make(map[string]interface{}, len(s.fields))
	for i := range s.fields {
		field := &s.fields[i]
		value, err := s.decodeValue(r, field.Name, field.Type)
		if err != nil {
			return nil, err
		}
		if field.Fixed != nil && value != field.Fixed {
			return nil, &DiscriminatorMismatchError{Schema: s.name, Field: field.Name,
				Want: field.Fixed, Got: value}
		}
		values[field.Name] = value
	}
	if r.off != len(data) {
		return nil, &TrailingDataError{Schema: s.name, Extra: len(data) - r.off}
	}
	return values, nil
}

func (s *Schema) decodeValue(r *reader, field string, t Type) (interface{}, error) {
	switch t.Kind {
	case KindU8:
		raw, err := r.take(1, field)
		if err != nil {
			return nil, err
		}
		return raw[0], nil
	case KindI64:
		raw, err := r.take(8, field)
		if err != nil {
			return nil, err
		}
		return int64(binary.LittleEndian.Uint64(raw)), nil
	case KindBool:
		raw, err := r.take(1, field)
		if err != nil {
			return nil, err
		}
		switch raw[0] {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
		return nil, &TypeMismatchError{Schema: s.name, Field: field,
			Want: "bool byte 0 or 1", Got: fmt.Sprintf("%d", raw[0])}
	case KindPublicKey:
		raw, err := r.take(solana.PublicKeyLength, field)
		if err != nil {
			return nil, err
		}
		return solana.PublicKeyFromBytes(raw), nil
	case KindSizedString:
		raw, err := r.take(1, field)
		if err != nil {
			return nil, err
		}
		strBytes, err := r.take(int(raw[0]), field)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(strBytes) {
			return nil, &InvalidUtf8Error{Schema: s.name, Field: field}
		}
		return string(strBytes), nil
	case KindString:
		rest := r.rest()
		if !utf8.Valid(rest) {
			return nil, &InvalidUtf8Error{Schema: s.name, Field: field}
		}
		return string(rest), nil
	case KindOption:
		raw, err := r.take(1, field)
		if err != nil {
			return nil, err
		}
		switch raw[0] {
		case 0:
			return nil, nil
		case 1:
			return s.decodeValue(r, field, *t.Elem)
		}
		return nil, &InvalidOptionTagError{Schema: s.name, Field: field, Tag: raw[0]}
	}
	return nil, fmt.Errorf("schema %s: field %s: unknown kind %d", s.name, field, t.Kind)
}

type reader struct {
	schema string
	data   []byte
	off    int
}

func (r *reader) take(n int, field string) ([]byte, error) {
	if len(r.data)-r.off < n {
		return nil, &TruncatedInputError{Schema: r.schema, Field: field,
			Need: n, Have: len(r.data) - r.off}
	}
	raw := r.data[r.off : r.off+n]
	r.off += n
	return raw, nil
}

func (r *reader) rest() []byte {
	raw := r.data[r.off:]
	r.off = len(r.data)
	return raw
}
