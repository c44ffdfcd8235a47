package codec

import (
	"fmt"
)

// MissingFieldError is returned by Encode when the value map has no entry
// for a required field.
type MissingFieldError struct {
	Schema string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("schema %s: missing value for field %s", e.Schema, e.Field)
}

// TypeMismatchError is returned when a supplied value has the wrong shape
// for its field type, or when a decoded byte is outside the type's domain.
type TypeMismatchError struct {
	Schema string
	Field  string
	Want   string
	Got    string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("schema %s: field %s expects %s, got %s", e.Schema, e.Field, e.Want, e.Got)
}

// EncodingLimitError is returned when a size-prefixed string exceeds the
// capacity of its 1-byte length prefix.
type EncodingLimitError struct {
	Schema string
	Field  string
	Length int
	Max    int
}

func (e *EncodingLimitError) Error() string {
	return fmt.Sprintf("schema %s: field %s is %d bytes, limit is %d", e.Schema, e.Field, e.Length, e.Max)
}

// TruncatedInputError is returned when the buffer ends before a field's
// encoding is complete.
type TruncatedInputError struct {
	Schema string
	Field  string
	Need   int
	Have   int
}

func (e *TruncatedInputError) Error() string {
	return fmt.Sprintf("schema %s: field %s needs %d bytes, %d remain", e.Schema, e.Field, e.Need, e.Have)
}

// InvalidUtf8Error is returned when string bytes are not valid UTF-8.
type InvalidUtf8Error struct {
	Schema string
	Field  string
}

func (e *InvalidUtf8Error) Error() string {
	return fmt.Sprintf("schema %s: field %s is not valid utf-8", e.Schema, e.Field)
}

// InvalidOptionTagError is returned when an option presence byte is
// neither 0 nor 1.
type InvalidOptionTagError struct {
	Schema string
	Field  string
	Tag    byte
}

func (e *InvalidOptionTagError) Error() string {
	return fmt.Sprintf("schema %s: field %s has option tag %d", e.Schema, e.Field, e.Tag)
}

// DiscriminatorMismatchError is returned when a fixed field decodes to a
// value other than its constant.
type DiscriminatorMismatchError struct {
	Schema string
	Field  string
	Want   interface{}
	Got    interface{}
}

func (e *DiscriminatorMismatchError) Error() string {
	return fmt.Sprintf("schema %s: field %s expects constant %v, got %v", e.Schema, e.Field, e.Want, e.Got)
}

// TrailingDataError is returned when bytes remain after the final field has
// been consumed.
type TrailingDataError struct {
	Schema string
	Extra  int
}

func (e *TrailingDataError) Error() string {
	return fmt.Sprintf("schema %s: %d trailing bytes after final field", e.Schema, e.Extra)
}

// UnknownDiscriminatorError is returned by a registry when no schema is
// registered under the observed discriminator.
type UnknownDiscriminatorError struct {
	Registry      string
	Discriminator byte
}

func (e *UnknownDiscriminatorError) Error() string {
	return fmt.Sprintf("registry %s: no schema for discriminator %d", e.Registry, e.Discriminator)
}
