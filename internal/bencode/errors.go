package bencode

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is.
var (
	ErrSyntax = errors.New("bencode: syntax error")
	ErrLength = errors.New("bencode: length error")
	ErrSchema = errors.New("bencode: schema error")
)

// DecodeError reports malformed bencode input at a byte offset.
type DecodeError struct {
	Offset int
	Msg    string
	Err    error // optional cause, e.g. a *LengthError
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bencode: %s at offset %d: %v", e.Msg, e.Offset, e.Err)
	}
	return fmt.Sprintf("bencode: %s at offset %d", e.Msg, e.Offset)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrSyntax
}

// LengthError reports a byte count that does not fit its framing: either a
// buffer that is not a whole number of fixed-size chunks, or a string whose
// declared length exceeds the bytes that remain.
type LengthError struct {
	Length  int // bytes available
	Want    int // chunk size, or declared string length (-1 if it overflows int)
	Chunked bool
}

func (e *LengthError) Error() string {
	if e.Chunked {
		return fmt.Sprintf("bencode: length %d is not a multiple of %d", e.Length, e.Want)
	}
	if e.Want < 0 {
		return fmt.Sprintf("bencode: declared length overflows int, %d remaining bytes", e.Length)
	}
	return fmt.Sprintf("bencode: declared length %d exceeds %d remaining bytes", e.Want, e.Length)
}

func (e *LengthError) Is(target error) bool {
	return target == ErrLength
}

// SchemaError reports well-formed bencode that does not match the shape a
// typed model expects.
type SchemaError struct {
	Key string
	Msg string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("bencode: key %q: %s", e.Key, e.Msg)
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// Missing returns a SchemaError for an absent required key.
func Missing(key string) error {
	return &SchemaError{Key: key, Msg: "missing"}
}

// Mistyped returns a SchemaError for a key holding the wrong kind of value.
func Mistyped(key string, want Kind, got Value) error {
	return &SchemaError{Key: key, Msg: fmt.Sprintf("expected %s, got %s", want, got.Kind())}
}
