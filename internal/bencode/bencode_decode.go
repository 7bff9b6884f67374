package bencode

import (
	"bytes"
	"fmt"
	"strconv"
)

// DefaultMaxDepth bounds list/dictionary nesting when Options.MaxDepth is
// not set.
const DefaultMaxDepth = 512

// Options tunes decoding.
type Options struct {
	// MaxDepth is the deepest list/dictionary nesting accepted. Zero or a
	// negative value selects DefaultMaxDepth.
	MaxDepth int
}

// decoder walks one input buffer. A new decoder is created for every call,
// so decoding never shares state between callers.
type decoder struct {
	data     []byte
	pos      int
	depth    int
	maxDepth int
}

// Decode parses one value from the front of input and returns it together
// with the bytes that follow it.
func Decode(input []byte) (Value, []byte, error) {
	return DecodeWith(input, Options{})
}

// DecodeWith is Decode with explicit options.
func DecodeWith(input []byte, opts Options) (Value, []byte, error) {
	d := &decoder{data: input, maxDepth: opts.MaxDepth}
	if d.maxDepth <= 0 {
		d.maxDepth = DefaultMaxDepth
	}

	v, err := d.value()
	if err != nil {
		return nil, nil, err
	}
	return v, input[d.pos:], nil
}

// DecodeAll parses input as exactly one value; trailing bytes are an error.
func DecodeAll(input []byte, opts Options) (Value, error) {
	v, rest, err := DecodeWith(input, opts)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, &DecodeError{Offset: len(input) - len(rest), Msg: fmt.Sprintf("%d trailing bytes", len(rest))}
	}
	return v, nil
}

func (d *decoder) errorf(offset int, format string, args ...any) error {
	return &DecodeError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func (d *decoder) value() (Value, error) {
	if d.pos >= len(d.data) {
		return nil, d.errorf(d.pos, "unexpected end of data")
	}

	switch c := d.data[d.pos]; {
	case c == 'i':
		return d.integer()
	case c == 'l':
		return d.list()
	case c == 'd':
		return d.dict()
	case c >= '0' && c <= '9':
		return d.byteString()
	default:
		return nil, d.errorf(d.pos, "invalid type byte %q", c)
	}
}

// integer decodes i<number>e.
func (d *decoder) integer() (Value, error) {
	start := d.pos
	d.pos++ // skip 'i'

	end := bytes.IndexByte(d.data[d.pos:], 'e')
	if end < 0 {
		return nil, d.errorf(start, "unterminated integer")
	}
	digits := d.data[d.pos : d.pos+end]

	if len(digits) == 0 {
		return nil, d.errorf(start, "empty integer")
	}
	unsigned := digits
	if unsigned[0] == '-' {
		unsigned = unsigned[1:]
	}
	if len(unsigned) == 0 || !isDigits(unsigned) {
		return nil, d.errorf(start, "invalid integer %q", digits)
	}
	if unsigned[0] == '0' && (len(unsigned) > 1 || len(digits) != len(unsigned)) {
		return nil, d.errorf(start, "non-canonical integer %q", digits)
	}

	n, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		return nil, &DecodeError{Offset: start, Msg: "integer out of range", Err: err}
	}

	d.pos += end + 1 // skip digits and 'e'
	return Int(n), nil
}

// byteString decodes <length>:<payload>.
func (d *decoder) byteString() (Value, error) {
	start := d.pos

	colon := bytes.IndexByte(d.data[d.pos:], ':')
	if colon < 0 {
		return nil, d.errorf(start, "unterminated string length")
	}
	digits := d.data[d.pos : d.pos+colon]
	if !isDigits(digits) {
		return nil, d.errorf(start, "invalid string length %q", digits)
	}
	if digits[0] == '0' && len(digits) > 1 {
		return nil, d.errorf(start, "non-canonical string length %q", digits)
	}

	d.pos += colon + 1 // skip digits and ':'
	remaining := len(d.data) - d.pos

	length, err := strconv.Atoi(string(digits))
	if err != nil {
		// Only a range error is possible here; no buffer can hold that much.
		return nil, &DecodeError{
			Offset: start,
			Msg:    "truncated string",
			Err:    &LengthError{Length: remaining, Want: -1},
		}
	}

	if length > remaining {
		return nil, &DecodeError{
			Offset: start,
			Msg:    "truncated string",
			Err:    &LengthError{Length: remaining, Want: length},
		}
	}

	payload := make(Bytes, length)
	copy(payload, d.data[d.pos:d.pos+length])
	d.pos += length
	return payload, nil
}

func (d *decoder) enter(start int) error {
	d.depth++
	if d.depth > d.maxDepth {
		return d.errorf(start, "nesting deeper than %d", d.maxDepth)
	}
	return nil
}

// list decodes l<values>e.
func (d *decoder) list() (Value, error) {
	start := d.pos
	if err := d.enter(start); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()
	d.pos++ // skip 'l'

	result := List{}
	for {
		if d.pos >= len(d.data) {
			return nil, d.errorf(start, "unterminated list")
		}
		if d.data[d.pos] == 'e' {
			d.pos++
			return result, nil
		}

		item, err := d.value()
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
}

// dict decodes d<key><value>...e. Keys are kept in the order they appear.
func (d *decoder) dict() (Value, error) {
	start := d.pos
	if err := d.enter(start); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()
	d.pos++ // skip 'd'

	result := Dict{}
	for {
		if d.pos >= len(d.data) {
			return nil, d.errorf(start, "unterminated dictionary")
		}
		if d.data[d.pos] == 'e' {
			d.pos++
			return result, nil
		}

		keyStart := d.pos
		k, err := d.value()
		if err != nil {
			return nil, err
		}
		key, ok := k.(Bytes)
		if !ok {
			return nil, d.errorf(keyStart, "dictionary key must be a byte string, got %s", k.Kind())
		}

		if d.pos >= len(d.data) || d.data[d.pos] == 'e' {
			return nil, d.errorf(d.pos, "missing value for key %q", key)
		}
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		result = append(result, Entry{Key: key, Value: v})
	}
}

func isDigits(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
