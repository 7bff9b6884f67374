package bencode

import (
	"fmt"
	"io"
	"strconv"
)

// Encode returns the canonical bencoding of v. Dictionary keys are always
// written in ascending byte order, whatever order the Dict holds them in.
//
// Encode panics if v is nil or contains a nil element; values produced by
// the decoder never do.
func Encode(v Value) []byte {
	return AppendEncode(nil, v)
}

// AppendEncode appends the canonical bencoding of v to dst.
func AppendEncode(dst []byte, v Value) []byte {
	switch v := v.(type) {
	case Int:
		dst = append(dst, 'i')
		dst = strconv.AppendInt(dst, int64(v), 10)
		return append(dst, 'e')
	case Bytes:
		return appendBytes(dst, v)
	case List:
		dst = append(dst, 'l')
		for _, item := range v {
			dst = AppendEncode(dst, item)
		}
		return append(dst, 'e')
	case Dict:
		dst = append(dst, 'd')
		for _, e := range v.sortedEntries() {
			dst = appendBytes(dst, e.Key)
			dst = AppendEncode(dst, e.Value)
		}
		return append(dst, 'e')
	default:
		panic(fmt.Sprintf("bencode: cannot encode %T", v))
	}
}

func appendBytes(dst []byte, b []byte) []byte {
	dst = strconv.AppendInt(dst, int64(len(b)), 10)
	dst = append(dst, ':')
	return append(dst, b...)
}

// EncodeTo writes the canonical bencoding of v to w.
func EncodeTo(w io.Writer, v Value) (int, error) {
	return w.Write(Encode(v))
}
