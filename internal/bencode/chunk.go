package bencode

import "fmt"

// SplitChunks splits b into consecutive n-byte chunks. It fails with a
// *LengthError when len(b) is not a multiple of n. The chunks alias b.
func SplitChunks(b []byte, n int) ([][]byte, error) {
	if n <= 0 {
		panic(fmt.Sprintf("bencode: invalid chunk size %d", n))
	}
	if len(b)%n != 0 {
		return nil, &LengthError{Length: len(b), Want: n, Chunked: true}
	}

	chunks := make([][]byte, 0, len(b)/n)
	for i := 0; i < len(b); i += n {
		chunks = append(chunks, b[i:i+n:i+n])
	}
	return chunks, nil
}

// DecodeChunks splits b into n-byte records and converts each with conv.
func DecodeChunks[T any](b []byte, n int, conv func([]byte) T) ([]T, error) {
	chunks, err := SplitChunks(b, n)
	if err != nil {
		return nil, err
	}

	out := make([]T, len(chunks))
	for i, c := range chunks {
		out[i] = conv(c)
	}
	return out, nil
}

// JoinChunks concatenates the n-byte encodings of items in order. conv must
// return exactly n bytes for every item.
func JoinChunks[T any](items []T, n int, conv func(T) []byte) []byte {
	out := make([]byte, 0, len(items)*n)
	for _, item := range items {
		out = append(out, conv(item)...)
	}
	return out
}
