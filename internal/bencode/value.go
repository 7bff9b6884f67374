package bencode

import (
	"bytes"
	"sort"
)

// Kind identifies which of the four bencode types a Value holds.
type Kind int

const (
	KindInt Kind = iota
	KindBytes
	KindList
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindBytes:
		return "byte string"
	case KindList:
		return "list"
	case KindDict:
		return "dictionary"
	default:
		return "unknown"
	}
}

// Value is a decoded bencode term. It is implemented only by Int, Bytes,
// List and Dict.
type Value interface {
	Kind() Kind
	isValue()
}

// Int is a bencode integer (i<n>e).
type Int int64

// Bytes is a bencode byte string (<len>:<bytes>). The payload is raw bytes
// and is not assumed to be valid UTF-8.
type Bytes []byte

// List is an ordered bencode list (l...e).
type List []Value

// Entry is a single key/value pair of a Dict.
type Entry struct {
	Key   Bytes
	Value Value
}

// Dict is a bencode dictionary (d...e). Entries keep the order in which they
// were decoded or appended; Encode emits them sorted by key.
type Dict []Entry

func (Int) Kind() Kind   { return KindInt }
func (Bytes) Kind() Kind { return KindBytes }
func (List) Kind() Kind  { return KindList }
func (Dict) Kind() Kind  { return KindDict }

func (Int) isValue()   {}
func (Bytes) isValue() {}
func (List) isValue()  {}
func (Dict) isValue()  {}

// String returns the payload as a Go string.
func (b Bytes) String() string {
	return string(b)
}

// Get returns the value of the first entry whose key equals key.
func (d Dict) Get(key string) (Value, bool) {
	for _, e := range d {
		if string(e.Key) == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Has reports whether an entry with the given key exists.
func (d Dict) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Set replaces the value of the first entry with key, or appends a new entry.
// It returns the updated dictionary.
func (d Dict) Set(key string, v Value) Dict {
	for i, e := range d {
		if string(e.Key) == key {
			d[i].Value = v
			return d
		}
	}
	return append(d, Entry{Key: Bytes(key), Value: v})
}

// Sorted reports whether the keys are in strictly ascending byte order, which
// is the only order a canonical encoding may use.
func (d Dict) Sorted() bool {
	for i := 1; i < len(d); i++ {
		if bytes.Compare(d[i-1].Key, d[i].Key) >= 0 {
			return false
		}
	}
	return true
}

// sortedEntries returns a copy of the entries ordered by key. The sort is
// stable so duplicate keys keep their relative order.
func (d Dict) sortedEntries() []Entry {
	entries := make([]Entry, len(d))
	copy(entries, d)
	sort.SliceStable(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].Key, entries[j].Key) < 0
	})
	return entries
}

// Canonical returns a deep copy of v in which every dictionary has its
// entries sorted by key.
func Canonical(v Value) Value {
	switch v := v.(type) {
	case List:
		out := make(List, len(v))
		for i, item := range v {
			out[i] = Canonical(item)
		}
		return out
	case Dict:
		entries := v.sortedEntries()
		out := make(Dict, len(entries))
		for i, e := range entries {
			out[i] = Entry{Key: e.Key, Value: Canonical(e.Value)}
		}
		return out
	default:
		return v
	}
}

// Equal reports whether a and b are structurally identical, including the
// order of dictionary entries.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Int:
		b, ok := b.(Int)
		return ok && a == b
	case Bytes:
		b, ok := b.(Bytes)
		return ok && bytes.Equal(a, b)
	case List:
		b, ok := b.(List)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !Equal(a[i], b[i]) {
				return false
			}
		}
		return true
	case Dict:
		b, ok := b.(Dict)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !bytes.Equal(a[i].Key, b[i].Key) || !Equal(a[i].Value, b[i].Value) {
				return false
			}
		}
		return true
	default:
		return a == nil && b == nil
	}
}
