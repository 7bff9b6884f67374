package bencode

import "errors"

// GetInt returns the integer at key. An absent or mistyped key is a
// *SchemaError.
func (d Dict) GetInt(key string) (int64, error) {
	n, ok, err := d.OptInt(key)
	if err == nil && !ok {
		err = Missing(key)
	}
	return n, err
}

// OptInt returns the integer at key; ok is false when the key is absent.
func (d Dict) OptInt(key string) (int64, bool, error) {
	v, ok := d.Get(key)
	if !ok {
		return 0, false, nil
	}
	n, ok := v.(Int)
	if !ok {
		return 0, false, Mistyped(key, KindInt, v)
	}
	return int64(n), true, nil
}

// GetBytes returns the byte string at key. An absent or mistyped key is a
// *SchemaError.
func (d Dict) GetBytes(key string) (Bytes, error) {
	b, ok, err := d.OptBytes(key)
	if err == nil && !ok {
		err = Missing(key)
	}
	return b, err
}

// OptBytes returns the byte string at key; ok is false when the key is absent.
func (d Dict) OptBytes(key string) (Bytes, bool, error) {
	v, ok := d.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.(Bytes)
	if !ok {
		return nil, false, Mistyped(key, KindBytes, v)
	}
	return b, true, nil
}

// GetList returns the list at key. An absent or mistyped key is a
// *SchemaError.
func (d Dict) GetList(key string) (List, error) {
	l, ok, err := d.OptList(key)
	if err == nil && !ok {
		err = Missing(key)
	}
	return l, err
}

// OptList returns the list at key; ok is false when the key is absent.
func (d Dict) OptList(key string) (List, bool, error) {
	v, ok := d.Get(key)
	if !ok {
		return nil, false, nil
	}
	l, ok := v.(List)
	if !ok {
		return nil, false, Mistyped(key, KindList, v)
	}
	return l, true, nil
}

// GetDict returns the dictionary at key. An absent or mistyped key is a
// *SchemaError.
func (d Dict) GetDict(key string) (Dict, error) {
	v, ok := d.Get(key)
	if !ok {
		return nil, Missing(key)
	}
	sub, ok := v.(Dict)
	if !ok {
		return nil, Mistyped(key, KindDict, v)
	}
	return sub, nil
}

// Within qualifies the key of a *SchemaError with prefix, so nested failures
// read as "info.piece length". Other errors are returned unchanged.
func Within(prefix string, err error) error {
	var se *SchemaError
	if !errors.As(err, &se) {
		return err
	}
	return &SchemaError{Key: prefix + "." + se.Key, Msg: se.Msg}
}

// StringList converts a list of byte strings to Go strings. key names the
// list in any *SchemaError.
func StringList(key string, l List) ([]string, error) {
	out := make([]string, len(l))
	for i, item := range l {
		b, ok := item.(Bytes)
		if !ok {
			return nil, Mistyped(key, KindBytes, item)
		}
		out[i] = string(b)
	}
	return out, nil
}
