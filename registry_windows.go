//go:build windows

package kexrt

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

// ValueQuery is one entry of a QueryMultipleValues table: a value name
// and its type restriction in, the data, actual type and per-entry
// status out.
type ValueQuery struct {
	Name     string
	Restrict ValueRestrict

	Data []byte
	Type uint32
	Err  error
}

// QueryValueData reads one registry value, constrained to the types
// allowed by restrict. On a type mismatch the actual type is still
// returned alongside ErrValueTypeMismatch, so the caller can report what
// it found.
func QueryValueData(key registry.Key, name string, restrict ValueRestrict) ([]byte, uint32, error) {
	if key == 0 {
		return nil, 0, fmt.Errorf("%w: zero key handle", ErrInvalidArgument)
	}
	if restrict == 0 || restrict&^legalRestrictMask != 0 {
		return nil, 0, fmt.Errorf("%w: bad restriction mask %#x", ErrInvalidArgument, uint32(restrict))
	}

	// First call sizes the buffer, second fills it.
	n, _, err := key.GetValue(name, nil)
	if err != nil {
		return nil, 0, err
	}

	buf := make([]byte, n)
	n, valueType, err := key.GetValue(name, buf)
	if err != nil {
		return nil, valueType, err
	}

	if !restrict.allows(valueType) {
		return nil, valueType, fmt.Errorf("%w: value %q has type %d", ErrValueTypeMismatch, name, valueType)
	}

	return buf[:n], valueType, nil
}

// QueryMultipleValues runs QueryValueData for every table entry,
// recording per-entry results. By default a failing entry is recorded
// and the rest are still queried; with failFast the first failure stops
// the walk and is returned. Either way the count of entries actually
// queried is returned.
func QueryMultipleValues(key registry.Key, table []ValueQuery, failFast bool) (int, error) {
	if len(table) == 0 {
		return 0, fmt.Errorf("%w: empty query table", ErrInvalidArgument)
	}

	queried := 0
	for i := range table {
		entry := &table[i]
		entry.Data, entry.Type, entry.Err = QueryValueData(key, entry.Name, entry.Restrict)
		queried++

		if failFast && entry.Err != nil {
			return queried, fmt.Errorf("value %q: %w", entry.Name, entry.Err)
		}
	}

	return queried, nil
}
