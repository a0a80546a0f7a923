//go:build windows

package kexrt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/windows/registry"
)

// CurrentVersion is present on every Windows install; SystemRoot is a
// REG_SZ value under it.
func openCurrentVersion(t *testing.T) registry.Key {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE,
		`SOFTWARE\Microsoft\Windows NT\CurrentVersion`, registry.QUERY_VALUE)
	if err != nil {
		t.Skipf("CurrentVersion key not readable: %v", err)
	}
	t.Cleanup(func() { key.Close() })
	return key
}

func TestQueryValueData(t *testing.T) {
	assert := assert.New(t)
	key := openCurrentVersion(t)

	data, valueType, err := QueryValueData(key, "SystemRoot", RestrictSZ)
	assert.NoError(err)
	assert.EqualValues(registry.SZ, valueType)
	assert.NotEmpty(data)

	// any-string restriction also admits a REG_SZ
	_, _, err = QueryValueData(key, "SystemRoot", RestrictAnyString)
	assert.NoError(err)
}

func TestQueryValueDataTypeMismatch(t *testing.T) {
	assert := assert.New(t)
	key := openCurrentVersion(t)

	data, valueType, err := QueryValueData(key, "SystemRoot", RestrictDWord)
	assert.ErrorIs(err, ErrValueTypeMismatch)
	// the actual type still comes back so callers can report it
	assert.EqualValues(registry.SZ, valueType)
	assert.Nil(data)
}

func TestQueryValueDataArguments(t *testing.T) {
	assert := assert.New(t)
	key := openCurrentVersion(t)

	_, _, err := QueryValueData(0, "SystemRoot", RestrictSZ)
	assert.ErrorIs(err, ErrInvalidArgument)

	_, _, err = QueryValueData(key, "SystemRoot", 0)
	assert.ErrorIs(err, ErrInvalidArgument)

	_, _, err = QueryValueData(key, "SystemRoot", ValueRestrict(1<<20))
	assert.ErrorIs(err, ErrInvalidArgument)
}

func TestQueryMultipleValues(t *testing.T) {
	assert := assert.New(t)
	key := openCurrentVersion(t)

	table := []ValueQuery{
		{Name: "SystemRoot", Restrict: RestrictSZ},
		{Name: "SystemRoot", Restrict: RestrictDWord},
	}

	queried, err := QueryMultipleValues(key, table, false)
	assert.NoError(err)
	assert.Equal(2, queried)
	assert.NoError(table[0].Err)
	assert.NotEmpty(table[0].Data)
	assert.ErrorIs(table[1].Err, ErrValueTypeMismatch)
}

func TestQueryMultipleValuesFailFast(t *testing.T) {
	assert := assert.New(t)
	key := openCurrentVersion(t)

	table := []ValueQuery{
		{Name: "SystemRoot", Restrict: RestrictDWord},
		{Name: "SystemRoot", Restrict: RestrictSZ},
	}

	queried, err := QueryMultipleValues(key, table, true)
	assert.ErrorIs(err, ErrValueTypeMismatch)
	assert.Equal(1, queried)
	// entry after the failure was never touched
	assert.NoError(table[1].Err)
	assert.Nil(table[1].Data)

	_, err = QueryMultipleValues(key, nil, false)
	assert.ErrorIs(err, ErrInvalidArgument)
}
