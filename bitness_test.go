package kexrt

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestCurrentProcessWidth(t *testing.T) {
	assert := assert.New(t)

	w := CurrentProcessWidth()
	assert.Contains([]WordWidth{Width32, Width64}, w)
	assert.Equal(WordWidth(unsafe.Sizeof(uintptr(0))*8), w)
}

func TestRemoteWidth(t *testing.T) {
	assert := assert.New(t)

	queryFailed := errors.New("access denied")

	cases := []struct {
		name    string
		osWidth WordWidth
		flag    uintptr
		err     error
		want    WordWidth
	}{
		{"32-bit OS, flag ignored", Width32, 0x7EFDE000, nil, Width32},
		{"32-bit OS, query error ignored", Width32, 0, queryFailed, Width32},
		{"wow64 process", Width64, 0x7EFDE000, nil, Width32},
		{"native 64-bit process", Width64, 0, nil, Width64},
		{"query failure fails open to 64", Width64, 0, queryFailed, Width64},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(tc.want, remoteWidth(tc.osWidth, tc.flag, tc.err))
		})
	}
}
