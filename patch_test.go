package kexrt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func patchFake() *fakeProcess {
	return &fakeProcess{
		base:       0x500000,
		image:      make([]byte, 0x1000),
		protection: PAGE_READONLY,
	}
}

func TestWriteProtected(t *testing.T) {
	assert := assert.New(t)

	fake := patchFake()
	dest := fake.base + 0x10
	patch := []byte{0xC3, 0x90, 0x90}

	err := WriteProtected(fake, dest, patch)
	assert.NoError(err)
	assert.Equal(patch, fake.image[0x10:0x13])

	// exactly one relax and one restore, over the requested range
	if assert.Len(fake.protectCalls, 2) {
		assert.Equal(protectCall{ea: dest, size: 3, protect: PAGE_READWRITE}, fake.protectCalls[0])
		assert.Equal(protectCall{ea: dest, size: 3, protect: PAGE_READONLY}, fake.protectCalls[1])
	}
	assert.Equal(uint32(PAGE_READONLY), fake.protection)
}

func TestWriteProtectedProtectFailure(t *testing.T) {
	assert := assert.New(t)

	fake := patchFake()
	fake.failProtect = 1

	err := WriteProtected(fake, fake.base, []byte{0xCC})
	assert.Error(err)

	// nothing was changed, so nothing gets restored either
	assert.Zero(fake.writes)
	assert.Len(fake.protectCalls, 1)
	assert.Equal(uint32(PAGE_READONLY), fake.protection)
}

func TestWriteProtectedWriteFailure(t *testing.T) {
	assert := assert.New(t)

	fake := patchFake()
	fake.failWrites = true

	err := WriteProtected(fake, fake.base, []byte{0xCC})
	assert.Error(err)

	// the restore still ran and the protection is back
	assert.Len(fake.protectCalls, 2)
	assert.Equal(uint32(PAGE_READONLY), fake.protection)
}

func TestWriteProtectedRestoreFailureIsSwallowed(t *testing.T) {
	assert := assert.New(t)

	fake := patchFake()
	fake.failProtect = 2 // only the restore fails

	err := WriteProtected(fake, fake.base, []byte{0xCC})
	assert.NoError(err, "write outcome must not be masked by the restore")
	assert.Equal(byte(0xCC), fake.image[0])
}

func TestWriteProtectedArguments(t *testing.T) {
	assert := assert.New(t)

	fake := patchFake()

	err := WriteProtected(nil, fake.base, []byte{0xCC})
	assert.ErrorIs(err, ErrInvalidArgument)

	err = WriteProtected(fake, 0, []byte{0xCC})
	assert.ErrorIs(err, ErrInvalidArgument)

	err = WriteProtected(fake, fake.base, nil)
	assert.ErrorIs(err, ErrInvalidArgument)

	assert.Empty(fake.protectCalls)
	assert.Zero(fake.writes)
}
