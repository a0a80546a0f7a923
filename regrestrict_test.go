package kexrt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueRestrictAllows(t *testing.T) {
	assert := assert.New(t)

	assert.True(RestrictSZ.allows(1))
	assert.False(RestrictSZ.allows(4))
	assert.True(RestrictDWord.allows(4))
	assert.True(RestrictAnyString.allows(2))
	assert.False(RestrictAnyString.allows(3))

	for typ := uint32(0); typ < 12; typ++ {
		assert.True(RestrictAny.allows(typ), "type %d", typ)
	}
	assert.False(RestrictAny.allows(12))
	assert.False(RestrictAny.allows(200)) // out of shift range entirely
}
