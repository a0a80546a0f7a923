package kexrt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHexDump(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	HexDump(&buf, []byte("ABCDEFGHIJKLMNOP\x00\x01"), 0x7FFD0000)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if assert.Len(lines, 2) {
		assert.Contains(lines[0], "7FFD0000:")
		assert.Contains(lines[0], " 41 42 43 44 45 46 47 48  49 4a 4b 4c 4d 4e 4f 50")
		assert.Contains(lines[0], "|ABCDEFGHIJKLMNOP|")

		// non-printable bytes show as blanks in the ascii column
		assert.Contains(lines[1], "7FFD0010:")
		assert.Contains(lines[1], " 00 01")
		assert.Contains(lines[1], "|  ")
	}
}
