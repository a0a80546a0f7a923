package kexrt

import "unsafe"

// WordWidth is the pointer width of a process, in bits. It never changes
// for the lifetime of a process.
type WordWidth int

const (
	Width32 WordWidth = 32
	Width64 WordWidth = 64
)

// widthOnQueryFailure is what RemoteProcessWidth reports when the WoW64
// query itself fails. Failing open to 64 mirrors the absent-flag case;
// nothing downstream treats the answer as load-bearing.
const widthOnQueryFailure = Width64

// CurrentProcessWidth returns the word width of the calling process.
func CurrentProcessWidth() WordWidth {
	return WordWidth(unsafe.Sizeof(uintptr(0)) * 8)
}

// remoteWidth turns a queried WoW64 flag into a width. On a 32-bit
// system every process is 32-bit and the flag is not consulted.
func remoteWidth(osWidth WordWidth, flag uintptr, err error) WordWidth {
	if osWidth == Width32 {
		return Width32
	}
	if err != nil {
		return widthOnQueryFailure
	}
	if flag != 0 {
		return Width32
	}
	return Width64
}
