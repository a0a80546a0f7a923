//go:build windows

package kexrt

import "golang.org/x/sys/windows"

// OperatingSystemWidth returns the word width of the host OS. A 64-bit
// caller implies a 64-bit OS; a 32-bit caller asks whether it is running
// under WoW64.
func OperatingSystemWidth() WordWidth {
	if CurrentProcessWidth() == Width64 {
		return Width64
	}
	var wow64 bool
	if err := windows.IsWow64Process(windows.CurrentProcess(), &wow64); err == nil && wow64 {
		return Width64
	}
	return Width32
}

// RemoteProcessWidth returns the word width of an arbitrary process. On
// a 32-bit OS every process is 32-bit; otherwise the process' WoW64 flag
// decides. A failed query reports widthOnQueryFailure.
func RemoteProcessWidth(mem VirtualMemory) WordWidth {
	osWidth := OperatingSystemWidth()
	if osWidth == Width32 {
		return Width32
	}
	flag, err := mem.Wow64Flag()
	return remoteWidth(osWidth, flag, err)
}
