//go:build 386

package kexrt

// A 32-bit caller can only reach the native ntdll through the WoW64 view
// of the address space.
func DefaultScanGeometry() ScanGeometry {
	return Wow64ScanGeometry
}
