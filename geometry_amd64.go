//go:build amd64 || arm64

package kexrt

// System images land at the top of the canonical user address space,
// on 64KB boundaries. The window below 0x7FFFFFDF0000 keeps the scan at
// a couple hundred probes worst case.
var native64ScanGeometry = ScanGeometry{
	Top:    0x7FFFFFDF0000,
	Bottom: 0x7FFFFF000000,
	Step:   0x10000,
}

func DefaultScanGeometry() ScanGeometry {
	return native64ScanGeometry
}
