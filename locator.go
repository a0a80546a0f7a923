package kexrt

import "fmt"

// ScanGeometry bounds an address-space scan for an image that ASLR has
// placed somewhere inside a fixed region at fixed granularity. Top and
// Bottom are exclusive lower bound / inclusive upper start; Step is the
// allocation granularity of the region.
type ScanGeometry struct {
	Top    uintptr
	Bottom uintptr
	Step   uintptr
}

// Wow64ScanGeometry is the 32-bit-visible window where the native ntdll
// of a 64-bit system is mapped for a WoW64 process: 64KB boundaries
// between 0x70000000 and 0x7FFD0000.
var Wow64ScanGeometry = ScanGeometry{
	Top:    0x7FFD0000,
	Bottom: 0x70000000,
	Step:   0x10000,
}

// nativeDllSuffix is matched case-insensitively against the tail of the
// mapped-file path of each image candidate.
const nativeDllSuffix = `Windows\system32\ntdll.dll`

const nativeDllName = "ntdll.dll"

// FindImageBase walks geo top to bottom and returns the allocation base
// of the first file-backed image whose mapped path ends with pathSuffix
// (case-insensitive). Probe failures skip to the next candidate; an
// exhausted range returns ErrNotFound. The probe address strictly
// decreases, so a fixed placement always yields the same answer.
func FindImageBase(mem VirtualMemory, geo ScanGeometry, pathSuffix string) (uintptr, error) {
	if mem == nil {
		return 0, fmt.Errorf("%w: nil memory", ErrInvalidArgument)
	}
	if geo.Step == 0 || geo.Top <= geo.Bottom {
		return 0, fmt.Errorf("%w: bad scan geometry %+v", ErrInvalidArgument, geo)
	}
	if pathSuffix == "" {
		return 0, fmt.Errorf("%w: empty path suffix", ErrInvalidArgument)
	}

	for ea := geo.Top; ea > geo.Bottom; ea -= geo.Step {
		path, err := mem.MappedFilename(ea)
		if err != nil || path == "" {
			continue
		}

		ri, err := mem.QueryRegion(ea)
		if err != nil {
			continue
		}

		// The probe may have landed in the middle of the mapping.
		if ri.AllocationBase != 0 {
			ea = ri.AllocationBase
		}

		if !ri.IsImage() {
			continue
		}

		if Verbosity > 1 {
			fmt.Printf("[d] image candidate at %x: %s %s\n", ea, prot2str(ri.Protect), path)
		}

		if HasSuffixFold(path, pathSuffix) {
			return ea, nil
		}
	}

	return 0, ErrNotFound
}
