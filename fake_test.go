package kexrt

import "fmt"

// fakeProcess implements VirtualMemory over plain slices so the locator,
// resolver and writer logic can be exercised without a live process.
type fakeProcess struct {
	base  uintptr
	image []byte

	// address-space metadata for the locator
	regions []fakeRegion

	// protection state and call log for the writer
	protection   uint32
	protectCalls []protectCall
	failProtect  int // fail the n-th Protect call (1-based), 0 = never

	failWrites bool
	writes     int

	reads  int
	probes []uintptr // MappedFilename query order

	wow64Flag uintptr
	wow64Err  error
}

type fakeRegion struct {
	info RegionInfo
	path string
}

type protectCall struct {
	ea      uintptr
	size    uintptr
	protect uint32
}

func (f *fakeProcess) regionAt(ea uintptr) *fakeRegion {
	for i := range f.regions {
		r := &f.regions[i]
		if ea >= r.info.BaseAddress && ea < r.info.BaseAddress+r.info.RegionSize {
			return r
		}
	}
	return nil
}

func (f *fakeProcess) QueryRegion(ea uintptr) (RegionInfo, error) {
	if r := f.regionAt(ea); r != nil {
		return r.info, nil
	}
	return RegionInfo{}, fmt.Errorf("no region at %#x", ea)
}

func (f *fakeProcess) MappedFilename(ea uintptr) (string, error) {
	f.probes = append(f.probes, ea)
	r := f.regionAt(ea)
	if r == nil {
		return "", fmt.Errorf("no mapping at %#x", ea)
	}
	return r.path, nil
}

func (f *fakeProcess) ReadMemory(ea uintptr, size uintptr) ([]byte, error) {
	f.reads++
	if ea < f.base || ea+size > f.base+uintptr(len(f.image)) {
		return nil, fmt.Errorf("read outside image: %#x+%d", ea, size)
	}
	off := ea - f.base
	out := make([]byte, size)
	copy(out, f.image[off:off+size])
	return out, nil
}

func (f *fakeProcess) WriteMemory(ea uintptr, data []byte) error {
	f.writes++
	if f.failWrites {
		return fmt.Errorf("write refused at %#x", ea)
	}
	if ea < f.base || ea+uintptr(len(data)) > f.base+uintptr(len(f.image)) {
		return fmt.Errorf("write outside image: %#x+%d", ea, len(data))
	}
	copy(f.image[ea-f.base:], data)
	return nil
}

func (f *fakeProcess) Protect(ea uintptr, size uintptr, protect uint32) (uint32, error) {
	f.protectCalls = append(f.protectCalls, protectCall{ea: ea, size: size, protect: protect})
	if f.failProtect == len(f.protectCalls) {
		return 0, fmt.Errorf("protect refused at %#x", ea)
	}
	old := f.protection
	f.protection = protect
	return old, nil
}

func (f *fakeProcess) Wow64Flag() (uintptr, error) {
	return f.wow64Flag, f.wow64Err
}
