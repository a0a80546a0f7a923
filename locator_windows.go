//go:build windows

package kexrt

import (
	"fmt"
	"strings"
)

// NativeSystemDllBase returns the base address of the ntdll mapped for
// the operating system's native word width in the current process. When
// caller and OS widths agree the loader answers directly; otherwise —
// a WoW64 caller, or a loader with no record — the address space is
// scanned as described by FindImageBase. Returns ErrNotFound when the
// scan range is exhausted.
func NativeSystemDllBase() (uintptr, error) {
	p := CurrentProcess()

	if CurrentProcessWidth() == OperatingSystemWidth() {
		if base, err := loaderModuleBase(p, nativeDllName); err == nil {
			return base, nil
		}
		if Verbosity > 0 {
			fmt.Printf("[d] loader has no %s, falling back to scan\n", nativeDllName)
		}
	}

	geo := DefaultScanGeometry()
	// scan addresses must be allocation-granularity aligned or the
	// kernel rounds the query down and the walk revisits regions
	if g := uintptr(getSystemInfo().AllocationGranularity); g > geo.Step {
		geo.Step = g
	}
	return FindImageBase(p, geo, nativeDllSuffix)
}

// loaderModuleBase looks a module up by base name in the loader's module
// table, case-insensitively.
func loaderModuleBase(p *Process, name string) (uintptr, error) {
	modules, err := p.Modules()
	if err != nil {
		return 0, err
	}
	for _, m := range modules {
		if strings.EqualFold(m.Name, name) {
			return m.BaseOfDll, nil
		}
	}
	return 0, ErrNotFound
}
