//go:build windows

package kexrt

// Module is one loader-registered module of a process.
type Module struct {
	BaseOfDll   uintptr // base address of the module
	SizeOfImage uint32  // size of the mapped image, in bytes
	EntryPoint  uintptr // entry point of the module

	Name string // base name, e.g. "ntdll.dll"
}
