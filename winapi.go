//go:build windows

package kexrt

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32           = windows.NewLazySystemDLL("kernel32.dll")
	procVirtualQueryEx = kernel32.NewProc("VirtualQueryEx")
	procGetSystemInfo  = kernel32.NewProc("GetSystemInfo")

	ntdll                         = windows.NewLazySystemDLL("ntdll.dll")
	procNtQueryVirtualMemory      = ntdll.NewProc("NtQueryVirtualMemory")
	procNtQueryInformationProcess = ntdll.NewProc("NtQueryInformationProcess")
)

// Information classes for the Nt query calls above.
const (
	memoryBasicInformation          = 0
	memoryMappedFilenameInformation = 2

	processWow64Information = 26
)

type unicodeString struct {
	Length        uint16
	MaximumLength uint16
	Buffer        *uint16
}

// mappedFilenameInfo is what NtQueryVirtualMemory returns for
// MemoryMappedFilenameInformation: a UNICODE_STRING whose buffer points
// into the trailing storage.
type mappedFilenameInfo struct {
	Name unicodeString
	data [260]uint16
}

type systemInfo struct {
	ProcessorArchitecture     uint16
	_                         uint16
	PageSize                  uint32
	MinimumApplicationAddress uintptr
	MaximumApplicationAddress uintptr
	ActiveProcessorMask       uintptr
	NumberOfProcessors        uint32
	ProcessorType             uint32
	AllocationGranularity     uint32
	ProcessorLevel            uint16
	ProcessorRevision         uint16
}

func getSystemInfo() systemInfo {
	var si systemInfo
	procGetSystemInfo.Call(uintptr(unsafe.Pointer(&si)))
	return si
}

func ntQueryVirtualMemory(h windows.Handle, ea uintptr, class uintptr, out unsafe.Pointer, outLen uintptr) error {
	st, _, _ := procNtQueryVirtualMemory.Call(
		uintptr(h),
		ea,
		class,
		uintptr(out),
		outLen,
		0,
	)
	if st != 0 {
		return windows.NTStatus(st)
	}
	return nil
}

func ntQueryInformationProcess(h windows.Handle, class uintptr, out unsafe.Pointer, outLen uintptr) error {
	st, _, _ := procNtQueryInformationProcess.Call(
		uintptr(h),
		class,
		uintptr(out),
		outLen,
		0,
	)
	if st != 0 {
		return windows.NTStatus(st)
	}
	return nil
}
