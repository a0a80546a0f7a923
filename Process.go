//go:build windows

package kexrt

import (
	"fmt"
	"os"
	"strings"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

const PROCESS_ALL_ACCESS = windows.STANDARD_RIGHTS_REQUIRED | windows.SYNCHRONIZE | 0xFFF

// Process is a handle to a live process, own or foreign. It implements
// VirtualMemory. The handle is borrowed by the package's operations, not
// owned by them; Close releases it.
type Process struct {
	Handle    windows.Handle
	Pid       uint32
	Access    uint32
	suspended bool
}

// CurrentProcess returns the calling process through its pseudo-handle.
// The pseudo-handle needs no Close.
func CurrentProcess() *Process {
	return &Process{
		Handle: windows.CurrentProcess(),
		Pid:    windows.GetCurrentProcessId(),
		Access: PROCESS_ALL_ACCESS,
	}
}

func OpenProcess(pid, access uint32) (*Process, error) {
	handle, err := windows.OpenProcess(access, false, pid)
	if err != nil {
		return nil, fmt.Errorf("OpenProcess: %w", err)
	}
	return &Process{
		Handle: handle,
		Pid:    pid,
		Access: access,
	}, nil
}

type CreateProcessOption func(*createProcessOptions)

func WithFlags(flags uint32) CreateProcessOption {
	return func(proc *createProcessOptions) {
		proc.flags = flags
	}
}

type createProcessOptions struct {
	flags uint32
}

// CreateProcess starts path with args. Pass
// WithFlags(windows.CREATE_SUSPENDED) to get the target before its first
// instruction runs, e.g. to patch it prior to Resume.
func CreateProcess(path string, args []string, opts ...CreateProcessOption) (*Process, error) {
	applicationName, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}
	commandLine, err := windows.UTF16PtrFromString(strings.Join(append([]string{path}, args...), " "))
	if err != nil {
		return nil, err
	}

	proc := &createProcessOptions{}
	for _, opt := range opts {
		opt(proc)
	}

	var startupInfo windows.StartupInfo
	var processInformation windows.ProcessInformation
	startupInfo.Cb = uint32(unsafe.Sizeof(startupInfo))

	err = windows.CreateProcess(
		applicationName,
		commandLine,
		nil,        // ProcessAttributes
		nil,        // ThreadAttributes
		false,      // InheritHandles
		proc.flags, // CreationFlags
		nil,        // Environment
		nil,        // CurrentDirectory
		&startupInfo,
		&processInformation,
	)
	if err != nil {
		return nil, fmt.Errorf("CreateProcess: %w", err)
	}
	windows.CloseHandle(processInformation.Thread)

	return &Process{
		Handle:    processInformation.Process,
		Pid:       processInformation.ProcessId,
		Access:    PROCESS_ALL_ACCESS,
		suspended: proc.flags&windows.CREATE_SUSPENDED != 0,
	}, nil
}

func (p *Process) IsSuspended() bool {
	return p.suspended
}

// returns a new Process object for the same pid with the given access rights
func (p *Process) Open(access uint32) (*Process, error) {
	return OpenProcess(p.Pid, access)
}

// reopen if the process is not already opened with the given access rights
func (p *Process) MaybeReopen(access uint32) (*Process, error) {
	if p.Access&access == access {
		return p, nil
	}
	return p.Open(access)
}

// Resume resumes a suspended process by resuming all of its threads.
func (p *Process) Resume() error {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPTHREAD, 0)
	if err != nil {
		return fmt.Errorf("CreateToolhelp32Snapshot: %w", err)
	}
	defer windows.CloseHandle(snapshot)

	var te windows.ThreadEntry32
	te.Size = uint32(unsafe.Sizeof(te))
	if err = windows.Thread32First(snapshot, &te); err != nil {
		return fmt.Errorf("Thread32First: %w", err)
	}

	for {
		if te.OwnerProcessID == p.Pid {
			th, err := windows.OpenThread(windows.THREAD_SUSPEND_RESUME, false, te.ThreadID)
			if err != nil {
				return fmt.Errorf("OpenThread: %w", err)
			}
			_, err = windows.ResumeThread(th)
			windows.CloseHandle(th)
			if err != nil {
				return fmt.Errorf("ResumeThread: %w", err)
			}
		}

		if err = windows.Thread32Next(snapshot, &te); err != nil {
			if err == windows.ERROR_NO_MORE_FILES {
				break
			}
			return fmt.Errorf("Thread32Next: %w", err)
		}
	}

	p.suspended = false
	return nil
}

// Close closes the process handle, but does not terminate the process.
// Closing the pseudo-handle of the current process is a no-op.
func (p *Process) Close() error {
	if p.Handle == 0 || p.Handle == windows.CurrentProcess() {
		return nil
	}
	if err := windows.CloseHandle(p.Handle); err != nil {
		return fmt.Errorf("CloseHandle: %w", err)
	}
	p.Handle = 0
	return nil
}

// Modules enumerates the modules the loader has registered for the
// process. A module mapped by hand will not appear here; that is what
// FindImageBase is for.
func (p *Process) Modules() ([]Module, error) {
	lp, err := p.MaybeReopen(windows.PROCESS_QUERY_INFORMATION | windows.PROCESS_VM_READ)
	if err != nil {
		return nil, err
	}
	if lp != p {
		defer lp.Close()
	}

	var needed uint32
	err = windows.EnumProcessModulesEx(lp.Handle, nil, 0, &needed, windows.LIST_MODULES_ALL)
	if err != nil {
		if errno, ok := err.(syscall.Errno); ok {
			if errno == windows.ERROR_PARTIAL_COPY && needed == 0 {
				// not yet initialized, or created suspended
				return nil, nil
			}
		}
		return nil, fmt.Errorf("EnumProcessModulesEx: %w", err)
	}

	numModules := int(needed) / int(unsafe.Sizeof(windows.Handle(0)))
	hModules := make([]windows.Handle, numModules)
	err = windows.EnumProcessModulesEx(lp.Handle, &hModules[0], needed, &needed, windows.LIST_MODULES_ALL)
	if err != nil {
		return nil, fmt.Errorf("EnumProcessModulesEx: %w", err)
	}

	var modules []Module
	for i := 0; i < numModules; i++ {
		var modName [windows.MAX_PATH]uint16
		windows.GetModuleBaseName(lp.Handle, hModules[i], &modName[0], windows.MAX_PATH)

		var modInfo windows.ModuleInfo
		err = windows.GetModuleInformation(lp.Handle, hModules[i], &modInfo, uint32(unsafe.Sizeof(modInfo)))
		if err != nil {
			continue
		}

		modules = append(modules, Module{
			BaseOfDll:   modInfo.BaseOfDll,
			SizeOfImage: modInfo.SizeOfImage,
			EntryPoint:  modInfo.EntryPoint,
			Name:        windows.UTF16PtrToString(&modName[0]),
		})
	}

	return modules, nil
}

// QueryRegion implements VirtualMemory.
func (p *Process) QueryRegion(ea uintptr) (RegionInfo, error) {
	var ri RegionInfo
	ret, _, err := procVirtualQueryEx.Call(
		uintptr(p.Handle),
		ea,
		uintptr(unsafe.Pointer(&ri)),
		unsafe.Sizeof(ri),
	)
	if ret != unsafe.Sizeof(ri) {
		return RegionInfo{}, os.NewSyscallError("VirtualQueryEx", err)
	}
	return ri, nil
}

// MappedFilename implements VirtualMemory: the native path of the file
// backing ea ("\Device\HarddiskVolume3\Windows\System32\ntdll.dll"), or
// an error for addresses not backed by a file.
func (p *Process) MappedFilename(ea uintptr) (string, error) {
	var info mappedFilenameInfo
	err := ntQueryVirtualMemory(
		p.Handle,
		ea,
		memoryMappedFilenameInformation,
		unsafe.Pointer(&info),
		unsafe.Sizeof(info),
	)
	if err != nil {
		return "", err
	}
	if info.Name.Buffer == nil || info.Name.Length == 0 {
		return "", nil
	}
	return windows.UTF16ToString(unsafe.Slice(info.Name.Buffer, info.Name.Length/2)), nil
}

// ReadMemory implements VirtualMemory.
func (p *Process) ReadMemory(ea uintptr, size uintptr) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	buffer := make([]byte, size)
	var bytesRead uintptr
	err := windows.ReadProcessMemory(p.Handle, ea, &buffer[0], size, &bytesRead)
	if err != nil {
		return nil, os.NewSyscallError("ReadProcessMemory", err)
	}
	return buffer[:bytesRead], nil
}

// WriteMemory implements VirtualMemory. The destination must already be
// writable; WriteProtected handles protection for you.
func (p *Process) WriteMemory(ea uintptr, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	var bytesWritten uintptr
	err := windows.WriteProcessMemory(p.Handle, ea, &data[0], uintptr(len(data)), &bytesWritten)
	if err != nil {
		return os.NewSyscallError("WriteProcessMemory", err)
	}
	if bytesWritten != uintptr(len(data)) {
		return fmt.Errorf("WriteProcessMemory: short write, %d of %d bytes", bytesWritten, len(data))
	}
	return nil
}

// Protect implements VirtualMemory. The kernel rounds the range to page
// boundaries itself.
func (p *Process) Protect(ea uintptr, size uintptr, protect uint32) (uint32, error) {
	var oldProtect uint32
	err := windows.VirtualProtectEx(p.Handle, ea, size, protect, &oldProtect)
	if err != nil {
		return 0, os.NewSyscallError("VirtualProtectEx", err)
	}
	return oldProtect, nil
}

// Wow64Flag implements VirtualMemory: the 32-bit PEB address of a WoW64
// process, zero for a native one.
func (p *Process) Wow64Flag() (uintptr, error) {
	var peb32 uintptr
	err := ntQueryInformationProcess(
		p.Handle,
		processWow64Information,
		unsafe.Pointer(&peb32),
		unsafe.Sizeof(peb32),
	)
	if err != nil {
		return 0, err
	}
	return peb32, nil
}
