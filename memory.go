package kexrt

// Memory state, type and protection constants, as reported by
// VirtualQueryEx. Defined locally so the portable logic does not depend
// on golang.org/x/sys/windows.
const (
	MEM_COMMIT  = 0x1000
	MEM_RESERVE = 0x2000
	MEM_FREE    = 0x10000

	MEM_PRIVATE = 0x20000
	MEM_MAPPED  = 0x40000
	MEM_IMAGE   = 0x1000000

	PAGE_NOACCESS          = 0x01
	PAGE_READONLY          = 0x02
	PAGE_READWRITE         = 0x04
	PAGE_WRITECOPY         = 0x08
	PAGE_EXECUTE           = 0x10
	PAGE_EXECUTE_READ      = 0x20
	PAGE_EXECUTE_READWRITE = 0x40
	PAGE_EXECUTE_WRITECOPY = 0x80
	PAGE_GUARD             = 0x100
)

// RegionInfo describes one region of a process' address space. The field
// layout matches MEMORY_BASIC_INFORMATION so it can be filled directly by
// VirtualQueryEx.
type RegionInfo struct {
	BaseAddress       uintptr
	AllocationBase    uintptr
	AllocationProtect uint32
	RegionSize        uintptr
	State             uint32
	Protect           uint32
	Type              uint32
}

func (r RegionInfo) IsImage() bool {
	return r.Type == MEM_IMAGE
}

func (r RegionInfo) IsMapped() bool {
	return r.Type == MEM_MAPPED
}

func (r RegionInfo) IsPrivate() bool {
	return r.Type == MEM_PRIVATE
}

func (r RegionInfo) IsCommitted() bool {
	return r.State == MEM_COMMIT
}

func (r RegionInfo) IsReadable() bool {
	if r.State != MEM_COMMIT {
		return false
	}

	if r.Protect&PAGE_GUARD != 0 {
		return false
	}

	const readable = PAGE_READONLY | PAGE_READWRITE | PAGE_WRITECOPY |
		PAGE_EXECUTE_READ | PAGE_EXECUTE_READWRITE | PAGE_EXECUTE_WRITECOPY
	return r.Protect&readable != 0
}

func (r RegionInfo) IsWritable() bool {
	if r.State != MEM_COMMIT {
		return false
	}

	if r.Protect&PAGE_GUARD != 0 {
		return false
	}

	const writable = PAGE_READWRITE | PAGE_EXECUTE_READWRITE | PAGE_EXECUTE_WRITECOPY
	return r.Protect&writable != 0
}

// VirtualMemory is the capability surface the resolver, locator and
// writer need from a process. *Process implements it for real processes;
// tests implement it with an in-memory fake.
type VirtualMemory interface {
	// QueryRegion returns metadata for the region containing ea.
	QueryRegion(ea uintptr) (RegionInfo, error)

	// MappedFilename returns the path of the file backing the memory at
	// ea, or an error if the address is not mapped to a file.
	MappedFilename(ea uintptr) (string, error)

	// ReadMemory reads size bytes starting at ea.
	ReadMemory(ea uintptr, size uintptr) ([]byte, error)

	// WriteMemory writes data at ea. Short writes are errors.
	WriteMemory(ea uintptr, data []byte) error

	// Protect sets the protection of [ea, ea+size) and returns the
	// previous protection.
	Protect(ea uintptr, size uintptr, protect uint32) (uint32, error)

	// Wow64Flag returns the process' WoW64 indicator: non-zero exactly
	// when a 32-bit process runs on a 64-bit system.
	Wow64Flag() (uintptr, error)
}

func prot2str(prot uint32) string {
	var s string

	if prot&PAGE_READONLY != 0 {
		s += "[r--]"
	}
	if prot&PAGE_READWRITE != 0 {
		s += "[rw-]"
	}
	if prot&PAGE_WRITECOPY != 0 {
		s += "[-w-][writecopy]"
	}
	if prot&PAGE_EXECUTE != 0 {
		s += "[--x]"
	}
	if prot&PAGE_EXECUTE_READ != 0 {
		s += "[r-x]"
	}
	if prot&PAGE_EXECUTE_READWRITE != 0 {
		s += "[rwx]"
	}
	if prot&PAGE_EXECUTE_WRITECOPY != 0 {
		s += "[rwx][writecopy]"
	}

	if prot&PAGE_GUARD != 0 {
		s += "[guard]"
	}

	if s == "" {
		s = "[   ]"
	}
	return s
}
