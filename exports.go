package kexrt

import (
	"encoding/binary"
	"fmt"
)

// Export directory layout facts. Offsets are within the structures of a
// mapped PE image; all arithmetic is RVA + image base.
const (
	dosMagicOffset    = 0x00
	dosLfanewOffset   = 0x3C
	peSignature       = 0x00004550 // "PE\0\0"
	coffHeaderSize    = 20
	optMagicPE32      = 0x10b
	optMagicPE32Plus  = 0x20b
	ddOffsetPE32      = 96
	ddOffsetPE32Plus  = 112
	rvaCountPE32      = 92
	rvaCountPE32Plus  = 108
	exportDirSize     = 40
	exportNumFuncsOff = 20
	exportNumNamesOff = 24
	exportFuncsOff    = 28
	exportNamesOff    = 32
	exportOrdinalsOff = 36
)

type exportDirectory struct {
	numberOfFunctions uint32
	numberOfNames     uint32
	functions         uint32 // RVA of the address table
	names             uint32 // RVA of the name-pointer table
	ordinals          uint32 // RVA of the ordinal table
}

// imageReader reads pieces of a mapped image through a VirtualMemory
// capability, addressing them by RVA. Every access is an explicit sized
// read; nothing is dereferenced directly.
type imageReader struct {
	mem  VirtualMemory
	base uintptr
}

func (r imageReader) bytes(rva uint32, size uintptr) ([]byte, error) {
	buf, err := r.mem.ReadMemory(r.base+uintptr(rva), size)
	if err != nil {
		return nil, err
	}
	if uintptr(len(buf)) < size {
		return nil, fmt.Errorf("%w: truncated read at rva %#x", ErrInvalidImageFormat, rva)
	}
	return buf, nil
}

func (r imageReader) u16(rva uint32) (uint16, error) {
	buf, err := r.bytes(rva, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf), nil
}

func (r imageReader) u32(rva uint32) (uint32, error) {
	buf, err := r.bytes(rva, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// exportDirectory locates the export directory through the image's data
// directory table. A missing or empty directory means the image cannot be
// resolved against, not that the call was wrong: ErrInvalidImageFormat.
func (r imageReader) exportDirectory() (exportDirectory, error) {
	var dir exportDirectory

	dos, err := r.bytes(dosMagicOffset, 0x40)
	if err != nil {
		return dir, err
	}
	if dos[0] != 'M' || dos[1] != 'Z' {
		return dir, fmt.Errorf("%w: no DOS signature", ErrInvalidImageFormat)
	}
	lfanew := binary.LittleEndian.Uint32(dos[dosLfanewOffset:])

	sig, err := r.u32(lfanew)
	if err != nil {
		return dir, err
	}
	if sig != peSignature {
		return dir, fmt.Errorf("%w: no PE signature", ErrInvalidImageFormat)
	}

	optStart := lfanew + 4 + coffHeaderSize
	magic, err := r.u16(optStart)
	if err != nil {
		return dir, err
	}

	var ddOffset, rvaCountOff uint32
	switch magic {
	case optMagicPE32:
		ddOffset, rvaCountOff = ddOffsetPE32, rvaCountPE32
	case optMagicPE32Plus:
		ddOffset, rvaCountOff = ddOffsetPE32Plus, rvaCountPE32Plus
	default:
		return dir, fmt.Errorf("%w: unknown optional header magic %#x", ErrInvalidImageFormat, magic)
	}

	rvaCount, err := r.u32(optStart + rvaCountOff)
	if err != nil {
		return dir, err
	}
	if rvaCount < 1 { // IMAGE_DIRECTORY_ENTRY_EXPORT is index 0
		return dir, fmt.Errorf("%w: no export data directory", ErrInvalidImageFormat)
	}

	dd, err := r.bytes(optStart+ddOffset, 8)
	if err != nil {
		return dir, err
	}
	exportRVA := binary.LittleEndian.Uint32(dd)
	exportSize := binary.LittleEndian.Uint32(dd[4:])
	if exportRVA == 0 || exportSize == 0 {
		return dir, fmt.Errorf("%w: empty export directory", ErrInvalidImageFormat)
	}

	raw, err := r.bytes(exportRVA, exportDirSize)
	if err != nil {
		return dir, err
	}
	dir.numberOfFunctions = binary.LittleEndian.Uint32(raw[exportNumFuncsOff:])
	dir.numberOfNames = binary.LittleEndian.Uint32(raw[exportNumNamesOff:])
	dir.functions = binary.LittleEndian.Uint32(raw[exportFuncsOff:])
	dir.names = binary.LittleEndian.Uint32(raw[exportNamesOff:])
	dir.ordinals = binary.LittleEndian.Uint32(raw[exportOrdinalsOff:])
	return dir, nil
}

// GetProcedureAddress resolves the absolute address of a named export of
// an image mapped at base, by walking the export directory without the
// loader. Works on images the loader has no record of, and on images of
// the other word width. The name match is exact and case-sensitive; the
// name table is scanned linearly, no sortedness assumed. The image is
// trusted to be fully mapped; offsets are not checked against its
// declared size.
func GetProcedureAddress(mem VirtualMemory, base uintptr, name string) (uintptr, error) {
	if mem == nil {
		return 0, fmt.Errorf("%w: nil memory", ErrInvalidArgument)
	}
	if base == 0 {
		return 0, fmt.Errorf("%w: zero image base", ErrInvalidArgument)
	}
	if name == "" {
		return 0, fmt.Errorf("%w: empty procedure name", ErrInvalidArgument)
	}

	r := imageReader{mem: mem, base: base}

	dir, err := r.exportDirectory()
	if err != nil {
		return 0, err
	}

	names, err := r.bytes(dir.names, uintptr(dir.numberOfNames)*4)
	if err != nil {
		return 0, err
	}
	ordinals, err := r.bytes(dir.ordinals, uintptr(dir.numberOfNames)*2)
	if err != nil {
		return 0, err
	}

	want := append([]byte(name), 0)

	for i := uint32(0); i < dir.numberOfNames; i++ {
		nameRVA := binary.LittleEndian.Uint32(names[i*4:])

		// An exact match is the name's bytes followed by NUL. The
		// fixed-size read can overshoot a shorter name sitting flush
		// against the end of the mapping; such a candidate cannot
		// match, so a failed read skips it rather than aborting.
		cand, err := r.mem.ReadMemory(base+uintptr(nameRVA), uintptr(len(want)))
		if err != nil {
			continue
		}
		if len(cand) < len(want) || string(cand) != string(want) {
			continue
		}

		ordinal := binary.LittleEndian.Uint16(ordinals[i*2:])
		if uint32(ordinal) >= dir.numberOfFunctions {
			return 0, fmt.Errorf("%w: ordinal %d out of range", ErrInvalidImageFormat, ordinal)
		}

		funcRVA, err := r.u32(dir.functions + uint32(ordinal)*4)
		if err != nil {
			return 0, err
		}
		return base + uintptr(funcRVA), nil
	}

	return 0, ErrEntrypointNotFound
}
