package kexrt

import "fmt"

// WriteProtected writes src into an arbitrary process at dest, flipping
// the destination's page protection to read/write for the duration and
// putting the previous protection back afterward. The destination is
// interpreted in the target's own address space; a 32-bit caller cannot
// reach above 4GB in a 64-bit target.
//
// The restore runs whether or not the write worked, and its own failure
// is deliberately not surfaced: the caller gets the write's outcome, not
// the cleanup's. The restore reuses the originally requested range, as
// the protect call did (see DESIGN.md).
//
// Concurrent writes to overlapping ranges race on the protect/write/
// restore sequence; serializing them is the caller's job.
func WriteProtected(mem VirtualMemory, dest uintptr, src []byte) error {
	if mem == nil {
		return fmt.Errorf("%w: nil memory", ErrInvalidArgument)
	}
	if dest == 0 {
		return fmt.Errorf("%w: zero destination", ErrInvalidArgument)
	}
	if len(src) == 0 {
		return fmt.Errorf("%w: empty source", ErrInvalidArgument)
	}

	oldProtect, err := mem.Protect(dest, uintptr(len(src)), PAGE_READWRITE)
	if err != nil {
		// Nothing was changed, nothing to restore.
		return err
	}

	werr := mem.WriteMemory(dest, src)

	// Best effort; must run on every path once the protect succeeded.
	mem.Protect(dest, uintptr(len(src)), oldProtect)

	return werr
}
