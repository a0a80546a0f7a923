// Package kexrt implements low-level primitives for introspecting and
// patching the memory of a running Windows process when the loader cannot
// be relied upon: detecting the word width of any process, finding the
// base of the native ntdll even from a WoW64 process, resolving exported
// procedures by walking the export directory of a mapped image by hand,
// and writing into protected memory of another process.
//
// All operations are synchronous and keep no state between calls; callers
// that patch overlapping ranges from several goroutines must serialize
// those calls themselves.
package kexrt

const Version = "1.0"

// Verbosity controls debug output. 0 is silent, higher values print
// progressively more "[d]" lines to stdout.
var Verbosity = 0
