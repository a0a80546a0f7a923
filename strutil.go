package kexrt

import (
	"os"
	"strings"
)

// PathBaseName returns the last element of a full Windows path:
//
//	C:\Windows\system32\notepad.exe -> notepad.exe
//	notepad.exe                     -> notepad.exe
//	dir1\dir2\notepad.exe           -> dir1\dir2\notepad.exe
//
// Only full paths (drive-letter or NT-style) are split; anything else
// comes back unchanged.
func PathBaseName(path string) string {
	if !isFullPath(path) {
		return path
	}
	i := strings.LastIndexByte(path, '\\')
	if i < 0 {
		return path
	}
	return path[i+1:]
}

func isFullPath(path string) bool {
	if strings.HasPrefix(path, `\`) {
		return true // NT or UNC style, \Device\... or \\server\...
	}
	return len(path) >= 3 && path[1] == ':' && path[2] == '\\'
}

// HasSuffixFold reports whether s ends with suffix, compared
// case-insensitively.
func HasSuffixFold(s, suffix string) bool {
	if len(suffix) > len(s) {
		return false
	}
	return strings.EqualFold(s[len(s)-len(suffix):], suffix)
}

// IndexFold returns the index of the first case-insensitive occurrence
// of needle in haystack, or -1. Plain character folding, no locale
// rules.
func IndexFold(haystack, needle string) int {
	if needle == "" || len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if strings.EqualFold(haystack[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}

// ProcessImageBaseName returns the file name of the current process'
// executable image.
func ProcessImageBaseName() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	name := PathBaseName(exe)
	// os.Executable resolves to a full path; keep just the last element
	// even on hosts that use forward slashes.
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return name, nil
}
