package directory

import (
	"fmt"
	"strings"
)

// ConflictResolution is the naming-conflict policy passed to every
// create/move/copy operation (spec §4.3, "Conflict resolution policy").
type ConflictResolution int

// The four conflict resolution policies. KeepBoth is the spec's default.
const (
	Replace ConflictResolution = iota
	KeepOriginal
	KeepNewer
	KeepBoth
)

// Resolve applies a ConflictResolution policy to a candidate folder or
// file name under a parent. exists reports whether a sibling with the
// given name is already present. For KeepBoth, suffixes " (2)", " (3)", …
// are tried, inserted before the extension for files (spec §4.3).
//
// Returns the name to use and ok=true, or ok=false when KEEP_ORIGINAL hits
// a collision (caller keeps the original name/path untouched, per spec).
func Resolve(policy ConflictResolution, candidate string, isFile bool, exists func(name string) bool) (string, bool) {
	if !exists(candidate) {
		return candidate, true
	}

	switch policy {
	case Replace, KeepNewer:
		return candidate, true
	case KeepOriginal:
		return "", false
	default: // KeepBoth
		base, ext := splitExt(candidate, isFile)

		for n := 2; ; n++ {
			attempt := fmt.Sprintf("%s (%d)%s", base, n, ext)
			if !exists(attempt) {
				return attempt, true
			}
		}
	}
}

// splitExt splits a file name into base and extension (including the
// dot); folder names are never split.
func splitExt(name string, isFile bool) (base, ext string) {
	if !isFile {
		return name, ""
	}

	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return name, ""
	}

	return name[:idx], name[idx:]
}
