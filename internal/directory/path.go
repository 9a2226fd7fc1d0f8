package directory

import "strings"

// SplitDiskPath splits "<disk>::<path>" into its disk and path halves. If
// no "::" separator is present, disk is empty and rest is the whole input.
func SplitDiskPath(full string) (disk, rest string) {
	idx := strings.Index(full, "::")
	if idx < 0 {
		return "", full
	}

	return full[:idx], full[idx+2:]
}

// sanitizeSegment applies spec §4.3's path-sanitisation rule to the path
// half of a "<disk>::<path>" string: replace ':' with ';', collapse
// repeated '/' into one, and trim a trailing '/'.
func sanitizeSegment(raw string) string {
	s := strings.ReplaceAll(raw, ":", ";")

	for strings.Contains(s, "//") {
		s = strings.ReplaceAll(s, "//", "/")
	}

	return strings.TrimSuffix(s, "/")
}

// SanitizeFullPath implements spec §4.3's "Path sanitisation": split
// disk::path, sanitize the path half, and re-join with "::". The result
// never carries a trailing slash; callers re-add one for folder paths.
func SanitizeFullPath(full string) string {
	disk, rest := SplitDiskPath(full)

	return disk + "::" + sanitizeSegment(rest)
}

// RootPath returns the canonical root folder path for a disk (spec §3,
// "Root folder of a disk has the path <disk>::/").
func RootPath(disk string) string {
	return disk + "::/"
}

// TrashRootPath returns the canonical .trash folder path for a disk.
func TrashRootPath(disk string) string {
	return RootPath(disk) + TrashSubfolderName + "/"
}

// JoinFolderChild builds a child folder path from a parent folder path
// (which must already end in "/") and the child's name, per spec §3's
// path invariant `s.path == F.path + s.name + "/"`.
func JoinFolderChild(parentPath, name string) string {
	return parentPath + name + "/"
}

// JoinFileChild builds a file path from a parent folder path and the
// file's name; file paths never carry a trailing slash (spec §3).
func JoinFileChild(parentPath, name string) string {
	return parentPath + name
}

// Segments splits a sanitized disk path into (disk, []pathSegments),
// discarding empty segments produced by a leading/trailing slash. Used by
// ensure_folder_structure to walk every path component.
func Segments(full string) (disk string, segments []string) {
	diskID, rest := SplitDiskPath(SanitizeFullPath(full))
	rest = strings.Trim(rest, "/")

	if rest == "" {
		return diskID, nil
	}

	return diskID, strings.Split(rest, "/")
}

// ParentPathOf returns the folder path one level above path (path must be
// a well-formed "<disk>::/a/b/" folder path), and whether path has a
// parent at all (false only for a disk root).
func ParentPathOf(path string) (parent string, ok bool) {
	disk, segments := Segments(path)
	if len(segments) == 0 {
		return "", false
	}

	parentSegments := segments[:len(segments)-1]
	parent = RootPath(disk)

	for _, s := range parentSegments {
		parent = JoinFolderChild(parent, s)
	}

	return parent, true
}

// NameOf returns the final path segment (folder or file name) of a
// sanitized path.
func NameOf(path string) string {
	_, segments := Segments(path)
	if len(segments) == 0 {
		return ""
	}

	return segments[len(segments)-1]
}

// IsFolderPath reports whether a raw path looks like a folder reference
// (ends with "/"), used by the action pipeline's path-target translation
// (spec §4.6: "path translation fails if the path ends with / for files
// or vice-versa").
func IsFolderPath(rawPath string) bool {
	_, rest := SplitDiskPath(rawPath)

	return strings.HasSuffix(rest, "/") || rest == ""
}
