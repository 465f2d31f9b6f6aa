package datafile

import "strings"

// rootDisplay is the rendering of the empty path in change tracking and log
// messages.
const rootDisplay = "[ROOT]"

// Path addresses a location in a nested data tree as a sequence of keys.
// Each segment indexes an object by key or an array by decimal index. The
// empty (nil) path denotes the document root.
//
// Paths may be written literally:
//
//	datafile.Path{"scripts", "build"}
//
// or parsed from dotted form:
//
//	datafile.ParsePath("scripts.build")
type Path []string

// ParsePath splits a dotted string path into segments. Note that the empty
// string parses to a single empty-string key, not the root path; use Root or
// a nil Path for the document root.
func ParsePath(s string) Path {
	return strings.Split(s, ".")
}

// Root returns the path of the document root.
func Root() Path { return nil }

// IsRoot reports whether the path addresses the document root.
func (p Path) IsRoot() bool { return len(p) == 0 }

// Key returns the terminal segment, or the empty string for the root path.
func (p Path) Key() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Parent returns the path with the terminal segment removed. The parent of
// the root is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// Child returns a new path extended by the given segments.
func (p Path) Child(segments ...string) Path {
	out := make(Path, 0, len(p)+len(segments))
	out = append(out, p...)
	return append(out, segments...)
}

// String renders the path in dotted form; the root path renders as "[ROOT]".
func (p Path) String() string {
	if len(p) == 0 {
		return rootDisplay
	}
	return strings.Join(p, ".")
}
