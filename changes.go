package datafile

// ChangeKind distinguishes the two change logs a document keeps.
type ChangeKind string

const (
	// ChangeSet marks paths written by Set or Merge.
	ChangeSet ChangeKind = "set"
	// ChangeDeleted marks paths removed by Delete.
	ChangeDeleted ChangeKind = "deleted"
)

// ChangeFilter selects which tracked paths a ModifiedKeys query returns.
type ChangeFilter func(path Path, kind ChangeKind) bool

// Changes holds the tracked path display strings, in first-insertion order.
// A path that was set and later deleted in the same session appears in both
// lists; the logs are append-only history, not a live diff.
type Changes struct {
	Set     []string
	Deleted []string
}

// changeLog is an insertion-ordered, de-duplicating set of path display
// strings. Re-adding a present path keeps its original position.
type changeLog struct {
	order []string
	seen  map[string]struct{}
}

func (l *changeLog) add(path string) {
	if l.seen == nil {
		l.seen = make(map[string]struct{})
	}
	if _, ok := l.seen[path]; ok {
		return
	}
	l.seen[path] = struct{}{}
	l.order = append(l.order, path)
}

// entries returns a filtered copy of the log in insertion order. Paths are
// re-parsed from their display form for the filter; the root sentinel maps
// back to the empty path.
func (l *changeLog) entries(kind ChangeKind, filter ChangeFilter) []string {
	out := make([]string, 0, len(l.order))
	for _, display := range l.order {
		if filter != nil && !filter(displayToPath(display), kind) {
			continue
		}
		out = append(out, display)
	}
	return out
}

func (l *changeLog) reset() {
	l.order = nil
	l.seen = nil
}

// displayToPath inverts Path.String for filter callbacks.
func displayToPath(display string) Path {
	if display == rootDisplay {
		return nil
	}
	return ParsePath(display)
}
