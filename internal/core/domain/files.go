package domain

import "slices"

// OpenFileSet is the ordered set of open files plus the last active file.
// Every method returns a new set; the receiver is never modified.
type OpenFileSet struct {
	Files      []LogicalPath `json:"files"`
	LastActive *LogicalPath  `json:"lastPath,omitempty"`
}

// Clone returns a deep copy of the set.
func (s OpenFileSet) Clone() OpenFileSet {
	out := OpenFileSet{Files: slices.Clone(s.Files)}
	if s.LastActive != nil {
		last := *s.LastActive
		out.LastActive = &last
	}
	if out.Files == nil {
		out.Files = []LogicalPath{}
	}
	return out
}

// Index returns the position of the file with the same identity as p, or -1.
func (s OpenFileSet) Index(p LogicalPath) int {
	return slices.IndexFunc(s.Files, p.Same)
}

// Contains reports whether a file with the same identity as p is open.
func (s OpenFileSet) Contains(p LogicalPath) bool {
	return s.Index(p) >= 0
}

// Find returns the open file with the given kind and name.
func (s OpenFileSet) Find(kind ArtifactKind, name string) (LogicalPath, bool) {
	i := s.Index(NewPath(kind, name))
	if i < 0 {
		return LogicalPath{}, false
	}
	return s.Files[i], true
}

// FindByName returns the first open file with the given name regardless of kind.
func (s OpenFileSet) FindByName(name string) (LogicalPath, bool) {
	i := slices.IndexFunc(s.Files, func(f LogicalPath) bool { return f.Name == name })
	if i < 0 {
		return LogicalPath{}, false
	}
	return s.Files[i], true
}

// WithFile appends p unless an entry with the same identity already exists,
// and points LastActive at p.
func (s OpenFileSet) WithFile(p LogicalPath) OpenFileSet {
	out := s.Clone()
	if !out.Contains(p) {
		out.Files = append(out.Files, p)
	}
	out.LastActive = &p
	return out
}

// WithoutFile removes the entry with the same identity as p.
// LastActive is cleared when it pointed at the removed file.
func (s OpenFileSet) WithoutFile(p LogicalPath) OpenFileSet {
	out := s.Clone()
	out.Files = slices.DeleteFunc(out.Files, p.Same)
	if out.LastActive != nil && out.LastActive.Same(p) {
		out.LastActive = nil
	}
	return out
}

// Renamed replaces old with a named path carrying newName, keeping its position.
// A different open file already holding the new name is evicted first.
// It reports false when old is not open. Renaming a file to its own name is a no-op.
func (s OpenFileSet) Renamed(old LogicalPath, newName string) (OpenFileSet, LogicalPath, bool) {
	newPath := LogicalPath{Kind: old.Kind, Name: newName}
	if !s.Contains(old) {
		return s.Clone(), newPath, false
	}
	if newPath.Same(old) {
		return s.Clone(), s.Files[s.Index(old)], true
	}

	out := s.Clone()
	out.Files = slices.DeleteFunc(out.Files, newPath.Same)
	out.Files[out.Index(old)] = newPath
	out.LastActive = &newPath
	return out, newPath, true
}

// UnusedName returns Draft-<n> for the smallest n not already open for kind.
func (s OpenFileSet) UnusedName(kind ArtifactKind) LogicalPath {
	// The set is finite, so at most len(s.Files)+1 candidates are examined.
	for n := 0; ; n++ {
		p := DraftPath(kind, n)
		if !s.Contains(p) {
			return p
		}
	}
}

// Neighbour returns the file to activate after p is closed: the previous
// entry if there is one, otherwise the next.
func (s OpenFileSet) Neighbour(p LogicalPath) (LogicalPath, bool) {
	i := s.Index(p)
	if i < 0 {
		return LogicalPath{}, false
	}
	if i > 0 {
		return s.Files[i-1], true
	}
	if i+1 < len(s.Files) {
		return s.Files[i+1], true
	}
	return LogicalPath{}, false
}
