package domain

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// ArtifactKind identifies the kind of an editable artifact.
type ArtifactKind string

const (
	// KindWidget is a user-authored component.
	KindWidget ArtifactKind = "widget"
	// KindModule is a data-indexing script attached to a component.
	KindModule ArtifactKind = "module"
)

// draftPrefix is the name prefix of freshly generated drafts.
const draftPrefix = "Draft-"

// Kinds returns every known artifact kind.
func Kinds() []ArtifactKind {
	return []ArtifactKind{KindWidget, KindModule}
}

// Valid reports whether k is a known artifact kind.
func (k ArtifactKind) Valid() bool {
	switch k {
	case KindWidget, KindModule:
		return true
	default:
		return false
	}
}

// ParseKind converts a user supplied string into an ArtifactKind.
func ParseKind(s string) (ArtifactKind, error) {
	k := ArtifactKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", zerr.With(ErrUnknownKind, "kind", s)
	}
	return k, nil
}

// LogicalPath identifies an editable artifact in the open-file set.
type LogicalPath struct {
	Kind    ArtifactKind `json:"type"`
	Name    string       `json:"name"`
	Unnamed bool         `json:"unnamed,omitempty"`
}

// NewPath returns a named path for the given kind.
func NewPath(kind ArtifactKind, name string) LogicalPath {
	return LogicalPath{Kind: kind, Name: name}
}

// PathFromSource builds a path from a bare name or a full "account/kind/name" source.
// The account and kind segments of a full source are dropped.
func PathFromSource(kind ArtifactKind, nameOrSource string) LogicalPath {
	name := nameOrSource
	if strings.Contains(nameOrSource, "/") {
		parts := strings.Split(nameOrSource, "/")
		if len(parts) > 2 {
			name = strings.Join(parts[2:], "/")
		} else {
			name = parts[len(parts)-1]
		}
	}
	return LogicalPath{Kind: kind, Name: name}
}

// DraftPath returns the generated path Draft-<n> for the given kind.
func DraftPath(kind ArtifactKind, n int) LogicalPath {
	return LogicalPath{Kind: kind, Name: draftPrefix + strconv.Itoa(n), Unnamed: true}
}

// Identity returns the (kind, name) identity of the path.
// Two paths with the same identity refer to the same open file.
func (p LogicalPath) Identity() string {
	return string(p.Kind) + "/" + p.Name
}

// Same reports whether p and other share the same (kind, name) identity.
func (p LogicalPath) Same(other LogicalPath) bool {
	return p.Kind == other.Kind && p.Name == other.Name
}

// String returns the human-readable form of the path.
func (p LogicalPath) String() string {
	return p.Identity()
}

// Validate checks that the path has a known kind and a usable name.
func (p LogicalPath) Validate() error {
	if !p.Kind.Valid() {
		return zerr.With(ErrUnknownKind, "kind", string(p.Kind))
	}
	return ValidateName(p.Name)
}

// ValidateName checks that a draft name is not blank.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return zerr.With(ErrInvalidName, "name", name)
	}
	return nil
}
