package domain

import (
	"bytes"
	"encoding/json"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// Tree is a JSON-shaped document as stored in the remote registry.
type Tree = map[string]any

// ArtifactValue is the desired remote content of one artifact.
// It is implemented by WidgetValue and ModuleValue only.
type ArtifactValue interface {
	// Kind returns the artifact kind the value belongs to.
	Kind() ArtifactKind
	// Tree returns the artifact subtree as it is stored remotely.
	Tree() Tree

	isArtifactValue()
}

// WidgetValue is the content of a widget: its source and optional metadata.
type WidgetValue struct {
	Code     string
	Metadata Tree
}

// Kind implements ArtifactValue.
func (WidgetValue) Kind() ArtifactKind { return KindWidget }

// Tree implements ArtifactValue.
func (v WidgetValue) Tree() Tree {
	t := Tree{"": v.Code}
	if v.Metadata != nil {
		t["metadata"] = v.Metadata
	}
	return t
}

func (WidgetValue) isArtifactValue() {}

// ModuleValue is the content of an indexer script.
type ModuleValue struct {
	Code string
}

// Kind implements ArtifactValue.
func (ModuleValue) Kind() ArtifactKind { return KindModule }

// Tree implements ArtifactValue.
func (v ModuleValue) Tree() Tree {
	return Tree{"": v.Code}
}

func (ModuleValue) isArtifactValue() {}

// NewArtifactValue converts a draft into the artifact value of the given kind.
func NewArtifactValue(kind ArtifactKind, d DraftValue) (ArtifactValue, error) {
	switch kind {
	case KindWidget:
		return WidgetValue{Code: d.Code, Metadata: d.Metadata}, nil
	case KindModule:
		return ModuleValue{Code: d.Code}, nil
	default:
		return nil, zerr.With(ErrUnknownKind, "kind", string(kind))
	}
}

// CanonicalJSON encodes v deterministically; object keys are sorted.
func CanonicalJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, zerr.Wrap(err, ErrStoreMarshalFailed.Error())
	}
	return data, nil
}

// ByteSize returns the number of bytes v occupies once serialized.
func ByteSize(v any) (int64, error) {
	data, err := CanonicalJSON(v)
	if err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

// Fingerprint returns a stable hash of the canonical serialization of v.
func Fingerprint(v any) (uint64, error) {
	data, err := CanonicalJSON(v)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}

// Diff returns the part of desired that differs from current, or nil when
// nothing differs. Keys present only in current are left untouched; an
// explicit nil in desired deletes the remote value.
func Diff(current, desired Tree) Tree {
	out := Tree{}
	for key, want := range desired {
		have, ok := current[key]

		wantTree, wantIsTree := want.(map[string]any)
		haveTree, haveIsTree := have.(map[string]any)

		switch {
		case wantIsTree && haveIsTree:
			if sub := Diff(haveTree, wantTree); sub != nil {
				out[key] = sub
			}
		case !ok && want == nil:
		case !ok && wantIsTree && len(wantTree) == 0:
		case ok && leafEqual(have, want):
		default:
			out[key] = want
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// leafEqual compares two values by their canonical serialization so that
// decoded numbers compare equal to their Go counterparts.
func leafEqual(a, b any) bool {
	ab, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}
