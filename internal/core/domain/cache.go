package domain

import (
	"encoding/json"
	"time"
)

// CacheDomain namespaces the draft store so unrelated data cannot collide on key reuse.
type CacheDomain string

const (
	// DomainCode holds widget code drafts.
	DomainCode CacheDomain = "editor-code"
	// DomainIndexerCode holds indexer script drafts.
	DomainIndexerCode CacheDomain = "editor-indexer-code"
	// DomainFiles holds the open-file set.
	DomainFiles CacheDomain = "editor-files"
	// DomainPermissions holds remembered write permissions.
	DomainPermissions CacheDomain = "commit-permissions"
)

// Descriptor types.
const (
	DescriptorCode        = "code"
	DescriptorIndexerCode = "indexerCode"
	DescriptorFiles       = "files"
	DescriptorPermissions = "permissions"
)

// CodeDomain returns the cache domain holding drafts of the given kind.
func CodeDomain(kind ArtifactKind) CacheDomain {
	if kind == KindModule {
		return DomainIndexerCode
	}
	return DomainCode
}

// Descriptor is the structurally comparable key of a cache entry within a domain.
type Descriptor struct {
	Type string       `json:"type"`
	Path *LogicalPath `json:"path,omitempty"`
}

// CodeDescriptor returns the descriptor of the code draft for path.
func CodeDescriptor(path LogicalPath) Descriptor {
	t := DescriptorCode
	if path.Kind == KindModule {
		t = DescriptorIndexerCode
	}
	// Drafts are keyed by identity so the unnamed flag never splits a draft in two.
	p := LogicalPath{Kind: path.Kind, Name: path.Name}
	return Descriptor{Type: t, Path: &p}
}

// FilesDescriptor returns the single descriptor of the open-file set.
func FilesDescriptor() Descriptor {
	return Descriptor{Type: DescriptorFiles}
}

// PermissionsDescriptor returns the single descriptor of the write permission list.
func PermissionsDescriptor() Descriptor {
	return Descriptor{Type: DescriptorPermissions}
}

// Key returns the deterministic serialization of the descriptor.
func (d Descriptor) Key() string {
	if d.Path == nil {
		return d.Type
	}
	return d.Type + ":" + d.Path.Identity()
}

// DescriptorMatcher selects descriptors, e.g. for invalidation.
type DescriptorMatcher func(Descriptor) bool

// MatchPath selects descriptors pointing at the given kind and name.
func MatchPath(kind ArtifactKind, name string) DescriptorMatcher {
	return func(d Descriptor) bool {
		return d.Path != nil && d.Path.Kind == kind && d.Path.Name == name
	}
}

// CacheEntry is a timestamped value stored under (domain, descriptor).
type CacheEntry struct {
	Domain     CacheDomain     `json:"domain"`
	Descriptor Descriptor      `json:"descriptor"`
	Value      json.RawMessage `json:"value"`
	StoredAt   time.Time       `json:"stored_at,omitzero"`
}

// DraftValue is the locally held content of an artifact.
type DraftValue struct {
	Code     string `json:"code"`
	Metadata Tree   `json:"metadata,omitempty"`
}

// DefaultWidgetCode is the initial code of a new widget draft.
const DefaultWidgetCode = "return <div>Hello World</div>;"

// DefaultDraft returns the initial content of a new draft of the given kind.
func DefaultDraft(kind ArtifactKind) DraftValue {
	if kind == KindWidget {
		return DraftValue{Code: DefaultWidgetCode}
	}
	return DraftValue{}
}

// DraftFromTree extracts a draft from a remote artifact subtree.
func DraftFromTree(t Tree) DraftValue {
	var d DraftValue
	if code, ok := t[""].(string); ok {
		d.Code = code
	}
	if meta, ok := t["metadata"].(map[string]any); ok {
		d.Metadata = meta
	}
	return d
}
