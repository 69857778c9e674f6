package commit

import (
	"slices"
	"strings"
	"sync"

	"go.trai.ch/scribe/internal/core/domain"
)

// PermissionSet remembers which source components may commit to which
// targets without asking. It is held in memory; the app persists it.
type PermissionSet struct {
	mu      sync.RWMutex
	allowed map[domain.WritePermission]struct{}
}

// NewPermissionSet creates an empty permission set.
func NewPermissionSet() *PermissionSet {
	return &PermissionSet{allowed: make(map[domain.WritePermission]struct{})}
}

// Allow records that source may write to target without confirmation.
func (p *PermissionSet) Allow(source, target string) {
	if source == "" || target == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.allowed[domain.WritePermission{Source: source, Target: target}] = struct{}{}
}

// Allowed reports whether source may write to target without confirmation.
func (p *PermissionSet) Allowed(source, target string) bool {
	if source == "" {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.allowed[domain.WritePermission{Source: source, Target: target}]
	return ok
}

// List returns every remembered permission, sorted.
func (p *PermissionSet) List() []domain.WritePermission {
	p.mu.RLock()
	out := make([]domain.WritePermission, 0, len(p.allowed))
	for perm := range p.allowed {
		out = append(out, perm)
	}
	p.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.WritePermission) int {
		if c := strings.Compare(a.Source, b.Source); c != 0 {
			return c
		}
		return strings.Compare(a.Target, b.Target)
	})
	return out
}
