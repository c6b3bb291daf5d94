package vars

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/randalmurphal/strtmpl/pkg/strtmpl"
)

// Set is a thread-safe map of variable names to values.
// It uses sync.RWMutex since substitution is read-heavy.
type Set struct {
	mu      sync.RWMutex
	entries map[string]string
}

// New creates an empty Set.
func New() *Set {
	return &Set{entries: make(map[string]string)}
}

// FromMap creates a Set holding a copy of m.
func FromMap(m map[string]string) *Set {
	s := New()
	s.PutMany(m)
	return s
}

// Put adds or replaces a variable.
func (s *Set) Put(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[name] = value
}

// PutMany adds or replaces several variables at once.
func (s *Set) PutMany(m map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range m {
		s.entries[k] = v
	}
}

// PutAssignment parses "name=value" and stores it.
// The value may be empty and may itself contain '='.
func (s *Set) PutAssignment(assignment string) error {
	name, value, ok := strings.Cut(assignment, "=")
	if !ok || name == "" {
		return fmt.Errorf("invalid assignment %q: want name=value", assignment)
	}
	s.Put(name, value)
	return nil
}

// Get returns the value of name and whether it exists.
func (s *Set) Get(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[name]
	return v, ok
}

// Has reports whether name is set.
func (s *Set) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Delete removes name. Deleting a missing name is a no-op.
func (s *Set) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, name)
}

// Names returns all variable names, sorted.
func (s *Set) Names() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.entries))
	for k := range s.entries {
		names = append(names, k)
	}
	s.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Len returns the number of variables.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Snapshot returns a copy of the current variables.
func (s *Set) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// Range calls fn for each variable in name order until fn returns false.
//
// Range works on a snapshot, so fn may call Put or Delete.
func (s *Set) Range(fn func(name, value string) bool) {
	snapshot := s.Snapshot()
	names := make([]string, 0, len(snapshot))
	for k := range snapshot {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		if !fn(name, snapshot[name]) {
			return
		}
	}
}

// Resolver returns a strtmpl.Resolver reading live values from s.
func (s *Set) Resolver() strtmpl.Resolver {
	return s.Get
}
