// Package expansion holds the set of expanded row ids for one explorer
// session.
package expansion

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/flavono123/peek/internal/flatten"
)

type Policy int

const (
	// Collapsed expands only the root.
	Collapsed Policy = iota
	// ExpandFirstLevel expands the root and each of its direct children.
	ExpandFirstLevel
	// ExpandAll expands every reachable node, bounded like Flatten.
	ExpandAll
)

func (p Policy) String() string {
	switch p {
	case ExpandFirstLevel:
		return "first-level"
	case ExpandAll:
		return "all"
	default:
		return "collapsed"
	}
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "collapsed", "collapse":
		return Collapsed, nil
	case "first-level", "first", "expand-first-level":
		return ExpandFirstLevel, nil
	case "all", "expand-all":
		return ExpandAll, nil
	}
	return Collapsed, fmt.Errorf("unknown expansion policy %q", s)
}

// Initial returns the ids expanded by policy for root.
func Initial(root any, policy Policy, opts flatten.Options) []string {
	rootID := flatten.RootID(opts.RootKey)
	switch policy {
	case ExpandFirstLevel:
		return append([]string{rootID}, flatten.Children(root, opts)...)
	case ExpandAll:
		return flatten.ExpandableIDs(root, opts)
	default:
		return []string{rootID}
	}
}

// Store is a set of expanded ids. It is safe for concurrent use.
type Store struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

func New(ids ...string) *Store {
	s := &Store{}
	s.Reset(ids...)
	return s
}

func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// Toggle flips membership of id and reports whether it is now expanded.
// Unknown ids are simply added.
func (s *Store) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *Store) Set(id string, expanded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if expanded {
		s.ids[id] = struct{}{}
	} else {
		delete(s.ids, id)
	}
}

// Reset drops every id and seeds the store with ids. Call it when the
// root value changes so stale ids do not accumulate.
func (s *Store) Reset(ids ...string) {
	fresh := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		fresh[id] = struct{}{}
	}
	s.mu.Lock()
	s.ids = fresh
	s.mu.Unlock()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// IDs returns a sorted snapshot of the expanded ids.
func (s *Store) IDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)
	return ids
}
