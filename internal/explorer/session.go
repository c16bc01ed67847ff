// Package explorer ties a root value, its expansion state and the
// flattener into one session. Every state change bumps a generation; a
// flatten pass started under an older generation is cancelled and its
// rows are never committed.
package explorer

import (
	"context"
	"errors"
	"sync"

	"github.com/flavono123/peek/internal/expansion"
	"github.com/flavono123/peek/internal/flatten"
)

var ErrSuperseded = errors.New("flatten pass superseded by a newer state")

type Options struct {
	Flatten flatten.Options
	Policy  expansion.Policy
}

func DefaultOptions() Options {
	return Options{
		Flatten: flatten.DefaultOptions(),
		Policy:  expansion.ExpandFirstLevel,
	}
}

type Session struct {
	mu     sync.Mutex
	root   any
	opts   Options
	store  *expansion.Store
	gen    uint64
	cancel context.CancelCauseFunc

	rows []flatten.Row
}

func NewSession(root any, opts Options) *Session {
	s := &Session{
		opts:  opts,
		store: expansion.New(),
	}
	s.SetRoot(root)
	return s
}

// SetRoot replaces the inspected value and re-seeds the expansion store
// from the policy, dropping ids of the previous root.
func (s *Session) SetRoot(root any) uint64 {
	ids := expansion.Initial(root, s.opts.Policy, s.opts.Flatten)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = root
	s.store.Reset(ids...)
	return s.bump()
}

func (s *Session) Root() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// Toggle flips the expansion of id. Ids that match no row are harmless.
func (s *Session) Toggle(id string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Toggle(id)
	return s.bump()
}

func (s *Session) IsExpanded(id string) bool {
	return s.store.Contains(id)
}

func (s *Session) ExpandAll() uint64 {
	return s.reseed(expansion.ExpandAll)
}

func (s *Session) CollapseAll() uint64 {
	return s.reseed(expansion.Collapsed)
}

func (s *Session) reseed(policy expansion.Policy) uint64 {
	root := s.Root()
	ids := expansion.Initial(root, policy, s.opts.Flatten)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.root != root {
		// SetRoot won the race; its seeding stands.
		return s.gen
	}
	s.store.Reset(ids...)
	return s.bump()
}

// Snapshot returns the expanded ids, sorted.
func (s *Session) Snapshot() []string {
	return s.store.IDs()
}

// Restore replaces the expanded ids, e.g. from a persisted session.
func (s *Session) Restore(ids []string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Reset(ids...)
	return s.bump()
}

func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Rows returns the rows of the last committed pass.
func (s *Session) Rows() []flatten.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows
}

// bump must be called with mu held.
func (s *Session) bump() uint64 {
	s.gen++
	if s.cancel != nil {
		s.cancel(ErrSuperseded)
		s.cancel = nil
	}
	return s.gen
}
