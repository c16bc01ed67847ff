package explorer

import (
	"context"
	"errors"

	"github.com/flavono123/peek/internal/flatten"
)

// Pass is one flattening run captured at a generation.
type Pass struct {
	Generation uint64

	ctx      context.Context
	root     any
	expanded flatten.Expanded
	opts     flatten.Options
}

// Start captures the current state for a pass. Starting a pass cancels
// the one in flight.
func (s *Session) Start(parent context.Context) Pass {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel(ErrSuperseded)
	}
	ctx, cancel := context.WithCancelCause(parent)
	s.cancel = cancel
	return Pass{
		Generation: s.gen,
		ctx:        ctx,
		root:       s.root,
		expanded:   s.store,
		opts:       s.opts.Flatten,
	}
}

// Run flattens outside the session lock. A pass cancelled by a newer
// state reports ErrSuperseded.
func (p Pass) Run() ([]flatten.Row, error) {
	rows, err := flatten.FlattenContext(p.ctx, p.root, p.expanded, p.opts)
	if err != nil && errors.Is(context.Cause(p.ctx), ErrSuperseded) {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Commit stores rows produced under gen. Rows from an older generation
// are discarded so stale output never replaces fresher output.
func (s *Session) Commit(gen uint64, rows []flatten.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return ErrSuperseded
	}
	s.rows = rows
	return nil
}

// Rebuild runs a pass and commits it.
func (s *Session) Rebuild(ctx context.Context) ([]flatten.Row, error) {
	pass := s.Start(ctx)
	rows, err := pass.Run()
	if err != nil {
		return nil, err
	}
	if err := s.Commit(pass.Generation, rows); err != nil {
		return nil, err
	}
	return rows, nil
}
