// Package flatten turns an arbitrary nested value into a flat, pre-ordered
// list of rows that a windowed list can render by indentation alone.
//
// A node's children are emitted only when the node is a container, its id
// is in the expanded set, and it sits above the depth ceiling. Output size
// is bounded structurally: at most ItemsPerLevelCap children per container
// and at most DepthCeiling levels below the root.
package flatten

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/flavono123/peek/internal/value"
)

const (
	// DepthCeiling bounds recursion regardless of the caller's MaxDepth.
	DepthCeiling = 15
	// ItemsPerLevelCap bounds the children materialized per container.
	// Extra children are dropped, not represented.
	ItemsPerLevelCap = 500
	DefaultRootKey   = "root"
)

// ErrExtraction wraps a failure (error or panic) while listing the
// children of one node.
var ErrExtraction = errors.New("entry extraction failed")

// Expanded reports whether a row id is currently expanded.
type Expanded interface {
	Contains(id string) bool
}

// ExpandedFunc adapts a function to Expanded.
type ExpandedFunc func(id string) bool

func (f ExpandedFunc) Contains(id string) bool { return f(id) }

var (
	// All expands every node.
	All Expanded = ExpandedFunc(func(string) bool { return true })
	// None collapses every node, including the root.
	None Expanded = ExpandedFunc(func(string) bool { return false })
)

type Options struct {
	RootKey string
	// MaxDepth is clamped to DepthCeiling; zero or negative means the
	// ceiling.
	MaxDepth int
	// ItemsPerLevel is clamped to ItemsPerLevelCap; zero or negative
	// means the cap.
	ItemsPerLevel int
	// DetectCycles emits a Circular sentinel instead of recursing into a
	// value already open on the current path.
	DetectCycles bool
	// Logger receives extraction warnings. Nil discards them.
	Logger *zap.Logger
}

func DefaultOptions() Options {
	return Options{
		RootKey:       DefaultRootKey,
		MaxDepth:      DepthCeiling,
		ItemsPerLevel: ItemsPerLevelCap,
		DetectCycles:  true,
	}
}

// EffectiveMaxDepth is min(MaxDepth, DepthCeiling).
func (o Options) EffectiveMaxDepth() int {
	if o.MaxDepth <= 0 || o.MaxDepth > DepthCeiling {
		return DepthCeiling
	}
	return o.MaxDepth
}

// EffectiveItemsPerLevel is min(ItemsPerLevel, ItemsPerLevelCap).
func (o Options) EffectiveItemsPerLevel() int {
	if o.ItemsPerLevel <= 0 || o.ItemsPerLevel > ItemsPerLevelCap {
		return ItemsPerLevelCap
	}
	return o.ItemsPerLevel
}

// Flatten walks root depth-first and returns its visible rows in
// pre-order. It never fails: broken subtrees contribute no children.
func Flatten(root any, expanded Expanded, opts Options) []Row {
	rows, _ := FlattenContext(context.Background(), root, expanded, opts)
	return rows
}

// FlattenContext is Flatten with cancellation. It returns ctx.Err() and
// the rows produced so far when ctx is done before the walk completes.
func FlattenContext(ctx context.Context, root any, expanded Expanded, opts Options) ([]Row, error) {
	w := newWalker(ctx, expanded, opts)
	rootKey := opts.RootKey
	if rootKey == "" {
		rootKey = DefaultRootKey
	}
	w.visit(rootKey, RootID(rootKey), "", false, root, 0)
	return w.rows, w.err
}

type walker struct {
	ctx      context.Context
	expanded Expanded
	maxDepth int
	maxItems int
	cycles   bool
	log      *zap.Logger

	onPath map[identity]struct{}
	rows   []Row
	err    error
}

func newWalker(ctx context.Context, expanded Expanded, opts Options) *walker {
	if expanded == nil {
		expanded = None
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &walker{
		ctx:      ctx,
		expanded: expanded,
		maxDepth: opts.EffectiveMaxDepth(),
		maxItems: opts.EffectiveItemsPerLevel(),
		cycles:   opts.DetectCycles,
		log:      log,
		onPath:   map[identity]struct{}{},
	}
}

func (w *walker) visit(key, id, parentID string, hasParent bool, v any, depth int) {
	if w.err != nil {
		return
	}
	if err := w.ctx.Err(); err != nil {
		w.err = err
		return
	}

	tag := w.classify(id, v)
	row := Row{
		ID:         id,
		Key:        key,
		Value:      v,
		Tag:        tag,
		Depth:      depth,
		ParentID:   parentID,
		HasParent:  hasParent,
		Expandable: tag.IsContainer(),
	}

	var ident identity
	tracked := false
	if row.Expandable && w.cycles {
		ident, tracked = identityOf(v)
		if _, open := w.onPath[ident]; tracked && open {
			row.Expandable = false
			row.Circular = true
			w.rows = append(w.rows, row)
			return
		}
	}

	if row.Expandable {
		n := w.count(id, v, tag)
		row.ChildCount = min(n, w.maxItems)
		row.Truncated = n > w.maxItems
		row.Expanded = w.expanded.Contains(id)
		row.DepthLimited = depth >= w.maxDepth
	}
	w.rows = append(w.rows, row)

	if !row.Expanded || row.DepthLimited || row.ChildCount == 0 {
		return
	}

	entries, err := w.entries(v, tag)
	if err != nil {
		w.log.Warn("skipping children",
			zap.String("id", id),
			zap.String("type", tag.String()),
			zap.Error(err),
		)
		return
	}
	if len(entries) > row.ChildCount {
		entries = entries[:row.ChildCount]
	}

	if tracked {
		w.onPath[ident] = struct{}{}
		defer delete(w.onPath, ident)
	}
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		childID := ChildID(id, e.Key)
		if _, dup := seen[childID]; dup {
			childID = duplicateID(childID, i)
		}
		seen[childID] = struct{}{}
		w.visit(e.Key, childID, id, true, e.Value, depth+1)
	}
}

func (w *walker) classify(id string, v any) (tag value.Tag) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Warn("classification panicked", zap.String("id", id), zap.Any("panic", r))
			tag = value.TagObject
		}
	}()
	return value.Classify(v)
}

func (w *walker) count(id string, v any, tag value.Tag) (n int) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Warn("count panicked", zap.String("id", id), zap.Any("panic", r))
			n = 0
		}
	}()
	return value.Count(v, tag)
}

func (w *walker) entries(v any, tag value.Tag) (entries []value.Entry, err error) {
	defer func() {
		if r := recover(); r != nil {
			entries, err = nil, fmt.Errorf("%w: panic: %v", ErrExtraction, r)
		}
	}()
	entries, err = value.Entries(v, tag)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	return entries, nil
}
