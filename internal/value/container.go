package value

import "fmt"

// Entry is one (key, value) edge from a container to a child.
type Entry struct {
	Key   string
	Value any
}

// Tagger is implemented by host values that classify themselves.
type Tagger interface {
	TypeTag() Tag
}

// Enumerable is implemented by host containers that list their own
// children. Entries may fail; the flattener contains the failure to the
// subtree.
type Enumerable interface {
	Len() int
	Entries() ([]Entry, error)
}

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined marks a value that is absent, as opposed to explicitly null.
var Undefined any = undefined{}

// Symbol is an opaque unique token carrying only a description.
type Symbol struct {
	Description string
}

func (s Symbol) String() string {
	return fmt.Sprintf("Symbol(%s)", s.Description)
}

// Object is a string-keyed container that keeps insertion order.
// Decoders produce it so document key order survives into rows.
type Object struct {
	keys   []string
	values map[string]any
}

func NewObject() *Object {
	return &Object{values: map[string]any{}}
}

// Set stores v under key. Re-setting an existing key keeps its position.
func (o *Object) Set(key string, v any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *Object) Keys() []string {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

func (o *Object) TypeTag() Tag { return TagObject }

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

func (o *Object) Entries() ([]Entry, error) {
	if o == nil {
		return nil, nil
	}
	entries := make([]Entry, 0, len(o.keys))
	for _, k := range o.keys {
		entries = append(entries, Entry{Key: k, Value: o.values[k]})
	}
	return entries, nil
}

// Map is an insertion-ordered container with arbitrary keys. Keys are
// compared with Go equality, so they must be comparable.
type Map struct {
	keys   []any
	values map[any]any
}

func NewMap() *Map {
	return &Map{values: map[any]any{}}
}

func (m *Map) Set(key, v any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

func (m *Map) Get(key any) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *Map) TypeTag() Tag { return TagMap }

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

func (m *Map) Entries() ([]Entry, error) {
	if m == nil {
		return nil, nil
	}
	entries := make([]Entry, 0, len(m.keys))
	for _, k := range m.keys {
		entries = append(entries, Entry{Key: KeyString(k), Value: m.values[k]})
	}
	return entries, nil
}

// Set is an insertion-ordered collection of distinct comparable elements.
type Set struct {
	elems []any
	seen  map[any]struct{}
}

func NewSet(elems ...any) *Set {
	s := &Set{seen: map[any]struct{}{}}
	for _, e := range elems {
		s.Add(e)
	}
	return s
}

func (s *Set) Add(e any) {
	if _, ok := s.seen[e]; ok {
		return
	}
	s.seen[e] = struct{}{}
	s.elems = append(s.elems, e)
}

func (s *Set) Has(e any) bool {
	_, ok := s.seen[e]
	return ok
}

func (s *Set) TypeTag() Tag { return TagSet }

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.elems)
}

func (s *Set) Entries() ([]Entry, error) {
	if s == nil {
		return nil, nil
	}
	return indexed(s.elems), nil
}

func indexed(elems []any) []Entry {
	entries := make([]Entry, len(elems))
	for i, e := range elems {
		entries[i] = Entry{Key: itoa(i), Value: e}
	}
	return entries
}
