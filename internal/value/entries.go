package value

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrNotEnumerable = errors.New("value cannot be enumerated")
	ErrPathNotFound  = errors.New("path not found")
)

// Entries lists the children of v in display order. Non-containers and
// empty containers yield no entries.
func Entries(v any, tag Tag) ([]Entry, error) {
	if !tag.IsContainer() || v == nil {
		return nil, nil
	}
	if e, ok := v.(Enumerable); ok {
		return e.Entries()
	}

	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return nil, nil
	}

	switch {
	case tag == TagArray && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array):
		entries := make([]Entry, rv.Len())
		for i := range entries {
			entries[i] = Entry{Key: itoa(i), Value: rv.Index(i).Interface()}
		}
		return entries, nil
	case tag == TagObject && rv.Kind() == reflect.Struct:
		return structEntries(rv), nil
	case tag == TagObject && rv.Kind() == reflect.Map, tag == TagMap && rv.Kind() == reflect.Map:
		return mapEntries(rv), nil
	case tag == TagSet && rv.Kind() == reflect.Map:
		keys := mapEntries(rv)
		elems := make([]any, len(keys))
		for i, k := range keys {
			elems[i] = k.Value
		}
		return indexed(elems), nil
	}
	return nil, fmt.Errorf("%w: %T as %s", ErrNotEnumerable, v, tag)
}

// Lookup walks decoded path tokens from root through Entries and returns
// the value found at the end.
func Lookup(root any, tokens []string) (any, error) {
	cur := root
	for i, token := range tokens {
		tag := Classify(cur)
		entries, err := Entries(cur, tag)
		if err != nil {
			return nil, err
		}
		found := false
		for _, e := range entries {
			if e.Key == token {
				cur, found = e.Value, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: /%s", ErrPathNotFound, strings.Join(tokens[:i+1], "/"))
		}
	}
	return cur, nil
}

// KeyString renders a map key as an entry key.
func KeyString(k any) string {
	switch k := k.(type) {
	case string:
		return k
	case fmt.Stringer:
		return k.String()
	case int:
		return strconv.Itoa(k)
	case int64:
		return strconv.FormatInt(k, 10)
	case float64:
		return strconv.FormatFloat(k, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(k)
	case nil:
		return "null"
	}
	return fmt.Sprint(k)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

// mapEntries returns the entries of a Go map, sorted by key. For a set
// (map[T]struct{}) the entry value is the key itself.
func mapEntries(rv reflect.Value) []Entry {
	set := mapTag(rv.Type()) == TagSet
	entries := make([]Entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key().Interface()
		e := Entry{Key: KeyString(k), Value: iter.Value().Interface()}
		if set {
			e.Value = k
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}

type field struct {
	index  int
	name   string
	tagged bool
}

// structFields lists the exported fields of t under their JSON names.
// When names clash, a single tagged field wins, as in encoding/json;
// otherwise every clashing field is dropped.
func structFields(t reflect.Type) []field {
	var fields []field
	count := map[string]int{}
	tagged := map[string]int{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		fd := field{index: i, name: f.Name}
		if tag, ok := f.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				fd.name, fd.tagged = tagName, true
			}
		}
		count[fd.name]++
		if fd.tagged {
			tagged[fd.name]++
		}
		fields = append(fields, fd)
	}

	dominant := fields[:0]
	for _, f := range fields {
		switch {
		case count[f.name] == 1:
		case tagged[f.name] == 1 && f.tagged:
		default:
			continue
		}
		dominant = append(dominant, f)
	}
	return dominant
}

func structEntries(rv reflect.Value) []Entry {
	fields := structFields(rv.Type())
	entries := make([]Entry, len(fields))
	for i, f := range fields {
		entries[i] = Entry{Key: f.name, Value: rv.Field(f.index).Interface()}
	}
	return entries
}
