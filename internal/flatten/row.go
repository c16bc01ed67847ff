package flatten

import (
	"strconv"
	"strings"

	"github.com/go-openapi/jsonpointer"

	"github.com/flavono123/peek/internal/value"
)

const (
	pathSeparator = "/"
	// duplicateMark separates a repeated sibling key from its entry index.
	// Escaped keys never contain "~2", so marked ids cannot clash with
	// the id of a real key.
	duplicateMark = "~2"
)

// Row is one displayable node of a flattened value.
type Row struct {
	ID       string
	Key      string
	Value    any
	Tag      value.Tag
	Depth    int
	ParentID string
	// HasParent is false only for the root row.
	HasParent  bool
	Expandable bool
	Expanded   bool
	ChildCount int

	// Truncated is set when the container holds more children than the
	// per-level cap lets through.
	Truncated bool
	// DepthLimited is set on expandable rows at the depth ceiling; they
	// never get children regardless of Expanded.
	DepthLimited bool
	// Circular marks a node whose value is already open on the path from
	// the root. It is never expandable.
	Circular bool
}

// RootID is the id of the root row for the given root key.
func RootID(rootKey string) string {
	if rootKey == "" {
		rootKey = DefaultRootKey
	}
	return jsonpointer.Escape(rootKey)
}

// ChildID derives a child id from its parent id and edge key.
func ChildID(parentID, key string) string {
	return parentID + pathSeparator + jsonpointer.Escape(key)
}

// duplicateID is the id of the entry at index whose key repeats an
// earlier sibling's.
func duplicateID(id string, index int) string {
	return id + duplicateMark + strconv.Itoa(index)
}

// PathOf splits an id back into its unescaped key path, root key first.
func PathOf(id string) []string {
	parts := strings.Split(id, pathSeparator)
	for i, p := range parts {
		if mark := strings.Index(p, duplicateMark); mark >= 0 {
			p = p[:mark]
		}
		parts[i] = jsonpointer.Unescape(p)
	}
	return parts
}
