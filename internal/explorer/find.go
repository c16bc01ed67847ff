package explorer

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/flavono123/peek/internal/flatten"
)

// Match is a row that matched a find query.
type Match struct {
	Index int
	Path  string
	// MatchedIndexes are byte offsets into Path, for highlighting.
	MatchedIndexes []int
}

type rowPaths []flatten.Row

func (r rowPaths) String(i int) string { return displayPath(r[i]) }
func (r rowPaths) Len() int            { return len(r) }

// Find fuzzy-matches query against the dotted key paths of rows and
// returns matches best first.
func Find(query string, rows []flatten.Row) []Match {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	found := fuzzy.FindFrom(query, rowPaths(rows))
	matches := make([]Match, len(found))
	for i, m := range found {
		matches[i] = Match{Index: m.Index, Path: m.Str, MatchedIndexes: m.MatchedIndexes}
	}
	return matches
}

// displayPath renders a row id as a dotted path without the root key.
func displayPath(row flatten.Row) string {
	path := flatten.PathOf(row.ID)
	if len(path) <= 1 {
		return path[0]
	}
	return strings.Join(path[1:], ".")
}
