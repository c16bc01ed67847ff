package present

import (
	"unicode/utf8"

	"github.com/flavono123/peek/internal/flatten"
)

const (
	DefaultRowHeight        = 1
	DefaultLongKeyThreshold = 30
	itemTypeExpandable      = "expandable"
)

// Layout estimates row sizes for a windowed list host.
type Layout struct {
	RowHeight        int
	LongKeyThreshold int
}

func DefaultLayout() Layout {
	return Layout{RowHeight: DefaultRowHeight, LongKeyThreshold: DefaultLongKeyThreshold}
}

// EstimatedHeight doubles the row height for keys longer than the
// threshold, which wrap onto a second line.
func (l Layout) EstimatedHeight(row flatten.Row) int {
	h := l.RowHeight
	if h <= 0 {
		h = DefaultRowHeight
	}
	threshold := l.LongKeyThreshold
	if threshold <= 0 {
		threshold = DefaultLongKeyThreshold
	}
	if utf8.RuneCountInString(row.Key) > threshold {
		return h * 2
	}
	return h
}

// ItemType groups rows for render recycling: every expandable row shares
// one type, the rest are grouped by tag.
func ItemType(row flatten.Row) string {
	if row.Expandable {
		return itemTypeExpandable
	}
	return row.Tag.String()
}
