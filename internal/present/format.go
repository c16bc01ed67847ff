// Package present turns rows into display strings and colors.
package present

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"regexp"
	"strconv"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/flavono123/peek/internal/flatten"
	"github.com/flavono123/peek/internal/value"
)

type Mode int

const (
	// Compact truncates long displays to the presenter's width.
	Compact Mode = iota
	// Full shows every display untruncated.
	Full
)

const (
	DefaultTruncateWidth = 40
	ellipsis             = "..."
	circular             = "[Circular]"
	isoMillis            = "2006-01-02T15:04:05.000Z"
)

// Presenter formats values. The zero value truncates at
// DefaultTruncateWidth and colors with DefaultPalette.
type Presenter struct {
	TruncateWidth int
	Palette       *Palette
}

var DefaultPresenter = Presenter{TruncateWidth: DefaultTruncateWidth, Palette: DefaultPalette}

func Format(v any, tag value.Tag, mode Mode) string {
	return DefaultPresenter.Format(v, tag, mode)
}

func FormatRow(row flatten.Row, mode Mode) string {
	return DefaultPresenter.FormatRow(row, mode)
}

// Format renders v for display. It never panics. Strings are cut on
// their content, so the width never counts the quotes.
func (p Presenter) Format(v any, tag value.Tag, mode Mode) string {
	if mode == Full {
		return display(v, tag)
	}
	if tag == value.TagString {
		return quoted(v, p.width())
	}
	return truncate(display(v, tag), p.width())
}

func (p Presenter) FormatRow(row flatten.Row, mode Mode) string {
	if row.Circular {
		return circular
	}
	return p.Format(row.Value, row.Tag, mode)
}

func (p Presenter) width() int {
	if p.TruncateWidth <= 0 {
		return DefaultTruncateWidth
	}
	return p.TruncateWidth
}

// truncate keeps the first width display cells of s and marks the cut.
func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "") + ellipsis
}

func quoted(v any, width int) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("<%s>", value.TagString)
		}
	}()

	content := stringOf(v)
	if runewidth.StringWidth(content) <= width {
		return strconv.Quote(content)
	}
	return strconv.Quote(runewidth.Truncate(content, width, "")) + ellipsis
}

func display(v any, tag value.Tag) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("<%s>", tag)
		}
	}()

	switch tag {
	case value.TagNull:
		return "null"
	case value.TagUndefined:
		return "undefined"
	case value.TagString:
		return strconv.Quote(stringOf(v))
	case value.TagNumber:
		return number(v)
	case value.TagBigInt:
		return bigint(v) + "n"
	case value.TagBoolean:
		return fmt.Sprint(v)
	case value.TagDate:
		return date(v)
	case value.TagRegExp:
		if re, ok := v.(*regexp.Regexp); ok {
			return "/" + re.String() + "/"
		}
	case value.TagError:
		if err, ok := v.(error); ok {
			return "Error: " + err.Error()
		}
	case value.TagFunction:
		return reflect.TypeOf(v).String()
	case value.TagArray:
		return fmt.Sprintf("Array(%d)", value.Count(v, tag))
	case value.TagObject:
		return keys(value.Count(v, tag))
	case value.TagMap:
		return fmt.Sprintf("Map(%d)", value.Count(v, tag))
	case value.TagSet:
		return fmt.Sprintf("Set(%d)", value.Count(v, tag))
	}
	return fmt.Sprint(v)
}

func keys(n int) string {
	switch n {
	case 0:
		return "{}"
	case 1:
		return "{1 key}"
	}
	return fmt.Sprintf("{%d keys}", n)
}

func stringOf(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() == reflect.String {
		return rv.String()
	}
	return fmt.Sprint(v)
}

func number(v any) string {
	switch n := v.(type) {
	case json.Number:
		return n.String()
	case float32:
		return float(float64(n), 32)
	case float64:
		return float(n, 64)
	}
	return fmt.Sprint(v)
}

func float(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f != 0 && (math.Abs(f) >= 1e21 || math.Abs(f) < 1e-6):
		return strconv.FormatFloat(f, 'g', -1, bits)
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}

func bigint(v any) string {
	switch n := v.(type) {
	case *big.Int:
		return n.String()
	case big.Int:
		return n.String()
	}
	return fmt.Sprint(v)
}

func date(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(isoMillis)
	case *time.Time:
		return t.UTC().Format(isoMillis)
	}
	return fmt.Sprint(v)
}
