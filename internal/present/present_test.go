package present

import (
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/flavono123/peek/internal/flatten"
	"github.com/flavono123/peek/internal/ui/theme"
	"github.com/flavono123/peek/internal/value"
)

var _ = Describe("Format", func() {
	DescribeTable("displays",
		func(v any, want string) {
			Expect(Format(v, value.Classify(v), Compact)).To(Equal(want))
		},
		Entry("null", nil, "null"),
		Entry("undefined", value.Undefined, "undefined"),
		Entry("string", "hi", `"hi"`),
		Entry("string with newline", "a\nb", `"a\nb"`),
		Entry("int", 42, "42"),
		Entry("float", 1.5, "1.5"),
		Entry("large float", 1e6, "1000000"),
		Entry("tiny float", 1e-9, "1e-09"),
		Entry("NaN", math.NaN(), "NaN"),
		Entry("infinity", math.Inf(-1), "-Infinity"),
		Entry("json number", json.Number("3.10"), "3.10"),
		Entry("bigint", big.NewInt(12), "12n"),
		Entry("bool", false, "false"),
		Entry("date", time.Date(2024, 3, 1, 9, 30, 0, 5e6, time.FixedZone("x", 3600)), "2024-03-01T08:30:00.005Z"),
		Entry("regexp", regexp.MustCompile(`^a+$`), "/^a+$/"),
		Entry("error", errors.New("boom"), "Error: boom"),
		Entry("symbol", value.Symbol{Description: "tok"}, "Symbol(tok)"),
		Entry("function", func(int) string { return "" }, "func(int) string"),
		Entry("array", []int{1, 2}, "Array(2)"),
		Entry("empty object", map[string]any{}, "{}"),
		Entry("one key", map[string]any{"a": 1}, "{1 key}"),
		Entry("object", map[string]any{"a": 1, "b": 2}, "{2 keys}"),
		Entry("map", map[int]int{1: 1}, "Map(1)"),
		Entry("set", value.NewSet(1, 2, 3), "Set(3)"),
	)

	It("should truncate long strings in compact mode", func() {
		s := "hello world this is a long string exceeding forty characters"
		got := Format(s, value.TagString, Compact)

		Expect(got).To(Equal(strconv.Quote(s[:40]) + "..."))
	})

	It("should keep strings that fit the width whole", func() {
		s := strings.Repeat("z", 40)
		Expect(Format(s, value.TagString, Compact)).To(Equal(`"` + s + `"`))
	})

	It("should cut other displays on the whole string", func() {
		err := errors.New(strings.Repeat("e", 60))
		got := Format(err, value.TagError, Compact)
		Expect(got).To(Equal("Error: " + strings.Repeat("e", 33) + "..."))
	})

	It("should expose the default presenter", func() {
		Expect(DefaultPresenter.TruncateWidth).To(Equal(DefaultTruncateWidth))
		Expect(DefaultPresenter.Format("abc", value.TagString, Compact)).To(Equal(`"abc"`))
	})

	It("should not truncate in full mode", func() {
		s := strings.Repeat("x", 100)
		Expect(Format(s, value.TagString, Full)).To(Equal(`"` + s + `"`))
	})

	It("should honor a custom width", func() {
		p := Presenter{TruncateWidth: 5}
		Expect(p.Format("abcdefgh", value.TagString, Compact)).To(Equal(`"abcde"...`))
	})

	It("should count wide runes by display cells", func() {
		p := Presenter{TruncateWidth: 5}
		Expect(p.Format("한국어입니다", value.TagString, Compact)).To(Equal(`"한국"...`))
	})

	It("should not panic on a mislabelled value", func() {
		Expect(Format(42, value.TagRegExp, Compact)).To(Equal("42"))
		Expect(Format("x", value.Tag(99), Compact)).To(Equal("x"))
	})

	It("should render circular rows as a sentinel", func() {
		row := flatten.Row{Tag: value.TagObject, Circular: true}
		Expect(FormatRow(row, Full)).To(Equal("[Circular]"))
	})
})

var _ = Describe("Palette", func() {
	It("should map every tag", func() {
		for _, tag := range value.Tags() {
			Expect(ColorFor(tag)).NotTo(BeEmpty())
		}
	})

	It("should fall back for unknown tags", func() {
		Expect(ColorFor(value.Tag(99))).To(Equal(theme.Mocha.Text()))
	})

	It("should build per-flavour palettes", func() {
		latte := NewPalette(theme.Latte)
		Expect(latte.ColorFor(value.TagString)).To(Equal(theme.Latte.Green()))
		Expect(Presenter{Palette: latte}.ColorFor(value.TagString)).To(Equal(theme.Latte.Green()))
	})
})

var _ = Describe("Layout", func() {
	It("should double the height of long keys", func() {
		l := DefaultLayout()
		Expect(l.EstimatedHeight(flatten.Row{Key: "short"})).To(Equal(1))
		Expect(l.EstimatedHeight(flatten.Row{Key: strings.Repeat("k", 31)})).To(Equal(2))
		Expect(l.EstimatedHeight(flatten.Row{Key: strings.Repeat("k", 30)})).To(Equal(1))
	})

	It("should group rows by item type", func() {
		Expect(ItemType(flatten.Row{Tag: value.TagArray, Expandable: true})).To(Equal("expandable"))
		Expect(ItemType(flatten.Row{Tag: value.TagString})).To(Equal("string"))
	})
})
