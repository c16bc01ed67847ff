package present

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/flavono123/peek/internal/ui/theme"
	"github.com/flavono123/peek/internal/value"
)

// Palette maps type tags to colors. It is immutable once built, so one
// instance can be shared freely.
type Palette struct {
	colors   map[value.Tag]lipgloss.Color
	fallback lipgloss.Color
}

// DefaultPalette is built once from the Mocha flavour.
var DefaultPalette = NewPalette(theme.Mocha)

func NewPalette(t theme.Theme) *Palette {
	return &Palette{
		colors: map[value.Tag]lipgloss.Color{
			value.TagString:    t.Green(),
			value.TagNumber:    t.Peach(),
			value.TagBigInt:    t.Maroon(),
			value.TagBoolean:   t.Mauve(),
			value.TagNull:      t.Overlay1(),
			value.TagUndefined: t.Overlay0(),
			value.TagFunction:  t.Blue(),
			value.TagSymbol:    t.Pink(),
			value.TagDate:      t.Teal(),
			value.TagRegExp:    t.Red(),
			value.TagError:     t.Red(),
			value.TagArray:     t.Sky(),
			value.TagObject:    t.Lavender(),
			value.TagMap:       t.Sapphire(),
			value.TagSet:       t.Yellow(),
		},
		fallback: t.Text(),
	}
}

// ColorFor returns the color for tag, or the fallback for unknown tags.
func (p *Palette) ColorFor(tag value.Tag) lipgloss.Color {
	if c, ok := p.colors[tag]; ok {
		return c
	}
	return p.fallback
}

func (p Presenter) ColorFor(tag value.Tag) lipgloss.Color {
	if p.Palette == nil {
		return DefaultPalette.ColorFor(tag)
	}
	return p.Palette.ColorFor(tag)
}

func ColorFor(tag value.Tag) lipgloss.Color {
	return DefaultPalette.ColorFor(tag)
}
