package scene

import "unicode/utf8"

// Text defaults applied by NewText.
const (
	DefaultTextContent = "Edit me"
	DefaultFontSize    = 20

	// lineHeight matches the line box most editors give a single text line.
	lineHeight = 1.16
)

// DefaultTextPosition is where newly added text is placed.
var DefaultTextPosition = Position{Left: 50, Top: 50}

// Measurer reports the bounding box of a single line of text.
type Measurer interface {
	MeasureText(content string, fontSize float64) Size
}

// Text is an editable single-line text label with a solid background.
type Text struct {
	base

	// Content is the label text.
	Content string

	// FontSize is the font size in canvas units.
	FontSize float64

	// Fill is the glyph colour.
	Fill Color

	// Background fills the text's bounding box behind the glyphs.
	Background Color

	bounds Size
}

// NewText returns a text object with the default content and styling:
// white glyphs on black, size 20, at DefaultTextPosition.
// m may be nil, in which case bounds are estimated from the rune count.
func NewText(m Measurer) *Text {
	t := &Text{
		base:       newBase(DefaultTextPosition),
		FontSize:   DefaultFontSize,
		Fill:       "white",
		Background: "black",
	}
	t.SetContent(DefaultTextContent, m)
	return t
}

// SetContent replaces the text and re-measures its bounds.
func (t *Text) SetContent(content string, m Measurer) {
	t.Content = content
	if m != nil {
		t.bounds = m.MeasureText(content, t.FontSize)
		return
	}
	t.bounds = Size{
		Width:  0.6 * t.FontSize * float64(utf8.RuneCountInString(content)),
		Height: lineHeight * t.FontSize,
	}
}

// Kind returns KindText.
func (t *Text) Kind() Kind { return KindText }

// Selectable always returns true.
func (t *Text) Selectable() bool { return true }

// Size returns the measured bounds of the text.
func (t *Text) Size() Size { return t.bounds }
