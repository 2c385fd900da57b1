package scene

import "testing"

type fixedMeasurer struct{ calls int }

func (m *fixedMeasurer) MeasureText(content string, size float64) Size {
	m.calls++
	return Size{Width: float64(len(content)) * 10, Height: size}
}

func TestNewTextDefaults(t *testing.T) {
	txt := NewText(nil)
	if txt.Content != "Edit me" {
		t.Errorf("Content = %q, want %q", txt.Content, "Edit me")
	}
	if txt.FontSize != 20 {
		t.Errorf("FontSize = %v, want 20", txt.FontSize)
	}
	if txt.Fill != "white" || txt.Background != "black" {
		t.Errorf("colours = %q on %q, want white on black", txt.Fill, txt.Background)
	}
	if txt.Position() != (Position{50, 50}) {
		t.Errorf("Position() = %+v, want {50 50}", txt.Position())
	}
	if sz := txt.Size(); sz.Width <= 0 || sz.Height <= 0 {
		t.Errorf("estimated Size() = %+v, want positive", sz)
	}
}

func TestTextSetContentMeasures(t *testing.T) {
	m := &fixedMeasurer{}
	txt := NewText(m)
	if txt.Size() != (Size{70, 20}) {
		t.Errorf("Size() = %+v, want {70 20}", txt.Size())
	}
	txt.SetContent("hi", m)
	if txt.Size() != (Size{20, 20}) {
		t.Errorf("Size() after edit = %+v, want {20 20}", txt.Size())
	}
	if m.calls != 2 {
		t.Errorf("measurer called %d times, want 2", m.calls)
	}
}
