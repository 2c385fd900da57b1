package scene

import "iter"

// Info is a read-only description of one object, for debugging and for
// serialising the scene to API clients.
type Info struct {
	ID         ID        `json:"id"`
	Type       Kind      `json:"type"`
	Left       float64   `json:"left"`
	Top        float64   `json:"top"`
	Width      float64   `json:"width"`
	Height     float64   `json:"height"`
	Fill       string    `json:"fill,omitempty"`
	Background string    `json:"backgroundColor,omitempty"`
	Text       string    `json:"text,omitempty"`
	FontSize   float64   `json:"fontSize,omitempty"`
	Scale      float64   `json:"scale,omitempty"`
	Source     string    `json:"src,omitempty"`
	Geometry   *Geometry `json:"geometry,omitempty"`
	Selectable bool      `json:"selectable"`
}

// Describe returns the Info for a single object.
func Describe(o Object) Info {
	pos, size := o.Position(), o.Size()
	info := Info{
		ID:         o.ID(),
		Type:       o.Kind(),
		Left:       pos.Left,
		Top:        pos.Top,
		Width:      size.Width,
		Height:     size.Height,
		Selectable: o.Selectable(),
	}
	switch v := o.(type) {
	case *BackgroundImage:
		info.Scale = v.DisplayScale
		info.Source = v.SourceURL
	case *Shape:
		info.Fill = v.Fill.String()
		g := v.Geometry
		g.Points = append([]Point(nil), g.Points...)
		info.Geometry = &g
	case *Text:
		info.Fill = v.Fill.String()
		info.Background = v.Background.String()
		info.Text = v.Content
		info.FontSize = v.FontSize
	}
	return info
}

// Inspect lazily yields an Info for every object in draw order.
// The infos are copies; modifying them does not affect the scene.
func (s *Scene) Inspect() iter.Seq[Info] {
	return func(yield func(Info) bool) {
		for _, o := range s.objects {
			if !yield(Describe(o)) {
				return
			}
		}
	}
}
