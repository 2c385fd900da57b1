package scene

// ShapeKind selects the geometry of a Shape.
type ShapeKind string

// Supported shape kinds.
const (
	Circle    ShapeKind = "circle"
	Rectangle ShapeKind = "rectangle"
	Triangle  ShapeKind = "triangle"
	Polygon   ShapeKind = "polygon"
)

// DefaultShapePosition is where newly added shapes are placed.
var DefaultShapePosition = Position{Left: 100, Top: 100}

// Geometry describes a shape's outline relative to its position.
// Only the fields relevant to the shape kind are set.
type Geometry struct {
	// Radius is set for circles.
	Radius float64 `json:"radius,omitempty"`

	// Width and Height are set for rectangles and triangles.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Points is set for polygons.
	Points []Point `json:"points,omitempty"`
}

// Shape is a filled vector shape.
type Shape struct {
	base

	// Shape is the geometry kind.
	Shape ShapeKind

	// Geometry is the outline relative to Position.
	Geometry Geometry

	// Fill is the fill colour.
	Fill Color
}

// NewShape returns a shape of the given kind with its default geometry,
// colour and position. ok is false for unknown kinds.
func NewShape(kind ShapeKind) (s *Shape, ok bool) {
	s = &Shape{base: newBase(DefaultShapePosition), Shape: kind}
	switch kind {
	case Circle:
		s.Geometry = Geometry{Radius: 50}
		s.Fill = "red"
	case Rectangle:
		s.Geometry = Geometry{Width: 100, Height: 50}
		s.Fill = "blue"
	case Triangle:
		s.Geometry = Geometry{Width: 100, Height: 100}
		s.Fill = "green"
	case Polygon:
		s.Geometry = Geometry{Points: []Point{{0, 0}, {100, 0}, {50, 100}}}
		s.Fill = "purple"
	default:
		return nil, false
	}
	return s, true
}

// Kind returns the shape kind as an object kind.
func (s *Shape) Kind() Kind { return Kind(s.Shape) }

// Selectable always returns true.
func (s *Shape) Selectable() bool { return true }

// Size returns the bounding box of the geometry.
func (s *Shape) Size() Size {
	switch s.Shape {
	case Circle:
		return Size{Width: 2 * s.Geometry.Radius, Height: 2 * s.Geometry.Radius}
	case Polygon:
		minX, minY, maxX, maxY := pointBounds(s.Geometry.Points)
		return Size{Width: maxX - minX, Height: maxY - minY}
	default:
		return Size{Width: s.Geometry.Width, Height: s.Geometry.Height}
	}
}

// Outline returns the polygon vertices of a triangle or polygon in canvas
// coordinates. Polygon points are shifted so that their bounding box starts
// at Position. It returns nil for circles and rectangles.
func (s *Shape) Outline() []Point {
	p := s.Position()
	switch s.Shape {
	case Triangle:
		w, h := s.Geometry.Width, s.Geometry.Height
		return []Point{
			{p.Left + w/2, p.Top},
			{p.Left + w, p.Top + h},
			{p.Left, p.Top + h},
		}
	case Polygon:
		minX, minY, _, _ := pointBounds(s.Geometry.Points)
		out := make([]Point, len(s.Geometry.Points))
		for i, pt := range s.Geometry.Points {
			out[i] = Point{p.Left + pt.X - minX, p.Top + pt.Y - minY}
		}
		return out
	default:
		return nil
	}
}

func pointBounds(pts []Point) (minX, minY, maxX, maxY float64) {
	if len(pts) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = pts[0].X, pts[0].Y
	maxX, maxY = minX, minY
	for _, p := range pts[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}
