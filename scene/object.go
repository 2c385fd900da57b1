package scene

import (
	"github.com/google/uuid"
)

// ID identifies an object within a scene. IDs are assigned at creation and
// never reused.
type ID string

// NewID returns a fresh random object ID.
func NewID() ID {
	return ID(uuid.NewString())
}

// Kind names the concrete type of an Object as reported by Inspect.
type Kind string

// Object kinds.
const (
	KindImage     Kind = "image"
	KindCircle    Kind = "circle"
	KindRectangle Kind = "rectangle"
	KindTriangle  Kind = "triangle"
	KindPolygon   Kind = "polygon"
	KindText      Kind = "text"
)

// Position is the top-left corner of an object's bounding box in canvas
// coordinates.
type Position struct {
	Left, Top float64
}

// Size is the extent of an object's bounding box in canvas units.
type Size struct {
	Width, Height float64
}

// Point is a vertex of a polygonal shape, relative to the shape's position.
type Point struct {
	X, Y float64
}

// Object is a drawable entity in a Scene.
//
// The set of implementations is closed: *BackgroundImage, *Shape and *Text.
// Renderers switch on the concrete type.
type Object interface {
	// ID returns the object's identity.
	ID() ID

	// Kind returns the object's type tag.
	Kind() Kind

	// Position returns the top-left corner of the bounding box.
	Position() Position

	// Size returns the bounding box extent after scaling.
	Size() Size

	// Selectable reports whether the object can be manipulated
	// interactively. True for every user-added object.
	Selectable() bool

	moveTo(p Position)
}

// base carries the fields every Object shares.
type base struct {
	id  ID
	pos Position
}

func newBase(p Position) base {
	return base{id: NewID(), pos: p}
}

// ID returns the object's identity.
func (b *base) ID() ID { return b.id }

// Position returns the top-left corner of the bounding box.
func (b *base) Position() Position { return b.pos }

func (b *base) moveTo(p Position) { b.pos = p }
