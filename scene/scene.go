package scene

import (
	"errors"
	"iter"
	"slices"
)

// Canvas defaults.
const (
	CanvasWidth  = 500
	CanvasHeight = 500
)

// DefaultBackground is the canvas fill behind all objects.
const DefaultBackground Color = "white"

var (
	// ErrDuplicateID is returned when appending an object whose ID is
	// already present.
	ErrDuplicateID = errors.New("scene: duplicate object id")

	// ErrBackgroundAppend is returned when a BackgroundImage is passed to
	// Append instead of SetBackgroundImage.
	ErrBackgroundAppend = errors.New("scene: background image must be set with SetBackgroundImage")

	// ErrNilObject is returned when appending a nil object.
	ErrNilObject = errors.New("scene: nil object")
)

// Scene is an ordered list of objects drawn in painter's order over a fixed
// size canvas. Later objects draw on top of earlier ones.
//
// A Scene holds at most one BackgroundImage and keeps it first.
//
// Scene is not safe for concurrent use; the owning session serialises access.
type Scene struct {
	width, height float64
	background    Color
	objects       []Object
	index         map[ID]int

	// version is incremented on each modification for render caching.
	version uint64
}

// New returns an empty 500×500 scene with a white background.
func New() *Scene {
	return NewWithSize(CanvasWidth, CanvasHeight, DefaultBackground)
}

// NewWithSize returns an empty scene with the given canvas size and fill.
func NewWithSize(width, height float64, background Color) *Scene {
	return &Scene{
		width:      width,
		height:     height,
		background: background,
		index:      make(map[ID]int),
	}
}

// Width returns the canvas width.
func (s *Scene) Width() float64 { return s.width }

// Height returns the canvas height.
func (s *Scene) Height() float64 { return s.height }

// Background returns the canvas fill colour.
func (s *Scene) Background() Color { return s.background }

// Version returns a counter that changes whenever the scene is modified.
func (s *Scene) Version() uint64 { return s.version }

// Len returns the number of objects, including the background image.
func (s *Scene) Len() int { return len(s.objects) }

// At returns the i-th object in draw order.
func (s *Scene) At(i int) Object { return s.objects[i] }

// Objects yields the objects in draw order.
func (s *Scene) Objects() iter.Seq[Object] {
	return func(yield func(Object) bool) {
		for _, o := range s.objects {
			if !yield(o) {
				return
			}
		}
	}
}

// Lookup returns the object with the given ID.
func (s *Scene) Lookup(id ID) (Object, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.objects[i], true
}

// BackgroundImage returns the scene's background image, if any.
func (s *Scene) BackgroundImage() (*BackgroundImage, bool) {
	if len(s.objects) == 0 {
		return nil, false
	}
	bg, ok := s.objects[0].(*BackgroundImage)
	return bg, ok
}

// SetBackgroundImage installs img as the first object, replacing any
// existing background image, and centres it on the canvas.
func (s *Scene) SetBackgroundImage(img *BackgroundImage) {
	if img == nil {
		return
	}
	if _, ok := s.BackgroundImage(); ok {
		s.objects[0] = img
	} else {
		s.objects = slices.Insert(s.objects, 0, Object(img))
	}
	s.Center(img)
	s.reindex()
	s.version++
}

// Append adds obj on top of every existing object.
func (s *Scene) Append(obj Object) error {
	if obj == nil {
		return ErrNilObject
	}
	if _, ok := obj.(*BackgroundImage); ok {
		return ErrBackgroundAppend
	}
	if _, dup := s.index[obj.ID()]; dup {
		return ErrDuplicateID
	}
	s.index[obj.ID()] = len(s.objects)
	s.objects = append(s.objects, obj)
	s.version++
	return nil
}

// Center moves obj so that its bounding box is centred on the canvas.
func (s *Scene) Center(obj Object) {
	size := obj.Size()
	obj.moveTo(Position{
		Left: (s.width - size.Width) / 2,
		Top:  (s.height - size.Height) / 2,
	})
	s.version++
}

// Touch records an in-place modification of an object (such as a text edit)
// so that cached renders are invalidated.
func (s *Scene) Touch() { s.version++ }

func (s *Scene) reindex() {
	clear(s.index)
	for i, o := range s.objects {
		s.index[o.ID()] = i
	}
}
