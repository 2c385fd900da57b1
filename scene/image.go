package scene

import "image"

// BackgroundImage is the photo the scene is seeded with. It is uniformly
// scaled to fit the canvas and drawn beneath every other object.
type BackgroundImage struct {
	base

	// SourceURL is where the image was loaded from.
	SourceURL string

	// NaturalWidth and NaturalHeight are the decoded pixel dimensions.
	NaturalWidth, NaturalHeight int

	// DisplayScale is the uniform scale applied when drawing.
	DisplayScale float64

	// Pixels is the decoded image.
	Pixels image.Image
}

// NewBackgroundImage wraps a decoded image. The scale is computed so the
// image fits entirely within a canvas of the given size.
func NewBackgroundImage(sourceURL string, img image.Image, canvasWidth, canvasHeight float64) *BackgroundImage {
	b := img.Bounds()
	return &BackgroundImage{
		base:          newBase(Position{}),
		SourceURL:     sourceURL,
		NaturalWidth:  b.Dx(),
		NaturalHeight: b.Dy(),
		DisplayScale:  FitScale(b.Dx(), b.Dy(), canvasWidth, canvasHeight),
		Pixels:        img,
	}
}

// FitScale returns min(canvasWidth/width, canvasHeight/height), the largest
// uniform scale at which a width×height image fits the canvas. It returns 0
// for empty images.
func FitScale(width, height int, canvasWidth, canvasHeight float64) float64 {
	if width <= 0 || height <= 0 {
		return 0
	}
	return min(canvasWidth/float64(width), canvasHeight/float64(height))
}

// Kind returns KindImage.
func (b *BackgroundImage) Kind() Kind { return KindImage }

// Selectable returns false; the background is not an annotation.
func (b *BackgroundImage) Selectable() bool { return false }

// Size returns the displayed size.
func (b *BackgroundImage) Size() Size {
	return Size{
		Width:  float64(b.NaturalWidth) * b.DisplayScale,
		Height: float64(b.NaturalHeight) * b.DisplayScale,
	}
}
