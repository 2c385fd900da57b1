package scene

// Color is a fill colour as a CSS colour name ("red", "purple") or a hex
// string ("#ff8800"). Surfaces resolve it to pixels.
type Color string

// String returns the colour as written.
func (c Color) String() string { return string(c) }
