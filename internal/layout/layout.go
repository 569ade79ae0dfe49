package layout

// Rect represents a window position and size in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Padding defines the margins, in pixels, kept between the tiled windows and
// the edges of the visible screen region.
type Padding struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// TargetFrame computes the single frame every window is tiled to: the visible
// region inset by the padding on each edge. All windows share this frame; the
// layout is full-bleed with a uniform margin, not a grid.
//
// Width and height are clamped to a minimum of 1 pixel when the padding
// consumes a whole dimension. The returned bool reports whether clamping
// occurred so callers can warn about degenerate padding.
func TargetFrame(visible Rect, pad Padding) (Rect, bool) {
	frame := Rect{
		X:      visible.X + pad.Left,
		Y:      visible.Y + pad.Top,
		Width:  visible.Width - pad.Left - pad.Right,
		Height: visible.Height - pad.Top - pad.Bottom,
	}

	clamped := false
	if frame.Width < 1 {
		frame.Width = 1
		clamped = true
	}
	if frame.Height < 1 {
		frame.Height = 1
		clamped = true
	}

	return frame, clamped
}
