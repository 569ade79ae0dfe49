package platform

import "errors"

// Rect describes a rectangular region in top-left-origin screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Window contains metadata and geometry for one on-screen window. IDs are
// stable within an OS session only.
type Window struct {
	ID     uint32
	PID    int
	App    string
	Title  string
	Bounds Rect
}

var (
	// ErrNotTrusted means the process lacks the accessibility permission.
	// The user must grant it in System Settings; there is no programmatic
	// remediation.
	ErrNotTrusted = errors.New("accessibility permission not granted")

	// ErrWindowGone means the target window no longer exists or could not
	// be resolved to a UI-automation handle.
	ErrWindowGone = errors.New("window no longer exists")

	// ErrUnsupported is returned by every operation on non-macOS builds.
	ErrUnsupported = errors.New("window management is only supported on macOS")
)

// Backend abstracts the OS window, screen, and menu-bar operations the
// workflows depend on.
type Backend interface {
	// Trusted reports whether the accessibility permission is granted.
	Trusted() bool

	// VisibleRegion returns the main display's usable area, excluding the
	// menu bar and dock. Queried fresh on every call; the value changes
	// with the display mode.
	VisibleRegion() (Rect, error)

	// ListWindows enumerates visible, user-manipulable windows on the
	// main display, front to back. An empty result is not an error.
	ListWindows() ([]Window, error)

	// MoveResize applies a frame to a live window. Failures are
	// per-window; callers treat them as skips, not aborts.
	MoveResize(win Window, bounds Rect) error

	// SetMenuBarAutoHide toggles menu-bar auto-hide. Idempotent.
	SetMenuBarAutoHide(enabled bool) error
}
