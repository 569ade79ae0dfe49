//go:build !darwin || !cgo

package platform

type unsupportedBackend struct{}

// New returns a backend whose operations all fail with ErrUnsupported. The
// CLI still builds and runs config/status commands on other platforms.
func New(skipApps map[string]struct{}) Backend {
	return unsupportedBackend{}
}

func (unsupportedBackend) Trusted() bool {
	return false
}

func (unsupportedBackend) VisibleRegion() (Rect, error) {
	return Rect{}, ErrUnsupported
}

func (unsupportedBackend) ListWindows() ([]Window, error) {
	return nil, ErrUnsupported
}

func (unsupportedBackend) MoveResize(win Window, bounds Rect) error {
	return ErrUnsupported
}

func (unsupportedBackend) SetMenuBarAutoHide(enabled bool) error {
	return ErrUnsupported
}
