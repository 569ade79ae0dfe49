package display

import "errors"

// ErrModeNotFound is returned when no scaled mode survives filtering. This is
// a configuration error the user resolves by adjusting the target width; it
// is never worth retrying.
var ErrModeNotFound = errors.New("no matching display mode found")

// SelectMode picks the best presentation mode for a target width.
//
// Only scaled (HiDPI) modes are considered. An exact width match wins;
// otherwise the mode with the smallest width delta is chosen, ties broken by
// higher refresh rate, then by catalog order.
func SelectMode(modes []Mode, targetWidth int) (Mode, error) {
	var best Mode
	found := false

	for _, m := range modes {
		if !m.Scaled {
			continue
		}
		if m.Width == targetWidth {
			return m, nil
		}
		if !found || better(m, best, targetWidth) {
			best = m
			found = true
		}
	}

	if !found {
		return Mode{}, ErrModeNotFound
	}
	return best, nil
}

func better(candidate, incumbent Mode, targetWidth int) bool {
	cd := absDelta(candidate.Width, targetWidth)
	id := absDelta(incumbent.Width, targetWidth)
	if cd != id {
		return cd < id
	}
	// Equal distance: prefer the smoother mode. Catalog order wins otherwise
	// because the incumbent was seen first.
	return candidate.RefreshHz > incumbent.RefreshHz
}

func absDelta(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
