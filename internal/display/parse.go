package display

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// displayplacer list output is a sequence of per-display sections:
//
//	Persistent screen id: 37D8832A-2D66-02CA-B9F7-8F30A301B230
//	Serial screen id: s4251086178
//	Type: MacBook built in screen
//	Resolution: 1728x1117
//	...
//	Origin: (0,0) - main display
//	...
//	  mode 42: res:1280x720 hz:60 color_depth:8 scaling:on <-- current mode
var (
	persistentIDRe = regexp.MustCompile(`^Persistent screen id:\s*(\S+)`)
	serialIDRe     = regexp.MustCompile(`^Serial screen id:\s*(s\d+)`)
	typeRe         = regexp.MustCompile(`^Type:\s*(.+)$`)
	modeRe         = regexp.MustCompile(`mode (\d+):\s*res:(\d+)x(\d+)(?:\s+hz:(\d+))?(?:\s+color_depth:\d+)?(\s+scaling:on)?`)
)

func parseList(out string) ([]Display, error) {
	var displays []Display
	var cur *Display

	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)

		if m := persistentIDRe.FindStringSubmatch(trimmed); m != nil {
			if cur != nil {
				displays = append(displays, *cur)
			}
			cur = &Display{PersistentID: m[1]}
			continue
		}
		if cur == nil {
			continue
		}

		if m := serialIDRe.FindStringSubmatch(trimmed); m != nil {
			cur.SerialID = m[1]
			continue
		}
		if m := typeRe.FindStringSubmatch(trimmed); m != nil {
			cur.Name = strings.TrimSpace(m[1])
			continue
		}
		// The main marker is a suffix of the Origin line
		// ("Origin: (0,0) - main display"), so match the substring
		// anywhere rather than a dedicated field.
		if strings.Contains(strings.ToLower(trimmed), "main display") {
			cur.Main = true
			continue
		}

		if m := modeRe.FindStringSubmatch(trimmed); m != nil {
			mode, err := parseMode(cur.id(), m)
			if err != nil {
				return nil, err
			}
			cur.Modes = append(cur.Modes, mode)
			if strings.Contains(trimmed, "current mode") {
				cur.Current = mode
			}
		}
	}

	if cur != nil {
		displays = append(displays, *cur)
	}
	return displays, nil
}

func parseMode(displayID string, m []string) (Mode, error) {
	width, err := strconv.Atoi(m[2])
	if err != nil {
		return Mode{}, fmt.Errorf("bad mode width %q: %w", m[2], err)
	}
	height, err := strconv.Atoi(m[3])
	if err != nil {
		return Mode{}, fmt.Errorf("bad mode height %q: %w", m[3], err)
	}
	hz := 0
	if m[4] != "" {
		if hz, err = strconv.Atoi(m[4]); err != nil {
			return Mode{}, fmt.Errorf("bad mode refresh %q: %w", m[4], err)
		}
	}
	return Mode{
		DisplayID: displayID,
		ID:        m[1],
		Width:     width,
		Height:    height,
		Scaled:    m[5] != "",
		RefreshHz: hz,
	}, nil
}

// id returns the identifier used to address the display in set-mode calls.
// Serial ids survive unplug/replug; the persistent id is the fallback.
func (d *Display) id() string {
	if d.SerialID != "" {
		return d.SerialID
	}
	return d.PersistentID
}

// ID is the exported form of id.
func (d Display) ID() string {
	return d.id()
}
