package display

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrDisplayplacerNotAvailable is returned when the displayplacer binary
// cannot be located.
var ErrDisplayplacerNotAvailable = errors.New("displayplacer is not available (install with: brew install displayplacer)")

// Mode identifies a single display configuration a display can be set to.
type Mode struct {
	DisplayID string // serial screen id of the owning display
	ID        string // displayplacer mode id, opaque
	Width     int
	Height    int
	Scaled    bool
	RefreshHz int
}

// Display describes one physical display with its full mode catalog, in the
// order displayplacer reports it.
type Display struct {
	PersistentID string
	SerialID     string
	Name         string
	Main         bool
	Current      Mode
	Modes        []Mode
}

// Client wraps the displayplacer command-line utility.
type Client struct {
	path string
}

// Fallback locations checked when displayplacer is not on PATH.
var wellKnownPaths = []string{
	"/opt/homebrew/bin/displayplacer",
	"/usr/local/bin/displayplacer",
}

// NewClient resolves the displayplacer binary. An explicit path from config
// wins; otherwise PATH and the Homebrew install locations are checked.
func NewClient(path string) (*Client, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("displayplacer not found at configured path %s: %w", path, err)
		}
		return &Client{path: path}, nil
	}
	if p, err := exec.LookPath("displayplacer"); err == nil {
		return &Client{path: p}, nil
	}
	for _, p := range wellKnownPaths {
		if _, err := os.Stat(p); err == nil {
			return &Client{path: p}, nil
		}
	}
	return nil, ErrDisplayplacerNotAvailable
}

// List queries displayplacer for all displays and their mode catalogs.
func (c *Client) List() ([]Display, error) {
	out, err := exec.Command(c.path, "list").Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("displayplacer list failed: %s: %w",
				strings.TrimSpace(string(exitErr.Stderr)), err)
		}
		return nil, fmt.Errorf("displayplacer list failed: %w", err)
	}
	displays, err := parseList(string(out))
	if err != nil {
		return nil, err
	}
	if len(displays) == 0 {
		return nil, fmt.Errorf("displayplacer reported no displays")
	}
	return displays, nil
}

// MainDisplay returns the display macOS considers the main display, falling
// back to the first reported display when none carries the marker.
func (c *Client) MainDisplay() (Display, error) {
	displays, err := c.List()
	if err != nil {
		return Display{}, err
	}
	for _, d := range displays {
		if d.Main {
			return d, nil
		}
	}
	return displays[0], nil
}

// SetMode applies a mode to a display. Mode switches are asynchronous at the
// OS level; callers must wait a settle delay before querying geometry.
func (c *Client) SetMode(displayID, modeID string) error {
	arg := fmt.Sprintf("id:%s mode:%s", displayID, modeID)
	out, err := exec.Command(c.path, arg).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("displayplacer %q failed: %s: %w", arg, msg, err)
		}
		return fmt.Errorf("displayplacer %q failed: %w", arg, err)
	}
	return nil
}
