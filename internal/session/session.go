// Package session sequences the enter/exit presentation workflows. All OS
// access goes through injected interfaces so the sequencing logic is testable
// without a display server.
package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/1broseidon/presmode/internal/config"
	"github.com/1broseidon/presmode/internal/display"
	"github.com/1broseidon/presmode/internal/layout"
	"github.com/1broseidon/presmode/internal/platform"
	"github.com/1broseidon/presmode/internal/state"
)

// ErrAlreadyActive means a state file exists: entering again would overwrite
// the saved original mode and make a clean exit impossible.
var ErrAlreadyActive = errors.New("already in presentation mode (state file exists)")

// DisplayControl is the slice of the display client the workflows need.
type DisplayControl interface {
	MainDisplay() (display.Display, error)
	SetMode(displayID, modeID string) error
}

// Report summarizes one workflow run.
type Report struct {
	Moved   int
	Skipped int
	Elapsed time.Duration
}

// Status describes the persisted presentation state for the status command.
type Status struct {
	Active         bool
	Corrupt        bool
	DisplayID      string
	OriginalModeID string
	WindowCount    int
	SavedAt        time.Time
	StatePath      string
}

// Session holds the collaborators for the two workflows.
type Session struct {
	cfg      *config.Config
	displays DisplayControl
	backend  platform.Backend
	store    *state.Store
	out      io.Writer
	logger   *slog.Logger

	// sleep is swapped out in tests to avoid real settle delays.
	sleep func(time.Duration)
}

// New wires up a session. out receives user-facing progress; logger receives
// diagnostics and warnings.
func New(cfg *config.Config, displays DisplayControl, backend platform.Backend, store *state.Store, out io.Writer, logger *slog.Logger) *Session {
	return &Session{
		cfg:      cfg,
		displays: displays,
		backend:  backend,
		store:    store,
		out:      out,
		logger:   logger,
		sleep:    time.Sleep,
	}
}

func (s *Session) stepf(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}

// Enter switches the main display to the presentation mode and tiles the
// visible windows. The pre-switch mode and window frames are persisted before
// any mutation so a crash mid-workflow still leaves enough state to exit.
func (s *Session) Enter(force bool) (*Report, error) {
	start := time.Now()
	s.stepf("Entering presentation mode...")

	// Permission first: failing here guarantees no state file is written
	// for a mode that was never left.
	if !s.backend.Trusted() {
		return nil, platform.ErrNotTrusted
	}

	st, err := s.prepareState(force)
	if err != nil {
		return nil, err
	}

	disp, err := s.displays.MainDisplay()
	if err != nil {
		return nil, err
	}

	// Select before persisting anything: a selection failure must leave no
	// state file behind, since no mode was ever left.
	width := s.cfg.WidthForDisplay(disp.ID())
	mode, err := display.SelectMode(disp.Modes, width)
	if err != nil {
		return nil, fmt.Errorf("%w: no scaled mode near %dpx on display %s", display.ErrModeNotFound, width, disp.ID())
	}

	if st == nil {
		// Fresh entry: snapshot the current mode and window frames.
		windows, err := s.backend.ListWindows()
		if err != nil {
			return nil, err
		}
		st = &state.State{
			DisplayID:      disp.ID(),
			OriginalModeID: disp.Current.ID,
			Windows:        recordWindows(windows),
			SavedAt:        time.Now(),
		}
		s.stepf("1. Saving current mode %s and %d window(s)...", disp.Current.ID, len(st.Windows))
		if err := s.store.Write(st); err != nil {
			return nil, err
		}
	} else {
		s.stepf("1. Keeping previously saved mode %s (%d window(s))...", st.OriginalModeID, len(st.Windows))
	}

	s.stepf("2. Switching %s to %dx%d (mode %s)...", disp.ID(), mode.Width, mode.Height, mode.ID)
	if err := s.displays.SetMode(disp.ID(), mode.ID); err != nil {
		return nil, err
	}

	s.stepf("3. Waiting %s for the resolution change to settle...", s.cfg.SettleDelay())
	s.sleep(s.cfg.SettleDelay())

	report := &Report{}
	s.stepf("4. Tiling windows...")
	if err := s.tile(st.Windows, report); err != nil {
		return nil, err
	}
	s.stepf("   %d moved, %d skipped", report.Moved, report.Skipped)

	s.stepf("5. Hiding menu bar...")
	if err := s.backend.SetMenuBarAutoHide(true); err != nil {
		s.logger.Warn("failed to hide menu bar", "error", err)
	}

	report.Elapsed = time.Since(start)
	s.stepf("Done in %.2fs", report.Elapsed.Seconds())
	return report, nil
}

// prepareState enforces the single-state invariant. It returns a non-nil
// state only when force-entering over an existing valid state file, in which
// case the saved original mode must be preserved rather than re-snapshotted
// (the display is currently in presentation mode, not the mode to restore).
func (s *Session) prepareState(force bool) (*state.State, error) {
	if !s.store.Exists() {
		return nil, nil
	}
	if !force {
		return nil, fmt.Errorf("%w at %s; run 'presmode exit' first or pass --force", ErrAlreadyActive, s.store.Path())
	}
	st, err := s.store.Read()
	if err != nil {
		// Force over a corrupt file: a fresh snapshot is the best we can do.
		s.logger.Warn("overwriting unreadable state file", "path", s.store.Path(), "error", err)
		return nil, nil
	}
	return st, nil
}

// tile applies the shared target frame to every snapshotted window.
func (s *Session) tile(records []state.WindowRecord, report *Report) error {
	region, err := s.backend.VisibleRegion()
	if err != nil {
		return err
	}
	frame, clamped := layout.TargetFrame(layout.Rect(region), s.cfg.Padding)
	if clamped {
		s.logger.Warn("padding exceeds visible region; frame clamped to minimum size",
			"region", fmt.Sprintf("%dx%d", region.Width, region.Height))
	}
	s.stepf("   Visible region %dx%d at (%d,%d)", region.Width, region.Height, region.X, region.Y)

	live, err := s.backend.ListWindows()
	if err != nil {
		return err
	}
	byID := indexByID(live)

	for _, rec := range records {
		win, ok := byID[rec.WindowID]
		if !ok {
			report.Skipped++
			s.logger.Debug("window gone, skipping", "app", rec.App, "window_id", rec.WindowID)
			continue
		}
		if err := s.backend.MoveResize(win, platform.Rect(frame)); err != nil {
			report.Skipped++
			s.logger.Warn("failed to move window", "app", win.App, "window_id", win.ID, "error", err)
			continue
		}
		report.Moved++
	}
	return nil
}

// Exit restores the saved display mode and window frames, then clears the
// state file.
func (s *Session) Exit() (*Report, error) {
	start := time.Now()
	s.stepf("Exiting presentation mode...")

	st, err := s.store.Read()
	if err != nil {
		if errors.Is(err, state.ErrAbsent) {
			return nil, fmt.Errorf("%w; nothing to exit", err)
		}
		if errors.Is(err, state.ErrCorrupt) {
			return nil, fmt.Errorf("%w; inspect or delete %s manually", err, s.store.Path())
		}
		return nil, err
	}

	s.stepf("1. Restoring display %s to mode %s...", st.DisplayID, st.OriginalModeID)
	if err := s.displays.SetMode(st.DisplayID, st.OriginalModeID); err != nil {
		return nil, err
	}

	s.stepf("2. Waiting %s for the resolution change to settle...", s.cfg.SettleDelay())
	s.sleep(s.cfg.SettleDelay())

	// Saved frames are replayed exactly; windows that vanished while in
	// presentation mode are skips, not errors.
	report := &Report{}
	s.stepf("3. Restoring %d window frame(s)...", len(st.Windows))
	live, err := s.backend.ListWindows()
	if err != nil {
		return nil, err
	}
	byID := indexByID(live)
	for _, rec := range st.Windows {
		win, ok := byID[rec.WindowID]
		if !ok {
			report.Skipped++
			s.logger.Debug("window gone, skipping restore", "app", rec.App, "window_id", rec.WindowID)
			continue
		}
		bounds := platform.Rect{X: rec.X, Y: rec.Y, Width: rec.Width, Height: rec.Height}
		if err := s.backend.MoveResize(win, bounds); err != nil {
			report.Skipped++
			s.logger.Warn("failed to restore window", "app", win.App, "window_id", win.ID, "error", err)
			continue
		}
		report.Moved++
	}
	s.stepf("   %d restored, %d skipped", report.Moved, report.Skipped)

	s.stepf("4. Showing menu bar...")
	if err := s.backend.SetMenuBarAutoHide(false); err != nil {
		s.logger.Warn("failed to show menu bar", "error", err)
	}

	s.stepf("5. Clearing saved state...")
	if err := s.store.Clear(); err != nil {
		return nil, err
	}

	report.Elapsed = time.Since(start)
	s.stepf("Done in %.2fs", report.Elapsed.Seconds())
	return report, nil
}

// CurrentStatus reports the persisted state without mutating anything.
func (s *Session) CurrentStatus() *Status {
	status := &Status{StatePath: s.store.Path()}
	st, err := s.store.Read()
	switch {
	case errors.Is(err, state.ErrAbsent):
		return status
	case errors.Is(err, state.ErrCorrupt):
		status.Active = true
		status.Corrupt = true
		return status
	case err != nil:
		status.Corrupt = true
		return status
	}
	status.Active = true
	status.DisplayID = st.DisplayID
	status.OriginalModeID = st.OriginalModeID
	status.WindowCount = len(st.Windows)
	status.SavedAt = st.SavedAt
	return status
}

func recordWindows(windows []platform.Window) []state.WindowRecord {
	records := make([]state.WindowRecord, 0, len(windows))
	for _, w := range windows {
		records = append(records, state.WindowRecord{
			App:      w.App,
			WindowID: w.ID,
			Title:    w.Title,
			X:        w.Bounds.X,
			Y:        w.Bounds.Y,
			Width:    w.Bounds.Width,
			Height:   w.Bounds.Height,
		})
	}
	return records
}

func indexByID(windows []platform.Window) map[uint32]platform.Window {
	byID := make(map[uint32]platform.Window, len(windows))
	for _, w := range windows {
		byID[w.ID] = w
	}
	return byID
}
