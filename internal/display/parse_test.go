package display

import "testing"

const sampleList = `Persistent screen id: 37D8832A-2D66-02CA-B9F7-8F30A301B230
Serial screen id: s4251086178
Contextual screen id: 1
Type: MacBook built in screen
Resolution: 1728x1117
Hertz: 120
Color Depth: 8
Scaling: on
Origin: (0,0) - main display
Rotation: 0
Resolutions for rotation 0:
  mode 0: res:1728x1117 hz:120 color_depth:8 scaling:on <-- current mode
  mode 1: res:1280x800 hz:120 color_depth:8 scaling:on
  mode 2: res:1496x967 hz:120 color_depth:8 scaling:on
  mode 3: res:3456x2234 hz:120 color_depth:8
Persistent screen id: C3B0A1F2-9E77-4B31-8812-01F2D7A9C511
Serial screen id: s536870912
Contextual screen id: 2
Type: 27 inch external screen
Resolution: 2560x1440
Origin: (1728,0)
Resolutions for rotation 0:
  mode 0: res:2560x1440 hz:60 color_depth:8 scaling:on <-- current mode
  mode 1: res:1280x720 hz:60 color_depth:8 scaling:on
  mode 2: res:3840x2160 hz:60 color_depth:8
`

func TestParseList_TwoDisplays(t *testing.T) {
	displays, err := parseList(sampleList)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(displays) != 2 {
		t.Fatalf("expected 2 displays, got %d", len(displays))
	}

	builtin := displays[0]
	if builtin.SerialID != "s4251086178" {
		t.Errorf("expected serial s4251086178, got %q", builtin.SerialID)
	}
	if builtin.Name != "MacBook built in screen" {
		t.Errorf("unexpected name %q", builtin.Name)
	}
	if !builtin.Main {
		t.Errorf("expected builtin display to be main")
	}
	if len(builtin.Modes) != 4 {
		t.Fatalf("expected 4 modes, got %d", len(builtin.Modes))
	}

	external := displays[1]
	if external.Main {
		t.Errorf("external display must not be main")
	}
	if external.ID() != "s536870912" {
		t.Errorf("expected serial id preferred, got %q", external.ID())
	}
}

func TestParseList_MainMarkerOnOriginLine(t *testing.T) {
	// displayplacer has no dedicated main-display field; the marker is the
	// suffix of the main display's Origin line.
	out := `Persistent screen id: C3B0A1F2-9E77-4B31-8812-01F2D7A9C511
Serial screen id: s536870912
Type: 27 inch external screen
Origin: (-2560,0)
Resolutions for rotation 0:
  mode 0: res:2560x1440 hz:60 color_depth:8 scaling:on <-- current mode
Persistent screen id: 37D8832A-2D66-02CA-B9F7-8F30A301B230
Serial screen id: s4251086178
Type: MacBook built in screen
Origin: (0,0) - main display
Resolutions for rotation 0:
  mode 0: res:1728x1117 hz:120 color_depth:8 scaling:on <-- current mode
`
	displays, err := parseList(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(displays) != 2 {
		t.Fatalf("expected 2 displays, got %d", len(displays))
	}
	if displays[0].Main {
		t.Errorf("external display at (-2560,0) must not be main")
	}
	if !displays[1].Main {
		t.Errorf("display marked on its Origin line not detected as main")
	}
}

func TestParseList_CurrentModeMarker(t *testing.T) {
	displays, err := parseList(sampleList)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cur := displays[0].Current
	if cur.ID != "0" || cur.Width != 1728 || cur.Height != 1117 {
		t.Fatalf("expected current mode 0 1728x1117, got %+v", cur)
	}
	if cur.RefreshHz != 120 {
		t.Errorf("expected 120hz, got %d", cur.RefreshHz)
	}
	if !cur.Scaled {
		t.Errorf("expected current mode to be scaled")
	}
}

func TestParseList_ScalingFlag(t *testing.T) {
	displays, err := parseList(sampleList)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	modes := displays[0].Modes
	if !modes[1].Scaled {
		t.Errorf("mode 1 should be scaled")
	}
	if modes[3].Scaled {
		t.Errorf("mode 3 (native 3456x2234) should not be scaled")
	}
	if modes[3].DisplayID != "s4251086178" {
		t.Errorf("mode should carry owning display id, got %q", modes[3].DisplayID)
	}
}

func TestParseList_Empty(t *testing.T) {
	displays, err := parseList("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(displays) != 0 {
		t.Fatalf("expected no displays, got %d", len(displays))
	}
}

func TestParseList_FallsBackToPersistentID(t *testing.T) {
	out := `Persistent screen id: AAAA-BBBB
Type: unknown screen
Origin: (0,0) - main display
  mode 0: res:1920x1080 hz:60 color_depth:8 scaling:on <-- current mode
`
	displays, err := parseList(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(displays) != 1 {
		t.Fatalf("expected 1 display, got %d", len(displays))
	}
	if displays[0].ID() != "AAAA-BBBB" {
		t.Fatalf("expected persistent id fallback, got %q", displays[0].ID())
	}
}
