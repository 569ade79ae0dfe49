package mcp

import "time"

// EnterInput is the input for the enter_presentation tool.
type EnterInput struct {
	Force bool `json:"force,omitempty" jsonschema:"When true, proceed even if a saved state already exists. The previously saved original mode is kept so a later exit still restores it."`
}

// ExitInput is the input for the exit_presentation tool.
type ExitInput struct{}

// WorkflowOutput reports the outcome of an enter or exit run.
type WorkflowOutput struct {
	Moved     int    `json:"moved"`
	Skipped   int    `json:"skipped"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Summary   string `json:"summary"`
}

// StatusInput is the input for the presentation_status tool.
type StatusInput struct{}

// StatusOutput describes the persisted presentation state.
type StatusOutput struct {
	Active         bool      `json:"active"`
	Corrupt        bool      `json:"corrupt,omitempty"`
	DisplayID      string    `json:"display_id,omitempty"`
	OriginalModeID string    `json:"original_mode,omitempty"`
	WindowCount    int       `json:"window_count,omitempty"`
	SavedAt        time.Time `json:"saved_at,omitzero"`
	StatePath      string    `json:"state_path"`
}

// ListModesInput is the input for the list_display_modes tool.
type ListModesInput struct{}

// ModeInfo describes one display mode.
type ModeInfo struct {
	ID        string `json:"id"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	RefreshHz int    `json:"refresh_hz"`
	Scaled    bool   `json:"scaled"`
	Current   bool   `json:"current,omitempty"`
}

// ListModesOutput is the output for the list_display_modes tool.
type ListModesOutput struct {
	DisplayID string     `json:"display_id"`
	Name      string     `json:"name,omitempty"`
	Modes     []ModeInfo `json:"modes"`
}
