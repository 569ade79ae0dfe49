// Package mcp exposes the presentation workflows as MCP tools over stdio, so
// agent clients can drive screen-sharing setup the same way the CLI does.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/presmode/internal/display"
	"github.com/1broseidon/presmode/internal/session"
)

const (
	ServerName    = "presmode"
	ServerVersion = "0.1.0"
)

// Runner is the slice of the session the tools need.
type Runner interface {
	Enter(force bool) (*session.Report, error)
	Exit() (*session.Report, error)
	CurrentStatus() *session.Status
}

// ModeLister provides the display catalog for the list tool.
type ModeLister interface {
	MainDisplay() (display.Display, error)
}

// Server is the MCP server for presentation-mode control.
type Server struct {
	mcpServer *mcpsdk.Server
	runner    Runner
	modes     ModeLister
}

// NewServer creates the server and registers its tools.
func NewServer(runner Runner, modes ModeLister) *Server {
	s := &Server{runner: runner, modes: modes}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "enter_presentation",
		Description: "Switch the main display to the presentation resolution, tile all visible windows to fill it, and hide the menu bar. The original mode and window frames are saved for exit_presentation. Partial window failures are reported as skips, not errors.",
	}, s.handleEnter)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "exit_presentation",
		Description: "Restore the display mode and window frames saved by enter_presentation, show the menu bar, and clear the saved state. Fails when no state is saved.",
	}, s.handleExit)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "presentation_status",
		Description: "Report whether presentation mode is active (the state file exists) and what was saved.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_display_modes",
		Description: "List the main display's available modes (resolution, refresh rate, scaling) in catalog order, marking the current one.",
	}, s.handleListModes)
}

func (s *Server) handleEnter(_ context.Context, _ *mcpsdk.CallToolRequest, args EnterInput) (*mcpsdk.CallToolResult, WorkflowOutput, error) {
	report, err := s.runner.Enter(args.Force)
	if err != nil {
		return nil, WorkflowOutput{}, err
	}
	return nil, workflowOutput("entered presentation mode", report), nil
}

func (s *Server) handleExit(_ context.Context, _ *mcpsdk.CallToolRequest, _ ExitInput) (*mcpsdk.CallToolResult, WorkflowOutput, error) {
	report, err := s.runner.Exit()
	if err != nil {
		return nil, WorkflowOutput{}, err
	}
	return nil, workflowOutput("exited presentation mode", report), nil
}

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st := s.runner.CurrentStatus()
	return nil, StatusOutput{
		Active:         st.Active,
		Corrupt:        st.Corrupt,
		DisplayID:      st.DisplayID,
		OriginalModeID: st.OriginalModeID,
		WindowCount:    st.WindowCount,
		SavedAt:        st.SavedAt,
		StatePath:      st.StatePath,
	}, nil
}

func (s *Server) handleListModes(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListModesInput) (*mcpsdk.CallToolResult, ListModesOutput, error) {
	disp, err := s.modes.MainDisplay()
	if err != nil {
		return nil, ListModesOutput{}, err
	}
	out := ListModesOutput{
		DisplayID: disp.ID(),
		Name:      disp.Name,
		Modes:     make([]ModeInfo, 0, len(disp.Modes)),
	}
	for _, m := range disp.Modes {
		out.Modes = append(out.Modes, ModeInfo{
			ID:        m.ID,
			Width:     m.Width,
			Height:    m.Height,
			RefreshHz: m.RefreshHz,
			Scaled:    m.Scaled,
			Current:   m.ID == disp.Current.ID,
		})
	}
	return nil, out, nil
}

func workflowOutput(verb string, report *session.Report) WorkflowOutput {
	return WorkflowOutput{
		Moved:     report.Moved,
		Skipped:   report.Skipped,
		ElapsedMS: report.Elapsed.Milliseconds(),
		Summary:   fmt.Sprintf("%s: %d window(s) moved, %d skipped", verb, report.Moved, report.Skipped),
	}
}
