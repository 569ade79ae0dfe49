package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/presmode/internal/config"
	"github.com/1broseidon/presmode/internal/display"
	"github.com/1broseidon/presmode/internal/mcp"
	"github.com/1broseidon/presmode/internal/platform"
	"github.com/1broseidon/presmode/internal/session"
	"github.com/1broseidon/presmode/internal/state"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "enter":
		os.Exit(runEnter(os.Args[2:]))
	case "exit":
		os.Exit(runExit(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "modes":
		os.Exit(runModes(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCPServe(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: presmode <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  enter               Switch to the presentation resolution and tile windows")
	fmt.Fprintln(w, "  exit                Restore the saved resolution and window frames")
	fmt.Fprintln(w, "  status              Show whether presentation mode is active")
	fmt.Fprintln(w, "  modes               List the main display's available modes")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print effective configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'presmode <command> --help' for command-specific options.")
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// buildSession wires up the real collaborators for a workflow run.
func buildSession(verbose bool) (*session.Session, *display.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	displays, err := display.NewClient(cfg.DisplayplacerPath)
	if err != nil {
		return nil, nil, err
	}
	store, err := state.NewStore()
	if err != nil {
		return nil, nil, err
	}
	backend := platform.New(cfg.SkipSet())
	s := session.New(cfg, displays, backend, store, os.Stdout, newLogger(verbose))
	return s, displays, nil
}

// fatal prints a workflow error with remediation hints and returns the
// process exit code.
func fatal(err error) int {
	switch {
	case errors.Is(err, platform.ErrNotTrusted):
		fmt.Fprintln(os.Stderr, "Error: accessibility permission is not granted.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Grant it in System Settings > Privacy & Security > Accessibility,")
		fmt.Fprintln(os.Stderr, "add your terminal (or presmode) to the list, then rerun.")
	case errors.Is(err, display.ErrModeNotFound):
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Adjust presentation_width in the config, or check 'presmode modes'")
		fmt.Fprintln(os.Stderr, "for the widths this display supports.")
	case errors.Is(err, state.ErrCorrupt):
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "The saved state cannot be trusted, so no restore target can be")
		fmt.Fprintln(os.Stderr, "guessed. Inspect the file and delete it once the display is back")
		fmt.Fprintln(os.Stderr, "to normal.")
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return 1
}

func runEnter(args []string) int {
	fs := flag.NewFlagSet("enter", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	force := fs.Bool("force", false, "proceed even if a saved state already exists")
	verbose := fs.Bool("verbose", false, "log per-window skip reasons")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: presmode enter [--force] [--verbose]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Switch the main display to the presentation resolution, tile all")
		fmt.Fprintln(os.Stderr, "visible windows, and hide the menu bar. The previous mode and window")
		fmt.Fprintln(os.Stderr, "frames are saved so 'presmode exit' can restore them.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "enter takes no arguments")
		fs.Usage()
		return 2
	}

	s, _, err := buildSession(*verbose)
	if err != nil {
		return fatal(err)
	}

	_, err = s.Enter(*force)
	if errors.Is(err, session.ErrAlreadyActive) && !*force {
		proceed, confirmErr := confirmReenter()
		if confirmErr != nil {
			return fatal(confirmErr)
		}
		if !proceed {
			fmt.Fprintln(os.Stderr, "Aborted. Run 'presmode exit' to leave presentation mode first.")
			return 1
		}
		_, err = s.Enter(true)
	}
	if err != nil {
		return fatal(err)
	}
	return 0
}

// confirmReenter asks whether to re-enter over an existing state file. The
// prompt only appears on a real terminal; scripted callers must pass --force.
func confirmReenter() (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return false, nil
	}

	proceed := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Already in presentation mode").
			Description("A saved state file exists. Re-entering keeps the previously saved\noriginal mode, so a later exit still restores it.").
			Affirmative("Re-enter").
			Negative("Abort").
			Value(&proceed),
	))
	if err := form.Run(); err != nil {
		return false, err
	}
	return proceed, nil
}

func runExit(args []string) int {
	fs := flag.NewFlagSet("exit", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	verbose := fs.Bool("verbose", false, "log per-window skip reasons")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: presmode exit [--verbose]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Restore the display mode and window frames saved by 'presmode enter',")
		fmt.Fprintln(os.Stderr, "show the menu bar, and clear the saved state.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "exit takes no arguments")
		fs.Usage()
		return 2
	}

	s, _, err := buildSession(*verbose)
	if err != nil {
		return fatal(err)
	}
	if _, err := s.Exit(); err != nil {
		return fatal(err)
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: presmode status")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	s, _, err := buildSession(false)
	if err != nil {
		return fatal(err)
	}

	st := s.CurrentStatus()
	switch {
	case st.Corrupt:
		fmt.Printf("Presentation mode: unknown (state file at %s is corrupt)\n", st.StatePath)
		return 1
	case st.Active:
		fmt.Println("Presentation mode: active")
		fmt.Printf("  Display:       %s\n", st.DisplayID)
		fmt.Printf("  Original mode: %s\n", st.OriginalModeID)
		fmt.Printf("  Windows saved: %d\n", st.WindowCount)
		fmt.Printf("  Since:         %s\n", st.SavedAt.Format("2006-01-02 15:04:05"))
	default:
		fmt.Println("Presentation mode: inactive")
	}
	return 0
}

func runModes(args []string) int {
	fs := flag.NewFlagSet("modes", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: presmode modes")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List the main display's modes as reported by displayplacer.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	_, displays, err := buildSession(false)
	if err != nil {
		return fatal(err)
	}
	disp, err := displays.MainDisplay()
	if err != nil {
		return fatal(err)
	}

	fmt.Printf("%s (%s)\n", disp.Name, disp.ID())
	for _, m := range disp.Modes {
		marker := " "
		if m.ID == disp.Current.ID {
			marker = "*"
		}
		scaling := ""
		if m.Scaled {
			scaling = " scaled"
		}
		fmt.Printf("%s mode %-4s %5dx%-5d %3dhz%s\n", marker, m.ID, m.Width, m.Height, m.RefreshHz, scaling)
	}
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 {
		printConfigUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "validate":
		path, err := config.DefaultConfigPath()
		if err != nil {
			return fatal(err)
		}
		if _, err := config.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid: %v\n", err)
			return 1
		}
		fmt.Printf("OK: %s\n", path)
		return 0
	case "print":
		cfg, err := config.Load()
		if err != nil {
			return fatal(err)
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fatal(err)
		}
		os.Stdout.Write(data)
		return 0
	case "help", "-h", "--help":
		printConfigUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n\n", args[0])
		printConfigUsage(os.Stderr)
		return 2
	}
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: presmode config <validate|print>")
}

// runMCPServe starts the MCP server on stdio. 'serve' is the only mcp
// subcommand, so it is dispatched here rather than through another switch.
func runMCPServe(args []string) int {
	if len(args) != 1 || args[0] != "serve" {
		if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
			printMCPUsage(os.Stdout)
			return 0
		}
		printMCPUsage(os.Stderr)
		return 2
	}

	sess, displays, err := buildSession(false)
	if err != nil {
		return fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mcp.NewServer(sess, displays).Run(ctx); err != nil {
		return fatal(fmt.Errorf("mcp server: %w", err))
	}
	return 0
}

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: presmode mcp serve")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Start the MCP server on stdio. Designed to be invoked by MCP clients")
	fmt.Fprintln(w, "such as Claude Code or Claude Desktop:")
	fmt.Fprintln(w, "  claude mcp add presmode -- presmode mcp serve")
}
