package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hpann/aidigest/internal/agent"
	"github.com/hpann/aidigest/internal/config"
	"github.com/hpann/aidigest/internal/generate"
	"github.com/hpann/aidigest/internal/history"
	"github.com/hpann/aidigest/internal/mcp"
	"github.com/hpann/aidigest/internal/schedule"
	"github.com/hpann/aidigest/internal/settings"
	"github.com/hpann/aidigest/internal/storage"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// deps bundles the wired application collaborators.
type deps struct {
	cfg       *config.Config
	history   *history.Store
	settings  *settings.Store
	generator *generate.Generator

	// sched is nil when no schedule endpoint is configured.
	sched *schedule.Client
}

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"generate": true, "latest": true, "history": true, "clear": true,
	"settings": true, "schedule": true, "sample": true, "serve": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
     _    ___   ____  _                 _
    / \  |_ _| |  _ \(_) __ _  ___  ___| |_
   / _ \  | |  | | | | |/ _' |/ _ \/ __| __|
  / ___ \ | |  | |_| | | (_| |  __/\__ \ |_
 /_/   \_\___| |____/|_|\__, |\___||___/\__|
                        |___/

  Daily AI tool digests

  Usage: aidigest <command> [options]
         aidigest --help

  MCP server mode requires piped input.`)
}

// wire builds the application dependencies over the given base directory.
func wire(baseDir string) (*deps, func(), error) {
	store, err := storage.Open(baseDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}

	cfg, err := config.Load(baseDir)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	store.ConfigurePool(cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)

	timeout := time.Duration(cfg.HTTPTimeoutSecs) * time.Second
	h := history.NewStore(store)
	s := settings.NewStore(store)
	invoker := agent.NewHTTPInvoker(cfg.AgentEndpoint, timeout)

	d := &deps{
		cfg:       cfg,
		history:   h,
		settings:  s,
		generator: generate.New(invoker, cfg.AgentID, h, s),
	}
	if cfg.ScheduleEndpoint != "" {
		d.sched = schedule.NewClient(cfg.ScheduleEndpoint, timeout)
	}

	return d, func() { store.Close() }, nil
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before storage init (no storage needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".aidigest")

	d, cleanup, err := wire(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(d)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'aidigest --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	handlers := mcp.NewHandlers(d.generator, d.history, d.settings, d.sched, d.cfg.ScheduleID)
	if err := mcp.Run(handlers, d.cfg, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
