package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/outreach"
	"github.com/fwojciec/outreach/crawl"
	"github.com/fwojciec/outreach/fs"
	"github.com/fwojciec/outreach/rod"
	outslog "github.com/fwojciec/outreach/slog"
	"github.com/fwojciec/outreach/sqlite"
	"github.com/fwojciec/outreach/toml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database holding the contact history.
	DB *sqlite.DB

	// Launcher starts browser sessions. Defaults to a rod launcher built
	// from the configuration; set before calling Run() to replace it.
	Launcher outreach.BrowserLauncher

	// Pauser waits between browser actions. Defaults to random pauses.
	Pauser outreach.Pauser
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("outreach"),
		kong.Description("Message marketplace sellers, resuming where the last run stopped"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'outreach --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	cfg, err := toml.LoadConfig(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", outreach.ErrorMessage(err))
		return err
	}
	if cli.DataDir != "" {
		cfg.Files.DataDir = cli.DataDir
	}
	deps.Config = cfg

	if cli.Debug {
		deps.Logger = slog.New(slog.NewTextHandler(stderr, nil))
	}

	if cmd == "config" {
		return kongCtx.Run(deps)
	}

	if err := os.MkdirAll(cfg.Files.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory %q: %w", cfg.Files.DataDir, err)
	}

	deps.Store = fs.NewCheckpointStore(cfg.Files)
	if deps.Logger != nil {
		deps.Store = outslog.NewLoggingCheckpointStore(deps.Store, deps.Logger)
	}

	dbPath := cfg.Files.Path(cfg.Files.Database)
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Use --data-dir or OUTREACH_DATA to choose a different directory\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()
	deps.Contacts = sqlite.NewContactService(m.DB)

	if cmd == "run" {
		if cli.Run.Profile != "" {
			cfg.Browser.ProfileDir = cli.Run.Profile
		}
		if cli.Run.Headless {
			cfg.Browser.Headless = true
		}

		launcher := m.Launcher
		if launcher == nil {
			launcher = rod.Launcher(cfg.Browser)
		}
		if deps.Logger != nil {
			launcher = outslog.NewLoggingLauncher(launcher, deps.Logger)
		}
		deps.Launcher = launcher

		deps.Pauser = m.Pauser
		if deps.Pauser == nil {
			deps.Pauser = &crawl.RandomPauser{}
		}
	}

	return kongCtx.Run(deps)
}
