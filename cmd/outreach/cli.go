package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/outreach"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Config   *outreach.Config
	Store    outreach.CheckpointStore
	Contacts outreach.ContactService
	Launcher outreach.BrowserLauncher
	Pauser   outreach.Pauser
	// Logger is nil unless --debug is set.
	Logger *slog.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"c" env:"OUTREACH_CONFIG" type:"path" help:"Path to a TOML config file"`
	DataDir string `short:"d" name:"data-dir" env:"OUTREACH_DATA" type:"path" help:"Directory holding checkpoint files and the contact database"`
	Debug   bool   `help:"Log browser and checkpoint operations to stderr"`

	Run     RunCmd     `cmd:"" help:"Collect listings and message their sellers"`
	Status  StatusCmd  `cmd:"" help:"Show checkpoint and contact totals"`
	Reset   ResetCmd   `cmd:"" help:"Delete checkpoint files"`
	History HistoryCmd `cmd:"" help:"List messages sent"`
	Conf    ConfigCmd  `cmd:"" name:"config" help:"Write the effective configuration as TOML"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Profile  string `short:"p" type:"path" help:"Browser profile directory (keeps the login between runs)"`
	Headless bool   `help:"Run the browser without a window"`
	Yes      bool   `short:"y" help:"Accept configured values without prompting"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct{}

// ResetCmd is the "reset" subcommand.
type ResetCmd struct {
	Force bool `help:"Confirm deletion"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Seller string `short:"s" help:"Only show messages to this seller"`
	Limit  int    `short:"n" default:"20" help:"Maximum number of entries"`
}

// ConfigCmd is the "config" subcommand.
type ConfigCmd struct {
	Path  string `arg:"" optional:"" type:"path" help:"Output file (default: stdout)"`
	Force bool   `short:"f" help:"Overwrite an existing file"`
}
