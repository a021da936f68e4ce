package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/weekwise/internal/cli"
	"github.com/julianstephens/weekwise/internal/logger"
	"github.com/julianstephens/weekwise/internal/session"
	"github.com/julianstephens/weekwise/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Store file path." type:"path" default:"~/.config/weekwise/weekwise.db"`
	Debug   bool   `help:"Enable debug logging."`

	Init    cli.InitCmd    `cmd:"" help:"Initialize weekwise storage."`
	Tui     cli.TuiCmd     `cmd:"" help:"Browse the compiled week interactively." default:"1"`
	Draft   cli.DraftCmd   `cmd:"" help:"Submit a draft of weekly commitments."`
	Answer  cli.AnswerCmd  `cmd:"" help:"Answer the open questions about the draft."`
	Prefs   cli.PrefsCmd   `cmd:"" help:"Collect or show scheduling preferences."`
	Compile cli.CompileCmd `cmd:"" help:"Compile the draft into a week calendar."`
	Week    cli.WeekCmd    `cmd:"" help:"Show the compiled week calendar."`
	Quiz    cli.QuizCmd    `cmd:"" help:"Record a quiz score and adjust prep time."`
	Revise  cli.ReviseCmd  `cmd:"" help:"Revise the compiled calendar."`
	Reset   cli.ResetCmd   `cmd:"" help:"Discard the current session."`
	Serve   cli.ServeCmd   `cmd:"" help:"Run the HTTP API server."`

	Validate cli.ValidateCmd `cmd:"" help:"Validate a draft file or the stored session."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run store and configuration health checks."`
	Backup   struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a store backup."`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore the store from a backup."`
	} `cmd:"" help:"Manage store backups."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("weekwise"),
		kong.Description("Weekly schedule compiler for students"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: filepath.Dir(CLI.Config)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	var store storage.Provider
	if strings.HasSuffix(CLI.Config, ".json") {
		store = storage.NewJSONStore(CLI.Config)
	} else {
		store = storage.NewSQLiteStore(CLI.Config)
	}

	appCtx := &cli.Context{
		Store:    store,
		Sessions: session.NewManager(nil),
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
