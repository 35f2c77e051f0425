package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/julianstephens/deedlog/internal/cli"
	"github.com/julianstephens/deedlog/internal/cli/backups"
	"github.com/julianstephens/deedlog/internal/cli/deeds"
	"github.com/julianstephens/deedlog/internal/cli/system"
	"github.com/julianstephens/deedlog/internal/constants"
	"github.com/julianstephens/deedlog/internal/errors"
	"github.com/julianstephens/deedlog/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Journal location: SQLite path, .json file, or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string. Use .pgpass, PGPASSWORD, or 'deedlog keyring set' instead." env:"DEEDLOG_CONFIG" default:"${default_config}"`
	Debug   bool   `help:"Enable debug logging to stderr." env:"DEEDLOG_DEBUG"`

	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Init     system.InitCmd     `cmd:"" help:"Initialize deedlog storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Add      deeds.AddCmd       `cmd:"" help:"Record today's good deed."`
	Status   deeds.StatusCmd    `cmd:"" help:"Show the current streak."`
	Recent   deeds.RecentCmd    `cmd:"" help:"List the most recent deeds."`
	Show     deeds.ShowCmd      `cmd:"" help:"Show the deed recorded on a day."`
	Calendar deeds.CalendarCmd  `cmd:"" help:"Show a month with completed days marked."`
	Stats    deeds.StatsCmd     `cmd:"" help:"Show journal statistics."`
	Emojis   deeds.EmojisCmd    `cmd:"" help:"List the emojis a deed can be tagged with."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Check the journal for integrity conflicts."`
	Tools    system.DebugCmd    `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

// Commands that open the store themselves, or never touch it.
var selfLoading = []string{"init", "doctor", "emojis", "keyring", "debug log-path"}

func needsLoad(command string) bool {
	for _, prefix := range selfLoading {
		if command == prefix || strings.HasPrefix(command, prefix+" ") {
			return false
		}
	}
	return true
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("A good deed journal with a daily streak"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
			"recent_limit":   strconv.Itoa(constants.RecentLimit),
		},
	)

	config, fromKeyring := cli.ResolveConfig(CLI.Config)
	configDir, err := cli.ConfigDir(config)
	if err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		logger.InitWriter(os.Stderr, log.WarnLevel)
		logger.Warn("File logging unavailable", "error", err)
	}

	store, err := cli.OpenProvider(config, fromKeyring)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	appCtx := &cli.Context{
		Store:     store,
		ConfigDir: configDir,
	}

	if needsLoad(ctx.Command()) {
		if err := store.Load(); err != nil {
			store.Close()
			errors.Fatal(err)
		}
	}

	logger.Debug("Running command", "command", ctx.Command(), "store", store.GetConfigPath())
	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}
