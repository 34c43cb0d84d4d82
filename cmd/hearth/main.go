package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/hearth/internal/cli"
	"github.com/julianstephens/hearth/internal/cli/backups"
	"github.com/julianstephens/hearth/internal/cli/family"
	"github.com/julianstephens/hearth/internal/cli/reports"
	"github.com/julianstephens/hearth/internal/cli/shopping"
	"github.com/julianstephens/hearth/internal/cli/system"
	"github.com/julianstephens/hearth/internal/cli/tasks"
	"github.com/julianstephens/hearth/internal/config"
	"github.com/julianstephens/hearth/internal/constants"
	"github.com/julianstephens/hearth/internal/errors"
	"github.com/julianstephens/hearth/internal/keyring"
	"github.com/julianstephens/hearth/internal/logger"
	"github.com/julianstephens/hearth/internal/realtime"
	"github.com/julianstephens/hearth/internal/scheduler"
	"github.com/julianstephens/hearth/internal/storage"
	"github.com/julianstephens/hearth/internal/storage/postgres"
	"github.com/julianstephens/hearth/internal/storage/sqlite"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Config file path." type:"string" default:"${config_path}"`
	DB       string `name:"db" help:"SQLite database path or PostgreSQL connection string. Overrides the config file. PostgreSQL credentials must NOT be embedded; use the OS keyring or ${env_conn} instead."`
	Debug    bool   `help:"Log debug output to stderr."`
	FamilyID string `name:"family" help:"Family ID to act on for this run, overriding the config file."`

	Init    system.InitCmd   `cmd:"" help:"Initialize hearth storage."`
	Doctor  system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Watch   system.WatchCmd  `cmd:"" help:"Show tasks and refresh them live as the family edits."`
	Backup  struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Delete the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check keyring availability." default:"1"`
	} `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Family struct {
		Create family.FamilyCreateCmd `cmd:"" help:"Create a household and become its owner."`
		Join   family.FamilyJoinCmd   `cmd:"" help:"Join a household with an invite code."`
		Show   family.FamilyShowCmd   `cmd:"" help:"Show the selected household." default:"1"`
	} `cmd:"" help:"Manage your household."`
	Member struct {
		Add    family.MemberAddCmd    `cmd:"" help:"Add a member."`
		List   family.MemberListCmd   `cmd:"" help:"List members." default:"1"`
		Remove family.MemberRemoveCmd `cmd:"" help:"Remove a member."`
		Role   family.MemberRoleCmd   `cmd:"" help:"Change a member's role."`
	} `cmd:"" help:"Manage household members."`
	Category struct {
		Add    family.CategoryAddCmd    `cmd:"" help:"Add a category."`
		List   family.CategoryListCmd   `cmd:"" help:"List categories." default:"1"`
		Remove family.CategoryRemoveCmd `cmd:"" help:"Remove a category."`
	} `cmd:"" help:"Manage task categories."`
	Task struct {
		Add    tasks.TaskAddCmd    `cmd:"" help:"Add a task, expanding any recurrence."`
		List   tasks.TaskListCmd   `cmd:"" help:"List tasks." default:"1"`
		Edit   tasks.TaskEditCmd   `cmd:"" help:"Edit a single task occurrence."`
		Start  tasks.TaskStartCmd  `cmd:"" help:"Mark a task in progress."`
		Done   tasks.TaskDoneCmd   `cmd:"" help:"Mark a task completed."`
		Reopen tasks.TaskReopenCmd `cmd:"" help:"Reopen a completed task."`
		Toggle tasks.TaskToggleCmd `cmd:"" help:"Toggle a task between completed and pending."`
		Delete tasks.TaskDeleteCmd `cmd:"" help:"Delete a single task occurrence."`
	} `cmd:"" help:"Manage tasks."`
	Shop struct {
		Add    shopping.ShopAddCmd    `cmd:"" help:"Add an item."`
		List   shopping.ShopListCmd   `cmd:"" help:"Show the shopping list." default:"1"`
		Toggle shopping.ShopToggleCmd `cmd:"" help:"Mark an item bought or not bought."`
		Remove shopping.ShopRemoveCmd `cmd:"" help:"Remove an item."`
	} `cmd:"" help:"Manage the shared shopping list."`
	Report reports.ReportCmd `cmd:"" help:"Show monthly completion statistics."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Shared household tasks, chores and shopping"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
			"env_conn":    constants.EnvDBConnection,
		},
	)

	configPath := config.ExpandPath(CLI.Config)
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		errors.Fatal(err)
	}

	if CLI.FamilyID != "" {
		cfg.Family = CLI.FamilyID
	}

	command := ctx.Command()
	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug || cfg.Debug,
		ConfigDir: filepath.Dir(configPath),
		Stderr:    strings.HasPrefix(command, "watch"),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	appCtx := &cli.Context{
		Config:     cfg,
		ConfigPath: configPath,
	}

	// keyring commands must work before a PostgreSQL connection is configured.
	if strings.HasPrefix(command, "keyring") {
		errors.Fatal(ctx.Run(appCtx))
		return
	}

	store, err := openStore(cfg)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()
	appCtx.Store = store

	// init creates the schema itself; doctor reports load failures as a check.
	if needsLoad(command) {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
		hub, err := openHub(store, cfg)
		if err != nil {
			errors.Fatal(err)
		}
		defer hub.Close()
		appCtx.Hub = hub
		appCtx.Scheduler = scheduler.New(store, scheduler.WithHub(hub))
	} else {
		appCtx.Scheduler = scheduler.New(store)
	}

	logger.Debug("Running command", "command", command, "db", store.GetConfigPath())
	if err := ctx.Run(appCtx); err != nil {
		errors.Fatal(err)
	}
}

// openStore picks the database from --db, HEARTH_DB_CONNECTION or the
// config file, in that order.
func openStore(cfg config.Config) (storage.Provider, error) {
	if CLI.DB != "" {
		if postgres.IsURL(CLI.DB) || strings.Contains(CLI.DB, "host=") {
			if err := postgres.ValidateConnString(CLI.DB); err != nil {
				return nil, fmt.Errorf("%w\n  Store credentials with 'hearth keyring set' or export %s instead", err, constants.EnvDBConnection)
			}
			return postgres.New(CLI.DB), nil
		}
		return sqlite.NewStore(config.ExpandPath(CLI.DB)), nil
	}

	if connStr := os.Getenv(constants.EnvDBConnection); connStr != "" {
		return postgres.New(connStr), nil
	}

	if cfg.Database.Driver == config.DriverPostgres {
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			return nil, fmt.Errorf("database.driver is postgres but no connection string is available: %w\n  Run 'hearth keyring set' or export %s", err, constants.EnvDBConnection)
		}
		return postgres.New(connStr), nil
	}

	return sqlite.NewStore(config.ExpandPath(cfg.Database.Path)), nil
}

func needsLoad(command string) bool {
	for _, prefix := range []string{"init", "doctor"} {
		if strings.HasPrefix(command, prefix) {
			return false
		}
	}
	return true
}

// openHub returns a LISTEN/NOTIFY hub for PostgreSQL and a polling hub for
// SQLite. The store must already be loaded.
func openHub(store storage.Provider, cfg config.Config) (realtime.Hub, error) {
	switch s := store.(type) {
	case *postgres.Store:
		return realtime.NewPGHub(s.ConnString(), s.GetDB()), nil
	case *sqlite.Store:
		interval, err := cfg.WatchInterval()
		if err != nil {
			return nil, err
		}
		return realtime.NewPollHub(s.GetDB(), interval), nil
	default:
		return realtime.NewLocalHub(), nil
	}
}
