package system

import (
	"database/sql"
	"fmt"
	"io/fs"
	"time"

	"github.com/julianstephens/hearth/internal/backup"
	"github.com/julianstephens/hearth/internal/cli"
	"github.com/julianstephens/hearth/internal/migration"
	"github.com/julianstephens/hearth/internal/storage/postgres"
	"github.com/julianstephens/hearth/internal/validation"
	"github.com/julianstephens/hearth/migrations"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(*cli.Context) error
	// warnOnly checks print a warning instead of failing the run.
	warnOnly bool
	needsDB  bool
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	checks := []check{
		{name: "Database reachable", run: checkDBReachable},
		{name: "Schema version", run: checkSchemaVersion, needsDB: true},
		{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
		{name: "Family selected", run: checkFamily, warnOnly: true, needsDB: true},
		{name: "Data validation", run: checkValidation, needsDB: true},
		{name: "Clock/timezone", run: checkClockTimezone},
	}

	hasError := false
	dbReachable := true
	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Println(cli.MutedStyle.Render(fmt.Sprintf("⊘ %s: SKIPPED (database not reachable)", c.name)))
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ %s: OK", c.name)))
		case c.warnOnly:
			fmt.Println(cli.WarnStyle.Render(fmt.Sprintf("⚠ %s: WARNING", c.name)))
			fmt.Printf("   %v\n", err)
		default:
			fmt.Println(cli.ErrorStyle.Render(fmt.Sprintf("❌ %s: FAIL", c.name)))
			fmt.Printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Database reachable" {
				dbReachable = false
			}
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

type dbHandle interface {
	GetDB() *sql.DB
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	h, ok := ctx.Store.(dbHandle)
	if !ok {
		return nil
	}
	db := h.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	var one int
	if err := db.QueryRow("SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func migrationRunner(ctx *cli.Context) (*migration.Runner, error) {
	h, ok := ctx.Store.(dbHandle)
	if !ok || h.GetDB() == nil {
		return nil, nil
	}
	dir, dialect := "sqlite", migration.SQLite
	if _, isPG := ctx.Store.(*postgres.Store); isPG {
		dir, dialect = "postgres", migration.Postgres
	}
	sub, err := fs.Sub(migrations.FS, dir)
	if err != nil {
		return nil, err
	}
	return migration.NewRunner(h.GetDB(), sub, dialect), nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	runner, err := migrationRunner(ctx)
	if err != nil || runner == nil {
		return err
	}
	current, err := runner.GetCurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err := runner.GetLatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}
	switch {
	case current > latest:
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	case current < latest:
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	s := ctx.SQLiteStore()
	if s == nil {
		return nil
	}
	backups, err := backup.NewManager(s.GetConfigPath()).ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'hearth backup create'")
	}
	return nil
}

func checkFamily(ctx *cli.Context) error {
	familyID, err := ctx.FamilyID()
	if err != nil {
		return err
	}
	if _, err := ctx.Store.GetFamily(familyID); err != nil {
		return fmt.Errorf("configured family %s: %w", familyID, err)
	}
	if id := ctx.MemberID(); id != "" {
		m, err := ctx.Store.GetMember(id)
		if err != nil {
			return fmt.Errorf("configured member %s: %w", id, err)
		}
		if m.FamilyID != familyID {
			return fmt.Errorf("configured member %s belongs to another family", m.Name)
		}
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	families, err := ctx.Store.ListFamilies()
	if err != nil {
		return fmt.Errorf("failed to list families: %w", err)
	}

	v := validation.New()
	var conflicts int
	for _, f := range families {
		in, err := loadValidationInput(ctx, f.ID)
		if err != nil {
			return err
		}
		result := v.Validate(in)
		if result.HasConflicts() {
			conflicts += len(result.Conflicts)
			fmt.Printf("   %s: %s", f.Name, result.FormatReport())
		}
	}
	if conflicts > 0 {
		return fmt.Errorf("%d data conflict(s) found", conflicts)
	}
	return nil
}

func loadValidationInput(ctx *cli.Context, familyID string) (validation.Input, error) {
	var in validation.Input
	var err error
	if in.Tasks, err = ctx.Store.ListTasks(familyID); err != nil {
		return in, fmt.Errorf("failed to load tasks: %w", err)
	}
	if in.Assignments, err = ctx.Store.ListAssignments(familyID); err != nil {
		return in, fmt.Errorf("failed to load assignments: %w", err)
	}
	if in.Members, err = ctx.Store.ListMembers(familyID); err != nil {
		return in, fmt.Errorf("failed to load members: %w", err)
	}
	if in.Categories, err = ctx.Store.ListCategories(familyID); err != nil {
		return in, fmt.Errorf("failed to load categories: %w", err)
	}
	return in, nil
}

func checkClockTimezone(_ *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if now.Location() == time.UTC {
		fmt.Println("   Note: timezone is UTC; overdue times are evaluated in local time")
	}
	return nil
}
