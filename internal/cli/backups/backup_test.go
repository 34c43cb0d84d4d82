package backups

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/hearth/internal/backup"
	"github.com/julianstephens/hearth/internal/cli"
	"github.com/julianstephens/hearth/internal/models"
	"github.com/julianstephens/hearth/internal/scheduler"
	"github.com/julianstephens/hearth/internal/storage/sqlite"
)

func TestBackupCreateListRestore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "hearth.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	ctx := &cli.Context{Store: store, Scheduler: scheduler.New(store)}

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("BackupCreateCmd.Run() error = %v", err)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("BackupListCmd.Run() error = %v", err)
	}

	backups, err := backup.NewManager(dbPath).ListBackups()
	if err != nil || len(backups) != 1 {
		t.Fatalf("ListBackups() = %d backups, %v; want 1", len(backups), err)
	}

	if _, _, err := ctx.Scheduler.CreateFamily("Stephens", models.Member{Name: "Julian"}); err != nil {
		t.Fatalf("CreateFamily() error = %v", err)
	}

	restore := &BackupRestoreCmd{BackupFile: backups[0].Name(), Yes: true}
	if err := restore.Run(ctx); err != nil {
		t.Fatalf("BackupRestoreCmd.Run() error = %v", err)
	}

	reopened := sqlite.NewStore(dbPath)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() after restore error = %v", err)
	}
	defer reopened.Close()
	families, err := reopened.ListFamilies()
	if err != nil {
		t.Fatalf("ListFamilies() error = %v", err)
	}
	if len(families) != 0 {
		t.Errorf("restored database has %d families, want 0", len(families))
	}
}

func TestBackupRestore_UnknownFile(t *testing.T) {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "hearth.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer store.Close()
	ctx := &cli.Context{Store: store}

	cmd := &BackupRestoreCmd{BackupFile: "hearth-20000101-000000.db", Yes: true}
	if err := cmd.Run(ctx); err == nil {
		t.Error("restoring a missing backup should fail")
	}
}
