package main

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const watchTimeout = 30 * time.Second

type cliRunner struct {
	bin    string
	env    []string
	config string
}

// newCLIRunner uses HEARTH_BIN when set and otherwise builds the binary into
// a temp dir. HOME points at a fresh temp dir so nothing touches the real
// config.
func newCLIRunner(t *testing.T) *cliRunner {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping end-to-end workflow in short mode")
	}

	home := t.TempDir()
	bin := os.Getenv("HEARTH_BIN")
	if bin == "" {
		goBin, err := exec.LookPath("go")
		if err != nil {
			t.Skip("go toolchain not on PATH and HEARTH_BIN not set")
		}
		bin = filepath.Join(t.TempDir(), "hearth")
		build := exec.Command(goBin, "build", "-o", bin, ".")
		if out, err := build.CombinedOutput(); err != nil {
			t.Fatalf("failed to build hearth: %v\n%s", err, out)
		}
	}

	var env []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "HOME=") || strings.HasPrefix(e, "HEARTH_") {
			continue
		}
		env = append(env, e)
	}
	env = append(env, "HOME="+home)

	return &cliRunner{
		bin:    bin,
		env:    env,
		config: filepath.Join(home, ".config", "hearth", "config.toml"),
	}
}

func (r *cliRunner) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, r.bin, append([]string{"--config", r.config}, args...)...)
	cmd.Env = r.env
	return cmd
}

func (r *cliRunner) run(t *testing.T, args ...string) string {
	t.Helper()
	out, err := r.command(context.Background(), args...).CombinedOutput()
	if err != nil {
		t.Fatalf("hearth %v failed: %v\nOutput: %s", args, err, out)
	}
	return string(out)
}

func (r *cliRunner) fail(t *testing.T, args ...string) string {
	t.Helper()
	out, err := r.command(context.Background(), args...).CombinedOutput()
	if err == nil {
		t.Fatalf("hearth %v succeeded, expected failure\nOutput: %s", args, out)
	}
	return string(out)
}

type listedTask struct {
	Task struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		DueDate  string `json:"due_date"`
		SeriesID string `json:"series_id"`
		Status   string `json:"status"`
	} `json:"task"`
	EffectiveStatus string   `json:"effective_status"`
	Assignees       []string `json:"assignees"`
}

func (r *cliRunner) listTasks(t *testing.T) []listedTask {
	t.Helper()
	out, err := r.command(context.Background(), "task", "list", "--filter", "all", "--json").Output()
	if err != nil {
		t.Fatalf("task list failed: %v", err)
	}
	var tasks []listedTask
	if err := json.Unmarshal(out, &tasks); err != nil {
		t.Fatalf("task list returned invalid JSON: %v\n%s", err, out)
	}
	return tasks
}

func TestEndToEndWorkflow(t *testing.T) {
	r := newCLIRunner(t)

	r.run(t, "init")
	out := r.run(t, "family", "create", "Stephens", "--owner", "Julian")
	if !strings.Contains(out, "Invite code:") {
		t.Errorf("family create output missing invite code:\n%s", out)
	}
	r.run(t, "member", "add", "Ana")

	out = r.run(t, "task", "add", "Take out trash",
		"--date", "2025-03-01", "--time", "08:00",
		"--repeat", "weekly", "--weekdays", "sat,sun", "--count", "4",
		"--assign", "Ana", "--category", "Home", "--priority", "high")
	if !strings.Contains(out, "4 created") {
		t.Errorf("task add output = %q, want 4 created", out)
	}

	tasks := r.listTasks(t)
	if len(tasks) != 4 {
		t.Fatalf("got %d tasks, want 4", len(tasks))
	}
	for _, task := range tasks {
		if task.EffectiveStatus != "overdue" {
			t.Errorf("task due %s: effective status %s, want overdue", task.Task.DueDate, task.EffectiveStatus)
		}
		if len(task.Assignees) != 1 {
			t.Errorf("task due %s: %d assignees, want 1", task.Task.DueDate, len(task.Assignees))
		}
	}

	// Resuming the same series must not duplicate anything.
	out = r.run(t, "task", "add", "Take out trash",
		"--date", "2025-03-01", "--time", "08:00",
		"--repeat", "weekly", "--weekdays", "sat,sun", "--count", "4",
		"--series", tasks[0].Task.SeriesID)
	if !strings.Contains(out, "4 already existed") {
		t.Errorf("resumed task add output = %q", out)
	}

	r.run(t, "task", "done", tasks[0].Task.ID)
	r.run(t, "task", "delete", tasks[1].Task.ID)
	tasks = r.listTasks(t)
	if len(tasks) != 3 {
		t.Fatalf("got %d tasks after delete, want 3", len(tasks))
	}

	var report struct {
		Total          int `json:"total"`
		Completed      int `json:"completed"`
		CompletionRate int `json:"completion_rate"`
	}
	raw := r.run(t, "report", "--month", "2025-03", "--json")
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		t.Fatalf("report returned invalid JSON: %v\n%s", err, raw)
	}
	if report.Total != 3 || report.Completed != 1 || report.CompletionRate != 33 {
		t.Errorf("report = %+v, want total 3, completed 1, rate 33", report)
	}

	r.run(t, "shop", "add", "Milk", "--quantity", "2")
	r.run(t, "shop", "toggle", "milk")
	if out := r.run(t, "shop", "list", "--all"); !strings.Contains(out, "[x]") {
		t.Errorf("shop list missing purchased item:\n%s", out)
	}

	// task delete took an automatic backup.
	if out := r.run(t, "backup", "list"); !strings.Contains(out, "hearth-") {
		t.Errorf("backup list shows no backups:\n%s", out)
	}
	r.run(t, "doctor")

	r.fail(t, "task", "add", "Nope", "--repeat", "weekly")
	r.fail(t, "member", "role", "Julian", "visitor")
}

func TestWatchSeesOtherProcessWrites(t *testing.T) {
	r := newCLIRunner(t)
	r.run(t, "init")
	r.run(t, "family", "create", "Stephens", "--owner", "Julian")

	ctx, cancel := context.WithTimeout(context.Background(), watchTimeout)
	defer cancel()

	watch := r.command(ctx, "watch", "--filter", "all")
	stdout, err := watch.StdoutPipe()
	if err != nil {
		t.Fatalf("StdoutPipe() error = %v", err)
	}
	if err := watch.Start(); err != nil {
		t.Fatalf("failed to start watch: %v", err)
	}
	defer func() {
		_ = watch.Process.Signal(os.Interrupt)
		_ = watch.Wait()
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	waitFor := func(substr string) {
		t.Helper()
		for {
			select {
			case line, ok := <-lines:
				if !ok {
					t.Fatalf("watch exited before printing %q", substr)
				}
				if strings.Contains(line, substr) {
					return
				}
			case <-ctx.Done():
				t.Fatalf("timed out waiting for watch to print %q", substr)
			}
		}
	}

	waitFor("initial")
	r.run(t, "task", "add", "Water the plants")
	waitFor("Water the plants")
}
