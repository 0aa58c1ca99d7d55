package terse

import (
	"context"
	"errors"
	osexec "os/exec"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := osexec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestOSRunnerChecked(t *testing.T) {
	requireShell(t)
	runner := OSRunner{}
	ctx := context.Background()

	out, err := runner.ExecuteChecked(ctx, "printf hi")
	if err != nil || out != "hi" {
		t.Fatalf("expected hi, got %q (%v)", out, err)
	}

	_, err = runner.ExecuteChecked(ctx, "echo oops >&2; exit 3")
	if err == nil || err.Error() != "oops" {
		t.Fatalf("expected stderr as error, got %v", err)
	}

	_, err = runner.ExecuteChecked(ctx, "exit 4")
	if err == nil || err.Error() != "EXEC failed with code 4" {
		t.Fatalf("expected exit code message, got %v", err)
	}
}

func TestOSRunnerRaw(t *testing.T) {
	requireShell(t)
	got := OSRunner{}.ExecuteRaw(context.Background(), "printf out; printf err >&2; exit 2")
	want := ProcessResult{Stdout: "out", Stderr: "err", ExitCode: 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("raw result mismatch (-want +got):\n%s", diff)
	}
}

func TestOSRunnerRawLaunchFailure(t *testing.T) {
	got := OSRunner{Shell: "/nonexistent/terse-shell"}.ExecuteRaw(context.Background(), "true")
	if got.ExitCode != 1 || got.Stderr == "" {
		t.Fatalf("expected launch failure as data, got %+v", got)
	}
}

func TestOSRunnerCombined(t *testing.T) {
	requireShell(t)
	runner := OSRunner{}

	out, err := runner.ExecuteCombined(context.Background(), "printf a; printf b >&2")
	if err != nil || out != "ab" {
		t.Fatalf("expected ab, got %q (%v)", out, err)
	}

	_, err = runner.ExecuteCombined(context.Background(), "exit 5")
	if err == nil || err.Error() != "EXEC_COMBINED failed with code 5" {
		t.Fatalf("expected exit code message, got %v", err)
	}
}

func TestOSRunnerTimeout(t *testing.T) {
	requireShell(t)
	start := time.Now()
	_, err := OSRunner{Timeout: 50 * time.Millisecond}.ExecuteChecked(context.Background(), "sleep 5")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 4*time.Second {
		t.Fatalf("timeout took too long: %v", elapsed)
	}
}

func TestOSRunnerDir(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	out, err := OSRunner{Dir: dir}.ExecuteChecked(context.Background(), "ls -a")
	if err != nil {
		t.Fatalf("ls failed: %v", err)
	}
	if strings.TrimSpace(out) != ".\n.." {
		t.Fatalf("expected empty directory listing, got %q", out)
	}
}

func TestScriptExecThroughShell(t *testing.T) {
	requireShell(t)
	result := runSourceWith(t, `r = EXEC2 "printf x; exit 7"
PRINT (EXEC "printf hi")
PRINT r.exit_code
PRINT r.stdout`, Config{Runner: OSRunner{}})
	if diff := cmp.Diff([]string{"hi", "7", "x"}, result.Output); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}
