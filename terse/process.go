package terse

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	osexec "os/exec"
	"strings"
	"time"
)

// ProcessRunner runs shell commands for the EXEC builtins.
type ProcessRunner interface {
	// ExecuteChecked returns stdout, or an error carrying stderr when the
	// command exits nonzero.
	ExecuteChecked(ctx context.Context, command string) (string, error)
	// ExecuteRaw never fails; launch problems are reported through Stderr
	// and a nonzero ExitCode.
	ExecuteRaw(ctx context.Context, command string) ProcessResult
	// ExecuteCombined returns stdout followed by stderr, or an error when the
	// command exits nonzero.
	ExecuteCombined(ctx context.Context, command string) (string, error)
}

type ProcessResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// OSRunner runs commands through a shell on the host.
type OSRunner struct {
	// Shell defaults to "sh" and ShellFlag to "-c".
	Shell     string
	ShellFlag string
	// Timeout bounds each command when positive.
	Timeout time.Duration
	Dir     string
}

func (r OSRunner) ExecuteChecked(ctx context.Context, command string) (string, error) {
	res, err := r.run(ctx, command)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		msg := strings.TrimSpace(res.Stderr)
		if msg == "" {
			msg = fmt.Sprintf("EXEC failed with code %d", res.ExitCode)
		}
		return "", errors.New(msg)
	}
	return res.Stdout, nil
}

func (r OSRunner) ExecuteRaw(ctx context.Context, command string) ProcessResult {
	res, err := r.run(ctx, command)
	if err != nil {
		stderr := res.Stderr
		if stderr == "" {
			stderr = err.Error()
		}
		return ProcessResult{Stdout: res.Stdout, Stderr: stderr, ExitCode: 1}
	}
	return res
}

func (r OSRunner) ExecuteCombined(ctx context.Context, command string) (string, error) {
	res, err := r.run(ctx, command)
	if err != nil {
		return "", err
	}
	output := res.Stdout + res.Stderr
	if res.ExitCode != 0 {
		msg := strings.TrimSpace(output)
		if msg == "" {
			msg = fmt.Sprintf("EXEC_COMBINED failed with code %d", res.ExitCode)
		}
		return "", errors.New(msg)
	}
	return output, nil
}

// run executes command and captures both streams. A nonzero exit is not an
// error here; failing to start, or hitting the timeout, is.
func (r OSRunner) run(ctx context.Context, command string) (ProcessResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	shell, flag := r.Shell, r.ShellFlag
	if shell == "" {
		shell = "sh"
	}
	if flag == "" {
		flag = "-c"
	}

	cmd := osexec.CommandContext(ctx, shell, flag, command)
	cmd.Dir = r.Dir
	// Bound the wait for grandchildren that keep the output pipes open.
	cmd.WaitDelay = time.Second
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	res := ProcessResult{Stdout: stdoutBuf.String(), Stderr: stderrBuf.String()}
	if err == nil {
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		return res, fmt.Errorf("command %q interrupted: %w", command, ctxErr)
	}
	var exitErr *osexec.ExitError
	if errors.As(err, &exitErr) && exitErr.ProcessState != nil {
		res.ExitCode = exitErr.ProcessState.ExitCode()
		return res, nil
	}
	res.ExitCode = -1
	return res, fmt.Errorf("exec: %w", err)
}
