package render

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// Runner launches one isolated render worker process per job. A crash,
// hang or OOM inside the worker cannot take the orchestrator down; the
// blast radius is the subprocess.
type Runner struct {
	// Bin is the worker executable; Args are prepended before the
	// --output flag (tests point this at a shell script).
	Bin  string
	Args []string

	// Timeout is the hard wall-clock budget for one render attempt.
	Timeout time.Duration
}

// ProgressFunc receives each progress update as it arrives, in order.
type ProgressFunc func(stage string, fraction float64)

// ErrTimeout wraps render attempts that exceeded the wall-clock budget.
var ErrTimeout = errors.New("render timed out")

// Run feeds the payload to a fresh worker process on stdin, decodes its
// stdout message stream, and blocks until the worker terminates. On
// success the artifact exists at outputPath. Progress never regresses:
// out-of-order fractions are clamped to the highest seen.
func (r *Runner) Run(ctx context.Context, payload []byte, outputPath string, onProgress ProgressFunc) error {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	args := append(append([]string{}, r.Args...), "--output", outputPath)
	cmd := exec.CommandContext(ctx, r.Bin, args...)
	cmd.Stdin = bytes.NewReader(payload)

	// The worker spawns its own children (the headless browser). Run the
	// whole tree in one process group and kill the group on cancellation:
	// a surviving grandchild would keep the stdout pipe open and block the
	// scanner past the deadline.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = 5 * time.Second

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open worker stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start render worker: %w", err)
	}

	var (
		terminal  Message
		highWater float64
	)

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		msg, err := Decode(line)
		if err != nil {
			// A garbled line is not fatal; the exit status decides.
			continue
		}
		switch m := msg.(type) {
		case Progress:
			if m.Fraction > highWater {
				highWater = m.Fraction
			}
			if onProgress != nil {
				onProgress(m.Stage, highWater)
			}
		case Done, Failed:
			terminal = msg
		}
	}

	waitErr := cmd.Wait()

	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%w after %s", ErrTimeout, r.Timeout)
	}

	switch m := terminal.(type) {
	case Failed:
		return errors.New(m.Message)
	case Done:
		path := m.OutputPath
		if path == "" {
			path = outputPath
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("worker reported done but artifact is missing: %w", err)
		}
		return nil
	}

	// No terminal message: the exit status is the verdict.
	if waitErr != nil {
		if tail := stderrTail(stderr.String()); tail != "" {
			return fmt.Errorf("render worker failed: %v: %s", waitErr, tail)
		}
		return fmt.Errorf("render worker failed: %v", waitErr)
	}
	return errors.New("render worker exited without a result")
}

// stderrTail keeps the last few lines of worker stderr for the error
// message — enough to diagnose, never a full stack trace to callers.
func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 3 {
		lines = lines[len(lines)-3:]
	}
	return strings.Join(lines, " | ")
}
