package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeWorkerScript writes a stand-in worker executable. Scripts see
// the output path as "$2" ($1 is the --output flag).
func writeWorkerScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-worker.sh")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write worker script: %v", err)
	}
	return path
}

func TestRunner_SuccessDeliversOrderedProgress(t *testing.T) {
	bin := writeWorkerScript(t, `
echo '{"type":"progress","stage":"bundling","progress":0.1}'
echo '{"type":"progress","stage":"rendering","progress":0.5}'
printf '' > "$2"
echo '{"type":"done"}'
`)
	r := &Runner{Bin: bin, Timeout: 10 * time.Second}

	out := filepath.Join(t.TempDir(), "out.webm")
	var stages []string
	var fractions []float64
	err := r.Run(context.Background(), []byte(`{}`), out, func(stage string, f float64) {
		stages = append(stages, stage)
		fractions = append(fractions, f)
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(stages) != 2 || stages[0] != "bundling" || stages[1] != "rendering" {
		t.Errorf("unexpected stage order: %v", stages)
	}
	if len(fractions) != 2 || fractions[0] != 0.1 || fractions[1] != 0.5 {
		t.Errorf("unexpected fractions: %v", fractions)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("artifact missing: %v", err)
	}
}

func TestRunner_ProgressNeverRegresses(t *testing.T) {
	bin := writeWorkerScript(t, `
echo '{"type":"progress","stage":"rendering","progress":0.6}'
echo '{"type":"progress","stage":"rendering","progress":0.4}'
printf '' > "$2"
echo '{"type":"done"}'
`)
	r := &Runner{Bin: bin, Timeout: 10 * time.Second}

	var fractions []float64
	err := r.Run(context.Background(), nil, filepath.Join(t.TempDir(), "out.webm"), func(_ string, f float64) {
		fractions = append(fractions, f)
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for i := 1; i < len(fractions); i++ {
		if fractions[i] < fractions[i-1] {
			t.Errorf("progress regressed: %v", fractions)
		}
	}
}

func TestRunner_ErrorMessageSurfaced(t *testing.T) {
	bin := writeWorkerScript(t, `
echo '{"type":"error","message":"composition bundle invalid"}'
exit 1
`)
	r := &Runner{Bin: bin, Timeout: 10 * time.Second}

	err := r.Run(context.Background(), nil, filepath.Join(t.TempDir(), "out.webm"), nil)
	if err == nil || err.Error() != "composition bundle invalid" {
		t.Errorf("expected worker error message, got %v", err)
	}
}

func TestRunner_NonZeroExitWithoutTerminal(t *testing.T) {
	bin := writeWorkerScript(t, `
echo '{"type":"progress","stage":"rendering","progress":0.3}'
echo "chromium: out of memory" >&2
exit 1
`)
	r := &Runner{Bin: bin, Timeout: 10 * time.Second}

	err := r.Run(context.Background(), nil, filepath.Join(t.TempDir(), "out.webm"), nil)
	if err == nil {
		t.Fatal("expected failure for non-zero exit without terminal message")
	}
	if !strings.Contains(err.Error(), "render worker failed") {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.Contains(err.Error(), "out of memory") {
		t.Errorf("expected stderr tail in error, got %v", err)
	}
}

func TestRunner_Timeout(t *testing.T) {
	bin := writeWorkerScript(t, `sleep 30`)
	r := &Runner{Bin: bin, Timeout: 300 * time.Millisecond}

	start := time.Now()
	err := r.Run(context.Background(), nil, filepath.Join(t.TempDir(), "out.webm"), nil)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("timeout did not terminate the worker promptly")
	}
}

func TestRunner_TimeoutKillsWorkerChildren(t *testing.T) {
	// The background child inherits the worker's stdout. Unless the whole
	// process group is killed on deadline, it keeps the pipe open and the
	// run blocks for the child's full lifetime.
	bin := writeWorkerScript(t, `
sleep 30 &
wait
`)
	r := &Runner{Bin: bin, Timeout: 300 * time.Millisecond}

	start := time.Now()
	err := r.Run(context.Background(), nil, filepath.Join(t.TempDir(), "out.webm"), nil)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("timeout left worker children holding the pipe")
	}
}

func TestRunner_DoneWithoutArtifactIsFailure(t *testing.T) {
	bin := writeWorkerScript(t, `echo '{"type":"done"}'`)
	r := &Runner{Bin: bin, Timeout: 10 * time.Second}

	err := r.Run(context.Background(), nil, filepath.Join(t.TempDir(), "missing.webm"), nil)
	if err == nil || !strings.Contains(err.Error(), "artifact is missing") {
		t.Errorf("expected missing-artifact failure, got %v", err)
	}
}
