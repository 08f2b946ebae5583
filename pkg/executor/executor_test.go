package executor

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func TestExecute(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	e := New()

	out, err := e.Execute(context.Background(), "sh", "-c", "printf 'a\tb'")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "a\tb" {
		t.Errorf("Execute() = %q", out)
	}

	_, err = e.Execute(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Execute() error = %v, want stderr in message", err)
	}
}

func TestExecuteTimeout(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New().Execute(ctx, "sleep", "5")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Execute() error = %v, want deadline exceeded", err)
	}
}
