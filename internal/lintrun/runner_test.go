//go:build !windows

package lintrun

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/probelab/pingmon/internal/policy"
)

func shPolicy(script string) policy.Policy {
	return policy.Policy{
		Name: "test",
		Tool: []string{"/bin/sh", "-c", script, "sh"},
	}
}

func TestRunner_ExitCodePropagation(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   int
	}{
		{"success", "exit 0", 0},
		{"violations", "exit 1", 1},
		{"custom code", "exit 42", 42},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRunner(WithOutput(&bytes.Buffer{}, &bytes.Buffer{}))
			res, err := r.Run(context.Background(), shPolicy(tc.script))
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if res.ExitCode != tc.want {
				t.Errorf("ExitCode = %d, want %d", res.ExitCode, tc.want)
			}
		})
	}
}

func TestRunner_ForwardsPolicyFlags(t *testing.T) {
	var stdout bytes.Buffer
	r := NewRunner(WithOutput(&stdout, &bytes.Buffer{}))

	p := shPolicy(`echo "$@"`).Deny("cat").Allow("rule")
	res, err := r.Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.ExitCode != 0 {
		t.Fatalf("ExitCode = %d, want 0", res.ExitCode)
	}

	got := strings.TrimSpace(stdout.String())
	want := "-- -D cat -A rule"
	if got != want {
		t.Errorf("tool args = %q, want %q", got, want)
	}
}

func TestRunner_StderrTailInError(t *testing.T) {
	r := NewRunner(WithOutput(&bytes.Buffer{}, &bytes.Buffer{}))

	p := policy.Policy{Name: "missing", Tool: []string{"/nonexistent/linter-binary"}}
	_, err := r.Run(context.Background(), p)
	if err == nil {
		t.Fatal("Run() expected error for missing tool")
	}

	var re *RunError
	if !errors.As(err, &re) {
		t.Fatalf("error type = %T, want *RunError", err)
	}
	if re.Op == "" {
		t.Error("RunError.Op is empty")
	}
}

func TestRunner_InvalidPolicy(t *testing.T) {
	r := NewRunner(WithOutput(&bytes.Buffer{}, &bytes.Buffer{}))

	p := shPolicy("exit 0").Deny("x").Allow("x")
	_, err := r.Run(context.Background(), p)
	if err == nil {
		t.Fatal("Run() expected validation error for contradictory policy")
	}
}

func TestRunner_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	r := NewRunner(WithOutput(&bytes.Buffer{}, &bytes.Buffer{}))
	_, err := r.Run(ctx, shPolicy("sleep 10"))
	if err == nil {
		t.Fatal("Run() expected error after context timeout")
	}
}

func TestRunner_Idempotent(t *testing.T) {
	r := NewRunner(WithOutput(&bytes.Buffer{}, &bytes.Buffer{}))
	p := shPolicy("exit 1").Deny("a")

	first, err := r.Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	second, err := r.Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if first.ExitCode != second.ExitCode {
		t.Errorf("exit codes differ: %d vs %d", first.ExitCode, second.ExitCode)
	}
}
