package lintrun

import (
	"fmt"
	"strings"
)

// RunError wraps failures from launching the external analysis tool.
//
// It includes a tail of the tool's stderr to aid diagnostics. Violations
// reported by the tool itself are not errors at this layer; they surface
// only through the propagated exit code.
type RunError struct {
	Op       string
	Err      error
	ExitCode *int
	Stderr   string
}

func (e *RunError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	} else {
		b.WriteString("unknown error")
	}
	if e.ExitCode != nil {
		fmt.Fprintf(&b, " (exit=%d)", *e.ExitCode)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		b.WriteString("; tool stderr (tail): ")
		b.WriteString(s)
	}
	return b.String()
}

func (e *RunError) Unwrap() error { return e.Err }
