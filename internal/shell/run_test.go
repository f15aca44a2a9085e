// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/invowk/cmdresolve/pkg/types"
)

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		command    string
		opts       []RunnerOption
		wantCode   types.ExitCode
		wantStdout string
	}{
		{name: "echo", command: "echo hello world", wantCode: 0, wantStdout: "hello world\n"},
		{name: "exit status", command: "exit 3", wantCode: 3},
		{name: "false builtin", command: "false", wantCode: 1},
		{name: "env", command: `echo "$SAMPLE"`, opts: []RunnerOption{WithEnv([]string{"SAMPLE=S1"})}, wantStdout: "S1\n"},
		{name: "workdir", command: "pwd", opts: []RunnerOption{WithDir("/")}, wantStdout: "/\n"},
		{name: "compound", command: "x=2; if [ $x -gt 1 ]; then echo big; fi", wantStdout: "big\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			code, err := NewRunner(tt.opts...).Run(context.Background(), tt.command, IO{Stdout: &stdout, Stderr: &stderr})
			if err != nil {
				t.Fatalf("Run() error: %v (stderr %q)", err, stderr.String())
			}
			if code != tt.wantCode {
				t.Errorf("Run() code = %d, want %d", code, tt.wantCode)
			}
			if tt.wantStdout != "" && stdout.String() != tt.wantStdout {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantStdout)
			}
		})
	}
}

func TestRunner_RunSyntaxError(t *testing.T) {
	t.Parallel()

	code, err := NewRunner().Run(context.Background(), "echo 'open", IO{})
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("Run() error = %v, want ErrSyntax", err)
	}
	if code != types.ExitUsage {
		t.Errorf("Run() code = %d, want %d", code, types.ExitUsage)
	}
}

func TestRunner_CommandNotFound(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	code, err := NewRunner().Run(context.Background(), "cmdresolve-definitely-missing-program", IO{Stderr: &stderr})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !code.IsNotFound() {
		t.Errorf("Run() code = %d, want 127", code)
	}
	if !strings.Contains(stderr.String(), "not found") {
		t.Errorf("stderr = %q, want a not found message", stderr.String())
	}
}

func TestRunner_LogsExternalPrograms(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel})

	code, err := NewRunner(WithLogger(logger)).Run(context.Background(), "cat /dev/null", IO{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
	if err != nil || !code.IsSuccess() {
		t.Fatalf("Run() = %d, %v", code, err)
	}
	if !strings.Contains(logs.String(), "program=cat") {
		t.Errorf("log output = %q, want program=cat", logs.String())
	}
}

func TestRunner_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	code, err := NewRunner().Run(ctx, "sleep 5", IO{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
	if err == nil || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want context.DeadlineExceeded", err)
	}
	if code != types.ExitInterrupted {
		t.Errorf("Run() code = %d, want %d", code, types.ExitInterrupted)
	}
}
