// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testSchema = `
#Tool: {
	name:    string & =~"^[A-Za-z0-9_.-]+$"
	command: string
	threads?: int & >=1
}
`

type testTool struct {
	Name    string `json:"name"`
	Command string `json:"command"`
	Threads int    `json:"threads,omitempty"`
}

func TestDecode(t *testing.T) {
	t.Parallel()

	schema := MustCompileSchema([]byte(testSchema), "#Tool")
	data := []byte(`
name:    "bwa_mem"
command: "bwa mem $reads"
threads: 4
`)
	got, err := Decode[testTool](schema, data, WithFilename("bwa_mem.cue"))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	want := testTool{Name: "bwa_mem", Command: "bwa mem $reads", Threads: 4}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
	if schema.Definition() != "#Tool" {
		t.Errorf("Definition() = %q", schema.Definition())
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	schema := MustCompileSchema([]byte(testSchema), "#Tool")

	tests := []struct {
		name    string
		data    string
		opts    []Option
		wantSub string
	}{
		{name: "syntax error", data: `name: "x`, wantSub: "bwa_mem.cue"},
		{name: "pattern violation has path", data: "name: \"in put\"\ncommand: \"x\"", wantSub: "name"},
		{name: "constraint violation", data: "name: \"x\"\ncommand: \"x\"\nthreads: 0", wantSub: "threads"},
		{name: "missing required field", data: `name: "x"`, wantSub: "command"},
		{name: "closed definition", data: "name: \"x\"\ncommand: \"x\"\nextra: 1", wantSub: "extra"},
		{name: "file too large", data: `name: "x", command: "y"`, opts: []Option{WithMaxFileSize(4)}, wantSub: "exceeds maximum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := append([]Option{WithFilename("bwa_mem.cue")}, tt.opts...)
			_, err := Decode[testTool](schema, []byte(tt.data), opts...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should contain %q", err, tt.wantSub)
			}
		})
	}
}

func TestDecode_NonConcreteMap(t *testing.T) {
	t.Parallel()

	schema := MustCompileSchema([]byte(`#Config: { verbose?: bool, dialect?: "bash" | "posix" }`), "#Config")

	got, err := Decode[map[string]any](schema, []byte(`verbose: true`), WithConcrete(false))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"verbose": true}, *got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}

	if _, err := Decode[map[string]any](schema, []byte(`dialect: "fish"`), WithConcrete(false)); err == nil {
		t.Error("expected disjunction violation")
	}
}

func TestDecode_Concurrent(t *testing.T) {
	t.Parallel()

	schema := MustCompileSchema([]byte(testSchema), "#Tool")

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Go(func() {
			if _, err := Decode[testTool](schema, []byte(`name: "x", command: "y"`)); err != nil {
				errs <- err
			}
		})
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("Decode() error: %v", err)
	}
}

func TestCompileSchema_Errors(t *testing.T) {
	t.Parallel()

	if _, err := CompileSchema([]byte(testSchema), "#Missing"); err == nil || !strings.Contains(err.Error(), "#Missing") {
		t.Errorf("CompileSchema(#Missing) = %v, want unknown definition error", err)
	}
	if _, err := CompileSchema([]byte(`#Tool: {`), "#Tool"); err == nil {
		t.Error("CompileSchema(syntax error) should fail")
	}
	if _, err := CompileSchema([]byte(testSchema), " "); !errors.Is(err, ErrInvalidCUEPath) {
		t.Errorf("CompileSchema(blank) = %v, want ErrInvalidCUEPath", err)
	}
}

func TestDecodeDocument(t *testing.T) {
	t.Parallel()

	got, err := DecodeDocument[map[string]any]([]byte("sample: \"NA12878\"\nreads: \"\\(sample)_R1.fq\"\n"), WithFilename("params.cue"))
	if err != nil {
		t.Fatalf("DecodeDocument() error: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"sample": "NA12878", "reads": "NA12878_R1.fq"}, *got); diff != "" {
		t.Errorf("DecodeDocument() mismatch (-want +got):\n%s", diff)
	}

	if _, err := DecodeDocument[map[string]any]([]byte(`reads: string`), WithFilename("params.cue")); err == nil || !strings.Contains(err.Error(), "params.cue") {
		t.Errorf("DecodeDocument(incomplete) = %v, want error naming params.cue", err)
	}
}
