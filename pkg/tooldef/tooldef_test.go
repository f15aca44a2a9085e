// SPDX-License-Identifier: MPL-2.0

package tooldef

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/invowk/cmdresolve/internal/testutil"
	"github.com/invowk/cmdresolve/pkg/cmdtemplate"
)

const bwaTool = `
name:        "bwa_mem"
description: "Align reads with bwa mem"
command: """
	bwa mem
	#if $threads
	  -t $threads
	#end
	$reference
	#if $paired
	  $reads1 $reads2
	#else
	  $reads1
	#end
	"""
defaults: threads: "4"
variables: [
	{name: "reference", required: true, description: "Indexed reference FASTA"},
	{name: "reads1", required: true},
	{name: "paired"},
]
`

func TestParse(t *testing.T) {
	t.Parallel()

	tool, err := Parse([]byte(bwaTool), "bwa_mem.cue")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	want := &Tool{
		Name:        "bwa_mem",
		Description: "Align reads with bwa mem",
		Command:     "bwa mem\n#if $threads\n  -t $threads\n#end\n$reference\n#if $paired\n  $reads1 $reads2\n#else\n  $reads1\n#end",
		Defaults:    map[string]string{"threads": "4"},
		Variables: []Variable{
			{Name: "reference", Required: true, Description: "Indexed reference FASTA"},
			{Name: "reads1", Required: true},
			{Name: "paired"},
		},
		File: "bwa_mem.cue",
	}
	if diff := cmp.Diff(want, tool); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}

	if v, ok := tool.Describe("reference"); !ok || v.Description != "Indexed reference FASTA" {
		t.Errorf("Describe(reference) = %+v, %v", v, ok)
	}
	if _, ok := tool.Describe("reads2"); ok {
		t.Error("Describe(reads2) should report undeclared")
	}
}

func TestTool_ResolveEndToEnd(t *testing.T) {
	t.Parallel()

	tool, err := Parse([]byte(bwaTool), "bwa_mem.cue")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	bound, err := tool.Bindings(map[string]string{"reference": "hg38.fa", "reads1": "r1.fq"})
	if err != nil {
		t.Fatalf("Bindings() error: %v", err)
	}
	got, err := cmdtemplate.Resolve(tool.Command, bound)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if want := "bwa mem -t 4 hg38.fa r1.fq"; got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}

	bound, err = tool.Bindings(map[string]string{"reference": "hg38.fa", "reads1": "r1.fq", "reads2": "r2.fq", "paired": "True", "threads": ""})
	if err != nil {
		t.Fatalf("Bindings() error: %v", err)
	}
	got, err = cmdtemplate.Resolve(tool.Command, bound)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if want := "bwa mem hg38.fa r1.fq r2.fq"; got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

func TestTool_BindingsMissingRequired(t *testing.T) {
	t.Parallel()

	tool, err := Parse([]byte(bwaTool), "bwa_mem.cue")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	_, err = tool.Bindings(map[string]string{"paired": "False"})
	if !errors.Is(err, ErrMissingRequired) {
		t.Fatalf("Bindings() error = %v, want ErrMissingRequired", err)
	}
	var mre *MissingRequiredError
	if !errors.As(err, &mre) {
		t.Fatalf("error is %T", err)
	}
	if diff := cmp.Diff([]string{"reference", "reads1"}, mre.Names); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_SchemaErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantSub string
	}{
		{name: "missing command", data: `name: "x"`, wantSub: "command"},
		{name: "empty command", data: `name: "x", command: ""`, wantSub: "command"},
		{name: "bad name", data: `name: "x y", command: "echo"`, wantSub: "name"},
		{name: "non-string default", data: "name: \"x\"\ncommand: \"echo $a\"\ndefaults: a: 1", wantSub: "defaults.a"},
		{name: "bad default key", data: "name: \"x\"\ncommand: \"echo\"\ndefaults: \"a b\": \"1\"", wantSub: "defaults"},
		{name: "unknown field", data: "name: \"x\"\ncommand: \"echo\"\nruntime: \"docker\"", wantSub: "runtime"},
		{name: "syntax", data: `name: "x`, wantSub: "tool.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.data), "tool.cue")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should contain %q", err, tt.wantSub)
			}
		})
	}
}

func TestParse_TemplateError(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("name: \"x\"\ncommand: \"\"\"\n\techo\n\t#if $a\n\t\"\"\""), "tool.cue")
	if !errors.Is(err, cmdtemplate.ErrStructural) {
		t.Fatalf("Parse() error = %v, want ErrStructural", err)
	}
	if !strings.HasPrefix(err.Error(), "tool.cue: command:") {
		t.Errorf("error should be located in the command field: %v", err)
	}
}

func TestValidate_SemanticProblems(t *testing.T) {
	t.Parallel()

	data := `
name:    "x"
command: "echo $a $b"
defaults: {a: "1", unused: "2"}
variables: [
	{name: "a", required: true},
	{name: "b"},
	{name: "b"},
	{name: "ghost"},
]
`
	_, err := Parse([]byte(data), "tool.cue")
	if !errors.Is(err, ErrInvalidTool) {
		t.Fatalf("Parse() error = %v, want ErrInvalidTool", err)
	}
	var ite *InvalidToolError
	if !errors.As(err, &ite) {
		t.Fatalf("error is %T", err)
	}

	var paths []string
	for _, p := range ite.Problems {
		paths = append(paths, p.CUEPath.String())
	}
	want := []string{"variables[0].required", "variables[2].name", "variables[3].name", "defaults.unused"}
	if diff := cmp.Diff(want, paths, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("problem paths mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := testutil.WriteFile(t, t.TempDir(), "bwa_mem.cue", bwaTool)

	tool, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if tool.File != path || tool.Name != "bwa_mem" {
		t.Errorf("Load() = %+v", tool)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.cue")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) = %v, want os.ErrNotExist", err)
	}
}
