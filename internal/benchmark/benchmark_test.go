// SPDX-License-Identifier: MPL-2.0

package benchmark

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"mvdan.cc/sh/v3/syntax"

	"github.com/invowk/cmdresolve/internal/bindings"
	"github.com/invowk/cmdresolve/internal/shell"
	"github.com/invowk/cmdresolve/pkg/cmdtemplate"
	"github.com/invowk/cmdresolve/pkg/tooldef"
)

const (
	// sampleTemplate is a representative alignment wrapper with nested and
	// chained conditionals.
	sampleTemplate = `
## alignment wrapper
bwa mem
#if $threads
  -t $threads
#end
#if $read_group_id
  -R "@RG\tID:${read_group_id}\tSM:$sample"
#end
#if $mode == "paired" and not $interleaved
  $reference "$reads1" "$reads2"
#elif $mode == "paired"
  -p $reference "$reads1"
#else
  $reference "$reads1"
#end
#if $min_score > 30
  -T $min_score
#end
| samtools sort -o $output -
`

	sampleTool = `
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
	{name: "reads2"},
	{name: "paired"},
]
`

	sampleBindings = `
reference = "hg38.fa"
reads1 = "r1.fq"
reads2 = "r2.fq"
paired = true
threads = 8

[sample]
name = "NA12878"
lanes = ["L001", "L002"]
`
)

var sampleVars = map[string]string{
	"threads":       "8",
	"read_group_id": "rg1",
	"sample":        "NA12878",
	"mode":          "paired",
	"interleaved":   "False",
	"reference":     "hg38.fa",
	"reads1":        "r1.fq",
	"reads2":        "r2.fq",
	"min_score":     "42",
	"output":        "out.bam",
}

// largeTemplate repeats sampleTemplate's conditionals to stress the assembler.
func largeTemplate(n int) string {
	var sb strings.Builder
	sb.WriteString("cmd\n")
	for range n {
		sb.WriteString("#if $threads\n  -t $threads\n#elif $mode\n  -m $mode\n#else\n  --none\n#end\n")
	}
	return sb.String()
}

// BenchmarkTranslate benchmarks classification, condition parsing and IR assembly.
func BenchmarkTranslate(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		if _, err := cmdtemplate.Translate(sampleTemplate); err != nil {
			b.Fatalf("Translate failed: %v", err)
		}
	}
}

// BenchmarkTranslateLarge benchmarks translation of a template with many blocks.
func BenchmarkTranslateLarge(b *testing.B) {
	tmpl := largeTemplate(500)

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		if _, err := cmdtemplate.Translate(tmpl); err != nil {
			b.Fatalf("Translate failed: %v", err)
		}
	}
}

// BenchmarkRender benchmarks evaluation of an already translated template.
func BenchmarkRender(b *testing.B) {
	script, err := cmdtemplate.Translate(sampleTemplate)
	if err != nil {
		b.Fatalf("Translate failed: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		if _, err := script.Render(sampleVars); err != nil {
			b.Fatalf("Render failed: %v", err)
		}
	}
}

// BenchmarkResolve benchmarks the full translate, bind and render pipeline.
func BenchmarkResolve(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		if _, err := cmdtemplate.Resolve(sampleTemplate, sampleVars); err != nil {
			b.Fatalf("Resolve failed: %v", err)
		}
	}
}

// BenchmarkNormalizeLine benchmarks quote stripping around variable references.
func BenchmarkNormalizeLine(b *testing.B) {
	line := `  $reference "$reads1" '${reads2}' "literal $x text"`

	b.ReportAllocs()
	for b.Loop() {
		_ = cmdtemplate.NormalizeLine(line)
	}
}

// BenchmarkToolParsing benchmarks CUE schema compilation and tool validation.
func BenchmarkToolParsing(b *testing.B) {
	data := []byte(sampleTool)

	b.ReportAllocs()
	for b.Loop() {
		if _, err := tooldef.Parse(data, "bwa_mem.cue"); err != nil {
			b.Fatalf("Parse failed: %v", err)
		}
	}
}

// BenchmarkBindingsParsing benchmarks TOML bindings decoding and flattening.
func BenchmarkBindingsParsing(b *testing.B) {
	data := []byte(sampleBindings)

	b.ReportAllocs()
	for b.Loop() {
		if _, err := bindings.Parse(data, "params.toml"); err != nil {
			b.Fatalf("Parse failed: %v", err)
		}
	}
}

// BenchmarkShellValidate benchmarks parsing a resolved command as bash.
func BenchmarkShellValidate(b *testing.B) {
	command, err := cmdtemplate.Resolve(sampleTemplate, sampleVars)
	if err != nil {
		b.Fatalf("Resolve failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		if err := shell.Validate(command, syntax.LangBash); err != nil {
			b.Fatalf("Validate failed: %v", err)
		}
	}
}

// BenchmarkShellRun benchmarks executing a resolved command in the embedded interpreter.
func BenchmarkShellRun(b *testing.B) {
	command, err := cmdtemplate.Resolve("echo $a\n#if $b\n  $b\n#end\n", map[string]string{"a": "hello", "b": "world"})
	if err != nil {
		b.Fatalf("Resolve failed: %v", err)
	}
	runner := shell.NewRunner()

	b.ResetTimer()
	for b.Loop() {
		code, err := runner.Run(b.Context(), command, shell.IO{
			Stdin:  bytes.NewReader(nil),
			Stdout: io.Discard,
			Stderr: io.Discard,
		})
		if err != nil || !code.IsSuccess() {
			b.Fatalf("Run failed: code=%v err=%v", code, err)
		}
	}
}
