// SPDX-License-Identifier: MPL-2.0

package cmdtemplate

import "testing"

func TestNormalizeLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want string
	}{
		{name: "no variables", line: "echo 'hello world'", want: "echo 'hello world'"},
		{name: "single quoted reference", line: "--in '$input'", want: "--in $input"},
		{name: "double quoted braced reference", line: `--in "${input}"`, want: "--in ${input}"},
		{name: "two references in one quoted span", line: "'$a $b'", want: "'$a $b'"},
		{name: "nested quote layers", line: `"'$x'"`, want: "$x"},
		{name: "adjacent quoted references", line: "'$a''$b'", want: "$a$b"},
		{name: "mismatched quotes kept", line: `"'$x"'`, want: `"'$x"'`},
		{name: "quote closing earlier literal", line: "'abc'$x'", want: "'abc'$x'"},
		{name: "would glue trailing name characters", line: `'"$x"y'`, want: `'"$x"y'`},
		{name: "dotted reference", line: "-o '$out.path'", want: "-o $out.path"},
		{name: "unquoted reference", line: "cat $file", want: "cat $file"},
		{name: "dollar without name", line: "cost '$' 5", want: "cost '$' 5"},
		{name: "empty", line: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := NormalizeLine(tt.line)
			if got != tt.want {
				t.Errorf("NormalizeLine(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestNormalizeLine_Idempotent(t *testing.T) {
	t.Parallel()

	lines := []string{
		"--in '$input'",
		`"'$x'"`,
		"'$a''$b'",
		"'$a'$b'",
		`'"$x"'`,
		`'"$x"y'`,
		"'abc'$x'",
		`$'$x'`,
		`'${a'b`,
		"plain text with 'quotes'",
		`x="$y" z='${w}'`,
	}

	for _, line := range lines {
		once := NormalizeLine(line)
		twice := NormalizeLine(once)
		if once != twice {
			t.Errorf("NormalizeLine not idempotent for %q: once=%q twice=%q", line, once, twice)
		}
	}
}
