// SPDX-License-Identifier: MPL-2.0

package cmdtemplate

import "strings"

// NormalizeLine removes quotes that exist only to make a variable reference look like a
// quoted shell token, e.g. `--in '$input'` becomes `--in $input`. Values are substituted
// by concatenation, so such quotes carry no meaning.
//
// A quote pair is removed when the same quote character sits immediately before and after
// a reference and the opening quote is not closing an earlier literal quote. Symmetric
// layers (`"'$x'"`) are peeled one after another. Quotes used as ordinary literal text are
// kept. NormalizeLine is idempotent.
func NormalizeLine(line string) string {
	if !strings.Contains(line, "$") {
		return line
	}

	var drop []bool
	dropped := func(i int) bool { return drop != nil && drop[i] }

	for i := 0; i < len(line); {
		if line[i] != '$' {
			i++
			continue
		}
		end, _, ok := matchVarRef(line, i)
		if !ok {
			i++
			continue
		}
		closed := line[i+1] == '{' && line[end-1] == '}'

		for l, r := i-1, end; l >= 0 && r < len(line); l, r = l-1, r+1 {
			q := line[l]
			if !isQuote(q) || line[r] != q || dropped(l) {
				break
			}
			if !openingQuote(line, l, dropped) {
				break
			}
			// Dropping the closing quote must not glue trailing name characters onto
			// the reference.
			if !closed && r+1 < len(line) && isNameByte(line[r+1]) {
				break
			}
			if drop == nil {
				drop = make([]bool, len(line))
			}
			drop[l], drop[r] = true, true
		}
		i = end
	}

	if drop == nil {
		return line
	}
	var sb strings.Builder
	sb.Grow(len(line))
	for i := range len(line) {
		if !drop[i] {
			sb.WriteByte(line[i])
		}
	}
	return sb.String()
}

// openingQuote reports whether the quote at line[pos] opens a quoted span, i.e. an even
// number of kept quotes of the same kind precede it.
func openingQuote(line string, pos int, dropped func(int) bool) bool {
	n := 0
	for i := range pos {
		if line[i] == line[pos] && !dropped(i) {
			n++
		}
	}
	return n%2 == 0
}

func isQuote(c byte) bool {
	return c == '\'' || c == '"'
}
