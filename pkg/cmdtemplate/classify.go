// SPDX-License-Identifier: MPL-2.0

package cmdtemplate

import "strings"

const (
	// KindText is a line that contributes literal/variable content to the output.
	KindText LineKind = iota
	// KindIf opens a conditional block (`#if <cond>`).
	KindIf
	// KindElif continues a conditional block with another condition (`#elif <cond>` or `#else if <cond>`).
	KindElif
	// KindElse switches a conditional block to its fallback body.
	KindElse
	// KindEnd closes a conditional block (`#end`, `#end if`, `#endif`).
	KindEnd
	// KindOtherDirective is any other `#`-prefixed line, including `##` comments.
	// It contributes nothing to the output.
	KindOtherDirective
	// KindMalformedDirective is a line that starts with a control keyword run into
	// other characters, such as `#else:` or `#endfor`. Translation rejects it.
	KindMalformedDirective
)

// DirectiveMarker prefixes every control line.
const DirectiveMarker = "#"

type (
	// LineKind identifies how a template line is treated.
	LineKind int

	// Classification is the result of classifying one trimmed line.
	Classification struct {
		Kind LineKind
		// Depth is the nesting depth used when rendering this line.
		Depth int
		// NextDepth is the nesting depth carried to the following line.
		NextDepth int
		// Condition is the raw condition text for KindIf and KindElif lines.
		Condition string
		// ConditionOffset is the byte offset of Condition within the line.
		ConditionOffset int
	}
)

// String returns a short name for the line kind.
func (k LineKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindIf:
		return "if"
	case KindElif:
		return "elif"
	case KindElse:
		return "else"
	case KindEnd:
		return "end"
	case KindOtherDirective:
		return "directive"
	case KindMalformedDirective:
		return "malformed"
	default:
		return "unknown"
	}
}

// Classify decides whether a trimmed line is a control line or a text line and computes
// the nesting depth for this line and the next one, relative to the carried-in depth.
func Classify(line string, depth int) Classification {
	if !strings.HasPrefix(line, DirectiveMarker) {
		return Classification{Kind: KindText, Depth: depth, NextDepth: depth}
	}

	body := line[len(DirectiveMarker):]
	offset := len(DirectiveMarker)

	switch {
	case hasKeyword(body, "elif"):
		cond, at := conditionAfter(body, "elif")
		return Classification{Kind: KindElif, Depth: depth - 1, NextDepth: depth, Condition: cond, ConditionOffset: offset + at}
	case hasKeyword(body, "else"):
		rest := strings.TrimLeft(body[len("else"):], " \t")
		if hasKeyword(rest, "if") {
			skipped := len(body) - len(rest)
			cond, at := conditionAfter(rest, "if")
			return Classification{Kind: KindElif, Depth: depth - 1, NextDepth: depth, Condition: cond, ConditionOffset: offset + skipped + at}
		}
		return Classification{Kind: KindElse, Depth: depth - 1, NextDepth: depth}
	case hasKeyword(body, "endif"), hasKeyword(body, "end"):
		return Classification{Kind: KindEnd, Depth: depth - 1, NextDepth: depth - 1}
	case hasKeyword(body, "if"):
		cond, at := conditionAfter(body, "if")
		return Classification{Kind: KindIf, Depth: depth, NextDepth: depth + 1, Condition: cond, ConditionOffset: offset + at}
	case startsWithControlKeyword(body):
		return Classification{Kind: KindMalformedDirective, Depth: depth, NextDepth: depth}
	default:
		return Classification{Kind: KindOtherDirective, Depth: depth, NextDepth: depth}
	}
}

func startsWithControlKeyword(body string) bool {
	for _, kw := range []string{"if", "elif", "else", "end"} {
		if strings.HasPrefix(body, kw) {
			return true
		}
	}
	return false
}

// hasKeyword reports whether s starts with kw followed by end of input, whitespace or '('.
func hasKeyword(s, kw string) bool {
	if !strings.HasPrefix(s, kw) {
		return false
	}
	if len(s) == len(kw) {
		return true
	}
	switch s[len(kw)] {
	case ' ', '\t', '(':
		return true
	}
	return false
}

// conditionAfter strips kw from s and returns the trimmed remainder with its offset in s.
func conditionAfter(s, kw string) (string, int) {
	rest := s[len(kw):]
	trimmed := strings.TrimLeft(rest, " \t")
	at := len(kw) + len(rest) - len(trimmed)
	return strings.TrimRight(trimmed, " \t"), at
}
