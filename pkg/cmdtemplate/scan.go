// SPDX-License-Identifier: MPL-2.0

package cmdtemplate

import "slices"

type (
	// Segment is one piece of a scanned line: either literal text or a variable reference.
	Segment interface {
		// Source returns the exact text the segment was scanned from.
		Source() string
		segment()
	}

	// Literal is verbatim text copied to the output.
	Literal struct {
		Text string
	}

	// VarRef is a `$name`, `$name.sub` or `${name}` reference resolved against the Env.
	VarRef struct {
		// Name is the variable name with the `$` and braces stripped.
		Name string
		// Raw is the reference as written in the template.
		Raw string
	}

	// VariableSet is an insertion-ordered set of variable names referenced by a template.
	VariableSet struct {
		names []string
		seen  map[string]struct{}
	}
)

func (Literal) segment() {}

// Source returns the literal text.
func (l Literal) Source() string { return l.Text }

func (VarRef) segment() {}

// Source returns the reference as written in the template.
func (v VarRef) Source() string { return v.Raw }

// Add inserts name if it is not already present and reports whether it was new.
func (s *VariableSet) Add(name string) bool {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[name]; ok {
		return false
	}
	s.seen[name] = struct{}{}
	s.names = append(s.names, name)
	return true
}

// Contains reports whether name is in the set.
func (s *VariableSet) Contains(name string) bool {
	_, ok := s.seen[name]
	return ok
}

// Len returns the number of distinct names.
func (s *VariableSet) Len() int { return len(s.names) }

// Names returns the names in first-seen order.
func (s *VariableSet) Names() []string { return slices.Clone(s.names) }

// ScanLine splits a normalized line into literal and variable-reference segments.
// It also returns the referenced names in order of appearance (duplicates included);
// callers fold them into a VariableSet.
func ScanLine(line string) ([]Segment, []string) {
	var (
		segments []Segment
		names    []string
		litStart int
	)

	for i := 0; i < len(line); {
		if line[i] != '$' {
			i++
			continue
		}
		end, name, ok := matchVarRef(line, i)
		if !ok {
			i++
			continue
		}
		if i > litStart {
			segments = append(segments, Literal{Text: line[litStart:i]})
		}
		segments = append(segments, VarRef{Name: name, Raw: line[i:end]})
		names = append(names, name)
		i = end
		litStart = end
	}

	if litStart < len(line) {
		segments = append(segments, Literal{Text: line[litStart:]})
	}
	return segments, names
}

// matchVarRef matches a variable reference starting at s[start] == '$'.
// It returns the index just past the reference and the bare name.
// A closing brace is consumed only when the reference opened with one.
func matchVarRef(s string, start int) (end int, name string, ok bool) {
	if start >= len(s) || s[start] != '$' {
		return 0, "", false
	}
	i := start + 1
	braced := i < len(s) && s[i] == '{'
	if braced {
		i++
	}
	nameStart := i
	for i < len(s) && isNameByte(s[i]) {
		i++
	}
	if i == nameStart {
		return 0, "", false
	}
	name = s[nameStart:i]
	if braced && i < len(s) && s[i] == '}' {
		i++
	}
	return i, name, true
}

// isNameByte reports whether c may appear in a variable name.
func isNameByte(c byte) bool {
	return c == '_' || c == '.' || c == '-' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
