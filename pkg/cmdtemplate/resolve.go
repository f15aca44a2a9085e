// SPDX-License-Identifier: MPL-2.0

package cmdtemplate

import (
	"errors"
	"slices"
	"strings"
)

// Script is a translated template: the statement IR plus the names it references.
// A Script is immutable and safe for concurrent use.
type Script struct {
	stmts []Statement
	vars  []string
}

// Resolve translates template and evaluates it against vars, returning the resolved
// command line trimmed of surrounding whitespace.
//
// vars must contain at least one entry. Referenced variables missing from vars are bound
// to the default sentinel unless WithStrictVariables is set. Structural and condition
// errors are detected during translation, so no partially substituted string is ever
// returned.
func Resolve(template string, vars map[string]string, opts ...Option) (string, error) {
	if len(vars) == 0 {
		return "", ErrInvalidVariableBindings
	}
	script, err := Translate(template, opts...)
	if err != nil {
		return "", err
	}
	return script.Render(vars, opts...)
}

// Translate compiles template into a Script without evaluating it.
func Translate(template string, opts ...Option) (*Script, error) {
	o := applyOptions(opts)

	var (
		asm   assembler
		vars  VariableSet
		depth int
	)

	for i, raw := range SplitLines(template) {
		lineNo := i + 1
		text := strings.TrimSpace(NormalizeLine(raw))
		if text == "" {
			continue
		}

		class := Classify(text, depth)
		depth = class.NextDepth
		o.logger.Debug("classified template line", "line", lineNo, "kind", class.Kind, "depth", class.Depth)

		l := sourceLine{number: lineNo, text: text, class: class}
		switch class.Kind {
		case KindOtherDirective:
			continue
		case KindMalformedDirective:
			return nil, &StructuralError{
				LineNumber: lineNo,
				Line:       text,
				Reason:     "control keyword must be followed by a space, '(' or end of line",
			}
		case KindText:
			segments, names := ScanLine(text)
			for _, n := range names {
				vars.Add(n)
			}
			l.expr = Expression(segments)
		case KindIf, KindElif:
			cond, err := ParseCondition(class.Condition)
			if err != nil {
				return nil, conditionError(err, l)
			}
			for _, n := range ConditionVariables(cond) {
				vars.Add(n)
			}
			l.cond = cond
		}

		if err := asm.add(l); err != nil {
			return nil, err
		}
	}

	stmts, err := asm.finish()
	if err != nil {
		return nil, err
	}
	if len(stmts) == 0 {
		return nil, ErrEmptyTemplate
	}

	return &Script{stmts: stmts, vars: vars.Names()}, nil
}

// SplitLines splits text on LF, CRLF or CR.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// Statements returns the top-level statements of the IR.
func (s *Script) Statements() []Statement { return slices.Clone(s.stmts) }

// Variables returns every variable name the template references, in first-seen order.
func (s *Script) Variables() []string { return slices.Clone(s.vars) }

// Missing returns the referenced variable names absent from supplied.
func (s *Script) Missing(supplied map[string]string) []string {
	var missing []string
	for _, name := range s.vars {
		if _, ok := supplied[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Bind builds the binding environment: supplied values plus the default sentinel for
// every referenced name that was not supplied. With WithStrictVariables, missing names
// fail with *UnknownVariableError instead. Every name in the result counts as
// supplied when passed to Render.
func (s *Script) Bind(supplied map[string]string, opts ...Option) (Env, error) {
	o := applyOptions(opts)

	missing := s.Missing(supplied)
	if len(missing) > 0 && o.strict {
		return nil, &UnknownVariableError{Names: missing}
	}

	return fillDefaults(supplied, missing, o.defaultValue), nil
}

// Render evaluates the script against env. Referenced names absent from env are
// unbound: they substitute as the default sentinel and are falsy in conditions
// (see WithUnboundFalsy). With WithStrictVariables they fail with
// *UnknownVariableError.
func (s *Script) Render(env Env, opts ...Option) (string, error) {
	o := applyOptions(opts)
	missing := s.Missing(env)
	if len(missing) > 0 {
		if o.strict {
			return "", &UnknownVariableError{Names: missing}
		}
		if !o.unboundFalsy {
			env = fillDefaults(env, missing, o.defaultValue)
		}
	}
	return evalStatements(s.stmts, env, o.defaultValue), nil
}

func fillDefaults(supplied map[string]string, missing []string, value string) Env {
	env := make(Env, len(supplied)+len(missing))
	for k, v := range supplied {
		env[k] = v
	}
	for _, name := range missing {
		env[name] = value
	}
	return env
}

// conditionError attaches the template line to a condition parse error, shifting the
// offset so it points into the directive line.
func conditionError(err error, l sourceLine) error {
	var mce *MalformedConditionError
	if !errors.As(err, &mce) {
		return err
	}
	return &MalformedConditionError{
		LineNumber: l.number,
		Line:       l.text,
		Offset:     l.class.ConditionOffset + mce.Offset,
		Reason:     mce.Reason,
	}
}
