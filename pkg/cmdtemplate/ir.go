// SPDX-License-Identifier: MPL-2.0

package cmdtemplate

import "strings"

type (
	// Env maps variable names to their string values during evaluation.
	Env map[string]string

	// Expression is the ordered segment list of a text line.
	Expression []Segment

	// Statement is a node of the statement IR: AppendStmt or IfStmt.
	Statement interface {
		statement()
	}

	// AppendStmt appends the value of Expr, followed by one space, to the output.
	AppendStmt struct {
		Expr Expression
	}

	// IfStmt evaluates Then when Cond is truthy and Else otherwise.
	// #elif chains are represented as an IfStmt nested as the only statement of Else.
	IfStmt struct {
		Cond Condition
		Then []Statement
		Else []Statement
	}
)

func (AppendStmt) statement() {}
func (IfStmt) statement()     {}

// Eval concatenates the expression's segments, looking variables up in env.
func (e Expression) Eval(env Env) string {
	var sb strings.Builder
	e.writeTo(&sb, func(name string) string { return env[name] })
	return sb.String()
}

func (e Expression) writeTo(sb *strings.Builder, lookup func(string) string) {
	for _, seg := range e {
		switch s := seg.(type) {
		case Literal:
			sb.WriteString(s.Text)
		case VarRef:
			sb.WriteString(lookup(s.Name))
		}
	}
}

// evaluator walks the statement IR with a single accumulator.
type evaluator struct {
	env      Env
	sentinel string
	out      strings.Builder
}

func (ev *evaluator) run(stmts []Statement) {
	for _, st := range stmts {
		switch s := st.(type) {
		case AppendStmt:
			s.Expr.writeTo(&ev.out, ev.lookup)
			ev.out.WriteByte(' ')
		case IfStmt:
			if EvalCondition(s.Cond, ev.env, ev.sentinel) {
				ev.run(s.Then)
			} else {
				ev.run(s.Else)
			}
		}
	}
}

// lookup substitutes the sentinel for unbound names.
func (ev *evaluator) lookup(name string) string {
	if v, ok := ev.env[name]; ok {
		return v
	}
	return ev.sentinel
}

// evalStatements executes stmts against env and returns the trimmed accumulator.
func evalStatements(stmts []Statement, env Env, sentinel string) string {
	ev := &evaluator{env: env, sentinel: sentinel}
	ev.run(stmts)
	return strings.TrimSpace(ev.out.String())
}
