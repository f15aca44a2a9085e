// SPDX-License-Identifier: MPL-2.0

package cmdtemplate

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

const (
	// ValueString is a string value (string literals and variable values).
	ValueString ValueKind = iota
	// ValueNumber is a numeric literal.
	ValueNumber
	// ValueBool is a boolean literal or the result of a boolean operator.
	ValueBool
	// ValueNone is the None literal and the value of an unbound variable. Its Text
	// is the default sentinel.
	ValueNone
)

const (
	// OpEq is `==`.
	OpEq CompareOp = "=="
	// OpNe is `!=`.
	OpNe CompareOp = "!="
	// OpLt is `<`.
	OpLt CompareOp = "<"
	// OpLe is `<=`.
	OpLe CompareOp = "<="
	// OpGt is `>`.
	OpGt CompareOp = ">"
	// OpGe is `>=`.
	OpGe CompareOp = ">="
)

const (
	// TrueToken is the literal written for true in conditions.
	TrueToken = "True"
	// FalseToken is the literal written for false in conditions. A variable whose value
	// is exactly this token is falsy.
	FalseToken = "False"
	// NoneToken is the literal that evaluates to the default sentinel.
	NoneToken = "None"
)

type (
	// ValueKind tags a Value.
	ValueKind int

	// CompareOp is a comparison operator.
	CompareOp string

	// Value is the result of evaluating a condition operand.
	Value struct {
		Kind ValueKind
		// Text is the string form; for number literals it is the literal as written.
		Text string
		Num  float64
		Bool bool
	}

	// Condition is a node of the boolean-expression AST built from an #if/#elif line.
	Condition interface {
		// String renders the node in canonical, fully parenthesized form.
		String() string
		condition()
	}

	// LiteralNode is a string, number or boolean literal.
	LiteralNode struct {
		Value Value
	}

	// VariableNode looks up a variable in the Env.
	VariableNode struct {
		Name string
	}

	// CompareNode compares two operands.
	CompareNode struct {
		Op  CompareOp
		LHS Condition
		RHS Condition
	}

	// AndNode is a logical conjunction.
	AndNode struct {
		LHS Condition
		RHS Condition
	}

	// OrNode is a logical disjunction.
	OrNode struct {
		LHS Condition
		RHS Condition
	}

	// NotNode is a logical negation.
	NotNode struct {
		Expr Condition
	}
)

func (LiteralNode) condition()  {}
func (VariableNode) condition() {}
func (CompareNode) condition()  {}
func (AndNode) condition()      {}
func (OrNode) condition()       {}
func (NotNode) condition()      {}

func (n LiteralNode) String() string {
	switch n.Value.Kind {
	case ValueString:
		return strconv.Quote(n.Value.Text)
	case ValueBool:
		if n.Value.Bool {
			return TrueToken
		}
		return FalseToken
	case ValueNone:
		return NoneToken
	default:
		return n.Value.Text
	}
}

func (n VariableNode) String() string { return "${" + n.Name + "}" }

func (n CompareNode) String() string {
	return "(" + n.LHS.String() + " " + string(n.Op) + " " + n.RHS.String() + ")"
}

func (n AndNode) String() string { return "(" + n.LHS.String() + " and " + n.RHS.String() + ")" }

func (n OrNode) String() string { return "(" + n.LHS.String() + " or " + n.RHS.String() + ")" }

func (n NotNode) String() string { return "(not " + n.Expr.String() + ")" }

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{Kind: ValueString, Text: s} }

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value {
	v := Value{Kind: ValueBool, Bool: b, Text: FalseToken}
	if b {
		v.Text = TrueToken
	}
	return v
}

// NoneValue returns the None value carrying sentinel as its text.
func NoneValue(sentinel string) Value { return Value{Kind: ValueNone, Text: sentinel} }

// Truthy reports whether the value counts as true in a boolean position.
// Strings are falsy only when empty or exactly FalseToken; None is always falsy.
func (v Value) Truthy() bool {
	switch v.Kind {
	case ValueBool:
		return v.Bool
	case ValueNumber:
		return v.Num != 0
	case ValueNone:
		return false
	default:
		return v.Text != "" && v.Text != FalseToken
	}
}

// number returns the numeric interpretation of the value, if any.
func (v Value) number() (float64, bool) {
	switch v.Kind {
	case ValueNumber:
		return v.Num, true
	case ValueString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// ParseCondition parses the condition text of an #if or #elif line.
// Errors are *MalformedConditionError with Offset relative to text.
func ParseCondition(text string) (Condition, error) {
	toks, err := lexCondition(text)
	if err != nil {
		return nil, err
	}
	p := &condParser{src: text, toks: toks}
	if p.peek().kind == tokEOF {
		return nil, p.errorf(p.peek(), "empty condition")
	}
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		if t.kind == tokRParen {
			return nil, p.errorf(t, "unbalanced ')'")
		}
		return nil, p.errorf(t, "unexpected %s", t)
	}
	return cond, nil
}

// EvalCondition evaluates a parsed condition against env. Variables absent from
// env are unbound and evaluate to None, whose text is sentinel. A variable bound
// to the sentinel text is an ordinary string.
func EvalCondition(c Condition, env Env, sentinel string) bool {
	return evalValue(c, env, sentinel).Truthy()
}

// ConditionVariables returns the variable names referenced by c in order of appearance.
func ConditionVariables(c Condition) []string {
	var names []string
	var walk func(Condition)
	walk = func(c Condition) {
		switch n := c.(type) {
		case VariableNode:
			names = append(names, n.Name)
		case CompareNode:
			walk(n.LHS)
			walk(n.RHS)
		case AndNode:
			walk(n.LHS)
			walk(n.RHS)
		case OrNode:
			walk(n.LHS)
			walk(n.RHS)
		case NotNode:
			walk(n.Expr)
		}
	}
	walk(c)
	return names
}

func evalValue(c Condition, env Env, sentinel string) Value {
	switch n := c.(type) {
	case LiteralNode:
		if n.Value.Kind == ValueNone {
			return NoneValue(sentinel)
		}
		return n.Value
	case VariableNode:
		v, ok := env[n.Name]
		if !ok {
			return NoneValue(sentinel)
		}
		return StringValue(v)
	case NotNode:
		return BoolValue(!evalValue(n.Expr, env, sentinel).Truthy())
	case AndNode:
		if !evalValue(n.LHS, env, sentinel).Truthy() {
			return BoolValue(false)
		}
		return BoolValue(evalValue(n.RHS, env, sentinel).Truthy())
	case OrNode:
		if evalValue(n.LHS, env, sentinel).Truthy() {
			return BoolValue(true)
		}
		return BoolValue(evalValue(n.RHS, env, sentinel).Truthy())
	case CompareNode:
		lhs := evalValue(n.LHS, env, sentinel)
		rhs := evalValue(n.RHS, env, sentinel)
		return BoolValue(compare(n.Op, lhs, rhs))
	default:
		panic(fmt.Sprintf("cmdtemplate: unhandled condition node %T", c))
	}
}

// compare applies op. Booleans compare by truthiness, two numeric operands compare
// numerically, anything else compares lexicographically.
func compare(op CompareOp, lhs, rhs Value) bool {
	var c int
	switch {
	case lhs.Kind == ValueBool || rhs.Kind == ValueBool:
		c = cmp.Compare(boolInt(lhs.Truthy()), boolInt(rhs.Truthy()))
	default:
		ln, lok := lhs.number()
		rn, rok := rhs.number()
		if lok && rok {
			c = cmp.Compare(ln, rn)
		} else {
			c = strings.Compare(lhs.Text, rhs.Text)
		}
	}

	switch op {
	case OpEq:
		return c == 0
	case OpNe:
		return c != 0
	case OpLt:
		return c < 0
	case OpLe:
		return c <= 0
	case OpGt:
		return c > 0
	case OpGe:
		return c >= 0
	default:
		return false
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// condParser is a recursive-descent parser over lexed condition tokens.
//
//	or         := and ( "or" and )*
//	and        := comparison ( "and" comparison )*
//	comparison := unary ( cmpop unary )?
//	unary      := "not" unary | primary
//	primary    := "(" or ")" | $var | string | number | True | False | None
type condParser struct {
	src  string
	toks []token
	pos  int
}

func (p *condParser) peek() token { return p.toks[p.pos] }

func (p *condParser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *condParser) errorf(t token, format string, args ...any) error {
	return &MalformedConditionError{Line: p.src, Offset: t.pos, Reason: fmt.Sprintf(format, args...)}
}

func (p *condParser) parseOr() (Condition, error) {
	lhs, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().isKeyword("or") {
		p.next()
		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		lhs = OrNode{LHS: lhs, RHS: rhs}
	}
	return lhs, nil
}

func (p *condParser) parseAnd() (Condition, error) {
	lhs, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.peek().isKeyword("and") {
		p.next()
		rhs, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		lhs = AndNode{LHS: lhs, RHS: rhs}
	}
	return lhs, nil
}

func (p *condParser) parseComparison() (Condition, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokOp {
		return lhs, nil
	}
	op := CompareOp(p.next().text)
	rhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind == tokOp {
		return nil, p.errorf(t, "chained comparison %q is not supported", t.text)
	}
	return CompareNode{Op: op, LHS: lhs, RHS: rhs}, nil
}

func (p *condParser) parseUnary() (Condition, error) {
	if p.peek().isKeyword("not") {
		p.next()
		expr, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NotNode{Expr: expr}, nil
	}
	return p.parsePrimary()
}

func (p *condParser) parsePrimary() (Condition, error) {
	t := p.next()
	switch t.kind {
	case tokLParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.peek(); closing.kind != tokRParen {
			return nil, p.errorf(closing, "missing ')' for '(' at offset %d", t.pos)
		}
		p.next()
		return inner, nil
	case tokVar:
		return VariableNode{Name: t.text}, nil
	case tokString:
		return LiteralNode{Value: StringValue(t.text)}, nil
	case tokNumber:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, p.errorf(t, "malformed number %q", t.text)
		}
		return LiteralNode{Value: Value{Kind: ValueNumber, Text: t.text, Num: f}}, nil
	case tokIdent:
		switch t.text {
		case TrueToken, "true":
			return LiteralNode{Value: BoolValue(true)}, nil
		case FalseToken, "false":
			return LiteralNode{Value: BoolValue(false)}, nil
		case NoneToken:
			return LiteralNode{Value: Value{Kind: ValueNone, Text: NoneToken}}, nil
		}
		return nil, p.errorf(t, "unexpected %s", t)
	case tokEOF:
		return nil, p.errorf(t, "unexpected end of condition")
	default:
		return nil, p.errorf(t, "unexpected %s", t)
	}
}
