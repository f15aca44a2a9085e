// SPDX-License-Identifier: MPL-2.0

package cmdtemplate

import (
	"fmt"
	"strings"
)

const (
	tokEOF tokenKind = iota
	tokVar
	tokString
	tokNumber
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type (
	tokenKind int

	token struct {
		kind tokenKind
		text string
		pos  int
	}
)

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of condition"
	case tokVar:
		return fmt.Sprintf("variable $%s", t.text)
	case tokString:
		return fmt.Sprintf("string %q", t.text)
	case tokNumber:
		return fmt.Sprintf("number %s", t.text)
	case tokIdent:
		if isConditionKeyword(t.text) {
			return fmt.Sprintf("keyword %q", t.text)
		}
		return fmt.Sprintf("identifier %q (variables need a '$' prefix)", t.text)
	case tokOp:
		return fmt.Sprintf("operator %q", t.text)
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	default:
		return "unknown token"
	}
}

func (t token) isKeyword(kw string) bool {
	return t.kind == tokIdent && t.text == kw
}

func isConditionKeyword(s string) bool {
	switch s {
	case "and", "or", "not":
		return true
	}
	return false
}

// lexCondition splits condition text into tokens, always terminated by tokEOF.
func lexCondition(src string) ([]token, error) {
	var toks []token
	malformed := func(pos int, format string, args ...any) error {
		return &MalformedConditionError{Line: src, Offset: pos, Reason: fmt.Sprintf(format, args...)}
	}

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		case c == '$':
			end, name, ok := matchVarRef(src, i)
			if !ok {
				return nil, malformed(i, "'$' is not followed by a variable name")
			}
			if src[i+1] == '{' && src[end-1] != '}' {
				return nil, malformed(i, "missing '}' in variable reference")
			}
			toks = append(toks, token{kind: tokVar, text: name, pos: i})
			i = end
		case c == '\'' || c == '"':
			text, end, ok := lexQuoted(src, i)
			if !ok {
				return nil, malformed(i, "unterminated string")
			}
			toks = append(toks, token{kind: tokString, text: text, pos: i})
			i = end
		case isDigit(c) || ((c == '-' || c == '.') && i+1 < len(src) && isDigit(src[i+1])):
			end := i + 1
			for end < len(src) && (isDigit(src[end]) || src[end] == '.') {
				end++
			}
			if end < len(src) && isIdentByte(src[end]) {
				return nil, malformed(i, "malformed number %q", src[i:end+1])
			}
			toks = append(toks, token{kind: tokNumber, text: src[i:end], pos: i})
			i = end
		case isIdentStart(c):
			end := i + 1
			for end < len(src) && isIdentByte(src[end]) {
				end++
			}
			toks = append(toks, token{kind: tokIdent, text: src[i:end], pos: i})
			i = end
		case c == '=' || c == '!' || c == '<' || c == '>':
			op := string(c)
			if i+1 < len(src) && src[i+1] == '=' {
				op += "="
			}
			switch op {
			case "==", "!=", "<", "<=", ">", ">=":
			default:
				return nil, malformed(i, "unknown operator %q", op)
			}
			toks = append(toks, token{kind: tokOp, text: op, pos: i})
			i += len(op)
		default:
			return nil, malformed(i, "unexpected character %q", c)
		}
	}

	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

// lexQuoted reads a quoted string starting at src[start]. A backslash escapes the
// following character.
func lexQuoted(src string, start int) (text string, end int, ok bool) {
	quote := src[start]
	var sb strings.Builder
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			if i+1 < len(src) {
				i++
				sb.WriteByte(src[i])
			}
		case quote:
			return sb.String(), i + 1, true
		default:
			sb.WriteByte(src[i])
		}
	}
	return "", 0, false
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentByte(c byte) bool { return isIdentStart(c) || isDigit(c) }
