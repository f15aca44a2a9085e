// SPDX-License-Identifier: MPL-2.0

package bindings

import (
	"errors"
	"strings"

	"github.com/invowk/cmdresolve/pkg/types"
)

var (
	errMissingEquals      = errors.New("invalid format (missing '=')")
	errUnterminatedDouble = errors.New("unterminated double quote")
	errUnterminatedSingle = errors.New("unterminated single quote")
)

// parseEnv reads dotenv content:
//   - blank lines and lines starting with # are skipped
//   - an optional "export " prefix is ignored
//   - KEY="value" expands \n, \r, \t, \\, \" and \$
//   - KEY='value' is taken literally
//   - unquoted values lose a trailing " # comment"
func parseEnv(data []byte, filename string) (Bindings, error) {
	out := make(Bindings)

	for i, line := range strings.Split(string(data), "\n") {
		lineNum := i + 1

		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, &ParseError{File: filename, Line: lineNum, Reason: errMissingEquals.Error(), Err: errMissingEquals}
		}

		key = strings.TrimSpace(key)
		if err := types.VariableName(key).Validate(); err != nil {
			return nil, &ParseError{File: filename, Line: lineNum, Reason: err.Error(), Err: err}
		}

		parsed, err := parseEnvValue(value)
		if err != nil {
			return nil, &ParseError{File: filename, Line: lineNum, Reason: err.Error(), Err: err}
		}
		out[key] = parsed
	}

	return out, nil
}

func parseEnvValue(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	switch value[0] {
	case '"':
		if len(value) < 2 || value[len(value)-1] != '"' {
			return "", errUnterminatedDouble
		}
		return unescapeDoubleQuoted(value[1 : len(value)-1]), nil
	case '\'':
		if len(value) < 2 || value[len(value)-1] != '\'' {
			return "", errUnterminatedSingle
		}
		return value[1 : len(value)-1], nil
	}

	if idx := strings.Index(value, " #"); idx != -1 {
		value = strings.TrimSpace(value[:idx])
	}
	return value, nil
}

func unescapeDoubleQuoted(value string) string {
	var b strings.Builder
	b.Grow(len(value))

	for i := 0; i < len(value); i++ {
		if value[i] != '\\' || i+1 == len(value) {
			b.WriteByte(value[i])
			continue
		}
		i++
		switch next := value[i]; next {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\\', '"', '$':
			b.WriteByte(next)
		default:
			// unknown escapes are kept verbatim
			b.WriteByte('\\')
			b.WriteByte(next)
		}
	}
	return b.String()
}
