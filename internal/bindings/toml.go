// SPDX-License-Identifier: MPL-2.0

package bindings

import (
	"errors"

	"github.com/pelletier/go-toml/v2"
)

func parseTOML(data []byte, filename string) (Bindings, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		perr := &ParseError{File: filename, Reason: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, _ = derr.Position()
		}
		return nil, perr
	}

	out := make(Bindings, len(doc))
	if err := flatten(out, "", doc); err != nil {
		return nil, &ParseError{File: filename, Reason: err.Error(), Err: err}
	}
	return out, nil
}
