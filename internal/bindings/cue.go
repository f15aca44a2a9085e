// SPDX-License-Identifier: MPL-2.0

package bindings

import (
	"github.com/invowk/cmdresolve/pkg/cueutil"
)

// parseCUE accepts any concrete CUE struct. There is no schema: the document
// itself is the set of bindings.
func parseCUE(data []byte, filename string) (Bindings, error) {
	doc, err := cueutil.DecodeDocument[map[string]any](data, cueutil.WithFilename(filename))
	if err != nil {
		return nil, err
	}

	out := make(Bindings, len(*doc))
	if err := flatten(out, "", *doc); err != nil {
		return nil, &ParseError{File: filename, Reason: err.Error(), Err: err}
	}
	return out, nil
}
