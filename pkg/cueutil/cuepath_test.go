// SPDX-License-Identifier: MPL-2.0

package cueutil_test

import (
	"errors"
	"testing"

	"github.com/invowk/cmdresolve/pkg/cueutil"
)

func TestCUEPath_Validate(t *testing.T) {
	t.Parallel()

	for _, p := range []cueutil.CUEPath{"command", "variables[0].name", "defaults.threads"} {
		if err := p.Validate(); err != nil {
			t.Errorf("CUEPath(%q).Validate() = %v", p, err)
		}
	}
	for _, p := range []cueutil.CUEPath{"", " \t"} {
		err := p.Validate()
		if !errors.Is(err, cueutil.ErrInvalidCUEPath) {
			t.Errorf("CUEPath(%q).Validate() = %v, want ErrInvalidCUEPath", p, err)
		}
	}
}

func TestCUEPath_Child(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base cueutil.CUEPath
		elem string
		want cueutil.CUEPath
	}{
		{"", "variables", "variables"},
		{"", "0", "0"},
		{"variables", "2", "variables[2]"},
		{"variables[2]", "name", "variables[2].name"},
		{"defaults", "threads", "defaults.threads"},
		{"defaults", "r1", "defaults.r1"},
	}
	for _, tt := range tests {
		if got := tt.base.Child(tt.elem); got != tt.want {
			t.Errorf("CUEPath(%q).Child(%q) = %q, want %q", tt.base, tt.elem, got, tt.want)
		}
	}
}
