// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestVariableName_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    VariableName
		wantErr bool
	}{
		{"reads", false},
		{"reads_1", false},
		{"input.fastq", false},
		{"min-score", false},
		{"A9", false},
		{"", true},
		{"has space", true},
		{"dollar$", true},
		{"brace}", true},
		{"ümlaut", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			t.Parallel()
			err := tt.name.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("VariableName(%q).Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidVariableName) {
				t.Errorf("error should wrap ErrInvalidVariableName, got: %v", err)
			}
		})
	}
}
