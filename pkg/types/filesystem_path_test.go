// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestFilesystemPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path      FilesystemPath
		wantErr   bool
		wantStdin bool
		wantExt   string
	}{
		{path: "params.toml", wantExt: ".toml"},
		{path: "/data/run/Params.TOML", wantExt: ".toml"},
		{path: "tools/bwa_mem.cue", wantExt: ".cue"},
		{path: ".env", wantExt: ".env"},
		{path: "/srv/sample/.env", wantExt: ".env"},
		{path: "archive.tar.gz", wantExt: ".gz"},
		{path: "Makefile"},
		{path: "."},
		{path: "-", wantStdin: true},
		{path: "", wantErr: true},
		{path: " \t", wantErr: true},
		{path: "bad\x00name.cue", wantErr: true, wantExt: ".cue"},
	}

	for _, tt := range tests {
		t.Run(string(tt.path), func(t *testing.T) {
			t.Parallel()

			err := tt.path.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var pathErr *InvalidFilesystemPathError
				if !errors.Is(err, ErrInvalidFilesystemPath) || !errors.As(err, &pathErr) || pathErr.Reason == "" {
					t.Errorf("Validate() = %#v, want *InvalidFilesystemPathError with a reason", err)
				}
			}
			if got := tt.path.IsStdin(); got != tt.wantStdin {
				t.Errorf("IsStdin() = %v, want %v", got, tt.wantStdin)
			}
			if got := tt.path.FormatExt(); got != tt.wantExt {
				t.Errorf("FormatExt() = %q, want %q", got, tt.wantExt)
			}
		})
	}
}
