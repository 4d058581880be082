// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestFilesystemPathIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path FilesystemPath
		want bool
	}{
		{name: "absolute asset root", path: "/srv/art/ship_modules", want: true},
		{name: "relative asset root", path: "assets/ship_modules", want: true},
		{name: "windows drive path", path: `C:\art\ship_modules`, want: true},
		{name: "path containing spaces", path: "/srv/fleet demo/assets", want: true},
		{name: "current directory", path: ".", want: true},
		{name: "empty", path: "", want: false},
		{name: "spaces only", path: "   ", want: false},
		{name: "tab only", path: "\t", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			valid, errs := tt.path.IsValid()
			if valid != tt.want {
				t.Errorf("IsValid() = %v, want %v", valid, tt.want)
			}
			if tt.want {
				if len(errs) > 0 {
					t.Errorf("IsValid() returned errors for valid value: %v", errs)
				}
				return
			}
			if len(errs) == 0 {
				t.Fatal("IsValid() returned no errors for invalid value")
			}
			if !errors.Is(errs[0], ErrInvalidFilesystemPath) {
				t.Errorf("error does not wrap ErrInvalidFilesystemPath: %v", errs[0])
			}
			var fpErr *InvalidFilesystemPathError
			if !errors.As(errs[0], &fpErr) {
				t.Errorf("error is %T, want *InvalidFilesystemPathError", errs[0])
			}
		})
	}
}

func TestFilesystemPathString(t *testing.T) {
	t.Parallel()

	const raw = "/srv/art/ship_modules"
	if got := FilesystemPath(raw).String(); got != raw {
		t.Errorf("String() = %q, want %q", got, raw)
	}
}
