// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCodeValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value ExitCode
		want  bool
	}{
		{name: "success", value: 0, want: true},
		{name: "generic failure", value: 1, want: true},
		{name: "top of range", value: 255, want: true},
		{name: "negative", value: -1, want: false},
		{name: "just past range", value: 256, want: false},
		{name: "far past range", value: 4096, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.value.Validate()
			if tt.want {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !errors.Is(err, ErrInvalidExitCode) {
				t.Errorf("error does not wrap ErrInvalidExitCode: %v", err)
			}
			var ecErr *InvalidExitCodeError
			if !errors.As(err, &ecErr) {
				t.Fatalf("error is %T, want *InvalidExitCodeError", err)
			}
			if ecErr.Value != tt.value {
				t.Errorf("error carries value %d, want %d", ecErr.Value, tt.value)
			}
		})
	}
}

func TestExitCodeIsSuccess(t *testing.T) {
	t.Parallel()

	if !ExitCode(0).IsSuccess() {
		t.Error("ExitCode(0).IsSuccess() = false, want true")
	}
	for _, code := range []ExitCode{1, 2, 255} {
		if code.IsSuccess() {
			t.Errorf("ExitCode(%d).IsSuccess() = true, want false", code)
		}
	}
}

func TestExitCodeString(t *testing.T) {
	t.Parallel()

	if got := ExitCode(42).String(); got != "42" {
		t.Errorf("String() = %q, want %q", got, "42")
	}
}
