// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"errors"
	"testing"

	ferrors "fiddle/cli/internal/errors"
)

func TestPresentError(t *testing.T) {
	tests := []struct {
		name    string
		context string
		err     error
		want    string
	}{
		{"nil", "ctx", nil, ""},
		{"plain", "connect", errors.New("dial postgres://u:p@h/db"), "connect: dial postgres://*:*@h/db"},
		{"typed", "", ferrors.NewValidation("syntax error at position 4"), "syntax error at position 4"},
		{"unexpected", "execute", ferrors.NewUnexpected(500, "internal error"), "execute: unexpected status 500: internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PresentError(tt.context, tt.err); got != tt.want {
				t.Errorf("PresentError() = %q, want %q", got, tt.want)
			}
		})
	}
}
