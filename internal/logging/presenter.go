// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"

	ferrors "fiddle/cli/internal/errors"
)

// PresentError formats an error for user display with masking.
// Typed errors show their message rather than the kind-prefixed chain.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	msg := Mask(ferrors.Message(err))
	if context == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", context, msg)
}
