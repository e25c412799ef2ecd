// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package dsn parses and normalizes the PostgreSQL connection strings accepted
// by --dsn and FIDDLE_DSN.
package dsn

import (
	"fmt"
	"strings"

	ferrors "fiddle/cli/internal/errors"
)

// DefaultPort is assumed when a connection string omits the port.
const DefaultPort = "5432"

// Info contains the parts of a PostgreSQL connection string.
type Info struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Params   map[string]string
	Original string
}

// Display renders the connection target without credentials, e.g. "user@host:5432/db".
func (i *Info) Display() string {
	var b strings.Builder
	if i.User != "" {
		b.WriteString(i.User)
		b.WriteString("@")
	}
	b.WriteString(i.Host)
	if i.Port != "" {
		b.WriteString(":")
		b.WriteString(i.Port)
	}
	b.WriteString("/")
	b.WriteString(i.Database)
	return b.String()
}

// ParseError represents an error that occurred during DSN parsing.
type ParseError struct {
	DSN    string
	Reason string
	Hint   string
}

func (e *ParseError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("invalid DSN format: %s\nHint: %s", e.Reason, e.Hint)
	}
	return fmt.Sprintf("invalid DSN format: %s", e.Reason)
}

// NewParseError creates a new ParseError.
func NewParseError(dsn, reason, hint string) *ParseError {
	return &ParseError{
		DSN:    dsn,
		Reason: reason,
		Hint:   hint,
	}
}

// Parse parses a connection string and returns its normalized form, wrapped
// as a validation error when the string cannot be used.
func Parse(raw string) (string, error) {
	r := NewResolver()
	info, err := r.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ferrors.Wrap(ferrors.Validation, err.Error(), err)
	}
	normalized, err := r.Normalize(info)
	if err != nil {
		return "", ferrors.Wrap(ferrors.Validation, err.Error(), err)
	}
	return normalized, nil
}

// Describe returns a credential free label for raw, or "" when it does not parse.
func Describe(raw string) string {
	info, err := NewResolver().Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return info.Display()
}
